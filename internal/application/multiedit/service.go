// Package multiedit turns a natural-language request into unified diffs over
// a set of files and applies them.
package multiedit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/doeshing/vibe-go/internal/domain"
	"github.com/doeshing/vibe-go/internal/pkg/unidiff"
	"github.com/doeshing/vibe-go/internal/ports"
)

// ErrNeedsConfirmation marks a guarded path that was not approved.
var ErrNeedsConfirmation = errors.New("requires confirmation")

// ErrBlockedPath marks a path the guard refuses to write.
var ErrBlockedPath = errors.New("path blocked")

// Service runs SCANNING, GENERATING, PARSING, CONFIRMING and APPLYING in order.
type Service struct {
	Scanner      ports.FileScanner
	Completer    ports.Completer
	Workspace    ports.Workspace
	Guard        ports.PathGuard
	Prompter     ports.Prompter
	HistoryStore ports.HistoryRepository
	Logger       ports.Logger

	// Preview receives the change preview. Nil discards it.
	Preview io.Writer
	Styles  unidiff.Styles
	// OnPhase, when set, is told about every phase change.
	OnPhase func(domain.EditPhase)
	Now     func() time.Time
}

type target struct {
	diff       unidiff.FileDiff
	assessment domain.RiskAssessment

	// filled by plan
	original string
	exists   bool
	updated  string
	err      error
}

// EditFiles edits the files matching pattern as described by request.
// Outcomes such as "no files" or a declined confirmation are reported in the
// result; an error means the run itself could not proceed.
func (s *Service) EditFiles(ctx context.Context, pattern, request string, opts domain.EditOptions) (domain.EditResult, error) {
	if s.Scanner == nil || s.Completer == nil || s.Workspace == nil || s.Logger == nil {
		return domain.EditResult{}, errors.New("multiedit.Service dependencies not satisfied")
	}
	if err := opts.Validate(); err != nil {
		return domain.EditResult{}, err
	}
	started := s.now()

	s.phase(domain.PhaseScanning)
	scan, err := s.Scanner.Scan(ctx, pattern, domain.ScanOptions{MaxFiles: opts.MaxFiles, MaxSize: opts.MaxSize})
	if err != nil {
		return domain.EditResult{}, fmt.Errorf("scan files: %w", err)
	}
	for _, warning := range scan.Warnings {
		s.Logger.Warn(warning, nil)
	}
	if len(scan.Files) == 0 {
		return domain.EditResult{Message: domain.MsgNoFilesFound}, nil
	}
	s.Logger.Debug("scanned files", map[string]interface{}{"pattern": pattern, "count": len(scan.Files)})

	s.phase(domain.PhaseGenerating)
	completion, err := s.Completer.ChatCompletion(ctx, domain.CompletionRequest{
		Model:       opts.Model,
		Messages:    buildMessages(scan.Files, request),
		Temperature: domain.Float64(domain.EditTemperature),
		TaskType:    domain.TaskMultiEdit,
		Prompt:      request,
		Kind:        domain.HistoryEdit,
	})
	if err != nil {
		s.record(request, completion, domain.EditResult{}, started, err)
		return domain.EditResult{}, fmt.Errorf("generate diff: %w", err)
	}

	s.phase(domain.PhaseParsing)
	diffs := unidiff.WithHunks(unidiff.Parse(completion.Message.Text()))
	if len(diffs) == 0 {
		result := domain.EditResult{Message: domain.MsgNoChangesProduced, Model: completion.Model}
		s.record(request, completion, result, started, nil)
		return result, nil
	}

	result := domain.EditResult{Model: completion.Model}
	targets, rejected := s.guard(diffs, opts)
	result.Files = append(result.Files, rejected...)

	ready := 0
	for i := range targets {
		if s.plan(&targets[i], opts) {
			ready++
		}
	}

	if len(targets) > 0 && (opts.Interactive || opts.DryRun) {
		if err := s.renderPreview(targets); err != nil {
			return domain.EditResult{}, fmt.Errorf("render preview: %w", err)
		}
	}

	if opts.Interactive && !opts.DryRun && ready > 0 {
		s.phase(domain.PhaseConfirming)
		ok, err := s.confirm(fmt.Sprintf("Apply these changes to %d file(s)?", ready), false)
		if err != nil {
			return domain.EditResult{}, fmt.Errorf("confirm: %w", err)
		}
		if !ok {
			result = domain.EditResult{Message: domain.MsgCancelledByUser, Model: completion.Model}
			s.record(request, completion, result, started, nil)
			return result, nil
		}
	}

	s.phase(domain.PhaseApplying)
	for _, t := range targets {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result.Files = append(result.Files, s.applyFile(t, opts))
	}

	for _, file := range result.Files {
		if file.Success {
			result.SuccessfulCount++
		} else {
			result.FailedCount++
		}
	}
	result.Success = result.SuccessfulCount > 0
	result.Message = fmt.Sprintf("Applied changes to %d of %d file(s)", result.SuccessfulCount, len(result.Files))
	if opts.DryRun {
		result.Success = true
		result.Message = domain.MsgDryRunCompleted
	}

	s.phase(domain.PhaseDone)
	s.record(request, completion, result, started, nil)
	return result, nil
}

// guard splits diffs into writable targets and rejected per-file results.
func (s *Service) guard(diffs []unidiff.FileDiff, opts domain.EditOptions) ([]target, []domain.FileResult) {
	var (
		targets  []target
		rejected []domain.FileResult
	)
	for _, diff := range diffs {
		path := diff.Path()
		if path == "" {
			rejected = append(rejected, domain.FileResult{Err: errors.New("diff header has no file path")})
			continue
		}
		assessment := domain.RiskAssessment{Path: path, Level: domain.RiskSafe, Action: domain.ActionAllow}
		if s.Guard != nil {
			var err error
			assessment, err = s.Guard.Evaluate(path)
			if err != nil {
				rejected = append(rejected, domain.FileResult{Path: path, Err: fmt.Errorf("evaluate path: %w", err)})
				continue
			}
		}
		if assessment.Blocked() {
			s.Logger.Warn("refusing to edit path", map[string]interface{}{"path": path, "reasons": strings.Join(assessment.Reasons, "; ")})
			rejected = append(rejected, domain.FileResult{Path: path, Err: fmt.Errorf("%w: %s", ErrBlockedPath, strings.Join(assessment.Reasons, "; "))})
			continue
		}
		if assessment.NeedsConfirmation() && !opts.Interactive && !opts.DryRun {
			rejected = append(rejected, domain.FileResult{Path: path, Err: fmt.Errorf("%w: %s", ErrNeedsConfirmation, strings.Join(assessment.Reasons, "; "))})
			continue
		}
		targets = append(targets, target{diff: diff, assessment: assessment})
	}
	return targets, rejected
}

// plan reads the target and computes its patched content without writing.
// It reports whether the diff applies.
func (s *Service) plan(t *target, opts domain.EditOptions) bool {
	path := t.diff.Path()
	original, exists, err := s.Workspace.ReadFile(path)
	if err != nil {
		t.err = fmt.Errorf("read: %w", err)
		return false
	}
	t.original, t.exists = original, exists
	if !exists {
		s.Logger.Warn("file not found, will create", map[string]interface{}{"path": path})
	}

	t.updated, t.err = unidiff.Apply(original, t.diff.Hunks, unidiff.ApplyOptions{Lenient: opts.Lenient})
	return t.err == nil
}

// renderPreview shows the parsed hunks followed by the change each file will
// actually undergo.
func (s *Service) renderPreview(targets []target) error {
	out := s.preview()
	if err := unidiff.Render(out, diffsOf(targets), s.Styles); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(out, "%s\n\n", unidiff.ResultTitle); err != nil {
		return err
	}
	for _, t := range targets {
		if t.err != nil {
			if _, err := fmt.Fprintf(out, "Result: %s\ncannot apply: %v\n\n", t.diff.Path(), t.err); err != nil {
				return err
			}
			continue
		}
		if err := unidiff.RenderResult(out, t.diff.Path(), t.original, t.updated, s.Styles); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) applyFile(t target, opts domain.EditOptions) domain.FileResult {
	path := t.diff.Path()
	res := domain.FileResult{Path: path, DryRun: opts.DryRun}
	if t.err != nil {
		res.Err = t.err
		return res
	}
	res.Created = !t.exists

	if t.assessment.NeedsConfirmation() && !opts.DryRun {
		question := fmt.Sprintf("%s: %s. Edit anyway?", path, strings.Join(t.assessment.Reasons, "; "))
		ok, err := s.confirm(question, false)
		if err != nil {
			res.Err = err
			return res
		}
		if !ok {
			res.Err = ErrNeedsConfirmation
			return res
		}
	}

	if opts.DryRun {
		res.Success = true
		res.HunksApplied = len(t.diff.Hunks)
		res.Preview = unidiff.Effective(path, t.original, t.updated)
		return res
	}

	if opts.Backup && t.exists {
		backup, err := s.Workspace.Backup(path, t.original)
		if err != nil {
			res.Err = fmt.Errorf("backup: %w", err)
			return res
		}
		res.BackupPath = backup
	}
	if err := s.Workspace.WriteFile(path, t.updated); err != nil {
		res.Err = fmt.Errorf("write: %w", err)
		return res
	}
	res.Success = true
	res.HunksApplied = len(t.diff.Hunks)
	s.Logger.Debug("applied diff", map[string]interface{}{"path": path, "hunks": res.HunksApplied})
	return res
}

func (s *Service) confirm(question string, defaultYes bool) (bool, error) {
	if s.Prompter == nil || !s.Prompter.Enabled() {
		return false, nil
	}
	return s.Prompter.Confirm(question, defaultYes)
}

func (s *Service) record(request string, completion domain.CompletionResult, result domain.EditResult, started time.Time, failure error) {
	if s.HistoryStore == nil {
		return
	}
	rec := domain.HistoryRecord{
		ID:         uuid.NewString(),
		Timestamp:  started,
		Kind:       domain.HistoryEdit,
		Prompt:     request,
		Model:      completion.Model,
		TaskType:   domain.TaskMultiEdit,
		Attempts:   len(completion.Attempts),
		Success:    failure == nil && result.Success,
		Files:      result.SuccessfulCount,
		DurationMS: s.now().Sub(started).Milliseconds(),
	}
	switch {
	case failure != nil:
		rec.Error = failure.Error()
	case !result.Success:
		rec.Error = result.Message
	}
	if err := s.HistoryStore.Save(rec); err != nil {
		s.Logger.Warn("failed to record history", map[string]interface{}{"error": err.Error()})
	}
}

func (s *Service) phase(p domain.EditPhase) {
	if s.OnPhase != nil {
		s.OnPhase(p)
	}
}

func (s *Service) preview() io.Writer {
	if s.Preview == nil {
		return io.Discard
	}
	return s.Preview
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func diffsOf(targets []target) []unidiff.FileDiff {
	diffs := make([]unidiff.FileDiff, 0, len(targets))
	for _, t := range targets {
		diffs = append(diffs, t.diff)
	}
	return diffs
}
