package domain

import (
	"fmt"
	"time"
)

// EditPhase names the stages of a multi-file edit.
type EditPhase string

const (
	PhaseScanning   EditPhase = "scanning"
	PhaseGenerating EditPhase = "generating"
	PhaseParsing    EditPhase = "parsing"
	PhaseConfirming EditPhase = "confirming"
	PhaseApplying   EditPhase = "applying"
	PhaseDone       EditPhase = "done"
)

// Edit defaults.
const (
	DefaultEditMaxFiles = 20
	DefaultEditMaxSize  = 500000
	BackupSuffix        = ".vibe-backup"
)

// Outcome messages reported by the edit service.
const (
	MsgNoFilesFound      = "No files found"
	MsgNoChangesProduced = "No changes generated"
	MsgCancelledByUser   = "Cancelled by user"
	MsgDryRunCompleted   = "Dry run completed"
)

// ExcludedDirs are never scanned.
var ExcludedDirs = []string{"node_modules", ".git", "dist", "build"}

// EditOptions controls a multi-file edit.
type EditOptions struct {
	Interactive bool
	DryRun      bool
	Backup      bool
	Lenient     bool
	MaxFiles    int
	MaxSize     int64
	Model       string
}

// DefaultEditOptions returns interactive, backed-up edit options.
func DefaultEditOptions() EditOptions {
	return EditOptions{
		Interactive: true,
		Backup:      true,
		MaxFiles:    DefaultEditMaxFiles,
		MaxSize:     DefaultEditMaxSize,
	}
}

// Validate rejects out-of-range limits.
func (o EditOptions) Validate() error {
	if o.MaxFiles <= 0 {
		return fmt.Errorf("%w: max files must be > 0, got %d", ErrInvalidEditOptions, o.MaxFiles)
	}
	if o.MaxSize <= 0 {
		return fmt.Errorf("%w: max size must be > 0, got %d", ErrInvalidEditOptions, o.MaxSize)
	}
	return nil
}

// ScanOptions limits file discovery.
type ScanOptions struct {
	MaxFiles int
	MaxSize  int64
	Exclude  []string
}

// SourceFile is a scanned file held in memory.
type SourceFile struct {
	Path    string
	Content string
	Size    int64
	ModTime time.Time
}

// ScanResult lists the files read and the reasons others were skipped.
type ScanResult struct {
	Files    []SourceFile
	Warnings []string
}

// FileResult is the outcome for one file of an edit.
type FileResult struct {
	Path         string
	Success      bool
	Created      bool
	DryRun       bool
	HunksApplied int
	BackupPath   string
	Preview      string
	Err          error
}

// EditResult summarises a multi-file edit.
type EditResult struct {
	Success         bool
	Message         string
	Model           string
	SuccessfulCount int
	FailedCount     int
	Files           []FileResult
}
