package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/vibe-go/internal/app"
	"github.com/doeshing/vibe-go/internal/domain"
	"github.com/doeshing/vibe-go/internal/infrastructure/cli/helpers"
)

// NewEditCommand creates the multi-file edit command
func NewEditCommand(container *app.Container) *cobra.Command {
	var (
		dryRun        bool
		noBackup      bool
		noInteractive bool
		lenient       bool
		maxFiles      int
		maxSize       int64
		model         string
	)

	cmd := &cobra.Command{
		Use:   "edit <glob-pattern> <description of changes>",
		Short: "Edit every file matching a glob with one AI-generated diff",
		Example: `  vibe edit "src/**/*.ts" "rename fetchUser to loadUser"
  vibe edit "*.go" add doc comments to exported functions --dry-run`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern := args[0]
			request := strings.Trim(strings.TrimSpace(strings.Join(args[1:], " ")), `"`)
			if request == "" {
				return fmt.Errorf("please provide a description of the changes to make")
			}

			ctx := cmd.Context()
			cfg, err := container.ConfigProvider.Load(ctx)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			out := helpers.NewRenderer(cmd.OutOrStdout(), cfg.ThemeName())

			opts := container.EditOptions()
			opts.DryRun = dryRun
			opts.Backup = !noBackup
			opts.Interactive = opts.Interactive && !noInteractive
			opts.Lenient = lenient
			opts.MaxFiles = maxFiles
			opts.MaxSize = maxSize
			opts.Model = model

			out.Line("Editing files matching: %s", pattern)
			out.Dim("Changes: %s", request)

			spinner := helpers.NewSpinner(cmd.ErrOrStderr(), helpers.StderrIsTerminal())
			svc := container.EditService
			svc.Preview = cmd.OutOrStdout()
			svc.OnPhase = func(phase domain.EditPhase) {
				if phase == domain.PhaseGenerating {
					spinner.Start("Generating diffs with AI...")
					return
				}
				spinner.Stop()
			}

			result, err := svc.EditFiles(ctx, pattern, request, opts)
			spinner.Stop()
			if err != nil {
				return err
			}
			return reportEdit(out, result)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the changes without writing files")
	cmd.Flags().BoolVar(&noBackup, "no-backup", false, "Do not write "+domain.BackupSuffix+" files")
	cmd.Flags().BoolVar(&noInteractive, "no-interactive", false, "Apply without asking for confirmation")
	cmd.Flags().BoolVar(&lenient, "lenient", false, "Apply hunks at their offsets without checking removed lines")
	cmd.Flags().IntVar(&maxFiles, "max-files", domain.DefaultEditMaxFiles, "Maximum number of files sent to the model")
	cmd.Flags().Int64Var(&maxSize, "max-size", domain.DefaultEditMaxSize, "Skip files larger than this many bytes")
	cmd.Flags().StringVarP(&model, "model", "m", "", "Try this model first")
	return cmd
}

// reportEdit prints per-file outcomes and the summary. Any failed file makes
// the command exit non-zero.
func reportEdit(out helpers.Renderer, result domain.EditResult) error {
	for _, file := range result.Files {
		switch {
		case file.Err != nil:
			out.Fail("%s: %v", file.Path, file.Err)
		case file.DryRun:
			out.Dim("%s would become:", file.Path)
			out.Line("%s", strings.TrimRight(file.Preview, "\n"))
		default:
			label := "Updated"
			if file.Created {
				label = "Created"
			}
			out.OK("%s %s (%d hunk(s))", label, file.Path, file.HunksApplied)
			if file.BackupPath != "" {
				out.Dim("  backup: %s", file.BackupPath)
			}
		}
	}

	switch {
	case !result.Success:
		out.Warn("Multi-file editing completed: %s", result.Message)
	case result.Message == domain.MsgDryRunCompleted:
		out.OK("%s", domain.MsgDryRunCompleted)
	default:
		out.OK("%s", MsgEditSucceeded)
		out.OK("Updated %d file(s)", result.SuccessfulCount)
	}

	if result.FailedCount > 0 {
		return fmt.Errorf("%d of %d file(s) failed", result.FailedCount, result.FailedCount+result.SuccessfulCount)
	}
	return nil
}
