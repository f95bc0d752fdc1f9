package commands

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/doeshing/vibe-go/internal/app"
	"github.com/doeshing/vibe-go/internal/domain"
	"github.com/doeshing/vibe-go/internal/infrastructure/cli/helpers"
)

// NewModelCommand creates the model command with list and use subcommands
func NewModelCommand(container *app.Container) *cobra.Command {
	modelCmd := &cobra.Command{
		Use:   "model",
		Short: "List free models or change the default",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listModels(cmd, container)
		},
	}

	modelCmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List the curated free models",
			RunE: func(cmd *cobra.Command, args []string) error {
				return listModels(cmd, container)
			},
		},
		&cobra.Command{
			Use:   "use <model-id>",
			Short: "Set the default model",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := container.CompletionService.SetDefaultModel(cmd.Context(), args[0]); err != nil {
					return fmt.Errorf("%w: use `vibe model list` to see allowed free models", err)
				}
				helpers.NewRenderer(cmd.OutOrStdout(), "").OK("Default model set to %s", args[0])
				return nil
			},
		},
	)
	return modelCmd
}

func listModels(cmd *cobra.Command, container *app.Container) error {
	defaultModel, models, err := container.CompletionService.ListFreeModels(cmd.Context())
	if err != nil {
		return err
	}
	writeModelList(cmd.OutOrStdout(), defaultModel, models)
	return nil
}

// writeModelList marks the default model with '*'.
func writeModelList(out io.Writer, defaultModel string, models []domain.FreeModel) {
	fmt.Fprintln(out, "Default:", defaultModel)
	for i, model := range models {
		mark := " "
		if model.ID == defaultModel {
			mark = "*"
		}
		info := ""
		if model.Ctx > 0 {
			info = fmt.Sprintf(" (%s ctx)", humanize.Comma(int64(model.Ctx)))
		}
		note := ""
		if model.Note != "" {
			note = " - " + model.Note
		}
		fmt.Fprintf(out, "%s %d. %s%s%s\n", mark, i+1, model.ID, info, note)
	}
}
