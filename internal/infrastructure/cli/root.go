package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/doeshing/vibe-go/internal/app"
	"github.com/doeshing/vibe-go/internal/domain"
	"github.com/doeshing/vibe-go/internal/infrastructure/cli/commands"
	"github.com/doeshing/vibe-go/internal/infrastructure/cli/helpers"
	"github.com/doeshing/vibe-go/internal/infrastructure/config"
)

// Options holds CLI-level configuration.
type Options struct {
	Env     config.Env
	Verbose bool
	// HistoryPath overrides the history database location.
	HistoryPath string
}

// NewRootCmd wires the cobra root command. The container is built once flags
// are parsed, so --debug reaches the logger.
func NewRootCmd(opts Options) *cobra.Command {
	var (
		debug   bool
		timeout time.Duration
		cancel  context.CancelFunc = func() {}
	)
	container := &app.Container{}

	root := &cobra.Command{
		Use:   "vibe",
		Short: "Vibe - AI coding assistant on free OpenRouter models",
		Long: "Vibe routes coding tasks to free OpenRouter models, rotating to the next model " +
			"when one is rate limited, and edits files through AI-generated unified diffs.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if timeout > 0 {
				ctx, cancel = context.WithTimeout(ctx, timeout)
				cmd.SetContext(ctx)
			}

			interactive := helpers.StdinIsTerminal()
			built, err := app.BuildContainer(ctx, app.Options{
				Env:         opts.Env,
				Verbose:     opts.Verbose || debug,
				Interactive: interactive,
				Color:       helpers.StdoutIsTerminal(),
				HistoryPath: opts.HistoryPath,
			})
			if err != nil {
				return err
			}
			*container = *built
			container.AttachPrompter(NewPrompter(nil, nil, interactive))
			container.Clipboard = NewClipboard()
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			cancel()
			return container.Close()
		},
	}

	root.PersistentFlags().BoolVar(&debug, "debug", false, "Enable verbose logging")
	root.PersistentFlags().DurationVar(&timeout, "timeout", domain.DefaultRunTimeout, "Abort the command after this long")

	root.AddCommand(
		commands.NewChatCommand(container),
		commands.NewEditCommand(container),
		commands.NewViewCommand(container),
		commands.NewModelCommand(container),
		commands.NewThemeCommand(container),
		commands.NewConfigCommand(container),
		commands.NewHistoryCommand(container),
		commands.NewDoctorCommand(container),
		commands.NewVersionCommand(),
	)
	return root
}
