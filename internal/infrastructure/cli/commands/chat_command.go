package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/vibe-go/internal/app"
	"github.com/doeshing/vibe-go/internal/domain"
	"github.com/doeshing/vibe-go/internal/infrastructure/cli/helpers"
)

type chatOptions struct {
	model     string
	task      string
	thinking  bool
	maxTokens int
	copyReply bool
	raw       bool
}

// NewChatCommand creates the single-turn chat command
func NewChatCommand(container *app.Container) *cobra.Command {
	var opts chatOptions

	cmd := &cobra.Command{
		Use:   "chat [message]",
		Short: "Send a single message to the default model",
		Long: "Send a single message to OpenRouter. The task type is detected from the message " +
			"and the request rotates through free models when one is rate limited. " +
			"Without arguments the message is read from piped stdin.",
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.TrimSpace(strings.Join(args, " "))
			if text == "" && !helpers.StdinIsTerminal() {
				data, err := io.ReadAll(os.Stdin)
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				text = strings.TrimSpace(string(data))
			}
			if text == "" {
				fmt.Fprintln(cmd.OutOrStdout(), MsgChatTip)
				return nil
			}

			req := domain.CompletionRequest{
				Model:     opts.model,
				Messages:  []domain.Message{domain.TextMessage(domain.RoleUser, text)},
				MaxTokens: opts.maxTokens,
				Prompt:    text,
				Kind:      domain.HistoryChat,
			}
			if opts.task != "" {
				task, ok := domain.ParseTaskType(opts.task)
				if !ok {
					return fmt.Errorf("unknown task %q (valid: %s)", opts.task, taskNames())
				}
				req.TaskType = task
			}
			if cmd.Flags().Changed("thinking") {
				req.Thinking = domain.Bool(opts.thinking)
			}

			return runCompletion(cmd, container, req, opts.raw, opts.copyReply)
		},
	}

	cmd.Flags().StringVarP(&opts.model, "model", "m", "", "Try this model first")
	cmd.Flags().StringVar(&opts.task, "task", "", "Task type used for routing (default detected from the message)")
	cmd.Flags().BoolVar(&opts.thinking, "thinking", false, "Request reasoning (medium effort when true, low when false)")
	cmd.Flags().IntVar(&opts.maxTokens, "max-tokens", 0, "Cap the reply length")
	cmd.Flags().BoolVarP(&opts.copyReply, "copy", "c", false, "Copy the reply to the clipboard")
	cmd.Flags().BoolVar(&opts.raw, "raw", false, "Print the reply without markdown rendering")
	return cmd
}

// runCompletion sends req and renders the reply.
func runCompletion(cmd *cobra.Command, container *app.Container, req domain.CompletionRequest, raw, copyReply bool) error {
	ctx := cmd.Context()
	cfg, err := container.ConfigProvider.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	spinner := helpers.NewSpinner(cmd.ErrOrStderr(), helpers.StderrIsTerminal())
	spinner.Start("Thinking...")
	result, err := container.CompletionService.ChatCompletion(ctx, req)
	spinner.Stop()
	if err != nil {
		return err
	}

	reply := result.Message.Text()
	out := helpers.NewRenderer(cmd.OutOrStdout(), cfg.ThemeName())
	if raw {
		out.Styled = false
	}
	if err := out.Markdown(reply); err != nil {
		return err
	}

	status := helpers.NewRenderer(cmd.ErrOrStderr(), cfg.ThemeName())
	if len(result.Attempts) > 1 {
		status.Dim("answered by %s after %d attempts", result.Model, len(result.Attempts))
	}

	if copyReply {
		if container.Clipboard == nil || !container.Clipboard.Enabled() {
			status.Warn("clipboard unavailable")
			return nil
		}
		if err := container.Clipboard.Copy(reply); err != nil {
			status.Warn("copy failed: %v", err)
			return nil
		}
		status.OK("Copied to clipboard")
	}
	return nil
}

func taskNames() string {
	var names []string
	for _, task := range domain.AllTaskTypes() {
		names = append(names, string(task))
	}
	return strings.Join(names, ", ")
}
