package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/vibe-go/internal/app"
	"github.com/doeshing/vibe-go/internal/application/completion"
	"github.com/doeshing/vibe-go/internal/domain"
)

// NewViewCommand creates the image analysis command
func NewViewCommand(container *app.Container) *cobra.Command {
	var (
		model string
		raw   bool
	)

	cmd := &cobra.Command{
		Use:   "view <image> [question]",
		Short: "Ask a vision model about an image",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dataURL, err := completion.EncodeImageToDataURL(args[0])
			if err != nil {
				return fmt.Errorf("failed to read image: %w", err)
			}

			question := strings.TrimSpace(strings.Join(args[1:], " "))
			if question == "" {
				question = DefaultViewQuestion
			}

			// No prompt: the vision model is tried first, then the free list.
			req := domain.CompletionRequest{
				Model:    model,
				Messages: []domain.Message{domain.ImageMessage(question, dataURL)},
				Kind:     domain.HistoryView,
			}
			return runCompletion(cmd, container, req, raw, false)
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", domain.VisionModelID, "Vision-capable model")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print the reply without markdown rendering")
	return cmd
}
