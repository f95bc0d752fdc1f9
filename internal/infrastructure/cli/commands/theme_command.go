package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doeshing/vibe-go/internal/app"
	"github.com/doeshing/vibe-go/internal/infrastructure/cli/helpers"
)

// NewThemeCommand creates the theme command
func NewThemeCommand(container *app.Container) *cobra.Command {
	themeCmd := &cobra.Command{
		Use:   "theme",
		Short: "Show or change the output theme",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := container.ConfigProvider.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), cfg.ThemeName())
			return nil
		},
	}

	themeCmd.AddCommand(&cobra.Command{
		Use:       "set <dark|light>",
		Short:     "Set the output theme",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"dark", "light"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := container.ConfigProvider.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if err := cfg.SetTheme(args[0]); err != nil {
				return fmt.Errorf("%w: usage: vibe theme set <dark|light>", err)
			}
			if err := helpers.SaveConfigWithValidation(container, cfg); err != nil {
				return err
			}
			helpers.NewRenderer(cmd.OutOrStdout(), cfg.ThemeName()).OK("Theme set to %s", cfg.ThemeName())
			return nil
		},
	})
	return themeCmd
}
