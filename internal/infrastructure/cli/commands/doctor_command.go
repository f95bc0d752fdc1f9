package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doeshing/vibe-go/internal/app"
	"github.com/doeshing/vibe-go/internal/domain"
	"github.com/doeshing/vibe-go/internal/infrastructure/cli/helpers"
)

// NewDoctorCommand creates the doctor command
func NewDoctorCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check config, API key, path guard and history store",
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.DoctorService == nil {
				return errors.New(ErrDoctorServiceUnavailable)
			}

			report, err := container.DoctorService.Run(cmd.Context())
			out := helpers.NewRenderer(cmd.OutOrStdout(), "")
			for _, check := range report.Checks {
				out.Status(check)
			}
			out.Dim("%s", summarizeReport(report))

			if err != nil {
				return fmt.Errorf("diagnostics completed with errors: %w", err)
			}
			if report.HasErrors() {
				return fmt.Errorf("%d check(s) failed", report.Count(domain.HealthError))
			}
			return nil
		},
	}
}

func summarizeReport(report domain.HealthReport) string {
	return fmt.Sprintf("%d ok, %d warning(s), %d error(s)",
		report.Count(domain.HealthOK),
		report.Count(domain.HealthWarn),
		report.Count(domain.HealthError))
}
