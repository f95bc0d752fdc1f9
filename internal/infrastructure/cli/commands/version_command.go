package commands

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/doeshing/vibe-go/internal/version"
)

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	var short bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show vibe version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			info := currentBuild()
			if short {
				fmt.Fprintln(cmd.OutOrStdout(), info.version)
				return nil
			}
			info.write(cmd.OutOrStdout())
			return nil
		},
	}
	cmd.Flags().BoolVar(&short, "short", false, "Print only the version number")
	return cmd
}

type buildInfo struct {
	version string
	commit  string
	date    string
}

// currentBuild prefers -ldflags values and falls back to the module build info
// recorded by `go install`.
func currentBuild() buildInfo {
	info := buildInfo{version: version.Version, commit: version.Commit, date: version.BuildDate}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	if info.version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.version = bi.Main.Version
	}
	for _, setting := range bi.Settings {
		switch setting.Key {
		case "vcs.revision":
			if info.commit == "" {
				info.commit = setting.Value
			}
		case "vcs.time":
			if info.date == "" {
				info.date = setting.Value
			}
		}
	}
	return info
}

func (b buildInfo) write(out io.Writer) {
	fmt.Fprintf(out, "vibe version %s\n", b.version)
	if b.commit != "" {
		fmt.Fprintf(out, "Commit: %s\n", b.commit)
	}
	if b.date != "" {
		fmt.Fprintf(out, "Built: %s\n", b.date)
	}
	fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
}
