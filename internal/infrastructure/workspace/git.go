package workspace

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// GitStatus summarises the repository an edit would touch.
type GitStatus struct {
	Branch         string
	ModifiedCount  int
	UntrackedCount int
}

// Clean reports whether the work tree has no pending changes.
func (g GitStatus) Clean() bool {
	return g.ModifiedCount == 0 && g.UntrackedCount == 0
}

// CollectGitStatus inspects dir with the git CLI. It returns nil when dir is
// not a repository or git is unavailable.
func CollectGitStatus(ctx context.Context, dir string) *GitStatus {
	if _, err := os.Stat(filepath.Join(dir, ".git")); err != nil {
		return nil
	}
	if _, err := exec.LookPath("git"); err != nil {
		return nil
	}
	branch := runCmd(ctx, dir, "git", "rev-parse", "--abbrev-ref", "HEAD")
	statusShort := runCmd(ctx, dir, "git", "status", "--short")

	status := &GitStatus{Branch: strings.TrimSpace(branch)}
	for _, line := range strings.Split(statusShort, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "??") {
			status.UntrackedCount++
		} else {
			status.ModifiedCount++
		}
	}
	return status
}

func runCmd(ctx context.Context, dir string, name string, args ...string) string {
	cctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	cmd := exec.CommandContext(cctx, name, args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return ""
	}
	return string(out)
}
