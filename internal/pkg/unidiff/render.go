package unidiff

import (
	"fmt"
	"io"
	"strings"

	"github.com/aymanbagabas/go-udiff"
	"github.com/charmbracelet/lipgloss"
)

// PreviewTitle heads the change preview.
const PreviewTitle = "=== Preview of Changes ==="

// Styles colors the preview. The zero value renders plain text.
type Styles struct {
	Enabled  bool
	Title    lipgloss.Style
	File     lipgloss.Style
	Header   lipgloss.Style
	Removal  lipgloss.Style
	Addition lipgloss.Style
}

// ColorStyles returns the preview palette for a theme.
func ColorStyles(theme string) Styles {
	header := lipgloss.Color("245")
	if theme == "light" {
		header = lipgloss.Color("240")
	}
	return Styles{
		Enabled:  true,
		Title:    lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		File:     lipgloss.NewStyle().Bold(true),
		Header:   lipgloss.NewStyle().Foreground(header),
		Removal:  lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		Addition: lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	}
}

func (s Styles) line(kind LineKind, text string) string {
	switch kind {
	case LineRemoval:
		return s.paint(s.Removal, text)
	case LineAddition:
		return s.paint(s.Addition, text)
	}
	return text
}

func (s Styles) paint(style lipgloss.Style, text string) string {
	if !s.Enabled {
		return text
	}
	return style.Render(text)
}

// Render writes a human-readable preview of diffs: per file the hunk
// headers followed by the hunk lines in diff order.
func Render(w io.Writer, diffs []FileDiff, styles Styles) error {
	if _, err := fmt.Fprintf(w, "\n%s\n\n", styles.paint(styles.Title, PreviewTitle)); err != nil {
		return err
	}

	for _, diff := range diffs {
		if _, err := fmt.Fprintln(w, styles.paint(styles.File, "File: "+diff.Path())); err != nil {
			return err
		}
		for _, hunk := range diff.Hunks {
			lines := []string{styles.paint(styles.Header, hunk.Header())}
			for _, line := range hunk.sequence() {
				lines = append(lines, styles.line(line.Kind, string(line.Kind)+line.Text))
			}
			for _, line := range lines {
				if _, err := fmt.Fprintln(w, line); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}

// Effective returns a standard unified diff between before and after, the
// change a file would actually undergo.
func Effective(path, before, after string) string {
	return udiff.Unified("a/"+path, "b/"+path, before, after)
}

// ResultTitle heads the per-file result section of the preview.
const ResultTitle = "=== Resulting Changes ==="

// RenderResult writes the change a file will actually undergo, as computed
// by Effective. Files whose content would not change are reported as such.
func RenderResult(w io.Writer, path, before, after string, styles Styles) error {
	if _, err := fmt.Fprintln(w, styles.paint(styles.File, "Result: "+path)); err != nil {
		return err
	}
	diff := Effective(path, before, after)
	if diff == "" {
		_, err := fmt.Fprintln(w, "(no change)")
		return err
	}
	for _, line := range strings.Split(strings.TrimSuffix(diff, "\n"), "\n") {
		text := line
		switch {
		case strings.HasPrefix(line, "---"), strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "@@"):
			text = styles.paint(styles.Header, line)
		case line != "":
			text = styles.line(LineKind(line[0]), line)
		}
		if _, err := fmt.Fprintln(w, text); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}
