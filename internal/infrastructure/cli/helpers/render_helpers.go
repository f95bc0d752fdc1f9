package helpers

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/doeshing/vibe-go/internal/domain"
)

const markdownWrap = 100

var (
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	dimStyle   = lipgloss.NewStyle().Faint(true)
)

// Renderer prints command output, styled when Styled is set.
type Renderer struct {
	Out    io.Writer
	Theme  string
	Styled bool
}

// Markdown renders text with glamour, or writes it unchanged when plain.
func (r Renderer) Markdown(text string) error {
	if !r.Styled {
		_, err := fmt.Fprintln(r.Out, strings.TrimRight(text, "\n"))
		return err
	}
	style := "dark"
	if r.Theme == domain.ThemeLight {
		style = "light"
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(markdownWrap),
	)
	if err != nil {
		return err
	}
	out, err := renderer.Render(text)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(r.Out, out)
	return err
}

// Line prints an unstyled line.
func (r Renderer) Line(format string, args ...interface{}) {
	fmt.Fprintf(r.Out, format+"\n", args...)
}

// OK, Warn, Fail and Dim print one status line.
func (r Renderer) OK(format string, args ...interface{})   { r.line(okStyle, "✓ "+format, args...) }
func (r Renderer) Warn(format string, args ...interface{}) { r.line(warnStyle, "! "+format, args...) }
func (r Renderer) Fail(format string, args ...interface{}) { r.line(errorStyle, "✗ "+format, args...) }
func (r Renderer) Dim(format string, args ...interface{})  { r.line(dimStyle, format, args...) }

func (r Renderer) line(style lipgloss.Style, format string, args ...interface{}) {
	text := fmt.Sprintf(format, args...)
	if r.Styled {
		text = style.Render(text)
	}
	fmt.Fprintln(r.Out, text)
}

// Status prints a doctor check line.
func (r Renderer) Status(check domain.HealthCheck) {
	label := fmt.Sprintf("[%s] %s - %s", strings.ToUpper(string(check.Status)), check.Name, check.Details)
	switch check.Status {
	case domain.HealthOK:
		r.line(okStyle, "%s", label)
	case domain.HealthWarn:
		r.line(warnStyle, "%s", label)
	default:
		r.line(errorStyle, "%s", label)
	}
}

// NewRenderer styles output only when w is a terminal.
func NewRenderer(w io.Writer, theme string) Renderer {
	styled := false
	if f, ok := w.(*os.File); ok {
		styled = isTerminal(f)
	}
	return Renderer{Out: w, Theme: theme, Styled: styled}
}
