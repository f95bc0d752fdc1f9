// Package unidiff parses model-generated unified diffs and applies them to
// in-memory file content.
//
// Parsing is line based and forgiving: anything that is not a file header,
// a hunk header, or a prefixed hunk line is ignored. Application is a pure
// fold over the hunks of one file, last hunk first, so line numbers of
// earlier hunks stay valid.
package unidiff

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	fileHeaderPattern = regexp.MustCompile(`diff --git a/(.+) b/(.+)`)
	hunkHeaderPattern = regexp.MustCompile(`@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@`)
)

// LineKind is the leading marker of a hunk line.
type LineKind byte

const (
	LineContext  LineKind = ' '
	LineRemoval  LineKind = '-'
	LineAddition LineKind = '+'
)

// Line is a hunk line in source order.
type Line struct {
	Kind LineKind
	Text string
}

// Hunk is one @@ section. Context, Removals and Additions keep the lines of
// each kind in the order they appeared; Lines keeps all of them interleaved.
type Hunk struct {
	OldStart  int
	OldLines  int
	NewStart  int
	NewLines  int
	Context   []string
	Removals  []string
	Additions []string
	Lines     []Line
}

// OldSide returns the lines the hunk expects in the file: context and
// removed lines in hunk order.
func (h Hunk) OldSide() []string {
	var out []string
	for _, line := range h.sequence() {
		if line.Kind != LineAddition {
			out = append(out, line.Text)
		}
	}
	return out
}

// NewSide returns the lines the hunk leaves behind: context and added lines
// in hunk order.
func (h Hunk) NewSide() []string {
	var out []string
	for _, line := range h.sequence() {
		if line.Kind != LineRemoval {
			out = append(out, line.Text)
		}
	}
	return out
}

// sequence returns Lines, or for hand-built hunks without Lines the
// context, removed and added lines in that order.
func (h Hunk) sequence() []Line {
	if len(h.Lines) > 0 {
		return h.Lines
	}
	seq := make([]Line, 0, len(h.Context)+len(h.Removals)+len(h.Additions))
	for _, text := range h.Context {
		seq = append(seq, Line{Kind: LineContext, Text: text})
	}
	for _, text := range h.Removals {
		seq = append(seq, Line{Kind: LineRemoval, Text: text})
	}
	for _, text := range h.Additions {
		seq = append(seq, Line{Kind: LineAddition, Text: text})
	}
	return seq
}

func (h Hunk) counts() (removals, additions int) {
	for _, line := range h.sequence() {
		switch line.Kind {
		case LineRemoval:
			removals++
		case LineAddition:
			additions++
		}
	}
	return removals, additions
}

// Header renders the hunk header line.
func (h Hunk) Header() string {
	return fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.OldStart, h.OldLines, h.NewStart, h.NewLines)
}

// FileDiff holds the hunks for one file.
type FileDiff struct {
	OldPath string
	NewPath string
	Hunks   []Hunk
}

// Path returns the file the diff targets.
func (f FileDiff) Path() string {
	if f.NewPath != "" && f.NewPath != "/dev/null" {
		return f.NewPath
	}
	return f.OldPath
}

// Parse splits text into per-file diffs. File entries without hunks are kept
// so callers can report them; use WithHunks to drop them.
func Parse(text string) []FileDiff {
	var (
		diffs   []FileDiff
		current *FileDiff
		hunk    *Hunk
		// empty lines seen inside the open hunk and not yet placed
		blanks int
	)

	flushHunk := func() {
		if current != nil && hunk != nil {
			padBlankContext(hunk, blanks)
			current.Hunks = append(current.Hunks, *hunk)
		}
		hunk = nil
		blanks = 0
	}
	flushFile := func() {
		flushHunk()
		if current != nil {
			diffs = append(diffs, *current)
		}
		current = nil
	}

	lines := strings.Split(text, "\n")
	for i, raw := range lines {
		line := strings.TrimSuffix(raw, "\r")

		switch {
		case strings.HasPrefix(line, "diff --git"):
			flushFile()
			current = &FileDiff{}
			if match := fileHeaderPattern.FindStringSubmatch(line); match != nil {
				current.OldPath = strings.TrimSpace(match[1])
				current.NewPath = strings.TrimSpace(match[2])
			}
		case strings.HasPrefix(line, "@@"):
			flushHunk()
			if current == nil {
				continue
			}
			if parsed, ok := parseHunkHeader(line); ok {
				hunk = &parsed
			}
		case hunk == nil:
			// outside any hunk
		case line == "":
			blanks++
		case isFileHeaderPair(line, lines, i):
			flushHunk()
		case isHunkLine(line):
			for ; blanks > 0; blanks-- {
				addHunkLine(hunk, string(LineContext))
			}
			addHunkLine(hunk, line)
		}
	}
	flushFile()

	return diffs
}

// WithHunks drops file entries that carry no hunks.
func WithHunks(diffs []FileDiff) []FileDiff {
	var out []FileDiff
	for _, diff := range diffs {
		if len(diff.Hunks) > 0 {
			out = append(out, diff)
		}
	}
	return out
}

func parseHunkHeader(line string) (Hunk, bool) {
	match := hunkHeaderPattern.FindStringSubmatch(line)
	if match == nil {
		return Hunk{}, false
	}
	return Hunk{
		OldStart: atoiDefault(match[1], 1),
		OldLines: atoiDefault(match[2], 1),
		NewStart: atoiDefault(match[3], 1),
		NewLines: atoiDefault(match[4], 1),
	}, true
}

func isHunkLine(line string) bool {
	if line == "" {
		return false
	}
	switch LineKind(line[0]) {
	case LineContext, LineRemoval, LineAddition:
		return true
	}
	return false
}

func addHunkLine(h *Hunk, line string) {
	kind := LineKind(line[0])
	text := line[1:]
	switch kind {
	case LineContext:
		h.Context = append(h.Context, text)
	case LineRemoval:
		h.Removals = append(h.Removals, text)
	case LineAddition:
		h.Additions = append(h.Additions, text)
	}
	h.Lines = append(h.Lines, Line{Kind: kind, Text: text})
}

// padBlankContext turns up to n empty lines that trail a hunk into blank
// context while the header counts still expect more lines. Anything beyond
// that is the gap after the diff.
func padBlankContext(h *Hunk, n int) {
	for ; n > 0; n-- {
		if len(h.OldSide()) >= h.OldLines || len(h.NewSide()) >= h.NewLines {
			return
		}
		addHunkLine(h, string(LineContext))
	}
}

// isFileHeaderPair detects a "--- a/x" line followed by "+++ b/x", which
// ends the current hunk even when the model omitted the diff --git line.
func isFileHeaderPair(line string, lines []string, i int) bool {
	if !strings.HasPrefix(line, "--- ") || i+1 >= len(lines) {
		return false
	}
	return strings.HasPrefix(strings.TrimSuffix(lines[i+1], "\r"), "+++ ")
}

func atoiDefault(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}
