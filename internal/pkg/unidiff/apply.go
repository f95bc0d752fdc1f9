package unidiff

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrHunkMismatch means the lines a hunk expects are not in the file.
	ErrHunkMismatch = errors.New("hunk does not match file content")
	// ErrAlreadyApplied means the file already contains the hunk's result.
	ErrAlreadyApplied = errors.New("changes already applied")
	// ErrHunkOutOfRange means a hunk starts past the end of the file.
	ErrHunkOutOfRange = errors.New("hunk starts beyond end of file")
)

// ApplyOptions tunes Apply.
type ApplyOptions struct {
	// Lenient skips verification and trusts the hunk offsets.
	Lenient bool
}

// Apply returns original with hunks applied, last hunk first.
//
// By default every hunk's old side (context and removed lines, in order) must
// be found in the file, and it is replaced by the hunk's new side (context
// and added lines, in order). With opts.Lenient the old range named by the
// header is replaced by the context lines followed by the additions, without
// any check. A failed hunk leaves nothing applied.
func Apply(original string, hunks []Hunk, opts ApplyOptions) (string, error) {
	crlf := strings.Contains(original, "\r\n")
	lines := strings.Split(strings.ReplaceAll(original, "\r\n", "\n"), "\n")

	for _, hunk := range Descending(hunks) {
		if opts.Lenient {
			lines = Splice(lines, hunk)
			continue
		}
		at, err := Locate(lines, hunk)
		if err != nil {
			return "", fmt.Errorf("%s: %w", hunk.Header(), err)
		}
		lines = Patch(lines, hunk, at)
	}

	result := strings.Join(lines, "\n")
	if crlf {
		result = strings.ReplaceAll(result, "\n", "\r\n")
	}
	return result, nil
}

// Descending returns a copy of hunks sorted by OldStart, last hunk first.
func Descending(hunks []Hunk) []Hunk {
	ordered := make([]Hunk, len(hunks))
	copy(ordered, hunks)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].OldStart > ordered[j].OldStart
	})
	return ordered
}

// Locate returns the index in lines where the hunk's old side starts. The
// header position is tried first, then the nearest position where the old
// side matches. A hunk whose new side is already in place reports
// ErrAlreadyApplied.
func Locate(lines []string, h Hunk) (int, error) {
	if h.OldStart-1 > len(lines) || (h.OldLines > 0 && h.OldStart-1 >= len(lines)) {
		return 0, ErrHunkOutOfRange
	}

	old, updated := h.OldSide(), h.NewSide()
	removals, additions := h.counts()

	hint := h.OldStart - 1
	if len(old) == 0 && h.OldLines == 0 {
		// "-N,0" inserts after line N
		hint = h.OldStart
	}
	hint = clamp(hint, 0, len(lines))

	if len(old) == 0 {
		if additions > 0 && runAt(lines, updated, hint) {
			return 0, ErrAlreadyApplied
		}
		return hint, nil
	}

	if at, ok := nearest(lines, old, hint); ok {
		if removals == 0 && additions > 0 && runAt(lines, updated, at) {
			return 0, ErrAlreadyApplied
		}
		return at, nil
	}
	if additions > 0 {
		if _, ok := nearest(lines, updated, hint); ok {
			return 0, ErrAlreadyApplied
		}
	}
	return 0, ErrHunkMismatch
}

// Patch replaces the hunk's old side, found at index at, with its new side.
// Context lines keep the file's own text. lines is not modified.
func Patch(lines []string, h Hunk, at int) []string {
	old := h.OldSide()
	end := clamp(at+len(old), at, len(lines))

	next := make([]string, 0, len(lines)+len(h.Additions))
	next = append(next, lines[:at]...)
	cursor := at
	for _, line := range h.sequence() {
		switch line.Kind {
		case LineContext:
			if cursor < end {
				next = append(next, lines[cursor])
			} else {
				next = append(next, line.Text)
			}
			cursor++
		case LineRemoval:
			cursor++
		case LineAddition:
			next = append(next, line.Text)
		}
	}
	next = append(next, lines[end:]...)
	return next
}

// Splice replaces the hunk's old range [OldStart-1, OldStart-1+OldLines)
// with its context lines followed by its additions. lines is not modified.
func Splice(lines []string, h Hunk) []string {
	start, end := window(len(lines), h.OldStart, h.OldLines)

	next := make([]string, 0, len(lines)-(end-start)+len(h.Context)+len(h.Additions))
	next = append(next, lines[:start]...)
	next = append(next, h.Context...)
	next = append(next, h.Additions...)
	next = append(next, lines[end:]...)
	return next
}

func window(total, oldStart, length int) (int, int) {
	start := clamp(oldStart-1, 0, total)
	return start, clamp(start+length, start, total)
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

// nearest finds the offset closest to hint where want appears contiguously.
func nearest(have, want []string, hint int) (int, bool) {
	last := len(have) - len(want)
	if last < 0 {
		return 0, false
	}
	for delta := 0; hint-delta >= 0 || hint+delta <= last; delta++ {
		if at := hint - delta; at >= 0 && at <= last && runAt(have, want, at) {
			return at, true
		}
		if at := hint + delta; delta > 0 && at >= 0 && at <= last && runAt(have, want, at) {
			return at, true
		}
	}
	return 0, false
}

// runAt reports whether want appears in have starting at index at.
func runAt(have, want []string, at int) bool {
	if at < 0 || at+len(want) > len(have) {
		return false
	}
	for i := range want {
		if !sameLine(have[at+i], want[i]) {
			return false
		}
	}
	return true
}

func sameLine(a, b string) bool {
	return strings.TrimRight(a, " \t") == strings.TrimRight(b, " \t")
}
