package unidiff

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/x/exp/golden"
	"github.com/google/go-cmp/cmp"
)

const renameDiff = "diff --git a/src/a.js b/src/a.js\n" +
	"--- a/src/a.js\n" +
	"+++ b/src/a.js\n" +
	"@@ -1,2 +1,2 @@\n" +
	"-const x = 1;\n" +
	"-console.log(x);\n" +
	"+const y = 1;\n" +
	"+console.log(y);\n"

func mustApply(t *testing.T, original string, hunks []Hunk, opts ApplyOptions) string {
	t.Helper()
	got, err := Apply(original, hunks, opts)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	return got
}

func onlyHunks(t *testing.T, text string) []Hunk {
	t.Helper()
	diffs := Parse(text)
	if len(diffs) != 1 {
		t.Fatalf("Parse() returned %d diffs, want 1", len(diffs))
	}
	return diffs[0].Hunks
}

func TestParse(t *testing.T) {
	text := "Here you go:\n" +
		"diff --git a/foo.js b/foo.js\r\n" +
		"--- a/foo.js\n" +
		"+++ b/foo.js\n" +
		"@@ -2,2 +2 @@\n" +
		" keep\n" +
		"-two\n" +
		"-three\n" +
		"+new\n" +
		"@@ -9 +9,2 @@\n" +
		"+x\n" +
		"diff --git a/bar.go b/bar.go\n" +
		"no hunks here\n"

	diffs := Parse(text)
	if len(diffs) != 2 {
		t.Fatalf("Parse() returned %d diffs, want 2", len(diffs))
	}

	foo := diffs[0]
	if foo.OldPath != "foo.js" || foo.Path() != "foo.js" {
		t.Errorf("paths = %q/%q, want foo.js", foo.OldPath, foo.Path())
	}
	if len(foo.Hunks) != 2 {
		t.Fatalf("foo.js has %d hunks, want 2", len(foo.Hunks))
	}

	first := foo.Hunks[0]
	if first.OldStart != 2 || first.OldLines != 2 {
		t.Errorf("old range = %d,%d, want 2,2", first.OldStart, first.OldLines)
	}
	if first.NewLines != 1 {
		t.Errorf("NewLines = %d, want 1 when the length is omitted", first.NewLines)
	}
	if diff := cmp.Diff([]string{"keep"}, first.Context); diff != "" {
		t.Errorf("Context mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"two", "three"}, first.Removals); diff != "" {
		t.Errorf("Removals mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"new"}, first.Additions); diff != "" {
		t.Errorf("Additions mismatch (-want +got):\n%s", diff)
	}
	if len(first.Lines) != 4 {
		t.Errorf("Lines has %d entries, want 4", len(first.Lines))
	}

	second := foo.Hunks[1]
	if second.OldStart != 9 || second.OldLines != 1 || second.NewLines != 2 {
		t.Errorf("second hunk = %s, want @@ -9,1 +9,2 @@", second.Header())
	}

	if len(diffs[1].Hunks) != 0 {
		t.Errorf("bar.go has %d hunks, want none", len(diffs[1].Hunks))
	}
	if got := len(WithHunks(diffs)); got != 1 {
		t.Errorf("WithHunks() kept %d diffs, want 1", got)
	}
}

func TestParseIgnoresProseAndMalformedHeaders(t *testing.T) {
	if diffs := Parse("I could not produce a diff."); len(diffs) != 0 {
		t.Errorf("Parse(prose) = %v, want nothing", diffs)
	}

	diffs := Parse("diff --git weird header\n@@ garbage @@\n+ignored\n")
	if len(diffs) != 1 {
		t.Fatalf("Parse() returned %d diffs, want 1", len(diffs))
	}
	if diffs[0].Path() != "" {
		t.Errorf("Path() = %q, want empty", diffs[0].Path())
	}
	if len(diffs[0].Hunks) != 0 {
		t.Errorf("malformed header produced %d hunks", len(diffs[0].Hunks))
	}
}

func TestParseStopsHunkAtBareFileHeaders(t *testing.T) {
	text := "diff --git a/a.txt b/a.txt\n" +
		"@@ -1 +1 @@\n" +
		"-a\n" +
		"+b\n" +
		"--- a/b.txt\n" +
		"+++ b/b.txt\n" +
		"-stray\n"

	hunks := onlyHunks(t, text)
	if len(hunks) != 1 {
		t.Fatalf("got %d hunks, want 1", len(hunks))
	}
	if diff := cmp.Diff([]string{"a"}, hunks[0].Removals); diff != "" {
		t.Errorf("Removals mismatch (-want +got):\n%s", diff)
	}
}

func TestParseEmptyLineIsBlankContext(t *testing.T) {
	hunks := onlyHunks(t, "diff --git a/a.txt b/a.txt\n@@ -1,3 +1,3 @@\n a\n\n-b\n+B\n\n\nTrailing prose.\n")
	if len(hunks) != 1 {
		t.Fatalf("got %d hunks, want 1", len(hunks))
	}

	want := []Line{
		{Kind: LineContext, Text: "a"},
		{Kind: LineContext, Text: ""},
		{Kind: LineRemoval, Text: "b"},
		{Kind: LineAddition, Text: "B"},
	}
	if diff := cmp.Diff(want, hunks[0].Lines); diff != "" {
		t.Errorf("Lines mismatch (-want +got):\n%s", diff)
	}
}

func TestParseKeepsTrailingBlankContextTheHeaderCounts(t *testing.T) {
	hunks := onlyHunks(t, "diff --git a/a.txt b/a.txt\n@@ -1,2 +1,2 @@\n-a\n+A\n\n\n")

	if diff := cmp.Diff([]string{"a", ""}, hunks[0].OldSide()); diff != "" {
		t.Errorf("OldSide mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"A", ""}, hunks[0].NewSide()); diff != "" {
		t.Errorf("NewSide mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyReplacesLinesInFiveLineFile(t *testing.T) {
	hunks := onlyHunks(t, "diff --git a/foo.js b/foo.js\n@@ -2,2 +2,1 @@\n-two\n-three\n+TWO-THREE\n")

	got := mustApply(t, "one\ntwo\nthree\nfour\nfive", hunks, ApplyOptions{})

	want := []string{"one", "TWO-THREE", "four", "five"}
	if diff := cmp.Diff(want, strings.Split(got, "\n")); diff != "" {
		t.Errorf("Apply() mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyKeepsTrailingContextInPlace(t *testing.T) {
	tests := []struct {
		name     string
		original string
		diff     string
		want     string
	}{
		{
			name:     "context after the change",
			original: "l1\nl2\nl3\nl4\nl5",
			diff:     "diff --git a/foo.js b/foo.js\n@@ -1,5 +1,4 @@\n l1\n-l2\n-l3\n+new\n l4\n l5\n",
			want:     "l1\nnew\nl4\nl5",
		},
		{
			name:     "three lines of context on both sides",
			original: "a\nb\nc\nd\ne\nf\ng\n",
			diff:     "diff --git a/x b/x\n@@ -1,7 +1,8 @@\n a\n b\n c\n+inserted\n d\n e\n f\n g\n",
			want:     "a\nb\nc\ninserted\nd\ne\nf\ng\n",
		},
		{
			name:     "two changes in one hunk",
			original: "a\nb\nc\nd\ne\n",
			diff:     "diff --git a/x b/x\n@@ -1,5 +1,5 @@\n a\n-b\n+B\n c\n-d\n+D\n e\n",
			want:     "a\nB\nc\nD\ne\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustApply(t, tt.original, onlyHunks(t, tt.diff), ApplyOptions{})
			if got != tt.want {
				t.Errorf("Apply() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestApplyKeepsBlankContextLine(t *testing.T) {
	hunks := onlyHunks(t, "diff --git a/a.txt b/a.txt\n@@ -1,3 +1,3 @@\n a\n\n-b\n+B\n")

	if got := mustApply(t, "a\n\nb", hunks, ApplyOptions{}); got != "a\n\nB" {
		t.Errorf("Apply() = %q, want %q", got, "a\n\nB")
	}
}

func TestApplyFindsShiftedHunk(t *testing.T) {
	hunks := onlyHunks(t, "diff --git a/x b/x\n@@ -1,3 +1,3 @@\n b\n-c\n+C\n d\n")

	if got := mustApply(t, "top\na\nb\nc\nd\n", hunks, ApplyOptions{}); got != "top\na\nb\nC\nd\n" {
		t.Errorf("Apply() = %q", got)
	}
}

func TestApplyInsertsAfterZeroLengthRange(t *testing.T) {
	hunks := onlyHunks(t, "diff --git a/x b/x\n@@ -2,0 +3,1 @@\n+between\n")

	if got := mustApply(t, "one\ntwo\nthree\n", hunks, ApplyOptions{}); got != "one\ntwo\nbetween\nthree\n" {
		t.Errorf("Apply() = %q", got)
	}
}

func TestApplyRenameKeepsTrailingNewline(t *testing.T) {
	got := mustApply(t, "const x = 1;\nconsole.log(x);\n", onlyHunks(t, renameDiff), ApplyOptions{})
	if want := "const y = 1;\nconsole.log(y);\n"; got != want {
		t.Errorf("Apply() = %q, want %q", got, want)
	}
}

func TestApplyHunksLastFirst(t *testing.T) {
	hunks := []Hunk{
		{OldStart: 1, OldLines: 1, Removals: []string{"a"}, Additions: []string{"A1", "A2"}},
		{OldStart: 5, OldLines: 1, Removals: []string{"e"}, Additions: []string{"E"}},
	}

	got := mustApply(t, "a\nb\nc\nd\ne\nf\n", hunks, ApplyOptions{})
	if want := "A1\nA2\nb\nc\nd\nE\nf\n"; got != want {
		t.Errorf("Apply() = %q, want %q", got, want)
	}
	if hunks[0].OldStart != 1 {
		t.Error("Apply() reordered its input")
	}
}

func TestApplyCreatesNewFile(t *testing.T) {
	hunks := []Hunk{{OldStart: 0, OldLines: 0, NewStart: 1, NewLines: 2, Additions: []string{"package main", ""}}}

	if got := mustApply(t, "", hunks, ApplyOptions{}); got != "package main\n\n" {
		t.Errorf("Apply() = %q", got)
	}
}

func TestApplyPreservesCRLF(t *testing.T) {
	hunks := []Hunk{{OldStart: 1, OldLines: 1, Removals: []string{"a"}, Additions: []string{"b"}}}

	if got := mustApply(t, "a\r\nz\r\n", hunks, ApplyOptions{}); got != "b\r\nz\r\n" {
		t.Errorf("Apply() = %q", got)
	}
}

func TestApplyRejectsMismatchUnlessLenient(t *testing.T) {
	hunks := []Hunk{{OldStart: 1, OldLines: 1, Removals: []string{"nope"}, Additions: []string{"b"}}}

	if _, err := Apply("a\nz\n", hunks, ApplyOptions{}); !errors.Is(err, ErrHunkMismatch) {
		t.Fatalf("Apply() error = %v, want ErrHunkMismatch", err)
	}
	if got := mustApply(t, "a\nz\n", hunks, ApplyOptions{Lenient: true}); got != "b\nz\n" {
		t.Errorf("lenient Apply() = %q", got)
	}
}

func TestApplyRejectsContextThatIsNotThere(t *testing.T) {
	hunks := onlyHunks(t, "diff --git a/x b/x\n@@ -1,3 +1,3 @@\n a\n-b\n+B\n missing\n")

	if _, err := Apply("a\nb\nc\n", hunks, ApplyOptions{}); !errors.Is(err, ErrHunkMismatch) {
		t.Fatalf("Apply() error = %v, want ErrHunkMismatch", err)
	}
}

func TestApplyTwiceReportsAlreadyApplied(t *testing.T) {
	hunks := onlyHunks(t, renameDiff)
	patched := mustApply(t, "const x = 1;\nconsole.log(x);\n", hunks, ApplyOptions{})

	if _, err := Apply(patched, hunks, ApplyOptions{}); !errors.Is(err, ErrAlreadyApplied) {
		t.Fatalf("second Apply() error = %v, want ErrAlreadyApplied", err)
	}
}

func TestApplyTwiceDetectsRepeatedInsertion(t *testing.T) {
	hunks := []Hunk{{OldStart: 1, OldLines: 1, NewStart: 1, NewLines: 2, Context: []string{"a"}, Additions: []string{"b"}}}

	patched := mustApply(t, "a\nz\n", hunks, ApplyOptions{})
	if patched != "a\nb\nz\n" {
		t.Fatalf("Apply() = %q", patched)
	}
	if _, err := Apply(patched, hunks, ApplyOptions{}); !errors.Is(err, ErrAlreadyApplied) {
		t.Fatalf("second Apply() error = %v, want ErrAlreadyApplied", err)
	}
}

func TestApplyOutOfRange(t *testing.T) {
	hunks := []Hunk{{OldStart: 40, OldLines: 2, Removals: []string{"x"}}}

	if _, err := Apply("a\nb\n", hunks, ApplyOptions{}); !errors.Is(err, ErrHunkOutOfRange) {
		t.Fatalf("Apply() error = %v, want ErrHunkOutOfRange", err)
	}
}

func TestSpliceDoesNotMutateInput(t *testing.T) {
	lines := []string{"a", "b", "c"}
	out := Splice(lines, Hunk{OldStart: 2, OldLines: 1, Additions: []string{"B"}})

	if diff := cmp.Diff([]string{"a", "b", "c"}, lines); diff != "" {
		t.Errorf("input changed (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a", "B", "c"}, out); diff != "" {
		t.Errorf("Splice() mismatch (-want +got):\n%s", diff)
	}
}

func TestPatchKeepsFileContextText(t *testing.T) {
	lines := []string{"a  ", "b", "c"}
	h := Hunk{Lines: []Line{{LineContext, "a"}, {LineRemoval, "b"}, {LineAddition, "B"}, {LineContext, "c"}}}

	got := Patch(lines, h, 0)
	if diff := cmp.Diff([]string{"a  ", "B", "c"}, got); diff != "" {
		t.Errorf("Patch() mismatch (-want +got):\n%s", diff)
	}
	if lines[1] != "b" {
		t.Error("Patch() modified its input")
	}
}

func TestRender(t *testing.T) {
	diffs := Parse("diff --git a/src/a.js b/src/a.js\n" +
		"@@ -1,2 +1,2 @@\n" +
		" // header\n" +
		"-const x = 1;\n" +
		"+const y = 1;\n")

	var buf bytes.Buffer
	if err := Render(&buf, diffs, Styles{}); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	golden.RequireEqual(t, buf.Bytes())
}

func TestRenderKeepsHunkOrder(t *testing.T) {
	diffs := Parse("diff --git a/x b/x\n@@ -1,3 +1,3 @@\n a\n-b\n+B\n c\n")

	var buf bytes.Buffer
	if err := Render(&buf, diffs, Styles{}); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if want := "@@ -1,3 +1,3 @@\n a\n-b\n+B\n c\n"; !strings.Contains(buf.String(), want) {
		t.Errorf("Render() = %q, want it to contain %q", buf.String(), want)
	}
}

func TestRenderResult(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderResult(&buf, "x", "l1\nl2\nl3\n", "l1\nnew\nl3\n", Styles{}); err != nil {
		t.Fatalf("RenderResult() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Result: x\n", "--- a/x", "+++ b/x", "-l2\n", "+new\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderResult() = %q, missing %q", out, want)
		}
	}

	buf.Reset()
	if err := RenderResult(&buf, "x", "same\n", "same\n", Styles{}); err != nil {
		t.Fatalf("RenderResult() error = %v", err)
	}
	if got := buf.String(); got != "Result: x\n(no change)\n" {
		t.Errorf("RenderResult() = %q", got)
	}
}

func TestEffective(t *testing.T) {
	out := Effective("a.txt", "a\n", "b\n")
	for _, want := range []string{"--- a/a.txt", "+++ b/a.txt", "-a", "+b"} {
		if !strings.Contains(out, want) {
			t.Errorf("Effective() = %q, missing %q", out, want)
		}
	}
	if got := Effective("a.txt", "same\n", "same\n"); got != "" {
		t.Errorf("Effective(no change) = %q, want empty", got)
	}
}
