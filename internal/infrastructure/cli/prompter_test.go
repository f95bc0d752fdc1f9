package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestPrompterConfirm(t *testing.T) {
	tests := []struct {
		input      string
		defaultYes bool
		want       bool
	}{
		{input: "y\n", want: true},
		{input: "YES\n", want: true},
		{input: "n\n", want: false},
		{input: "\n", want: false},
		{input: "\n", defaultYes: true, want: true},
		{input: "whatever\n", defaultYes: true, want: false},
		{input: "y", want: true},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		p := NewPrompter(strings.NewReader(tt.input), &out, true)
		got, err := p.Confirm("Apply these changes to 1 file(s)?", tt.defaultYes)
		if err != nil {
			t.Fatalf("Confirm(%q) error: %v", tt.input, err)
		}
		if got != tt.want {
			t.Fatalf("Confirm(%q, %v) = %v, want %v", tt.input, tt.defaultYes, got, tt.want)
		}
		if !strings.Contains(out.String(), "Apply these changes to 1 file(s)?") {
			t.Fatalf("question not printed: %q", out.String())
		}
	}
}

func TestPrompterConfirmEOF(t *testing.T) {
	p := NewPrompter(strings.NewReader(""), &bytes.Buffer{}, true)
	if _, err := p.Confirm("Continue?", false); err == nil {
		t.Fatal("expected error on closed input")
	}
}

func TestPrompterSecretFromPipe(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("  sk-or-123 \n"), &out, true)
	key, err := p.Secret("Enter your OpenRouter API key: ")
	if err != nil {
		t.Fatalf("Secret error: %v", err)
	}
	if key != "sk-or-123" {
		t.Fatalf("expected trimmed key, got %q", key)
	}
	if !p.Enabled() {
		t.Fatal("expected prompter enabled")
	}
}
