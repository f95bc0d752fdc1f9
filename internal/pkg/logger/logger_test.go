package logger

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestCharmLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, false)

	l.Debug("hidden", nil)
	l.Info("hidden too", nil)
	l.Warn("rate limited", map[string]interface{}{"model": "m1", "backoff": "5s"})
	l.Error("write failed", errors.New("disk full"), nil)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug/info should be filtered, got %q", out)
	}
	if !strings.Contains(out, "rate limited") || !strings.Contains(out, "model=m1") {
		t.Fatalf("expected warning with fields, got %q", out)
	}
	if strings.Index(out, "backoff=") > strings.Index(out, "model=") {
		t.Fatalf("expected sorted fields, got %q", out)
	}
	if !strings.Contains(out, "disk full") {
		t.Fatalf("expected error text, got %q", out)
	}
}

func TestCharmLoggerVerbose(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, true).Debug("routing completion", map[string]interface{}{"task": "chat"})
	if !strings.Contains(buf.String(), "routing completion") {
		t.Fatalf("expected debug output, got %q", buf.String())
	}
}
