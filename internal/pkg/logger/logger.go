// Package logger implements ports.Logger.
package logger

import (
	"io"
	"sort"

	"github.com/charmbracelet/log"
)

// CharmLogger writes leveled, key/value logs through charmbracelet/log.
type CharmLogger struct {
	logger *log.Logger
}

// New creates a logger writing to w. Debug output is shown only when verbose;
// warnings and errors are always shown.
func New(w io.Writer, verbose bool) *CharmLogger {
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	return &CharmLogger{logger: log.NewWithOptions(w, log.Options{
		Level:           level,
		Prefix:          "vibe",
		ReportTimestamp: verbose,
	})}
}

func (l *CharmLogger) Debug(msg string, fields map[string]interface{}) {
	l.logger.Debug(msg, keyvals(fields)...)
}

func (l *CharmLogger) Info(msg string, fields map[string]interface{}) {
	l.logger.Info(msg, keyvals(fields)...)
}

func (l *CharmLogger) Warn(msg string, fields map[string]interface{}) {
	l.logger.Warn(msg, keyvals(fields)...)
}

func (l *CharmLogger) Error(msg string, err error, fields map[string]interface{}) {
	kv := keyvals(fields)
	if err != nil {
		kv = append([]interface{}{"err", err}, kv...)
	}
	l.logger.Error(msg, kv...)
}

// keyvals flattens fields in key order so output is stable.
func keyvals(fields map[string]interface{}) []interface{} {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	kv := make([]interface{}, 0, len(keys)*2)
	for _, key := range keys {
		kv = append(kv, key, fields[key])
	}
	return kv
}

// Nop discards everything.
type Nop struct{}

func (Nop) Debug(string, map[string]interface{})        {}
func (Nop) Info(string, map[string]interface{})         {}
func (Nop) Warn(string, map[string]interface{})         {}
func (Nop) Error(string, error, map[string]interface{}) {}
