package completion

import (
	"strings"

	"github.com/doeshing/vibe-go/internal/domain"
)

// KeySource records where the session's API key came from.
type KeySource string

const (
	KeySourceNone   KeySource = ""
	KeySourceEnv    KeySource = "env"
	KeySourceConfig KeySource = "config"
	KeySourcePrompt KeySource = "prompt"
)

// Session carries per-invocation state: the resolved API key and whether
// the user was already asked for one. A CLI invocation owns one Session.
type Session struct {
	Interactive bool

	envKey   string
	key      string
	source   KeySource
	prompted bool
}

// NewSession builds a session. envKey is the key found in the environment,
// empty when none is set.
func NewSession(interactive bool, envKey string) *Session {
	return &Session{
		Interactive: interactive,
		envKey:      strings.TrimSpace(envKey),
	}
}

// Status reports where a key is available from without prompting.
func (s *Session) Status(cfg domain.Config) domain.KeyStatus {
	fromConfig := cfg.StoredAPIKey() != ""
	return domain.KeyStatus{
		HasKey:      s.key != "" || s.envKey != "" || fromConfig,
		IsCached:    s.key != "",
		FromEnv:     s.envKey != "",
		FromConfig:  fromConfig,
		WasPrompted: s.prompted,
	}
}

// Source returns where the cached key came from.
func (s *Session) Source() KeySource {
	return s.source
}

// Clear forgets the cached key and the prompted flag.
func (s *Session) Clear() {
	s.key = ""
	s.source = KeySourceNone
	s.prompted = false
}

func (s *Session) cache(key string, source KeySource) string {
	s.key = key
	s.source = source
	return key
}
