package assets

import (
	_ "embed"
)

// DefaultPathGuardYAML contains the embedded default path guard rules.
//
//go:embed defaults/pathguard.yaml
var DefaultPathGuardYAML []byte
