package domain

import "time"

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// SecureFilePermissions is the permission for sensitive files (rw-------)
	SecureFilePermissions = 0o600
	// DefaultFilePermissions is used for files created by an edit (rw-r--r--)
	DefaultFilePermissions = 0o644
)

// Timeout and duration constants
const (
	// DefaultHTTPClientTimeout bounds a single OpenRouter request
	DefaultHTTPClientTimeout = 120 * time.Second
	// DefaultRunTimeout bounds a whole CLI command
	DefaultRunTimeout = 10 * time.Minute
)

// Completion defaults
const (
	// DefaultTemperature is used when a request does not set one
	DefaultTemperature = 0.2
	// EditTemperature keeps diff generation close to deterministic
	EditTemperature = 0.1
	// MaxResponseBytes caps how much of a response body is read
	MaxResponseBytes = 10 << 20
)

// History constants
const (
	// DefaultHistoryLimit is the default number of history records to display
	DefaultHistoryLimit = 20
)

// Time formats
const (
	// TimestampFormat is the standard timestamp format
	TimestampFormat = time.RFC3339
)
