package commands

// CLI-specific constants
const (
	// DefaultEditorCommand is the default editor command
	DefaultEditorCommand = "vi"
	// DefaultHistoryLimit is the default number of history rows listed
	DefaultHistoryLimit = 20
	// MaxHistoryAnalysisRecords bounds how many records history stats reads
	MaxHistoryAnalysisRecords = 1000
	// TimestampFormat is used for history rows
	TimestampFormat = "2006-01-02 15:04:05"
	// DefaultViewQuestion is asked when view gets no question
	DefaultViewQuestion = "Analyze this UI and suggest fixes."
)

// Error messages
const (
	ErrConfigLoaderUnavailable  = "config loader unavailable"
	ErrDoctorServiceUnavailable = "doctor service unavailable"
	ErrHistoryStoreUnavailable  = "history store unavailable"
)

// Success messages
const (
	MsgConfigurationValid       = "Configuration valid"
	MsgNoDifferencesFromDefault = "No differences from default configuration."
	MsgNoHistoryRecorded        = "No history recorded yet."
	MsgChatTip                  = `Tip: pass a message, e.g., vibe chat "Hello"`
	MsgEditSucceeded            = "Multi-file editing completed successfully!"
)
