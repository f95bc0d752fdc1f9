package domain

// RiskLevel enumerates path guard outcomes.
type RiskLevel string

const (
	RiskSafe     RiskLevel = "safe"
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// GuardrailAction describes how the edit service reacts to a risk level.
type GuardrailAction string

const (
	ActionAllow   GuardrailAction = "allow"
	ActionConfirm GuardrailAction = "confirm"
	ActionBlock   GuardrailAction = "block"
)

// RiskAssessment aggregates the rules a target path matched.
type RiskAssessment struct {
	Path         string
	Level        RiskLevel
	Action       GuardrailAction
	Reasons      []string
	MatchedRules []string
}

// Blocked reports whether the path must not be written.
func (r RiskAssessment) Blocked() bool {
	return r.Action == ActionBlock
}

// NeedsConfirmation reports whether the user must approve the write.
func (r RiskAssessment) NeedsConfirmation() bool {
	return r.Action == ActionConfirm
}
