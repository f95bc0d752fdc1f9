// Package security decides whether an edit may write to a path.
package security

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/vibe-go/assets"
	"github.com/doeshing/vibe-go/internal/domain"
	"github.com/doeshing/vibe-go/internal/pkg/filesystem"
	"github.com/doeshing/vibe-go/internal/ports"
)

// PathGuard implements ports.PathGuard with regex rules.
type PathGuard struct {
	patterns []compiledPattern
	source   string
}

type compiledPattern struct {
	re   *regexp.Regexp
	rule PathPattern
}

// PathPattern describes a regex-based path rule.
type PathPattern struct {
	Pattern string `yaml:"pattern"`
	Level   string `yaml:"level"`
	Message string `yaml:"message"`
	Action  string `yaml:"action"`
}

// RulesFile is the YAML schema root.
type RulesFile struct {
	Rules struct {
		PathPatterns []PathPattern `yaml:"path_patterns"`
	} `yaml:"rules"`
}

// NewPathGuard loads rules from path, or the embedded defaults when the file
// does not exist or lists no rules.
func NewPathGuard(path string) (*PathGuard, error) {
	rules, source, err := loadRules(path)
	if err != nil {
		return nil, err
	}

	compiled := make([]compiledPattern, 0, len(rules.Rules.PathPatterns))
	for _, pattern := range rules.Rules.PathPatterns {
		re, err := regexp.Compile(pattern.Pattern)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", pattern.Pattern, err)
		}
		compiled = append(compiled, compiledPattern{re: re, rule: pattern})
	}
	return &PathGuard{patterns: compiled, source: source}, nil
}

// Source names where the rules came from: a file path or "builtin".
func (g *PathGuard) Source() string {
	return g.source
}

// RuleCount returns the number of loaded rules.
func (g *PathGuard) RuleCount() int {
	return len(g.patterns)
}

// Evaluate implements ports.PathGuard. The most severe matching rule decides
// the action; every match contributes a reason.
func (g *PathGuard) Evaluate(path string) (domain.RiskAssessment, error) {
	if g == nil {
		return domain.RiskAssessment{}, errors.New("path guard nil")
	}
	assessment := domain.RiskAssessment{
		Path:   path,
		Level:  domain.RiskSafe,
		Action: domain.ActionAllow,
	}
	normalized := filepath.ToSlash(path)
	highest := domain.RiskSafe
	for _, pattern := range g.patterns {
		if !pattern.re.MatchString(normalized) {
			continue
		}
		ruleLevel := parseRiskLevel(pattern.rule.Level)
		action := parseAction(pattern.rule.Action, ruleLevel)
		if moreSevere(ruleLevel, highest) || (ruleLevel == highest && action == domain.ActionBlock) {
			highest = ruleLevel
			assessment.Level = ruleLevel
			assessment.Action = action
		}
		assessment.Reasons = append(assessment.Reasons, pattern.rule.Message)
		assessment.MatchedRules = append(assessment.MatchedRules, pattern.rule.Pattern)
	}
	return assessment, nil
}

func loadRules(path string) (RulesFile, string, error) {
	var rules RulesFile
	if path != "" {
		path = expandPath(path)
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, &rules); err != nil {
				return RulesFile{}, "", fmt.Errorf("parse %s: %w", path, err)
			}
			if len(rules.Rules.PathPatterns) > 0 {
				return rules, path, nil
			}
		} else if !os.IsNotExist(err) {
			return RulesFile{}, "", err
		}
	}
	if err := yaml.Unmarshal(assets.DefaultPathGuardYAML, &rules); err != nil {
		return RulesFile{}, "", fmt.Errorf("parse builtin rules: %w", err)
	}
	return rules, "builtin", nil
}

func parseRiskLevel(value string) domain.RiskLevel {
	switch strings.ToLower(value) {
	case "low":
		return domain.RiskLow
	case "medium":
		return domain.RiskMedium
	case "high":
		return domain.RiskHigh
	case "critical":
		return domain.RiskCritical
	default:
		return domain.RiskSafe
	}
}

func parseAction(value string, fallback domain.RiskLevel) domain.GuardrailAction {
	switch strings.ToLower(value) {
	case "allow":
		return domain.ActionAllow
	case "confirm":
		return domain.ActionConfirm
	case "block":
		return domain.ActionBlock
	default:
		if fallback == domain.RiskSafe {
			return domain.ActionAllow
		}
		return domain.ActionConfirm
	}
}

func moreSevere(next domain.RiskLevel, current domain.RiskLevel) bool {
	order := map[domain.RiskLevel]int{
		domain.RiskSafe:     0,
		domain.RiskLow:      1,
		domain.RiskMedium:   2,
		domain.RiskHigh:     3,
		domain.RiskCritical: 4,
	}
	return order[next] > order[current]
}

// expandPath resolves relative rule files under ~/.vibe.
func expandPath(path string) string {
	if expanded, ok := filesystem.ExpandHome(path); ok {
		return expanded
	}
	return filepath.Join(filesystem.VibeDir(), path)
}

var _ ports.PathGuard = (*PathGuard)(nil)
