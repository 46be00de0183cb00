package core

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Policy decides which tools are exposed. Patterns are doublestar globs
// matched against tool names. An empty allow list allows every tool; deny
// always wins.
type Policy struct {
	allowPatterns []string
	denyPatterns  []string
}

// NewPolicy creates a Policy from comma-separated glob lists.
func NewPolicy(allowCSV, denyCSV string) *Policy {
	return &Policy{
		allowPatterns: parsePatternsCSV(allowCSV),
		denyPatterns:  parsePatternsCSV(denyCSV),
	}
}

// NewPolicyFromLists creates a Policy from already split pattern lists.
func NewPolicyFromLists(allow, deny []string) *Policy {
	return NewPolicy(strings.Join(allow, ","), strings.Join(deny, ","))
}

// CheckTool returns an error if toolName is not exposed by the policy.
func (p *Policy) CheckTool(toolName string) error {
	if p == nil {
		return nil
	}
	for _, pattern := range p.denyPatterns {
		if globMatch(pattern, toolName) {
			return fmt.Errorf("tool %q denied by policy (%s)", toolName, pattern)
		}
	}
	if len(p.allowPatterns) == 0 {
		return nil
	}
	for _, pattern := range p.allowPatterns {
		if globMatch(pattern, toolName) {
			return nil
		}
	}
	return fmt.Errorf("tool %q not in allowlist", toolName)
}

// Allows reports whether toolName passes CheckTool.
func (p *Policy) Allows(toolName string) bool {
	return p.CheckTool(toolName) == nil
}

// Validate rejects malformed glob patterns.
func (p *Policy) Validate() error {
	for _, pattern := range append(append([]string{}, p.allowPatterns...), p.denyPatterns...) {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid tool pattern %q", pattern)
		}
	}
	return nil
}

func globMatch(pattern, value string) bool {
	matched, err := doublestar.Match(pattern, value)
	if err != nil {
		return false
	}
	return matched
}

func parsePatternsCSV(s string) []string {
	out := make([]string, 0)
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
