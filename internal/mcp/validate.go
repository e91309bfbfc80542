package mcp

import (
	"fmt"
	"regexp"
)

var toolNamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

var iconSizePattern = regexp.MustCompile(`^(any|[1-9]\d*x[1-9]\d*)$`)

// ValidateToolName checks a tool name against the wire grammar: 1-128
// characters matching ^[A-Za-z0-9_.-]+$.
func ValidateToolName(name string) error {
	if len(name) < 1 || len(name) > 128 {
		return fmt.Errorf("tool name must be 1-128 characters, got %d", len(name))
	}
	if !toolNamePattern.MatchString(name) {
		return fmt.Errorf("tool name %q does not match ^[A-Za-z0-9_.-]+$", name)
	}
	return nil
}

// ValidateIconSizes checks an icon's sizes hint against the wire grammar:
// "any" or "<w>x<h>" with no leading zeros.
func ValidateIconSizes(sizes string) error {
	if sizes == "" {
		return nil
	}
	if !iconSizePattern.MatchString(sizes) {
		return fmt.Errorf("icon sizes %q does not match ^(any|[1-9]\\d*x[1-9]\\d*)$", sizes)
	}
	return nil
}

// ValidateToolDefinition validates a tool definition's wire invariants:
// name grammar, required description, and any icon size hints.
func ValidateToolDefinition(def ToolDefinition) error {
	if err := ValidateToolName(def.Name); err != nil {
		return err
	}
	if def.Description == "" {
		return fmt.Errorf("tool %q: description is required", def.Name)
	}
	for _, icon := range def.Icons {
		if err := ValidateIconSizes(icon.Sizes); err != nil {
			return fmt.Errorf("tool %q: %w", def.Name, err)
		}
	}
	return nil
}
