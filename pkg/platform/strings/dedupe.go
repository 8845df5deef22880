// Package strings provides string list utilities for query and env parsing.
package strings

import (
	"strings"
)

// DedupeAndTrim removes duplicates and empty strings from a slice,
// trimming whitespace from each element. Order is preserved.
//
// Example:
//
//	DedupeAndTrim([]string{"  PC1 ", "PC2", "PC1", "", "  "})
//	// Returns: []string{"PC1", "PC2"}
func DedupeAndTrim(values []string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))

	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; !ok {
			seen[trimmed] = struct{}{}
			result = append(result, trimmed)
		}
	}

	return result
}

// SplitList splits every value on commas and returns the distinct non-empty
// items in first-seen order. Repeated query parameters and comma lists can be
// mixed: SplitList("a,b", "b", " c ") is [a b c].
func SplitList(values ...string) []string {
	var parts []string
	for _, v := range values {
		parts = append(parts, strings.Split(v, ",")...)
	}
	out := DedupeAndTrim(parts)
	if len(out) == 0 {
		return nil
	}
	return out
}
