package dataset

import (
	"regexp"
	"strings"
)

var (
	whitespaceRuns = regexp.MustCompile(`\s+`)
	// Everything outside word characters, hyphen, underscore, '>',
	// whitespace, colon, slash, and dot is stripped from each element.
	disallowedChars = regexp.MustCompile(`[^\w\-_>\s:/.]`)
)

// CleanUniqueElements normalizes a comma-separated value: whitespace runs
// collapse to single spaces, each element is trimmed and stripped of
// disallowed characters, duplicates are dropped, and the survivors are
// rejoined with ", ".
//
// Duplicate elements are collapsed with set semantics; the surviving
// elements keep first-occurrence order, which makes the pass idempotent.
func CleanUniqueElements(input string) string {
	collapsed := whitespaceRuns.ReplaceAllString(input, " ")

	seen := make(map[string]struct{})
	var elements []string
	for _, element := range strings.Split(collapsed, ",") {
		cleaned := disallowedChars.ReplaceAllString(strings.TrimSpace(element), "")
		if _, dup := seen[cleaned]; dup {
			continue
		}
		seen[cleaned] = struct{}{}
		elements = append(elements, cleaned)
	}
	return strings.Join(elements, ", ")
}

// SplitElements breaks a cleaned comma-separated value into its discrete
// items, dropping empties. Used by the variable-expansion protocol.
func SplitElements(cleaned string) []string {
	var items []string
	for _, item := range strings.Split(cleaned, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}
