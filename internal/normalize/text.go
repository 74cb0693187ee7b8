package normalize

import "strings"

// Trim removes surrounding whitespace from identifiers and tokens.
func Trim(value string) string {
	return strings.TrimSpace(value)
}

// Lower is used for case-insensitive settings such as REGISTRY_SOURCE and
// prompt answers.
func Lower(value string) string {
	return strings.ToLower(Trim(value))
}

// Upper canonicalizes enum values the API spells in upper case, such as
// access levels.
func Upper(value string) string {
	return strings.ToUpper(Trim(value))
}
