package reconcile

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// RE2's \s is ASCII only; separators also cover \v, Unicode spaces and BOM.
var (
	unwantedChars = regexp.MustCompile(`[^\w\s\v\p{Z}\x{FEFF}/-]`)
	spaceRuns     = regexp.MustCompile(`[\s\v\p{Z}\x{FEFF}]+`)
)

// Normalize lowercases s, drops everything except word characters, whitespace,
// hyphens and slashes, and collapses whitespace runs. It is used only to compare
// amenities; names, descriptions and addresses are never normalized.
func Normalize(s string) string {
	s = cases.Lower(language.Und).String(s)
	s = unwantedChars.ReplaceAllString(s, "")
	s = spaceRuns.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
