package wizard

import (
	"regexp"
	"strings"
	"unicode"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9]{10,15}$`)

// NormalizePhoneNumber strips whitespace (Unicode spaces included), dashes
// and parentheses.
func NormalizePhoneNumber(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '-' || r == '(' || r == ')' {
			return -1
		}
		return r
	}, s)
}

// IsValidPhoneNumber accepts 10 to 15 digits with an optional leading '+'
// once whitespace, dashes and parentheses are stripped.
func IsValidPhoneNumber(s string) bool {
	return phonePattern.MatchString(NormalizePhoneNumber(s))
}
