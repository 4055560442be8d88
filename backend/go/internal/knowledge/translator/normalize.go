package translator

import (
	"regexp"
	"strings"
)

var (
	edgeNonWord = regexp.MustCompile(`^[^\p{L}\p{N}_]+|[^\p{L}\p{N}_]+$`)
	whitespace  = regexp.MustCompile(`\s+`)
)

// Ellipsis marks a truncated value.
const Ellipsis = "..."

// CleanValue trims s and strips non-word characters from both ends. Case is kept.
func CleanValue(s string) string {
	return edgeNonWord.ReplaceAllString(strings.TrimSpace(s), "")
}

// NormalizeKey turns s into a lookup key: cleaned, lower-cased, single-spaced.
func NormalizeKey(s string) string {
	return whitespace.ReplaceAllString(strings.ToLower(CleanValue(s)), " ")
}

// Truncate caps s at max runes, appending Ellipsis when it cut anything.
func Truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + Ellipsis
}
