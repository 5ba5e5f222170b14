// Package textnorm cleans and bounds extracted text before it reaches the model.
package textnorm

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultMaxLength is the character budget used when none is given.
const DefaultMaxLength = 15000

var (
	reSpace    = regexp.MustCompile(`\s+`)
	reBrackets = regexp.MustCompile(`\[.*?\]`)
	reParens   = regexp.MustCompile(`\(.*?\)`)
)

// Normalize collapses whitespace, removes [...] and (...) spans and keeps at
// most maxLength characters. maxLength <= 0 means DefaultMaxLength.
// Truncation is rune based and may cut a word in half.
func Normalize(text string, maxLength int) string {
	if text == "" {
		return ""
	}
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}

	text = collapse(text)
	text = reBrackets.ReplaceAllString(text, "")
	text = reParens.ReplaceAllString(text, "")
	// Removing an aside can leave a double space behind.
	text = collapse(text)

	return truncate(text, maxLength)
}

// Clean is Normalize with the default budget.
func Clean(text string) string {
	return Normalize(text, DefaultMaxLength)
}

func collapse(s string) string {
	return strings.TrimSpace(reSpace.ReplaceAllString(s, " "))
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
