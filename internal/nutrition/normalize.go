// Package nutrition holds the pure calculations of the tracker: daily calorie
// targets, free-text profile classification and daily meal-plan assembly.
//
// Nothing in this package touches storage or the network, so every function
// is safe for concurrent use.
package nutrition

import (
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold returns the comparison key of a food name or keyword: diacritics
// removed, case folded and inner whitespace collapsed.
//
//	Fold("  Plátano ") == Fold("PLATANO") == "platano"
func Fold(s string) string {
	// A transform.Chain keeps state between calls, so one is built per call.
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(stripMarks, s)
	if err != nil {
		out = s
	}
	return strings.Join(strings.Fields(cases.Fold().String(out)), " ")
}

// containsAny reports whether the folded text contains any of the folded keywords.
func containsAny(folded string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(folded, kw) {
			return true
		}
	}
	return false
}

// containsWords reports whether any keyword appears in folded as a run of
// whole words. Punctuation separates words, so "pina" matches "piña (trozo)"
// but not "espinacas".
func containsWords(folded string, keywords []string) bool {
	words := strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, kw := range keywords {
		kwWords := strings.Fields(kw)
		if len(kwWords) == 0 {
			continue
		}
		for i := 0; i+len(kwWords) <= len(words); i++ {
			if slices.Equal(words[i:i+len(kwWords)], kwWords) {
				return true
			}
		}
	}
	return false
}
