// Package normalize canonicalizes patient-supplied free text so that
// keyword matching can run over plain lowercase ASCII.
package normalize

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold lowercases s, strips diacritics and drops every remaining
// non-ASCII code point. Total: any input yields a usable string, never
// an error. The keyword lists are plain lowercase ASCII, so all text
// must pass through here before any substring test.
func Fold(s string) string {
	if s == "" {
		return ""
	}
	lowered := strings.ToLower(s)
	// Transformers are stateful; build the chain per call so Fold is
	// safe under concurrent request handling.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, lowered)
	if err != nil {
		folded = lowered
	}
	return asciiOnly(folded)
}

func asciiOnly(s string) string {
	i := 0
	for i < len(s) && s[i] < utf8.RuneSelf {
		i++
	}
	if i == len(s) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	b.WriteString(s[:i])
	for _, r := range s[i:] {
		if r < utf8.RuneSelf {
			b.WriteRune(r)
		}
	}
	return b.String()
}
