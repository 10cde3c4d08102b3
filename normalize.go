package camerafy

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// upper applies NFKC and full Unicode uppercasing ("ß" → "SS"), then NFKC
// again: uppercasing can leave decomposed sequences ("ΐ" → "Ϊ" + U+0301).
// A cases.Caser is stateful, so a fresh one is used per call.
func upper(s string) string {
	return norm.NFKC.String(cases.Upper(language.Und).String(norm.NFKC.String(s)))
}

// Normalize canonicalizes a free-text value into a lookup key: NFKC,
// uppercase, whitespace runs collapsed to a single space, trimmed.
// Returns ("", false) when nothing is left.
func Normalize(s string) (string, bool) {
	if s == "" {
		return "", false
	}
	key := strings.Join(strings.Fields(upper(s)), " ")
	if key == "" {
		return "", false
	}
	return key, true
}

// Collapse is the strict policy: NFKC, uppercase, then every character
// outside [A-Z0-9] is removed. "Canon IXY-610F" → "CANONIXY610F".
func Collapse(s string) string {
	if s == "" {
		return ""
	}
	u := upper(s)
	var b strings.Builder
	b.Grow(len(u))
	for i := 0; i < len(u); i++ {
		if c := u[i]; isASCIIAlnum(c) {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Tokenize splits a value into ASCII alphanumeric runs and splits each run at
// every letter/digit boundary. Tokens are deduplicated, first occurrence wins.
//
//	Tokenize("Canon IXY610F") → ["CANON", "IXY", "610", "F"]
func Tokenize(s string) []string {
	if s == "" {
		return nil
	}
	u := upper(s)

	var tokens []string
	seen := make(map[string]bool)
	add := func(tok string) {
		if tok != "" && !seen[tok] {
			seen[tok] = true
			tokens = append(tokens, tok)
		}
	}

	start := -1
	for i := 0; i <= len(u); i++ {
		if i < len(u) && isASCIIAlnum(u[i]) {
			if start < 0 {
				start = i
			} else if isDigit(u[i]) != isDigit(u[i-1]) {
				add(u[start:i])
				start = i
			}
			continue
		}
		if start >= 0 {
			add(u[start:i])
			start = -1
		}
	}
	return tokens
}

// joinParts joins the non-empty parts with a single space.
func joinParts(parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isASCIIAlnum(c byte) bool {
	return isDigit(c) || (c >= 'A' && c <= 'Z')
}
