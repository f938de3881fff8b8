// Package title normalizes window titles and matches them against stored
// profile keys. Everything here is pure string work: no OS access, no
// shared state, safe from any goroutine.
package title

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Normalize reduces a raw window title to its canonical matching form:
// bytes outside printable ASCII are dropped, whitespace runs collapse to a
// single space, and the result is trimmed and lowercased. Normalize never
// fails and is idempotent, so it can be applied at every comparison site
// without tracking whether a string was already normalized.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= 0x20 && c <= 0x7e {
			b.WriteByte(c)
		}
	}
	return strings.ToLower(strings.Join(strings.Fields(b.String()), " "))
}

// separators that window titles use between document and application name.
// The segment after the last separator is the application name.
var separators = []string{" - ", " — ", " – "}

// hostile characters are stripped so a key is always usable as an INI
// section name and a filename fragment.
const hostile = `<>:"/\|?*[]`

// Sanitize derives a storable profile key from a raw live title: keep the
// segment after the last separator, drop a trailing " NN%" progress suffix,
// and remove filesystem-hostile characters.
func Sanitize(s string) string {
	cut, width := -1, 0
	for _, sep := range separators {
		if i := strings.LastIndex(s, sep); i > cut {
			cut, width = i, len(sep)
		}
	}
	if cut >= 0 {
		s = s[cut+width:]
	}
	s = trimPercentSuffix(s)
	s = strings.Map(func(r rune) rune {
		if strings.ContainsRune(hostile, r) {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}

// trimPercentSuffix removes one trailing " NN%" (space, digits, percent)
// from titles that embed a progress indicator.
func trimPercentSuffix(s string) string {
	if !strings.HasSuffix(s, "%") {
		return s
	}
	j := len(s) - 1
	for j > 0 && s[j-1] >= '0' && s[j-1] <= '9' {
		j--
	}
	if j == len(s)-1 || j == 0 || s[j-1] != ' ' {
		return s
	}
	return s[:j-1]
}

// Titlecase renders a stored key for display. Cosmetic only: matching
// always goes through Normalize, never through this.
func Titlecase(s string) string {
	return cases.Title(language.English).String(s)
}
