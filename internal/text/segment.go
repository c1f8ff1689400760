// Package text splits raw document text into words, sentences and
// paragraphs and picks representative sentences by position.
package text

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	// Letters and digits of any script, like a Unicode-aware \w.
	wordRe        = regexp.MustCompile(`[\p{L}\p{N}_]+`)
	sentenceBreak = regexp.MustCompile(`[.!?]+`)
)

// Tokens returns the maximal runs of word characters in s, case preserved.
func Tokens(s string) []string {
	return wordRe.FindAllString(s, -1)
}

// Words returns the lowercase word tokens of s that are at least minLen
// characters long. A minLen of 0 or 1 keeps every token.
func Words(s string, minLen int) []string {
	var out []string
	for _, w := range Tokens(strings.ToLower(s)) {
		if utf8.RuneCountInString(w) >= minLen {
			out = append(out, w)
		}
	}
	return out
}

// WordSet is Words collapsed into a set.
func WordSet(s string, minLen int) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range Words(s, minLen) {
		set[w] = struct{}{}
	}
	return set
}

// Sentences splits s on runs of '.', '!' and '?' and returns the trimmed
// pieces that are longer than minLen characters.
func Sentences(s string, minLen int) []string {
	var out []string
	for _, part := range sentenceBreak.Split(s, -1) {
		part = strings.TrimSpace(part)
		if utf8.RuneCountInString(part) > minLen {
			out = append(out, part)
		}
	}
	return out
}

// Paragraphs splits s on blank-line boundaries and drops empty entries.
func Paragraphs(s string) []string {
	var out []string
	for _, p := range strings.Split(s, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Len is the length of s in characters.
func Len(s string) int { return utf8.RuneCountInString(s) }

// Cut returns the first n characters of s.
func Cut(s string, n int) string {
	if n < 0 {
		n = 0
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}

// Truncate cuts s to n characters and appends "..." when anything was cut.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return Cut(s, n) + "..."
}

// IsBlank reports whether s holds nothing but whitespace.
func IsBlank(s string) bool { return strings.TrimSpace(s) == "" }
