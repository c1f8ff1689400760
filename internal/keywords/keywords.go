// Package keywords ranks the recurring substantive words of a text.
package keywords

import (
	"regexp"
	"sort"
	"strings"

	"github.com/thywilljoshua/pdf-study/internal/text"
)

// DefaultMax is how many keywords a digest shows.
const DefaultMax = 8

// NoTopics is returned by Digest when no word repeats.
const NoTopics = "Could not identify specific topics from the content."

// Capitalised words, or lowercase words of four letters or more. A word
// qualifies only as a whole: "Größe" is not read as "Gr".
var candidate = regexp.MustCompile(`^(?:[A-Z][a-z]+|[a-z]{4,})$`)

var excluded = map[string]struct{}{
	"this": {}, "that": {}, "with": {}, "from": {}, "they": {}, "have": {},
	"been": {}, "were": {}, "will": {}, "would": {}, "could": {}, "should": {},
}

// Keyword is a word with its frequency in the source text.
type Keyword struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// Rank counts candidate words and returns those seen more than once, most
// frequent first. Words with equal counts keep first-seen order.
func Rank(s string) []Keyword {
	counts := make(map[string]int)
	var order []string
	for _, w := range text.Tokens(s) {
		if !candidate.MatchString(w) {
			continue
		}
		w = strings.ToLower(w)
		if _, skip := excluded[w]; skip {
			continue
		}
		if _, ok := counts[w]; !ok {
			order = append(order, w)
		}
		counts[w]++
	}
	var out []Keyword
	for _, w := range order {
		if counts[w] > 1 {
			out = append(out, Keyword{Word: w, Count: counts[w]})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// Extract returns up to max keywords; a negative max keeps them all. An
// empty result means no topics could be identified.
func Extract(s string, max int) []string {
	ranked := Rank(s)
	if max >= 0 && len(ranked) > max {
		ranked = ranked[:max]
	}
	out := make([]string, 0, len(ranked))
	for _, k := range ranked {
		out = append(out, k.Word)
	}
	return out
}

// Digest renders the top keywords as a bullet list, or NoTopics.
func Digest(s string) string {
	words := Extract(s, DefaultMax)
	if len(words) == 0 {
		return NoTopics
	}
	return "Key topics identified in the document:\n\n• " + strings.Join(words, "\n• ")
}
