// Package relevance scores paragraphs or sentences of a document against a
// free-form query by keyword overlap.
package relevance

import (
	"fmt"
	"sort"
	"strings"

	"github.com/thywilljoshua/pdf-study/internal/text"
)

// Mode selects the unit of text being ranked.
type Mode int

const (
	Paragraphs Mode = iota
	Sentences
)

// MaxResults is how many units a ranking returns at most.
const MaxResults = 3

// ConnectiveBonus is added to units that contain a causal connective.
const ConnectiveBonus = 0.5

var stopwords = map[string]struct{}{
	"what": {}, "when": {}, "where": {}, "why": {}, "how": {}, "the": {}, "and": {},
	"your": {}, "this": {}, "that": {}, "with": {}, "from": {}, "they": {},
	"have": {}, "been": {}, "were": {}, "will": {}, "would": {}, "could": {}, "should": {},
}

var connectives = []string{"because", "therefore", "thus", "hence"}

// minimum token length of query terms and minimum unit length per mode
func (m Mode) limits() (termLen, unitLen int) {
	if m == Sentences {
		return 3, 20
	}
	return 4, 50
}

// Scored is a text unit with its relevance.
type Scored struct {
	Text    string
	Overlap int
	Score   float64
}

// Terms extracts the query keywords used for matching in the given mode.
// An empty set means the query cannot be matched against anything.
func Terms(query string, m Mode) map[string]struct{} {
	termLen, _ := m.limits()
	terms := text.WordSet(query, termLen)
	for w := range terms {
		if _, stop := stopwords[w]; stop {
			delete(terms, w)
		}
	}
	return terms
}

// Score computes the overlap between terms and unit plus the connective
// bonus. Units without overlap always score zero.
func Score(terms map[string]struct{}, unit string) (overlap int, score float64) {
	words := text.WordSet(unit, 1)
	for w := range terms {
		if _, ok := words[w]; ok {
			overlap++
		}
	}
	if overlap == 0 {
		return 0, 0
	}
	score = float64(overlap)
	lower := strings.ToLower(unit)
	for _, c := range connectives {
		if strings.Contains(lower, c) {
			score += ConnectiveBonus
			break
		}
	}
	return overlap, score
}

// Rank returns the best MaxResults units of doc for query, highest score
// first with document order breaking ties. Units at or below the mode's
// length threshold are never considered.
func Rank(query, doc string, m Mode) []Scored {
	terms := Terms(query, m)
	if len(terms) == 0 {
		return nil
	}
	_, unitLen := m.limits()
	var units []string
	if m == Sentences {
		units = text.Sentences(doc, unitLen)
	} else {
		units = text.Paragraphs(doc)
	}
	var scored []Scored
	for _, u := range units {
		if text.Len(u) <= unitLen {
			continue
		}
		overlap, score := Score(terms, u)
		if overlap == 0 {
			continue
		}
		scored = append(scored, Scored{Text: u, Overlap: overlap, Score: score})
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if len(scored) > MaxResults {
		scored = scored[:MaxResults]
	}
	return scored
}

// FormatSections renders ranked paragraphs as an answer. It returns "" when
// nothing was found.
func FormatSections(units []Scored) string {
	switch len(units) {
	case 0:
		return ""
	case 1:
		return "Here's a relevant section that might help answer your question:\n\n" + units[0].Text
	}
	var b strings.Builder
	b.WriteString("Here are some relevant sections that might help answer your question:\n\n")
	for i, u := range units {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[%d] %s", i+1, u.Text)
	}
	return b.String()
}

// FormatFindings renders ranked sentences as an answer. It returns "" when
// nothing was found.
func FormatFindings(units []Scored) string {
	if len(units) == 0 {
		return ""
	}
	parts := make([]string, len(units))
	for i, u := range units {
		parts[i] = u.Text
	}
	return "Based on the document content, here's what I found:\n\n" + strings.Join(parts, "\n\n")
}
