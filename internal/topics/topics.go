// Package topics builds structured topics from a document, either by
// segmenting its sentences or by parsing a model's free-text answer.
package topics

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/thywilljoshua/pdf-study/internal/text"
)

// Relevance grades how central a topic is to the document.
type Relevance string

const (
	High   Relevance = "High"
	Medium Relevance = "Medium"
	Low    Relevance = "Low"
)

// Type is the kind of topic being asked for.
type Type string

const (
	MainThemes     Type = "Main Themes"
	KeyConcepts    Type = "Key Concepts"
	TechnicalTerms Type = "Technical Terms"
	StudyPoints    Type = "Study Points"
)

// Types lists the accepted topic types in display order.
var Types = []Type{MainThemes, KeyConcepts, TechnicalTerms, StudyPoints}

// DefaultCount is used when a caller asks for zero or fewer topics.
const DefaultCount = 8

// Topic is one extracted theme of a document.
type Topic struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	KeyPoints   []string  `json:"key_points"`
	Relevance   Relevance `json:"relevance"`
}

// ParseType matches s case-insensitively against the known topic types.
func ParseType(s string) (Type, error) {
	norm := strings.ReplaceAll(s, "-", " ")
	for _, t := range Types {
		if strings.EqualFold(norm, string(t)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown topic type %q", s)
}

const (
	minSentence    = 30
	titleWords     = 6
	descriptionLen = 200
	keyPointLen    = 100
)

// A group's first sentence describes the topic, the next three are its points.
var groupSampler = text.Sampler{Head: 4}

// Segment partitions the sentences of doc into up to n contiguous groups of
// equal size and turns each group into a topic. Short documents yield fewer
// topics; groups are never padded.
func Segment(doc string, n int) []Topic {
	if n <= 0 {
		return nil
	}
	sentences := text.Sentences(doc, minSentence)
	per := len(sentences) / n
	if per < 1 {
		per = 1
	}
	count := len(sentences) / per
	if count > n {
		count = n
	}
	out := make([]Topic, 0, count)
	for i := 0; i < count; i++ {
		group := groupSampler.Pick(sentences[i*per : i*per+per])
		first := group[0]
		desc := text.Truncate(first, descriptionLen)
		var points []string
		for _, s := range group[1:] {
			if !text.IsBlank(s) {
				points = append(points, text.Truncate(s, keyPointLen))
			}
		}
		if len(points) == 0 {
			points = []string{desc}
		}
		out = append(out, Topic{
			Title:       title(first),
			Description: desc,
			KeyPoints:   points,
			Relevance:   Medium,
		})
	}
	return out
}

func title(sentence string) string {
	words := strings.Fields(sentence)
	if len(words) > titleWords {
		words = words[:titleWords]
	}
	return strings.Join(words, " ") + "..."
}

var (
	sectionBreak = regexp.MustCompile(`\d+\.|Topic \d+:`)
	relevanceRe  = regexp.MustCompile(`(?i)^\W*relevance(?:\W*score)?\W*(high|medium|low)\b`)
)

const maxTitle = 50

// Parse reads up to n numbered topics out of a model response. It returns
// nil when nothing usable was found; partial records are never returned.
func Parse(response string, n int) []Topic {
	sections := sectionBreak.Split(response, -1)
	if len(sections) < 2 || n <= 0 {
		return nil
	}
	sections = sections[1:]
	if len(sections) > n {
		sections = sections[:n]
	}
	var out []Topic
	for _, sec := range sections {
		rel := Medium
		var lines []string
		for _, ln := range splitLines(sec) {
			if m := relevanceRe.FindStringSubmatch(ln); m != nil {
				rel = Relevance(strings.ToUpper(m[1][:1]) + strings.ToLower(m[1][1:]))
				continue
			}
			lines = append(lines, ln)
		}
		if len(lines) == 0 {
			continue
		}
		t := Topic{Title: text.Cut(lines[0], maxTitle), Relevance: rel}
		if len(lines) > 1 {
			t.Description = strings.Join(lines[1:min(3, len(lines))], " ")
		} else {
			t.Description = lines[0]
		}
		switch {
		case len(lines) > 3:
			t.KeyPoints = append([]string(nil), lines[1:4]...)
		case len(lines) > 1:
			t.KeyPoints = append([]string(nil), lines[1:]...)
		default:
			t.KeyPoints = []string{t.Description}
		}
		out = append(out, t)
	}
	return out
}

// splitLines returns the trimmed, non-empty lines of s.
func splitLines(s string) []string {
	var lines []string
	for _, ln := range strings.Split(s, "\n") {
		if ln = strings.TrimSpace(ln); ln != "" {
			lines = append(lines, ln)
		}
	}
	return lines
}
