// Package questions turns document sentences into quiz questions and reads
// numbered questions back out of a model's free-text answer.
package questions

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/thywilljoshua/pdf-study/internal/text"
)

// Type is the requested question format.
type Type string

const (
	MultipleChoice Type = "Multiple Choice"
	ShortAnswer    Type = "Short Answer"
	Essay          Type = "Essay"
	Mixed          Type = "Mixed"
)

// Difficulty is the requested question difficulty.
type Difficulty string

const (
	Easy        Difficulty = "Easy"
	Medium      Difficulty = "Medium"
	Hard        Difficulty = "Hard"
	MixedLevels Difficulty = "Mixed"
)

// DefaultCount is used when a caller asks for zero or fewer questions.
const DefaultCount = 10

var (
	Types        = []Type{MultipleChoice, ShortAnswer, Essay, Mixed}
	Difficulties = []Difficulty{Easy, Medium, Hard, MixedLevels}
)

// Key is the record form of t, e.g. "multiple_choice".
func (t Type) Key() string {
	return strings.ReplaceAll(strings.ToLower(string(t)), " ", "_")
}

// ParseType matches s against the known types, accepting both display
// names and record keys.
func ParseType(s string) (Type, error) {
	norm := strings.NewReplacer("_", " ", "-", " ").Replace(s)
	for _, t := range Types {
		if strings.EqualFold(norm, string(t)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown question type %q", s)
}

// ParseDifficulty matches s case-insensitively against the known levels.
func ParseDifficulty(s string) (Difficulty, error) {
	for _, d := range Difficulties {
		if strings.EqualFold(s, string(d)) {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown difficulty %q", s)
}

// Question is one quiz item.
type Question struct {
	Question      string   `json:"question"`
	Type          string   `json:"type"`
	Explanation   string   `json:"explanation"`
	SampleAnswer  string   `json:"sample_answer,omitempty"`
	Options       []string `json:"options,omitempty"`
	CorrectAnswer string   `json:"correct_answer,omitempty"`
}

// Set is the outcome of synthesis. Requested and Skipped make a shortfall
// visible to the caller: sentences with too few words yield no question.
type Set struct {
	Questions []Question
	Requested int
	Skipped   int
}

// Shortfall is how many fewer questions than requested were produced.
func (s Set) Shortfall() int {
	if d := s.Requested - len(s.Questions); d > 0 {
		return d
	}
	return 0
}

var templates = []string{
	"What is %s?",
	"Explain %s.",
	"How does %s work?",
	"What are the key aspects of %s?",
	"Describe the importance of %s.",
}

const (
	minSentence    = 30
	minWords       = 11
	explanationLen = 150
)

// Synthesize builds up to count questions from the leading sentences of doc,
// one sentence per question. The key concept of a question is the fourth to
// eighth word of its sentence.
func Synthesize(doc string, count int, t Type) Set {
	set := Set{Requested: count}
	if count <= 0 {
		return set
	}
	sentences := text.Sentences(doc, minSentence)
	limit := min(count, len(sentences))
	for i := 0; i < limit; i++ {
		sentence := sentences[i]
		words := strings.Fields(sentence)
		if len(words) < minWords {
			set.Skipped++
			continue
		}
		concept := strings.Join(words[3:8], " ")
		set.Questions = append(set.Questions, Question{
			Question:     fmt.Sprintf(templates[i%len(templates)], concept),
			Type:         t.Key(),
			Explanation:  "This question is based on: " + text.Cut(sentence, explanationLen) + "...",
			SampleAnswer: sentence,
		})
	}
	return set
}

var (
	sectionBreak = regexp.MustCompile(`\d+\.|Question \d+:`)
	optionRe     = regexp.MustCompile(`^\(?([A-Da-d])[.)]\s*(.+)$`)
	answerRe     = regexp.MustCompile(`(?i)^(?:correct\s+)?answer\s*[:\-]\s*(.+)$`)
)

// NoExplanation fills parsed questions that carry no explanation lines.
const NoExplanation = "No explanation provided"

// Parse reads up to count numbered questions out of a model response. For
// multiple choice and mixed tests, lettered options and an answer line are
// lifted into their own fields. It returns nil when nothing usable was
// found.
func Parse(response string, count int, t Type) []Question {
	sections := sectionBreak.Split(response, -1)
	if len(sections) < 2 || count <= 0 {
		return nil
	}
	sections = sections[1:]
	if len(sections) > count {
		sections = sections[:count]
	}
	choices := t == MultipleChoice || t == Mixed
	var out []Question
	for _, sec := range sections {
		lines := splitLines(sec)
		if len(lines) == 0 {
			continue
		}
		q := Question{Question: lines[0], Type: t.Key()}
		var rest []string
		for _, ln := range lines[1:] {
			if choices {
				if m := optionRe.FindStringSubmatch(ln); m != nil {
					q.Options = append(q.Options, strings.TrimSpace(m[2]))
					continue
				}
				if m := answerRe.FindStringSubmatch(ln); m != nil {
					q.CorrectAnswer = strings.TrimSpace(m[1])
					continue
				}
			}
			rest = append(rest, ln)
		}
		if len(rest) > 0 {
			q.Explanation = strings.Join(rest[:min(2, len(rest))], " ")
		} else {
			q.Explanation = NoExplanation
		}
		if len(q.Options) > 0 && q.Type == Mixed.Key() {
			q.Type = MultipleChoice.Key()
		}
		out = append(out, q)
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
