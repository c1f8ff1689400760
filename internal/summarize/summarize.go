// Package summarize builds extractive summaries by sampling sentences at
// fixed positions of a document.
package summarize

import (
	"fmt"
	"strings"

	"github.com/thywilljoshua/pdf-study/internal/text"
)

// Length is the requested summary size.
type Length string

const (
	Brief    Length = "Brief"
	Medium   Length = "Medium"
	Detailed Length = "Detailed"
)

// Style is the requested summary presentation.
type Style string

const (
	Academic     Style = "Academic"
	Simple       Style = "Simple"
	BulletPoints Style = "Bullet Points"
)

// Lengths and Styles list the accepted values in display order.
var (
	Lengths = []Length{Brief, Medium, Detailed}
	Styles  = []Style{Academic, Simple, BulletPoints}
)

const (
	// EmptyDocument is returned when no sentence qualifies.
	EmptyDocument = "The document appears to be empty or contains no readable text."
	// NoKeyPoints is returned when no sentence is long enough to be a key point.
	NoKeyPoints = "Could not extract key points from the available content."

	minSentence    = 20
	minKeyPoint    = 30
	maxSummarySent = 8
)

// ParseLength matches s case-insensitively against the known lengths.
func ParseLength(s string) (Length, error) {
	for _, l := range Lengths {
		if strings.EqualFold(s, string(l)) {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown summary length %q (want Brief, Medium or Detailed)", s)
}

// ParseStyle matches s case-insensitively against the known styles.
func ParseStyle(s string) (Style, error) {
	for _, st := range Styles {
		if strings.EqualFold(s, string(st)) || strings.EqualFold(strings.ReplaceAll(s, "-", " "), string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown summary style %q (want Academic, Simple or Bullet Points)", s)
}

// Sampler takes sentences from the start and the end of a document; longer
// summaries take more of each.
func (l Length) Sampler() text.Sampler {
	switch l {
	case Brief:
		return text.Sampler{Head: 2, Tail: 1}
	case Detailed:
		return text.Sampler{Head: 5, Tail: 3}
	default:
		return text.Sampler{Head: 3, Tail: 2}
	}
}

// Select returns the sentences a summary of length l is built from.
func Select(doc string, l Length) []string {
	picked := l.Sampler().Pick(text.Sentences(doc, minSentence))
	if len(picked) > maxSummarySent {
		picked = picked[:maxSummarySent]
	}
	return picked
}

// Fallback summarises doc without a model.
func Fallback(doc string, l Length, st Style) string {
	picked := Select(doc, l)
	if len(picked) == 0 {
		return EmptyDocument
	}
	summary := strings.Join(picked, ". ")
	if st != BulletPoints {
		return summary + "."
	}
	var lines []string
	for _, p := range strings.Split(summary, ". ") {
		if p = strings.TrimSpace(p); p != "" {
			lines = append(lines, "• "+p+".")
		}
	}
	return strings.Join(lines, "\n")
}

// Gist is a short description of doc made of its first, middle and last
// sentences.
func Gist(doc string) string {
	picked := text.GistSampler.Pick(text.Sentences(doc, minSentence))
	if len(picked) == 0 {
		return EmptyDocument
	}
	return "Based on the document content:\n\n" + strings.Join(picked, ". ") + "."
}

// KeyPoints lists sentences spread across doc as a numbered list.
func KeyPoints(doc string) string {
	picked := text.KeyPointSampler.Pick(text.Sentences(doc, minKeyPoint))
	if len(picked) == 0 {
		return NoKeyPoints
	}
	lines := make([]string, len(picked))
	for i, s := range picked {
		lines[i] = fmt.Sprintf("%d. %s", i+1, s)
	}
	return strings.Join(lines, "\n")
}
