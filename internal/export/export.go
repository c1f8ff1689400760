// Package export renders topics, tests, summaries and translations as the
// downloadable TXT and JSON files users keep next to their PDFs.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/thywilljoshua/pdf-study/internal/questions"
	"github.com/thywilljoshua/pdf-study/internal/topics"
)

type Format string

const (
	TXT  Format = "txt"
	JSON Format = "json"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case TXT, JSON:
		return f, nil
	}
	return "", fmt.Errorf("unknown export format %q (expected txt or json)", s)
}

// TopicsText lays topics out as numbered blocks.
func TopicsText(ts []topics.Topic) string {
	blocks := make([]string, 0, len(ts))
	for i, t := range ts {
		var b strings.Builder
		fmt.Fprintf(&b, "%d. %s\n%s\nKey Points:\n", i+1, t.Title, t.Description)
		points := make([]string, len(t.KeyPoints))
		for j, p := range t.KeyPoints {
			points[j] = "- " + p
		}
		b.WriteString(strings.Join(points, "\n"))
		fmt.Fprintf(&b, "\nRelevance: %s\n", t.Relevance)
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n")
}

// TestText renders a printable test sheet headed by the document name.
func TestText(name string, qs []questions.Question) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Test Questions - %s\n", name)
	b.WriteString(strings.Repeat("=", 50) + "\n\n")
	for i, q := range qs {
		fmt.Fprintf(&b, "Question %d: %s\n", i+1, q.Question)
		if q.Type == questions.MultipleChoice.Key() && len(q.Options) > 0 {
			for j, opt := range q.Options {
				fmt.Fprintf(&b, "%c. %s\n", 'A'+j, opt)
			}
			answer := q.CorrectAnswer
			if answer == "" {
				answer = "Not specified"
			}
			fmt.Fprintf(&b, "Correct Answer: %s\n", answer)
		}
		if q.Explanation != "" {
			fmt.Fprintf(&b, "Explanation: %s\n", q.Explanation)
		}
		b.WriteString("\n" + strings.Repeat("-", 30) + "\n\n")
	}
	return b.String()
}

// MarshalJSON encodes v with two-space indentation and without escaping
// HTML characters, which are common in extracted text.
func MarshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Topics renders ts in format f.
func Topics(ts []topics.Topic, f Format) ([]byte, error) {
	if f == JSON {
		if ts == nil {
			ts = []topics.Topic{}
		}
		return MarshalJSON(ts)
	}
	return []byte(TopicsText(ts)), nil
}

// Test renders qs in format f. name heads the TXT sheet.
func Test(name string, qs []questions.Question, f Format) ([]byte, error) {
	if f == JSON {
		if qs == nil {
			qs = []questions.Question{}
		}
		return MarshalJSON(qs)
	}
	return []byte(TestText(name, qs)), nil
}

// minTranslation is the length a translation must exceed to be saved.
const minTranslation = 50

// CanExportTranslation rejects apologies and error messages, which are
// short or mention an error.
func CanExportTranslation(s string) bool {
	return s != "" && !strings.Contains(strings.ToLower(s), "error") && len(s) > minTranslation
}

var nonSlug = regexp.MustCompile(`[^a-z0-9\-]+`)

func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = nonSlug.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	return s
}

// FileName builds "<kind>_<slug>.<ext>" from a document path, e.g.
// FileName("topics", "Cell Biology.pdf", TXT) is "topics_cell-biology.txt".
func FileName(kind, doc string, f Format) string {
	base := filepath.Base(doc)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	slug := slugify(base)
	if slug == "" {
		slug = "document"
	}
	return kind + "_" + slug + "." + string(f)
}

// TranslationFileName keeps the language name as typed, e.g.
// "translation_Spanish.txt".
func TranslationFileName(lang string) string {
	lang = strings.Join(strings.Fields(lang), "_")
	if lang == "" {
		lang = "unknown"
	}
	return "translation_" + lang + ".txt"
}

// Write stores data at path, creating parent directories.
func Write(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
