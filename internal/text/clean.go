package text

import (
	"regexp"
	"strings"
)

var (
	spaceBeforeEnd = regexp.MustCompile(`\s+([.,;:!?])`)
	brokenHyphen   = regexp.MustCompile(`([\p{L}\p{N}])-\s+([\p{L}\p{N}])`)
)

// Clean collapses whitespace, removes spaces in front of punctuation and
// joins words hyphenated across a line break.
func Clean(s string) string {
	if s == "" {
		return ""
	}
	s = strings.Join(strings.Fields(s), " ")
	s = spaceBeforeEnd.ReplaceAllString(s, "$1")
	s = brokenHyphen.ReplaceAllString(s, "$1$2")
	return strings.TrimSpace(s)
}

// CleanParagraphs runs Clean over every paragraph and keeps the blank-line
// boundaries between them.
func CleanParagraphs(s string) string {
	paras := Paragraphs(s)
	for i, p := range paras {
		paras[i] = Clean(p)
	}
	return strings.Join(paras, "\n\n")
}

// Chunk splits s into windows of size words that overlap by overlap words.
func Chunk(s string, size, overlap int) []string {
	words := strings.Fields(s)
	if size <= 0 {
		return nil
	}
	step := size - overlap
	if step <= 0 {
		step = size
	}
	var chunks []string
	for i := 0; i < len(words); i += step {
		end := i + size
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[i:end], " "))
	}
	return chunks
}
