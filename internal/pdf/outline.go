package pdf

import (
	"regexp"
	"strconv"
	"strings"
)

// Heading is one table-of-contents line found in extracted text.
type Heading struct {
	Number string `json:"number"`
	Title  string `json:"title"`
	Page   int    `json:"page"`
	Depth  int    `json:"depth"`
}

var (
	numberedRe = regexp.MustCompile(`^(\d+(?:\.\d+)*)\.?\s+(.+?)\s+(\d+)$`)
	appendixRe = regexp.MustCompile(`^(?i:appendix)\s+([A-Z](?:\.\d+)*)\s+(.+?)\s+(\d+)$`)
	romanRe    = regexp.MustCompile(`^([IVXLC]+)(?:\.(\d+))?\.?\s+(.+?)\s+(\d+)$`)
	leaders    = regexp.MustCompile(`(?:\s*[.·•…]\s*){3,}`)
)

// maxOutline bounds how many lines of a document are scanned.
const maxOutline = 400

// Outline finds table-of-contents style lines ("2.1 Methods ..... 14") in
// the first lines of s. Entries keep document order.
func Outline(s string) []Heading {
	lines := strings.Split(s, "\n")
	if len(lines) > maxOutline {
		lines = lines[:maxOutline]
	}
	var out []Heading
	for _, ln := range lines {
		ln = strings.Join(strings.Fields(leaders.ReplaceAllString(ln, " ")), " ")
		if h, ok := parseHeading(ln); ok {
			out = append(out, h)
		}
	}
	return out
}

func parseHeading(ln string) (Heading, bool) {
	if m := appendixRe.FindStringSubmatch(ln); m != nil {
		return heading(m[1], m[2], m[3], strings.Count(m[1], ".")+1)
	}
	if m := numberedRe.FindStringSubmatch(ln); m != nil {
		return heading(m[1], m[2], m[3], strings.Count(m[1], ".")+1)
	}
	if m := romanRe.FindStringSubmatch(ln); m != nil {
		num, depth := m[1], 1
		if m[2] != "" {
			num, depth = num+"."+m[2], 2
		}
		return heading(num, m[3], m[4], depth)
	}
	return Heading{}, false
}

func heading(num, title, page string, depth int) (Heading, bool) {
	p, err := strconv.Atoi(page)
	if err != nil || p <= 0 {
		return Heading{}, false
	}
	return Heading{Number: num, Title: strings.TrimSpace(title), Page: p, Depth: depth}, true
}
