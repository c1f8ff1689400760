package pdf

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestOutline(t *testing.T) {
	s := `Contents
1 Introduction ........ 1
1.1 Background . . . . 2
2. Methods 5
Appendix A Raw data 40
IV.2 Discussion 31
This line has no page number
`
	want := []Heading{
		{Number: "1", Title: "Introduction", Page: 1, Depth: 1},
		{Number: "1.1", Title: "Background", Page: 2, Depth: 2},
		{Number: "2", Title: "Methods", Page: 5, Depth: 1},
		{Number: "A", Title: "Raw data", Page: 40, Depth: 1},
		{Number: "IV.2", Title: "Discussion", Page: 31, Depth: 2},
	}
	if diff := cmp.Diff(want, Outline(s)); diff != "" {
		t.Fatalf("Outline mismatch (-want +got):\n%s", diff)
	}
}

func TestOutlineNone(t *testing.T) {
	if got := Outline("Plain prose without any contents listing."); got != nil {
		t.Fatalf("Outline = %v", got)
	}
}
