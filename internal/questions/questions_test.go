package questions

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const longSentence = "The mitochondria of eukaryotic cells produce most of the chemical energy needed"

func TestSynthesize(t *testing.T) {
	doc := longSentence + ". " +
		"Short sentence that has too few words here. " +
		"Photosynthesis in green plants converts sunlight into sugars for growth and storage."
	set := Synthesize(doc, 5, ShortAnswer)

	if set.Requested != 5 || set.Skipped != 1 {
		t.Fatalf("Requested=%d Skipped=%d", set.Requested, set.Skipped)
	}
	if set.Shortfall() != 3 {
		t.Fatalf("Shortfall = %d, want 3", set.Shortfall())
	}
	want := []Question{
		{
			Question:     "What is eukaryotic cells produce most of?",
			Type:         "short_answer",
			Explanation:  "This question is based on: " + longSentence + "...",
			SampleAnswer: longSentence,
		},
		{
			// The template follows the sentence index, so the skipped
			// sentence still advances it.
			Question:     "How does plants converts sunlight into sugars work?",
			Type:         "short_answer",
			Explanation:  "This question is based on: Photosynthesis in green plants converts sunlight into sugars for growth and storage...",
			SampleAnswer: "Photosynthesis in green plants converts sunlight into sugars for growth and storage",
		},
	}
	if diff := cmp.Diff(want, set.Questions); diff != "" {
		t.Fatalf("questions mismatch (-want +got):\n%s", diff)
	}
}

func TestSynthesizeCapsAtCount(t *testing.T) {
	doc := strings.Repeat(longSentence+". ", 12)
	set := Synthesize(doc, 10, MultipleChoice)
	if len(set.Questions) != 10 || set.Shortfall() != 0 {
		t.Fatalf("got %d questions, shortfall %d", len(set.Questions), set.Shortfall())
	}
	for i, q := range set.Questions {
		if q.Type != "multiple_choice" {
			t.Fatalf("question %d type %q", i, q.Type)
		}
	}
	if !strings.HasPrefix(set.Questions[4].Question, "Describe the importance of ") {
		t.Errorf("fifth template = %q", set.Questions[4].Question)
	}
	if !strings.HasPrefix(set.Questions[5].Question, "What is ") {
		t.Errorf("templates should cycle, got %q", set.Questions[5].Question)
	}
}

func TestSynthesizeEmpty(t *testing.T) {
	set := Synthesize("", 5, Essay)
	if len(set.Questions) != 0 || set.Shortfall() != 5 {
		t.Fatalf("unexpected set %+v", set)
	}
}

func TestParseMultipleChoice(t *testing.T) {
	resp := `Question 1: What organelle produces ATP?
A) Nucleus
B) Mitochondria
C) Ribosome
D) Golgi apparatus
Correct answer: B
Mitochondria host oxidative phosphorylation.

Question 2: Which molecule stores genetic information?`

	got := Parse(resp, 10, MultipleChoice)
	want := []Question{
		{
			Question:      "What organelle produces ATP?",
			Type:          "multiple_choice",
			Explanation:   "Mitochondria host oxidative phosphorylation.",
			Options:       []string{"Nucleus", "Mitochondria", "Ribosome", "Golgi apparatus"},
			CorrectAnswer: "B",
		},
		{
			Question:    "Which molecule stores genetic information?",
			Type:        "multiple_choice",
			Explanation: NoExplanation,
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Parse mismatch (-want +got):\n%s", diff)
	}
}

func TestParseEssayKeepsLines(t *testing.T) {
	resp := "1. Discuss the causes of the war\nConsider economic factors\nA) mention alliances\nThird line"
	got := Parse(resp, 3, Essay)
	if len(got) != 1 {
		t.Fatalf("got %d questions", len(got))
	}
	if got[0].Explanation != "Consider economic factors A) mention alliances" {
		t.Errorf("explanation = %q", got[0].Explanation)
	}
	if got[0].Options != nil {
		t.Errorf("essay questions carry no options")
	}
}

func TestParseFailure(t *testing.T) {
	if Parse("I cannot help with that.", 5, Essay) != nil {
		t.Fatal("expected nil for unnumbered response")
	}
}

func TestParseTypeAndDifficulty(t *testing.T) {
	if ty, err := ParseType("multiple_choice"); err != nil || ty != MultipleChoice {
		t.Fatalf("ParseType = %v, %v", ty, err)
	}
	if ty, err := ParseType("short answer"); err != nil || ty != ShortAnswer {
		t.Fatalf("ParseType = %v, %v", ty, err)
	}
	if _, err := ParseType("riddle"); err == nil {
		t.Fatal("expected error")
	}
	if d, err := ParseDifficulty("HARD"); err != nil || d != Hard {
		t.Fatalf("ParseDifficulty = %v, %v", d, err)
	}
}
