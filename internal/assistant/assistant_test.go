package assistant

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/thywilljoshua/pdf-study/internal/ai"
	"github.com/thywilljoshua/pdf-study/internal/logger"
	"github.com/thywilljoshua/pdf-study/internal/questions"
	"github.com/thywilljoshua/pdf-study/internal/summarize"
	"github.com/thywilljoshua/pdf-study/internal/topics"
)

// scripted answers every prompt with the same outcome and records what it
// was asked.
type scripted struct {
	mu      sync.Mutex
	out     ai.Outcome
	prompts []string
	budgets []int
}

func (s *scripted) Generate(ctx context.Context, prompt string, maxTokens int) ai.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append(s.prompts, prompt)
	s.budgets = append(s.budgets, maxTokens)
	return s.out
}

func newTest(out ai.Outcome) (*Assistant, *scripted) {
	gen := &scripted{out: out}
	return New(gen, logger.NewNop()), gen
}

const doc = `Photosynthesis converts light energy into chemical energy inside plant cells.

Chlorophyll absorbs mostly red and blue light while reflecting green wavelengths.

The Calvin cycle fixes carbon dioxide into sugars using ATP and NADPH from the light reactions.

Cellular respiration later releases the stored energy for growth and repair.`

func TestSummarizeRemote(t *testing.T) {
	a, gen := newTest(ai.Ok("  The document explains photosynthesis.  "))
	res, err := a.Summarize(context.Background(), doc, summarize.Brief, summarize.Simple)
	if err != nil {
		t.Fatal(err)
	}
	want := Result{Text: "The document explains photosynthesis.", Source: Remote}
	if diff := cmp.Diff(want, res); diff != "" {
		t.Fatalf("result mismatch (-want +got):\n%s", diff)
	}
	if gen.budgets[0] != summaryTokens {
		t.Errorf("budget = %d", gen.budgets[0])
	}
	p := gen.prompts[0]
	if !strings.Contains(p, "in 2-3 sentences using simple, easy-to-understand language") || !strings.Contains(p, "Calvin cycle") {
		t.Errorf("prompt = %q", p)
	}
}

func TestSummarizeFallsBack(t *testing.T) {
	outcomes := map[string]ai.Outcome{
		"transport": ai.Failed(errors.New("connection refused")),
		"unusable":  ai.Unusable("empty"),
		"echo":      ai.Ok("This appears to be a request for summarization of the text."),
		"blank":     ai.Ok("   "),
	}
	for name, out := range outcomes {
		t.Run(name, func(t *testing.T) {
			a, _ := newTest(out)
			res, err := a.Summarize(context.Background(), doc, summarize.Medium, summarize.Academic)
			if err != nil {
				t.Fatal(err)
			}
			want := Result{Text: summarize.Fallback(doc, summarize.Medium, summarize.Academic), Source: Fallback}
			if diff := cmp.Diff(want, res); diff != "" {
				t.Fatalf("result mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSummarizeUnknownOptions(t *testing.T) {
	a, gen := newTest(ai.Ok("fine"))
	if _, err := a.Summarize(context.Background(), doc, "Epic", "Poetic"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(gen.prompts[0], "in 1-2 paragraphs using formal academic language") {
		t.Fatalf("prompt = %q", gen.prompts[0])
	}
}

func TestEmptyDocument(t *testing.T) {
	a, gen := newTest(ai.Ok("should not be used"))
	ctx := context.Background()

	sum, _ := a.Summarize(ctx, "  \n ", summarize.Brief, summarize.Academic)
	kp, _ := a.KeyPoints(ctx, "")
	ans, _ := a.Answer(ctx, "", "What?")
	exp, _ := a.Explain(ctx, "", "What?")
	tr, _ := a.Translate(ctx, "", "French")
	tp, _ := a.Topics(ctx, "", 5, topics.MainThemes)
	ts, _ := a.Test(ctx, "", 3, questions.Essay, questions.Easy)

	got := []string{sum.Text, kp.Text, ans.Text, exp.Text, tr.Text, tp.Notice, ts.Notice}
	want := []string{summarize.EmptyDocument, NoContent, NoContent, NoContent, EmptyTranslation, NoContent, NoContent}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
	if len(gen.prompts) != 0 {
		t.Fatalf("generator called %d times for an empty document", len(gen.prompts))
	}
	if ts.Requested != 3 || ts.Shortfall() != 3 {
		t.Errorf("test result %+v", ts)
	}
}

func TestKeyPointsFallback(t *testing.T) {
	a, gen := newTest(ai.Failed(errors.New("timeout")))
	res, err := a.KeyPoints(context.Background(), doc)
	if err != nil {
		t.Fatal(err)
	}
	if res.Source != Fallback || res.Text != summarize.KeyPoints(doc) {
		t.Fatalf("result = %+v", res)
	}
	if gen.budgets[0] != keyPointsTokens {
		t.Errorf("budget = %d", gen.budgets[0])
	}
}

func TestAnswer(t *testing.T) {
	t.Run("strips quotes", func(t *testing.T) {
		a, _ := newTest(ai.Ok(`"It fixes carbon."`))
		res, err := a.Answer(context.Background(), doc, "What does the Calvin cycle do?")
		if err != nil {
			t.Fatal(err)
		}
		if res.Text != "It fixes carbon." || res.Source != Remote {
			t.Fatalf("result = %+v", res)
		}
	})
	t.Run("blank question", func(t *testing.T) {
		a, gen := newTest(ai.Ok("x"))
		res, _ := a.Answer(context.Background(), doc, "   ")
		if res.Text != NoQuestion || len(gen.prompts) != 0 {
			t.Fatalf("result = %+v, calls = %d", res, len(gen.prompts))
		}
	})
	t.Run("echo falls back to sections", func(t *testing.T) {
		a, _ := newTest(ai.Ok("This is a question-answering request about plants."))
		res, err := a.Answer(context.Background(), doc, "How does chlorophyll absorb light?")
		if err != nil {
			t.Fatal(err)
		}
		if res.Source != Fallback || !strings.Contains(res.Text, "Chlorophyll absorbs") {
			t.Fatalf("result = %+v", res)
		}
	})
	t.Run("nothing relevant", func(t *testing.T) {
		a, _ := newTest(ai.Failed(errors.New("down")))
		res, _ := a.Answer(context.Background(), doc, "quantum entanglement teleportation")
		if res.Text != AnswerNotFound {
			t.Fatalf("result = %+v", res)
		}
	})
}

func TestExplainNotFoundDescribesDocument(t *testing.T) {
	a, _ := newTest(ai.Unusable("empty"))
	res, err := a.Explain(context.Background(), doc, "quantum entanglement teleportation")
	if err != nil {
		t.Fatal(err)
	}
	want := "I couldn't find specific information about 'quantum entanglement teleportation' in the document. The document appears to discuss: " + summarize.Gist(doc)
	if res.Text != want {
		t.Fatalf("Text = %q", res.Text)
	}
}

func TestTopics(t *testing.T) {
	t.Run("parsed", func(t *testing.T) {
		a, _ := newTest(ai.Ok("1. Light reactions\nCapture energy from light.\nRelevance: High\n2. Carbon fixation\nBuilds sugars.\nRelevance: Low"))
		res, err := a.Topics(context.Background(), doc, 4, topics.KeyConcepts)
		if err != nil {
			t.Fatal(err)
		}
		if res.Source != Remote || len(res.Topics) != 2 {
			t.Fatalf("result = %+v", res)
		}
		if res.Topics[0].Title != "Light reactions" || res.Topics[1].Relevance != topics.Low {
			t.Errorf("topics = %+v", res.Topics)
		}
	})
	t.Run("unparseable", func(t *testing.T) {
		a, _ := newTest(ai.Ok("Plants are green and nice."))
		res, err := a.Topics(context.Background(), doc, 2, topics.MainThemes)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(topics.Segment(doc, 2), res.Topics); diff != "" || res.Source != Fallback {
			t.Fatalf("fallback mismatch (-want +got):\n%s", diff)
		}
	})
	t.Run("no sentences", func(t *testing.T) {
		a, _ := newTest(ai.Failed(errors.New("down")))
		res, _ := a.Topics(context.Background(), "tiny", 3, topics.MainThemes)
		if len(res.Topics) != 0 || res.Notice != NoTopicsNotice {
			t.Fatalf("result = %+v", res)
		}
	})
}

func TestTestQuestions(t *testing.T) {
	t.Run("parsed", func(t *testing.T) {
		a, _ := newTest(ai.Ok("1. What does chlorophyll absorb?\nA) Red and blue light\nB) Only green light\nAnswer: A\nIt reflects green."))
		res, err := a.Test(context.Background(), doc, 5, questions.MultipleChoice, questions.Hard)
		if err != nil {
			t.Fatal(err)
		}
		if res.Source != Remote || len(res.Questions) != 1 || res.Shortfall() != 4 {
			t.Fatalf("result = %+v", res)
		}
		q := res.Questions[0]
		if q.CorrectAnswer != "A" || len(q.Options) != 2 {
			t.Errorf("question = %+v", q)
		}
	})
	t.Run("fallback", func(t *testing.T) {
		a, _ := newTest(ai.Ok("This is a test generation request."))
		res, err := a.Test(context.Background(), doc, 0, questions.ShortAnswer, questions.Easy)
		if err != nil {
			t.Fatal(err)
		}
		want := questions.Synthesize(doc, questions.DefaultCount, questions.ShortAnswer)
		if diff := cmp.Diff(want.Questions, res.Questions); diff != "" {
			t.Fatalf("questions mismatch (-want +got):\n%s", diff)
		}
		if res.Requested != questions.DefaultCount || res.Source != Fallback {
			t.Errorf("result = %+v", res)
		}
	})
}

func TestTranslate(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		a, gen := newTest(ai.Ok("La fotosíntesis convierte la luz en energía."))
		res, err := a.Translate(context.Background(), doc, "Spanish")
		if err != nil {
			t.Fatal(err)
		}
		if res.Source != Remote || gen.budgets[0] != translateTokens {
			t.Fatalf("result = %+v budget = %d", res, gen.budgets[0])
		}
		if !strings.Contains(gen.prompts[0], "Cellular respiration later releases") {
			t.Error("translation prompt does not carry the whole document")
		}
	})
	t.Run("too short", func(t *testing.T) {
		a, _ := newTest(ai.Ok("Hola"))
		res, _ := a.Translate(context.Background(), doc, "Spanish")
		if res.Text != TranslateFailed || res.Source != Fallback {
			t.Fatalf("result = %+v", res)
		}
	})
	t.Run("remote failure on a long document", func(t *testing.T) {
		a, gen := newTest(ai.Failed(errors.New("503 service unavailable")))
		long := strings.Repeat("a", 5000)
		res, err := a.Translate(context.Background(), long, "German")
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(Result{Text: TranslateFailed, Source: Fallback}, res); diff != "" {
			t.Fatalf("result mismatch (-want +got):\n%s", diff)
		}
		if !strings.Contains(gen.prompts[0], long) {
			t.Error("translation prompt does not carry the whole document")
		}
	})
}

func TestQuestionWithoutSearchTerms(t *testing.T) {
	a, _ := newTest(ai.Failed(errors.New("down")))
	ans, err := a.Answer(context.Background(), doc, "What is this?")
	if err != nil {
		t.Fatal(err)
	}
	exp, err := a.Explain(context.Background(), doc, "What is this?")
	if err != nil {
		t.Fatal(err)
	}
	if ans.Text != NoSearchTerms || exp.Text != NoSearchTerms {
		t.Fatalf("answer = %q, explain = %q", ans.Text, exp.Text)
	}
	// A searchable question that matches nothing keeps the not-found reply.
	miss, _ := a.Answer(context.Background(), doc, "volcanic tectonics")
	if miss.Text != AnswerNotFound {
		t.Fatalf("miss = %q", miss.Text)
	}
}

func TestNewDefaults(t *testing.T) {
	a := New(nil, nil)
	res, err := a.Summarize(context.Background(), doc, summarize.Brief, summarize.Academic)
	if err != nil {
		t.Fatal(err)
	}
	if res.Source != Fallback {
		t.Fatalf("result = %+v", res)
	}
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	a, _ := newTest(ai.Failed(context.Canceled))
	if _, err := a.Summarize(ctx, doc, summarize.Brief, summarize.Academic); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
	if _, err := a.Report(ctx, doc, ReportOptions{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("report err = %v", err)
	}
}

func TestKeywords(t *testing.T) {
	a, gen := newTest(ai.Ok("unused"))
	res := a.Keywords(doc)
	if res.Source != Fallback || !strings.Contains(res.Text, "energy") {
		t.Fatalf("result = %+v", res)
	}
	if len(gen.prompts) != 0 {
		t.Fatal("keywords called the generator")
	}
}

func TestQuickQuestion(t *testing.T) {
	q, err := QuickQuestion(2)
	if err != nil || q != "What are the key conclusions?" {
		t.Fatalf("QuickQuestion(2) = %q, %v", q, err)
	}
	if _, err := QuickQuestion(5); err == nil {
		t.Fatal("expected out of range error")
	}
}

func TestReport(t *testing.T) {
	a, gen := newTest(ai.Failed(errors.New("down")))
	rep, err := a.Report(context.Background(), doc, ReportOptions{Length: summarize.Brief, Style: summarize.Academic, Topics: 2, Questions: 3, Parallel: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(rep.ID) != 26 {
		t.Errorf("ID = %q", rep.ID)
	}
	if len(gen.prompts) != 4 {
		t.Errorf("generator calls = %d, want 4", len(gen.prompts))
	}
	if rep.Test.Requested != 3 || rep.Test.Source != Fallback {
		t.Errorf("test = %+v", rep.Test)
	}
	md := rep.Markdown("photosynthesis.pdf")
	for _, want := range []string{"# Study report: photosynthesis.pdf", "## Summary", "## Key points", "## Topics", "## Practice questions", "## Keywords", rep.Summary.Text} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}
