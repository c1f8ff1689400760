package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"

	"github.com/thywilljoshua/pdf-study/internal/questions"
	"github.com/thywilljoshua/pdf-study/internal/summarize"
	"github.com/thywilljoshua/pdf-study/internal/topics"
)

// ReportOptions selects what goes into a study report. Zero values take the
// task defaults.
type ReportOptions struct {
	Length       summarize.Length
	Style        summarize.Style
	Topics       int
	TopicType    topics.Type
	Questions    int
	QuestionType questions.Type
	Difficulty   questions.Difficulty
	// Parallel bounds the number of tasks in flight. Zero means all at once.
	Parallel int
}

// Report bundles everything a study session produces for one document.
type Report struct {
	ID        string       `json:"id"`
	Summary   Result       `json:"summary"`
	KeyPoints Result       `json:"key_points"`
	Topics    TopicsResult `json:"topics"`
	Test      TestResult   `json:"test"`
	Keywords  Result       `json:"keywords"`
}

// Report runs the study tasks concurrently. A task that falls back still
// contributes its fallback; only a cancelled ctx fails the report.
func (a *Assistant) Report(ctx context.Context, doc string, opts ReportOptions) (*Report, error) {
	rep := &Report{ID: ulid.Make().String()}
	g, ctx := errgroup.WithContext(ctx)
	if opts.Parallel > 0 {
		g.SetLimit(opts.Parallel)
	}
	g.Go(func() error {
		var err error
		rep.Summary, err = a.Summarize(ctx, doc, opts.Length, opts.Style)
		return err
	})
	g.Go(func() error {
		var err error
		rep.KeyPoints, err = a.KeyPoints(ctx, doc)
		return err
	})
	g.Go(func() error {
		var err error
		rep.Topics, err = a.Topics(ctx, doc, opts.Topics, opts.TopicType)
		return err
	})
	g.Go(func() error {
		var err error
		rep.Test, err = a.Test(ctx, doc, opts.Questions, opts.QuestionType, opts.Difficulty)
		return err
	})
	rep.Keywords = a.Keywords(doc)
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("report %s: %w", rep.ID, err)
	}
	a.log.Info("report %s: summary=%s key_points=%s topics=%s test=%s",
		rep.ID, rep.Summary.Source, rep.KeyPoints.Source, rep.Topics.Source, rep.Test.Source)
	return rep, nil
}

// Markdown renders the report under a heading naming the document.
func (r *Report) Markdown(name string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Study report: %s\n\n", name)
	fmt.Fprintf(&b, "## Summary\n\n%s\n\n", r.Summary.Text)
	fmt.Fprintf(&b, "## Key points\n\n%s\n\n", r.KeyPoints.Text)
	b.WriteString("## Topics\n\n")
	if len(r.Topics.Topics) == 0 {
		fmt.Fprintf(&b, "%s\n\n", r.Topics.Notice)
	}
	for i, t := range r.Topics.Topics {
		fmt.Fprintf(&b, "### %d. %s\n\n", i+1, t.Title)
		if t.Description != "" {
			fmt.Fprintf(&b, "%s\n\n", t.Description)
		}
		for _, p := range t.KeyPoints {
			fmt.Fprintf(&b, "- %s\n", p)
		}
		if len(t.KeyPoints) > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "Relevance: %s\n\n", t.Relevance)
	}
	b.WriteString("## Practice questions\n\n")
	if len(r.Test.Questions) == 0 {
		fmt.Fprintf(&b, "%s\n\n", r.Test.Notice)
	}
	for i, q := range r.Test.Questions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, q.Question)
		for j, o := range q.Options {
			fmt.Fprintf(&b, "   %c) %s\n", 'A'+j, o)
		}
		if q.CorrectAnswer != "" {
			fmt.Fprintf(&b, "   Answer: %s\n", q.CorrectAnswer)
		}
	}
	if len(r.Test.Questions) > 0 {
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "## Keywords\n\n%s\n", r.Keywords.Text)
	return b.String()
}
