package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thywilljoshua/pdf-study/internal/assistant"
	"github.com/thywilljoshua/pdf-study/internal/export"
	"github.com/thywilljoshua/pdf-study/internal/pdf"
	"github.com/thywilljoshua/pdf-study/internal/questions"
	"github.com/thywilljoshua/pdf-study/internal/summarize"
	"github.com/thywilljoshua/pdf-study/internal/text"
	"github.com/thywilljoshua/pdf-study/internal/topics"
)

const (
	previewLen   = 1200
	chunkWords   = 500
	chunkOverlap = 100
)

func infoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info <file>",
		Short: "Show document metadata and extraction statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			m := doc.Metadata
			var b strings.Builder
			fmt.Fprintf(&b, "Title:         %s\n", m.Title)
			fmt.Fprintf(&b, "Author:        %s\n", m.Author)
			fmt.Fprintf(&b, "Subject:       %s\n", m.Subject)
			fmt.Fprintf(&b, "Creator:       %s\n", m.Creator)
			fmt.Fprintf(&b, "Producer:      %s\n", m.Producer)
			fmt.Fprintf(&b, "Created:       %s\n", m.CreationDate)
			fmt.Fprintf(&b, "Pages:         %d (%d processed)\n", m.Pages, doc.Processed)
			if len(doc.Skipped) > 0 {
				fmt.Fprintf(&b, "Skipped pages: %v\n", doc.Skipped)
			}
			fmt.Fprintf(&b, "Characters:    %d\n", text.Len(doc.Text))
			fmt.Fprintf(&b, "Words:         %d\n", len(strings.Fields(doc.Text)))
			chunks := text.Chunk(doc.Text, chunkWords, chunkOverlap)
			fmt.Fprintf(&b, "Chunks:        %d of %d words", len(chunks), chunkWords)
			outline := pdf.Outline(doc.Text)
			if len(outline) > 0 {
				b.WriteString("\nOutline:")
				for _, h := range outline {
					fmt.Fprintf(&b, "\n  %s%s %s (p. %d)", strings.Repeat("  ", h.Depth-1), h.Number, h.Title, h.Page)
				}
			}
			preview := text.Cut(doc.Text, previewLen)
			if preview != "" {
				fmt.Fprintf(&b, "\n\n%s", preview)
				if text.Len(doc.Text) > previewLen {
					b.WriteString("...")
				}
			}
			v := struct {
				Metadata   pdf.Metadata  `json:"metadata"`
				Processed  int           `json:"processed_pages"`
				Skipped    []int         `json:"skipped_pages,omitempty"`
				Characters int           `json:"characters"`
				Chunks     int           `json:"chunks"`
				Outline    []pdf.Heading `json:"outline,omitempty"`
				Preview    string        `json:"preview"`
			}{m, doc.Processed, doc.Skipped, text.Len(doc.Text), len(chunks), outline, preview}
			return a.emit(cmd.OutOrStdout(), v, b.String())
		},
	}
}

func keywordsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "keywords <file>",
		Short: "List recurring terms without calling the model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			res := a.asst.Keywords(doc.Text)
			return a.emit(cmd.OutOrStdout(), res, res.Text)
		},
	}
}

func summarizeCmd(a *app) *cobra.Command {
	var length, style, out string
	cmd := &cobra.Command{
		Use:   "summarize <file>",
		Short: "Summarize the document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := summarize.ParseLength(length)
			if err != nil {
				return err
			}
			st, err := summarize.ParseStyle(style)
			if err != nil {
				return err
			}
			doc, err := a.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			res, err := a.asst.Summarize(cmd.Context(), doc.Text, l, st)
			if err != nil {
				return err
			}
			if err := a.result(cmd, res); err != nil || out == "" {
				return err
			}
			return a.save(cmd, out, export.FileName("summary", args[0], export.TXT), []byte(res.Text))
		},
	}
	cmd.Flags().StringVar(&length, "length", string(summarize.Medium), "summary length: Brief|Medium|Detailed")
	cmd.Flags().StringVar(&style, "style", string(summarize.Academic), "summary style: Academic|Simple|Bullet-Points")
	cmd.Flags().StringVarP(&out, "out", "o", "", "directory to save the summary in")
	return cmd
}

func keyPointsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "keypoints <file>",
		Short: "List the key points of the document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			res, err := a.asst.KeyPoints(cmd.Context(), doc.Text)
			if err != nil {
				return err
			}
			return a.result(cmd, res)
		},
	}
}

func topicsCmd(a *app) *cobra.Command {
	var count int
	var kind, format, out string
	cmd := &cobra.Command{
		Use:   "topics <file>",
		Short: "Extract structured topics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := topics.ParseType(kind)
			if err != nil {
				return err
			}
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			doc, err := a.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			res, err := a.asst.Topics(cmd.Context(), doc.Text, count, t)
			if err != nil {
				return err
			}
			if len(res.Topics) == 0 {
				return a.emit(cmd.OutOrStdout(), res, res.Notice)
			}
			if err := a.emit(cmd.OutOrStdout(), res, export.TopicsText(res.Topics)); err != nil {
				return err
			}
			if out == "" {
				return nil
			}
			data, err := export.Topics(res.Topics, f)
			if err != nil {
				return err
			}
			return a.save(cmd, out, export.FileName("topics", args[0], f), data)
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", topics.DefaultCount, "number of topics")
	cmd.Flags().StringVar(&kind, "type", string(topics.MainThemes), "topic type: Main-Themes|Key-Concepts|Technical-Terms|Study-Points")
	cmd.Flags().StringVar(&format, "format", string(export.TXT), "export format: txt|json")
	cmd.Flags().StringVarP(&out, "out", "o", "", "directory to save the topics in")
	return cmd
}

func askCmd(a *app) *cobra.Command {
	var quick int
	cmd := &cobra.Command{
		Use:   "ask <file> [question]",
		Short: "Answer a question about the document",
		Long: "Answer a question about the document. With --quick N one of the preset questions is asked:\n\n" +
			numbered(assistant.QuickQuestions),
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var q string
			switch {
			case quick > 0:
				var err error
				if q, err = assistant.QuickQuestion(quick); err != nil {
					return err
				}
			case len(args) == 2:
				q = args[1]
			default:
				return fmt.Errorf("a question or --quick is required")
			}
			doc, err := a.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			res, err := a.asst.Answer(cmd.Context(), doc.Text, q)
			if err != nil {
				return err
			}
			return a.result(cmd, res)
		},
	}
	cmd.Flags().IntVar(&quick, "quick", 0, "ask preset question N")
	return cmd
}

func explainCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "explain <file> <concept>",
		Short: "Explain a concept using the document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			res, err := a.asst.Explain(cmd.Context(), doc.Text, args[1])
			if err != nil {
				return err
			}
			return a.result(cmd, res)
		},
	}
}

func testCmd(a *app) *cobra.Command {
	var count int
	var kind, difficulty, format, out string
	cmd := &cobra.Command{
		Use:   "test <file>",
		Short: "Generate practice questions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			qt, err := questions.ParseType(kind)
			if err != nil {
				return err
			}
			d, err := questions.ParseDifficulty(difficulty)
			if err != nil {
				return err
			}
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			doc, err := a.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			res, err := a.asst.Test(cmd.Context(), doc.Text, count, qt, d)
			if err != nil {
				return err
			}
			if n := res.Shortfall(); n > 0 && len(res.Questions) > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "only %d of %d questions could be generated\n", len(res.Questions), res.Requested)
			}
			if len(res.Questions) == 0 {
				return a.emit(cmd.OutOrStdout(), res, res.Notice)
			}
			name := filepath.Base(args[0])
			if err := a.emit(cmd.OutOrStdout(), res, export.TestText(name, res.Questions)); err != nil {
				return err
			}
			if out == "" {
				return nil
			}
			data, err := export.Test(name, res.Questions, f)
			if err != nil {
				return err
			}
			return a.save(cmd, out, export.FileName("test", args[0], f), data)
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", questions.DefaultCount, "number of questions")
	cmd.Flags().StringVar(&kind, "type", string(questions.MultipleChoice), "question type: Multiple-Choice|Short-Answer|Essay|Mixed")
	cmd.Flags().StringVar(&difficulty, "difficulty", string(questions.Medium), "difficulty: Easy|Medium|Hard|Mixed")
	cmd.Flags().StringVar(&format, "format", string(export.TXT), "export format: txt|json")
	cmd.Flags().StringVarP(&out, "out", "o", "", "directory to save the test in")
	return cmd
}

func translateCmd(a *app) *cobra.Command {
	var lang, out string
	cmd := &cobra.Command{
		Use:   "translate <file>",
		Short: "Translate the whole document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			res, err := a.asst.Translate(cmd.Context(), doc.Text, lang)
			if err != nil {
				return err
			}
			if err := a.result(cmd, res); err != nil {
				return err
			}
			if out == "" {
				return nil
			}
			if !export.CanExportTranslation(res.Text) {
				fmt.Fprintln(cmd.ErrOrStderr(), "translation not saved")
				return nil
			}
			return a.save(cmd, out, export.TranslationFileName(lang), []byte(res.Text))
		},
	}
	cmd.Flags().StringVarP(&lang, "lang", "l", assistant.Languages[0], "target language")
	cmd.Flags().StringVarP(&out, "out", "o", "", "directory to save the translation in")
	return cmd
}

func reportCmd(a *app) *cobra.Command {
	var opts assistant.ReportOptions
	var length, style, kind, qkind, difficulty, out string
	cmd := &cobra.Command{
		Use:   "report <file>",
		Short: "Build a study report with summary, key points, topics and keywords",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if opts.Length, err = summarize.ParseLength(length); err != nil {
				return err
			}
			if opts.Style, err = summarize.ParseStyle(style); err != nil {
				return err
			}
			if opts.TopicType, err = topics.ParseType(kind); err != nil {
				return err
			}
			if opts.QuestionType, err = questions.ParseType(qkind); err != nil {
				return err
			}
			if opts.Difficulty, err = questions.ParseDifficulty(difficulty); err != nil {
				return err
			}
			doc, err := a.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			rep, err := a.asst.Report(cmd.Context(), doc.Text, opts)
			if err != nil {
				return err
			}
			md := rep.Markdown(filepath.Base(args[0]))
			if err := a.emit(cmd.OutOrStdout(), rep, md); err != nil {
				return err
			}
			if out == "" {
				return nil
			}
			return a.save(cmd, out, export.FileName("report", args[0], "md"), []byte(md))
		},
	}
	cmd.Flags().StringVar(&length, "length", string(summarize.Medium), "summary length")
	cmd.Flags().StringVar(&style, "style", string(summarize.Academic), "summary style")
	cmd.Flags().StringVar(&kind, "type", string(topics.MainThemes), "topic type")
	cmd.Flags().IntVarP(&opts.Topics, "topics", "n", topics.DefaultCount, "number of topics")
	cmd.Flags().IntVar(&opts.Questions, "questions", 5, "number of practice questions")
	cmd.Flags().StringVar(&qkind, "question-type", string(questions.MultipleChoice), "question type")
	cmd.Flags().StringVar(&difficulty, "difficulty", string(questions.Medium), "question difficulty")
	cmd.Flags().IntVar(&opts.Parallel, "parallel", 0, "maximum concurrent model requests (0 = no limit)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "directory to save the markdown report in")
	return cmd
}

func languagesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List the offered translation languages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.emit(cmd.OutOrStdout(), assistant.Languages, strings.Join(assistant.Languages, "\n"))
		},
	}
}

func numbered(items []string) string {
	var b strings.Builder
	for i, s := range items {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, s)
	}
	return b.String()
}
