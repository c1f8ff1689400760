// Package assistant answers study tasks about a document. Each task first
// asks the remote generator and falls back to local lexical analysis when
// the call fails or the answer is unusable.
package assistant

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/thywilljoshua/pdf-study/internal/ai"
	"github.com/thywilljoshua/pdf-study/internal/keywords"
	"github.com/thywilljoshua/pdf-study/internal/logger"
	"github.com/thywilljoshua/pdf-study/internal/questions"
	"github.com/thywilljoshua/pdf-study/internal/relevance"
	"github.com/thywilljoshua/pdf-study/internal/summarize"
	"github.com/thywilljoshua/pdf-study/internal/text"
	"github.com/thywilljoshua/pdf-study/internal/topics"
)

// Source tells whether a result came from the model or from local analysis.
type Source string

const (
	Remote   Source = "remote"
	Fallback Source = "fallback"
)

// Messages returned instead of an analysis.
const (
	NoContent        = "I couldn't find any content to analyze. Please make sure the PDF was uploaded correctly."
	NoQuestion       = "I couldn't identify the specific question. Please rephrase your question."
	AnswerNotFound   = "I couldn't find specific information about your question in the provided content. Please try rephrasing your question or check if the topic is covered in the document."
	NoSearchTerms    = "I couldn't determine what to look for in your question. Please rephrase it with more specific terms."
	EmptyTranslation = "Error: Cannot translate empty content."
	TranslateFailed  = "I encountered an issue trying to translate. Please try again."
	NoTopicsNotice   = "Could not generate topics from the available content."
	NoQuestionNotice = "Could not generate questions from the available content."
)

// digestContent is how much of the document the keyword digest reads.
const digestContent = 5000

// Model answers that echo one of these were produced by a degenerate
// template and are discarded.
var echoMarkers = []string{
	"This appears to be a request for summarization",
	"This is a topic extraction request",
	"This is a question-answering request",
	"This is a test generation request",
}

// QuickQuestions are the one-click questions offered for every document.
var QuickQuestions = []string{
	"What is the main topic of this document?",
	"What are the key conclusions?",
	"Can you explain the methodology used?",
	"What are the important definitions mentioned?",
}

// Languages are the translation targets offered by default. Other names
// are passed to the model as given.
var Languages = []string{"Spanish", "French", "German", "Chinese", "Japanese", "Russian", "Arabic", "Portuguese", "Hindi"}

type Result struct {
	Text   string `json:"text"`
	Source Source `json:"source"`
}

type TopicsResult struct {
	Topics []topics.Topic `json:"topics"`
	Source Source         `json:"source"`
	// Notice explains an empty Topics list.
	Notice string `json:"notice,omitempty"`
}

type TestResult struct {
	Questions []questions.Question `json:"questions"`
	Requested int                  `json:"requested"`
	Source    Source               `json:"source"`
	Notice    string               `json:"notice,omitempty"`
}

// Shortfall is how many fewer questions than requested were produced.
func (r TestResult) Shortfall() int {
	if d := r.Requested - len(r.Questions); d > 0 {
		return d
	}
	return 0
}

// Assistant runs study tasks against one generator. It holds no per-document
// state and is safe for concurrent use.
type Assistant struct {
	gen ai.Generator
	log logger.Logger
}

func New(gen ai.Generator, log logger.Logger) *Assistant {
	if gen == nil {
		gen = ai.Noop{}
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Assistant{gen: gen, log: log}
}

// QuickQuestion returns the 1-based quick question n.
func QuickQuestion(n int) (string, error) {
	if n < 1 || n > len(QuickQuestions) {
		return "", fmt.Errorf("quick question %d out of range 1-%d", n, len(QuickQuestions))
	}
	return QuickQuestions[n-1], nil
}

// generate asks the model and reports whether its answer passed valid. The
// error is non-nil only when ctx ended.
func (a *Assistant) generate(ctx context.Context, task, prompt string, maxTokens int, valid func(string) bool) (string, bool, error) {
	id := ulid.Make().String()
	a.log.Debug("[%s] %s: remote request, %d prompt chars, %d tokens", id, task, len(prompt), maxTokens)
	out := a.gen.Generate(ctx, prompt, maxTokens)
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	if out.Usable() {
		if valid(out.Text) {
			a.log.Debug("[%s] %s: remote answer accepted", id, task)
			return out.Text, true, nil
		}
		out = ai.Unusable("failed validation")
	}
	a.log.Warn("[%s] %s: using local fallback (%s: %s)", id, task, out.Kind, out.Reason)
	return "", false, nil
}

// usable rejects blank answers and answers that echo a fallback marker.
func usable(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	for _, m := range echoMarkers {
		if strings.Contains(s, m) {
			return false
		}
	}
	return true
}

func usableTranslation(s string) bool {
	return text.Len(strings.TrimSpace(s)) >= 10
}

func isEmpty(doc string) bool { return text.IsBlank(doc) }

// Summarize writes a summary of doc of the requested length and style.
func (a *Assistant) Summarize(ctx context.Context, doc string, l summarize.Length, st summarize.Style) (Result, error) {
	if isEmpty(doc) {
		return Result{Text: summarize.EmptyDocument, Source: Fallback}, nil
	}
	if _, ok := lengthInstructions[l]; !ok {
		l = summarize.Medium
	}
	if _, ok := styleInstructions[st]; !ok {
		st = summarize.Academic
	}
	out, ok, err := a.generate(ctx, "summarize", buildSummaryPrompt(text.Cut(doc, summaryContent), l, st), summaryTokens, usable)
	if err != nil {
		return Result{}, err
	}
	if ok {
		return Result{Text: strings.TrimSpace(out), Source: Remote}, nil
	}
	return Result{Text: summarize.Fallback(doc, l, st), Source: Fallback}, nil
}

// KeyPoints lists the main points of doc.
func (a *Assistant) KeyPoints(ctx context.Context, doc string) (Result, error) {
	if isEmpty(doc) {
		return Result{Text: NoContent, Source: Fallback}, nil
	}
	out, ok, err := a.generate(ctx, "key points", buildKeyPointsPrompt(text.Cut(doc, keyPointsContent)), keyPointsTokens, usable)
	if err != nil {
		return Result{}, err
	}
	if ok {
		return Result{Text: strings.TrimSpace(out), Source: Remote}, nil
	}
	return Result{Text: summarize.KeyPoints(doc), Source: Fallback}, nil
}

// Topics extracts up to n topics of kind t. A model answer that does not
// parse into topics is treated like a failed call.
func (a *Assistant) Topics(ctx context.Context, doc string, n int, t topics.Type) (TopicsResult, error) {
	if isEmpty(doc) {
		return TopicsResult{Source: Fallback, Notice: NoContent}, nil
	}
	if n <= 0 {
		n = topics.DefaultCount
	}
	if _, ok := topicInstructions[t]; !ok {
		t = topics.MainThemes
	}
	out, ok, err := a.generate(ctx, "topics", buildTopicsPrompt(text.Cut(doc, topicsContent), n, t), topicsTokens, usable)
	if err != nil {
		return TopicsResult{}, err
	}
	if ok {
		if parsed := topics.Parse(out, n); len(parsed) > 0 {
			return TopicsResult{Topics: parsed, Source: Remote}, nil
		}
		a.log.Warn("topics: model answer had no numbered sections, using local fallback")
	}
	res := TopicsResult{Topics: topics.Segment(doc, n), Source: Fallback}
	if len(res.Topics) == 0 {
		res.Notice = NoTopicsNotice
	}
	return res, nil
}

// Answer responds to a free-form question about doc.
func (a *Assistant) Answer(ctx context.Context, doc, question string) (Result, error) {
	if isEmpty(doc) {
		return Result{Text: NoContent, Source: Fallback}, nil
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return Result{Text: NoQuestion, Source: Fallback}, nil
	}
	out, ok, err := a.generate(ctx, "answer", buildAnswerPrompt(text.Cut(doc, answerContent), question), answerTokens, usable)
	if err != nil {
		return Result{}, err
	}
	if ok {
		return Result{Text: stripQuotes(strings.TrimSpace(out)), Source: Remote}, nil
	}
	return Result{Text: lookup(question, doc, relevance.Paragraphs, func() string { return AnswerNotFound }), Source: Fallback}, nil
}

// Explain is Answer with a sentence-level fallback that, when nothing
// matches, describes what the document is about instead.
func (a *Assistant) Explain(ctx context.Context, doc, question string) (Result, error) {
	if isEmpty(doc) {
		return Result{Text: NoContent, Source: Fallback}, nil
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return Result{Text: NoQuestion, Source: Fallback}, nil
	}
	out, ok, err := a.generate(ctx, "explain", buildAnswerPrompt(text.Cut(doc, answerContent), question), answerTokens, usable)
	if err != nil {
		return Result{}, err
	}
	if ok {
		return Result{Text: stripQuotes(strings.TrimSpace(out)), Source: Remote}, nil
	}
	notFound := func() string {
		return fmt.Sprintf("I couldn't find specific information about '%s' in the document. The document appears to discuss: %s", question, summarize.Gist(doc))
	}
	return Result{Text: lookup(question, doc, relevance.Sentences, notFound), Source: Fallback}, nil
}

// Test generates up to count practice questions.
func (a *Assistant) Test(ctx context.Context, doc string, count int, qt questions.Type, d questions.Difficulty) (TestResult, error) {
	if count <= 0 {
		count = questions.DefaultCount
	}
	if isEmpty(doc) {
		return TestResult{Requested: count, Source: Fallback, Notice: NoContent}, nil
	}
	if _, ok := questionTypeInstructions[qt]; !ok {
		qt = questions.MultipleChoice
	}
	if _, ok := difficultyInstructions[d]; !ok {
		d = questions.Medium
	}
	out, ok, err := a.generate(ctx, "test", buildTestPrompt(text.Cut(doc, testContent), count, qt, d), testTokens, usable)
	if err != nil {
		return TestResult{}, err
	}
	if ok {
		if parsed := questions.Parse(out, count, qt); len(parsed) > 0 {
			return TestResult{Questions: parsed, Requested: count, Source: Remote}, nil
		}
		a.log.Warn("test: model answer had no numbered questions, using local fallback")
	}
	set := questions.Synthesize(doc, count, qt)
	res := TestResult{Questions: set.Questions, Requested: count, Source: Fallback}
	if set.Skipped > 0 || res.Shortfall() > 0 {
		a.log.Info("test: produced %d of %d questions, %d sentences too short", len(set.Questions), count, set.Skipped)
	}
	if len(res.Questions) == 0 {
		res.Notice = NoQuestionNotice
	}
	return res, nil
}

// Translate renders the whole of doc in lang. There is no local
// translation; a failed call yields TranslateFailed.
func (a *Assistant) Translate(ctx context.Context, doc, lang string) (Result, error) {
	if isEmpty(doc) {
		return Result{Text: EmptyTranslation, Source: Fallback}, nil
	}
	lang = strings.TrimSpace(lang)
	if !slices.Contains(Languages, lang) {
		a.log.Warn("translate: %q is not one of the offered languages", lang)
	}
	out, ok, err := a.generate(ctx, "translate", buildTranslatePrompt(doc, lang), translateTokens, usableTranslation)
	if err != nil {
		return Result{}, err
	}
	if ok {
		return Result{Text: strings.TrimSpace(out), Source: Remote}, nil
	}
	return Result{Text: TranslateFailed, Source: Fallback}, nil
}

// Keywords lists the recurring terms at the start of doc. It never calls
// the model.
func (a *Assistant) Keywords(doc string) Result {
	doc = strings.TrimSpace(doc)
	if doc == "" {
		return Result{Text: NoContent, Source: Fallback}
	}
	return Result{Text: keywords.Digest(text.Cut(doc, digestContent)), Source: Fallback}
}

// lookup answers question from the best matching units of doc. A question
// with no searchable terms gets NoSearchTerms rather than a "not found".
func lookup(question, doc string, m relevance.Mode, notFound func() string) string {
	if len(relevance.Terms(question, m)) == 0 {
		return NoSearchTerms
	}
	units := relevance.Rank(question, doc, m)
	var found string
	if m == relevance.Sentences {
		found = relevance.FormatFindings(units)
	} else {
		found = relevance.FormatSections(units)
	}
	if found == "" {
		return notFound()
	}
	return found
}

// stripQuotes removes one pair of double quotes wrapping s.
func stripQuotes(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return s[1 : len(s)-1]
	}
	return s
}
