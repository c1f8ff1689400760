package assistant

import (
	"fmt"
	"strings"

	"github.com/thywilljoshua/pdf-study/internal/questions"
	"github.com/thywilljoshua/pdf-study/internal/summarize"
	"github.com/thywilljoshua/pdf-study/internal/topics"
)

// Characters of document text embedded in each prompt.
const (
	summaryContent   = 6000
	keyPointsContent = 8000
	topicsContent    = 6000
	answerContent    = 6000
	testContent      = 5000
)

// Token budgets per task.
const (
	summaryTokens   = 800
	keyPointsTokens = 600
	topicsTokens    = 1200
	answerTokens    = 1000
	testTokens      = 1500
	translateTokens = 4096
)

var lengthInstructions = map[summarize.Length]string{
	summarize.Brief:    "in 2-3 sentences",
	summarize.Medium:   "in 1-2 paragraphs",
	summarize.Detailed: "in 3-4 comprehensive paragraphs",
}

var styleInstructions = map[summarize.Style]string{
	summarize.Academic:     "using formal academic language",
	summarize.Simple:       "using simple, easy-to-understand language",
	summarize.BulletPoints: "as a structured list of key points",
}

var topicInstructions = map[topics.Type]string{
	topics.MainThemes:     "broad thematic areas and overarching concepts",
	topics.KeyConcepts:    "specific important concepts and definitions",
	topics.TechnicalTerms: "technical terminology and specialized vocabulary",
	topics.StudyPoints:    "important points for studying and exam preparation",
}

var difficultyInstructions = map[questions.Difficulty]string{
	questions.Easy:        "basic recall and understanding questions",
	questions.Medium:      "application and analysis questions",
	questions.Hard:        "synthesis and evaluation questions",
	questions.MixedLevels: "a mix of easy, medium, and hard questions",
}

var questionTypeInstructions = map[questions.Type]string{
	questions.MultipleChoice: "multiple choice questions with 4 options each",
	questions.ShortAnswer:    "short answer questions requiring 2-3 sentence responses",
	questions.Essay:          "essay questions requiring detailed analysis",
	questions.Mixed:          "a mix of multiple choice, short answer, and essay questions",
}

const summaryPrompt = `Summarize the following academic content %s %s.

Focus on:
- Main thesis or argument
- Key findings or conclusions
- Important concepts or methodologies
- Practical applications or implications

Content:
%s`

const keyPointsPrompt = `Extract the most important key points from the following academic content.
Present them as a numbered list, focusing on:
- Main arguments or findings
- Critical concepts
- Important data or statistics
- Conclusions or implications

Content:
%s`

const topicsPrompt = `Analyze the following academic content and identify %d %s.

For each topic, provide:
1. A clear title (max 8 words)
2. A detailed description (2-3 sentences)
3. 3-4 key points related to this topic
4. Relevance score (High/Medium/Low)

Format each topic clearly with title, description, key points, and relevance.

Content:
%s`

const answerPrompt = `You are an AI assistant analyzing academic content. Please answer the following question:

Question: %s

%s

Guidelines:
- Base your answer strictly on the provided content
- If the answer isn't in the content, clearly state that
- Include relevant details, examples, or quotes from the content
- Be specific and avoid vague or generic responses
- Maintain an academic tone

Content:
%s

Answer the question directly and concisely:`

const testPrompt = `Generate %d %s based on the following academic content.
Make them %s.

For multiple choice questions, provide:
- Question text
- 4 options (A, B, C, D)
- Correct answer
- Brief explanation

For other question types, provide:
- Question text
- Sample answer or key points
- Explanation of what makes a good answer

Content:
%s`

const translatePrompt = `Translate the following academic text into %s. Provide ONLY the translated text, without any additional comments, headers, or explanations. The translation should be accurate, fluent, and maintain the original tone and style of the academic text.

**Text to Translate:**
%s`

func buildSummaryPrompt(content string, l summarize.Length, st summarize.Style) string {
	return fmt.Sprintf(summaryPrompt, lengthInstructions[l], styleInstructions[st], content)
}

func buildKeyPointsPrompt(content string) string {
	return fmt.Sprintf(keyPointsPrompt, content)
}

func buildTopicsPrompt(content string, n int, t topics.Type) string {
	return fmt.Sprintf(topicsPrompt, n, topicInstructions[t], content)
}

func buildAnswerPrompt(content, question string) string {
	return fmt.Sprintf(answerPrompt, question, questionInstruction(question), content)
}

func buildTestPrompt(content string, count int, qt questions.Type, d questions.Difficulty) string {
	return fmt.Sprintf(testPrompt, count, questionTypeInstructions[qt], difficultyInstructions[d], content)
}

func buildTranslatePrompt(content, lang string) string {
	return fmt.Sprintf(translatePrompt, lang, content)
}

// questionInstruction picks the answering style from cue words in the
// question. Cues are plain substrings, so "show" also counts as "how".
func questionInstruction(question string) string {
	q := strings.ToLower(question)
	switch {
	case containsAny(q, "what is", "what are", "define", "explain"):
		return "Provide a clear and concise explanation or definition based on the content."
	case containsAny(q, "how", "why"):
		return "Explain the process or reasoning in detail, providing context from the content."
	case containsAny(q, "problem statement", "research gap"):
		return "Identify and clearly state the main problem statement or research gap discussed in the content."
	default:
		return "Provide a comprehensive answer based on the content."
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
