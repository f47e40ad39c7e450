package inference

import (
	"fmt"
	"regexp"
	"strings"
)

const SummaryPrompt = `Summarize the following legal document excerpt in three to five plain-English sentences. Mention the parties, the main obligations and any termination or liability terms. Do not add facts that are not in the text.

Respond with ONLY the summary, no headings or other text.`

const AnswerPrompt = `Answer the question using only the contract text below. Quote the shortest span of the text that answers it. If the text does not contain the answer, respond with exactly: NOT FOUND

Respond with ONLY the answer, no other text.`

// NotFoundAnswer is what generative backends are told to reply when the
// context has no answer.
const NotFoundAnswer = "NOT FOUND"

// BuildSummaryPrompt appends the document text to SummaryPrompt.
func BuildSummaryPrompt(text string) string {
	var sb strings.Builder
	sb.WriteString(SummaryPrompt)
	sb.WriteString("\n\n---\n")
	sb.WriteString(text)
	return sb.String()
}

// BuildAnswerPrompt frames a question against the full contract text.
func BuildAnswerPrompt(question, passage string) string {
	var sb strings.Builder
	sb.WriteString(AnswerPrompt)
	sb.WriteString("\n\n---\n")
	sb.WriteString(fmt.Sprintf("Question: %q\n", strings.TrimSpace(question)))
	sb.WriteString("---\n")
	sb.WriteString(passage)
	return sb.String()
}

var codeBlockRe = regexp.MustCompile("(?s)^```(?:\\w+)?\\s*(.*?)\\s*```$")

func stripCodeBlock(s string) string {
	s = strings.TrimSpace(s)
	if m := codeBlockRe.FindStringSubmatch(s); len(m) > 1 {
		return m[1]
	}
	return s
}

// generatedAnswerText converts a generative reply into answer text. Generative
// backends report no confidence, so a found answer scores 1 and NOT FOUND
// scores 0 with empty text.
func generatedAnswerText(reply string) (string, float64) {
	reply = stripCodeBlock(reply)
	if strings.EqualFold(strings.TrimSpace(reply), NotFoundAnswer) {
		return "", 0
	}
	return reply, 1
}
