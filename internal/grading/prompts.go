package grading

import (
	"fmt"
	"strings"
)

const interviewerSystemPrompt = "You are an interviewer conducting a technical interview. " +
	"Ask clear, concise questions and evaluate responses professionally."

const evaluatorSystemPrompt = "You are an expert interviewer evaluator. " +
	"Provide fair and constructive feedback on interview performance."

// buildFeedbackPrompt frames one question/answer pair for per-answer feedback.
func buildFeedbackPrompt(questionText, answerText string) string {
	return fmt.Sprintf("Question: %s\n\nUser's Answer: %s\n\nIs this answer correct? Provide feedback.",
		questionText, answerText)
}

// buildEvaluationPrompt frames the whole interview for a structured JSON
// verdict. Answers may be shorter than questions when the interview ended
// early; unanswered questions still appear so the evaluator sees the full
// planned scope.
func buildEvaluationPrompt(questions, answers, referenceAnswers []string) string {
	var sb strings.Builder
	sb.WriteString("Evaluate the following interview performance:\n\n")
	sb.WriteString("Questions and Answers:\n")

	for i, q := range questions {
		answer := ""
		if i < len(answers) {
			answer = answers[i]
		}
		ref := ""
		if i < len(referenceAnswers) {
			ref = referenceAnswers[i]
		}
		fmt.Fprintf(&sb, "\nQuestion %d: %s\n", i+1, q)
		fmt.Fprintf(&sb, "User's Answer: %s\n", answer)
		fmt.Fprintf(&sb, "Correct Answer: %s\n", ref)
	}

	sb.WriteString("\nPlease provide a score out of 100, detailed feedback, strengths, and weaknesses in the following JSON format:\n")
	sb.WriteString(`{
  "score": number,
  "feedback": string,
  "strengths": string[],
  "weaknesses": string[]
}`)
	return sb.String()
}
