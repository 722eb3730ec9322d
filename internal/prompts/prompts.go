package prompts

import "fmt"

// The assignment text and rubric are embedded verbatim. Nothing is escaped,
// so text that reads like instructions reaches the model as-is.

const GradingPromptTemplate = `You are an expert educator. Grade the following assignment based on the provided rubric. Return only the grade (e.g., A, B+, C-).

Rubric:
%s

Assignment:
%s

Grade:`

const FeedbackPromptTemplate = `Provide constructive feedback for the assignment below based on the rubric:

Assignment:
%s

Rubric:
%s

Feedback:`

func BuildGradingPrompt(text, rubric string) string {
	return fmt.Sprintf(GradingPromptTemplate, rubric, text)
}

func BuildFeedbackPrompt(text, rubric string) string {
	return fmt.Sprintf(FeedbackPromptTemplate, text, rubric)
}
