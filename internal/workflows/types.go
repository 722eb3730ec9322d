package workflows

import (
	"gradeflow/internal/models"
	"gradeflow/internal/plagiarism"
)

const (
	StepGrade      = "grade"
	StepFeedback   = "feedback"
	StepPlagiarism = "plagiarism"
)

const (
	StepPending = "pending"
	StepDone    = "done"
	StepFailed  = "failed"
)

// EvaluationInput holds no credentials; activities use the worker's.
type EvaluationInput struct {
	Text      string `json:"text"`
	Rubric    string `json:"rubric"`
	Model     string `json:"model"`
	Threshold int    `json:"threshold"`
}

type EvaluationResult struct {
	Grade    string                      `json:"grade,omitempty"`
	Feedback string                      `json:"feedback,omitempty"`
	Results  []plagiarism.Match          `json:"results"`
	Errors   map[string]models.StepError `json:"errors,omitempty"`
}

type EvaluationProgress struct {
	Steps map[string]string `json:"steps"`
}
