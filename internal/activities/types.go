package activities

import "gradeflow/internal/plagiarism"

type GradeInput struct {
	Text   string `json:"text"`
	Rubric string `json:"rubric"`
	Model  string `json:"model"`
}

type GradeOutput struct {
	Grade string `json:"grade"`
}

type FeedbackInput struct {
	Text   string `json:"text"`
	Rubric string `json:"rubric"`
	Model  string `json:"model"`
}

type FeedbackOutput struct {
	Feedback string `json:"feedback"`
}

type CheckPlagiarismInput struct {
	Text      string `json:"text"`
	Threshold int    `json:"threshold"`
}

type CheckPlagiarismOutput struct {
	Results []plagiarism.Match `json:"results"`
}
