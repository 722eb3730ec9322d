package activities

import (
	"context"

	"gradeflow/internal/apperr"
	"gradeflow/internal/credentials"
	"gradeflow/internal/grading"
	"gradeflow/internal/logger"
	"gradeflow/internal/plagiarism"

	"go.temporal.io/sdk/temporal"
)

type Grader interface {
	Grade(ctx context.Context, req grading.Request, creds credentials.Credentials) (string, error)
	Feedback(ctx context.Context, req grading.Request, creds credentials.Credentials) (string, error)
}

type Checker interface {
	Check(ctx context.Context, req plagiarism.Request, creds credentials.Credentials) ([]plagiarism.Match, error)
}

// Activities run evaluation steps with the worker's own credentials. Keys are
// never part of activity inputs, so they stay out of workflow history.
type Activities struct {
	log      *logger.Logger
	grader   Grader
	checker  Checker
	defaults credentials.Credentials
}

func New(log *logger.Logger, grader Grader, checker Checker, defaults credentials.Credentials) *Activities {
	if log == nil {
		log = logger.NewNop()
	}
	return &Activities{
		log:      log.With("component", "activities"),
		grader:   grader,
		checker:  checker,
		defaults: defaults,
	}
}

func (a *Activities) GradeActivity(ctx context.Context, in GradeInput) (GradeOutput, error) {
	grade, err := a.grader.Grade(ctx, grading.Request{Text: in.Text, Rubric: in.Rubric, Model: in.Model}, a.defaults)
	if err != nil {
		return GradeOutput{}, a.toApplicationError("GradeActivity", err)
	}
	return GradeOutput{Grade: grade}, nil
}

func (a *Activities) FeedbackActivity(ctx context.Context, in FeedbackInput) (FeedbackOutput, error) {
	fb, err := a.grader.Feedback(ctx, grading.Request{Text: in.Text, Rubric: in.Rubric, Model: in.Model}, a.defaults)
	if err != nil {
		return FeedbackOutput{}, a.toApplicationError("FeedbackActivity", err)
	}
	return FeedbackOutput{Feedback: fb}, nil
}

func (a *Activities) CheckPlagiarismActivity(ctx context.Context, in CheckPlagiarismInput) (CheckPlagiarismOutput, error) {
	matches, err := a.checker.Check(ctx, plagiarism.Request{Text: in.Text, Threshold: in.Threshold}, a.defaults)
	if err != nil {
		return CheckPlagiarismOutput{}, a.toApplicationError("CheckPlagiarismActivity", err)
	}
	return CheckPlagiarismOutput{Results: matches}, nil
}

// toApplicationError carries the error kind as the application error type.
// Only upstream failures are retryable.
func (a *Activities) toApplicationError(activity string, err error) error {
	kind := apperr.KindOf(err)
	a.log.Warn("activity failed", "activity", activity, "error_kind", string(kind), "error", err)
	if kind == apperr.KindUpstream {
		return temporal.NewApplicationErrorWithCause(err.Error(), string(kind), err)
	}
	return temporal.NewNonRetryableApplicationError(err.Error(), string(kind), err)
}
