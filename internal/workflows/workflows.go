package workflows

import (
	"errors"
	"time"

	"gradeflow/internal/activities"
	"gradeflow/internal/apperr"
	"gradeflow/internal/models"
	"gradeflow/internal/plagiarism"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

const QueryGetProgress = "GetProgress"

// EvaluationWorkflow grades, writes feedback for and checks one submission.
// The three steps run concurrently and fail independently; a failed step is
// reported in the result instead of failing the workflow.
func EvaluationWorkflow(ctx workflow.Context, input EvaluationInput) (EvaluationResult, error) {
	progress := EvaluationProgress{Steps: map[string]string{
		StepGrade:      StepPending,
		StepFeedback:   StepPending,
		StepPlagiarism: StepPending,
	}}
	if err := workflow.SetQueryHandler(ctx, QueryGetProgress, func() (EvaluationProgress, error) {
		return progress, nil
	}); err != nil {
		return EvaluationResult{}, err
	}

	ao := workflow.ActivityOptions{
		StartToCloseTimeout: 2 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2,
			MaximumInterval:    20 * time.Second,
			MaximumAttempts:    3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)

	gradeF := workflow.ExecuteActivity(ctx, "GradeActivity", activities.GradeInput{
		Text: input.Text, Rubric: input.Rubric, Model: input.Model,
	})
	feedbackF := workflow.ExecuteActivity(ctx, "FeedbackActivity", activities.FeedbackInput{
		Text: input.Text, Rubric: input.Rubric, Model: input.Model,
	})
	plagiarismF := workflow.ExecuteActivity(ctx, "CheckPlagiarismActivity", activities.CheckPlagiarismInput{
		Text: input.Text, Threshold: input.Threshold,
	})

	result := EvaluationResult{Results: []plagiarism.Match{}}
	fail := func(step string, err error) {
		progress.Steps[step] = StepFailed
		if result.Errors == nil {
			result.Errors = map[string]models.StepError{}
		}
		result.Errors[step] = stepError(err)
		workflow.GetLogger(ctx).Warn("evaluation step failed", "step", step, "error", err)
	}

	var gradeOut activities.GradeOutput
	if err := gradeF.Get(ctx, &gradeOut); err != nil {
		fail(StepGrade, err)
	} else {
		result.Grade = gradeOut.Grade
		progress.Steps[StepGrade] = StepDone
	}

	var feedbackOut activities.FeedbackOutput
	if err := feedbackF.Get(ctx, &feedbackOut); err != nil {
		fail(StepFeedback, err)
	} else {
		result.Feedback = feedbackOut.Feedback
		progress.Steps[StepFeedback] = StepDone
	}

	var plagiarismOut activities.CheckPlagiarismOutput
	if err := plagiarismF.Get(ctx, &plagiarismOut); err != nil {
		fail(StepPlagiarism, err)
	} else {
		if plagiarismOut.Results != nil {
			result.Results = plagiarismOut.Results
		}
		progress.Steps[StepPlagiarism] = StepDone
	}

	return result, nil
}

func stepError(err error) models.StepError {
	category := string(apperr.KindInternal)
	var appErr *temporal.ApplicationError
	if errors.As(err, &appErr) {
		switch apperr.Kind(appErr.Type()) {
		case apperr.KindValidation, apperr.KindConfiguration, apperr.KindUpstream:
			category = appErr.Type()
		}
		return models.StepError{Category: category, Message: appErr.Message()}
	}
	var timeoutErr *temporal.TimeoutError
	if errors.As(err, &timeoutErr) {
		return models.StepError{Category: string(apperr.KindUpstream), Message: "step timed out"}
	}
	return models.StepError{Category: category, Message: err.Error()}
}
