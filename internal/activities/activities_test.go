package activities

import (
	"context"
	"errors"
	"testing"

	"gradeflow/internal/apperr"
	"gradeflow/internal/credentials"
	"gradeflow/internal/grading"
	"gradeflow/internal/plagiarism"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/testsuite"
)

type fakeGrader struct {
	grade    string
	feedback string
	err      error
	creds    []credentials.Credentials
}

func (f *fakeGrader) Grade(_ context.Context, _ grading.Request, creds credentials.Credentials) (string, error) {
	f.creds = append(f.creds, creds)
	return f.grade, f.err
}

func (f *fakeGrader) Feedback(_ context.Context, _ grading.Request, creds credentials.Credentials) (string, error) {
	f.creds = append(f.creds, creds)
	return f.feedback, f.err
}

type fakeChecker struct {
	matches []plagiarism.Match
	err     error
	req     plagiarism.Request
}

func (f *fakeChecker) Check(_ context.Context, req plagiarism.Request, _ credentials.Credentials) ([]plagiarism.Match, error) {
	f.req = req
	return f.matches, f.err
}

var workerCreds = credentials.Credentials{LanguageModelKey: "worker-llm", SearchAPIKey: "worker-search", SearchEngineID: "cx"}

func TestGradeActivityUsesWorkerCredentials(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestActivityEnvironment()
	g := &fakeGrader{grade: "B+"}
	a := New(nil, g, &fakeChecker{}, workerCreds)
	env.RegisterActivity(a.GradeActivity)

	val, err := env.ExecuteActivity(a.GradeActivity, GradeInput{Text: "t", Rubric: "r", Model: "m"})
	require.NoError(t, err)
	var out GradeOutput
	require.NoError(t, val.Get(&out))
	assert.Equal(t, "B+", out.Grade)
	require.Len(t, g.creds, 1)
	assert.Equal(t, workerCreds, g.creds[0])
}

func TestCheckPlagiarismActivityPassesThreshold(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestActivityEnvironment()
	c := &fakeChecker{matches: []plagiarism.Match{{URL: "https://a.example", Similarity: 88}}}
	a := New(nil, &fakeGrader{}, c, workerCreds)
	env.RegisterActivity(a.CheckPlagiarismActivity)

	val, err := env.ExecuteActivity(a.CheckPlagiarismActivity, CheckPlagiarismInput{Text: "essay", Threshold: 0})
	require.NoError(t, err)
	var out CheckPlagiarismOutput
	require.NoError(t, val.Get(&out))
	assert.Equal(t, c.matches, out.Results)
	assert.Equal(t, plagiarism.Request{Text: "essay", Threshold: 0}, c.req)
}

func TestActivityErrorCarriesKind(t *testing.T) {
	cases := []struct {
		err       error
		kind      string
		retryable bool
	}{
		{apperr.Configuration("grade", "language model api key not configured"), "configuration", false},
		{apperr.Validation("grade", "text and rubric cannot be empty"), "validation", false},
		{apperr.Upstream("grade", 503, "overloaded", nil), "upstream", true},
		{errors.New("boom"), "internal", false},
	}
	for _, tc := range cases {
		var ts testsuite.WorkflowTestSuite
		env := ts.NewTestActivityEnvironment()
		a := New(nil, &fakeGrader{err: tc.err}, &fakeChecker{}, workerCreds)
		env.RegisterActivity(a.FeedbackActivity)

		_, err := env.ExecuteActivity(a.FeedbackActivity, FeedbackInput{Text: "t", Rubric: "r", Model: "m"})
		require.Error(t, err)
		var appErr *temporal.ApplicationError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, tc.kind, appErr.Type())
		assert.Equal(t, !tc.retryable, appErr.NonRetryable())
	}
}
