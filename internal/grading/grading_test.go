package grading

import (
	"context"
	"errors"
	"strings"
	"testing"

	"gradeflow/internal/apperr"
	"gradeflow/internal/credentials"
	"gradeflow/internal/providers"
	"gradeflow/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) Generate(ctx context.Context, req providers.GenerateRequest) (providers.GenerateResponse, providers.ProviderInfo, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(providers.GenerateResponse), args.Get(1).(providers.ProviderInfo), args.Error(2)
}

type recordingAudit struct {
	records []storage.CallRecord
	err     error
}

func (r *recordingAudit) RecordCall(_ context.Context, rec storage.CallRecord) error {
	r.records = append(r.records, rec)
	return r.err
}

func newService(p providers.LLMProvider, audit storage.CallRecorder) *Service {
	router := providers.NewManagerWith(providers.NamedLLMProvider{Ref: providers.ProviderRef{Raw: "fake", Name: "fake"}, Provider: p})
	return NewService(nil, router, audit)
}

var llmCreds = credentials.Credentials{LanguageModelKey: "llm-key"}

func TestGradeReturnsTrimmedModelOutput(t *testing.T) {
	p := &mockProvider{}
	p.On("Generate", mock.Anything, mock.MatchedBy(func(req providers.GenerateRequest) bool {
		return req.Operation == OperationGrade &&
			req.Model == "gemini-2.0-flash" &&
			req.APIKey == "llm-key" &&
			strings.Contains(req.Prompt, "The cat sat on the mat.") &&
			strings.Contains(req.Prompt, "A: perfect, F: empty") &&
			strings.HasSuffix(req.Prompt, "Grade:")
	})).Return(providers.GenerateResponse{Text: "  A\n"}, providers.ProviderInfo{Name: "fake", Model: "gemini-2.0-flash"}, nil).Once()

	audit := &recordingAudit{}
	s := newService(p, audit)
	grade, err := s.Grade(context.Background(), Request{Text: "The cat sat on the mat.", Rubric: "A: perfect, F: empty", Model: "gemini-2.0-flash"}, llmCreds)
	require.NoError(t, err)
	assert.Equal(t, "A", grade)
	p.AssertExpectations(t)

	require.Len(t, audit.records, 1)
	assert.Equal(t, "ok", audit.records[0].Status)
	assert.Equal(t, "fake", audit.records[0].Provider)
	assert.NotContains(t, audit.records[0].InputHash, "cat")
}

func TestGradePassesThroughUnvalidatedOutput(t *testing.T) {
	p := &mockProvider{}
	p.On("Generate", mock.Anything, mock.Anything).Return(providers.GenerateResponse{Text: "I would give this a solid B+ overall."}, providers.ProviderInfo{Name: "fake"}, nil)
	grade, err := newService(p, nil).Grade(context.Background(), Request{Text: "t", Rubric: "r", Model: "m"}, llmCreds)
	require.NoError(t, err)
	assert.Equal(t, "I would give this a solid B+ overall.", grade)
}

func TestFeedbackUsesFeedbackPrompt(t *testing.T) {
	p := &mockProvider{}
	p.On("Generate", mock.Anything, mock.MatchedBy(func(req providers.GenerateRequest) bool {
		return req.Operation == OperationFeedback && strings.HasSuffix(req.Prompt, "Feedback:")
	})).Return(providers.GenerateResponse{Text: "\nGood structure.\n\nAdd citations.  "}, providers.ProviderInfo{Name: "fake"}, nil).Once()

	fb, err := newService(p, nil).Feedback(context.Background(), Request{Text: "essay", Rubric: "rubric", Model: "m"}, llmCreds)
	require.NoError(t, err)
	assert.Equal(t, "Good structure.\n\nAdd citations.", fb)
	p.AssertExpectations(t)
}

func TestBlankTextOrRubricIsValidationWithoutCall(t *testing.T) {
	p := &mockProvider{}
	s := newService(p, nil)
	reqs := []Request{
		{Text: "", Rubric: "r", Model: "m"},
		{Text: "  \n", Rubric: "r", Model: "m"},
		{Text: "t", Rubric: "", Model: "m"},
		{Text: "t", Rubric: "\t", Model: "m"},
	}
	for _, req := range reqs {
		_, err := s.Grade(context.Background(), req, llmCreds)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		_, err = s.Feedback(context.Background(), req, llmCreds)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	}
	p.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestMissingKeyIsConfigurationWithoutCall(t *testing.T) {
	p := &mockProvider{}
	s := newService(p, nil)
	_, err := s.Grade(context.Background(), Request{Text: "t", Rubric: "r", Model: "m"}, credentials.Credentials{})
	assert.Equal(t, apperr.KindConfiguration, apperr.KindOf(err))
	_, err = s.Feedback(context.Background(), Request{Text: "t", Rubric: "r", Model: "m"}, credentials.Credentials{LanguageModelKey: "  "})
	assert.Equal(t, apperr.KindConfiguration, apperr.KindOf(err))
	p.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestInvokeValidation(t *testing.T) {
	p := &mockProvider{}
	s := newService(p, nil)
	_, err := s.Invoke(context.Background(), OperationGrade, "  ", "m", "k")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	_, err = s.Invoke(context.Background(), OperationGrade, "prompt", "", "k")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	_, err = s.Invoke(context.Background(), OperationGrade, "prompt", "m", "")
	assert.Equal(t, apperr.KindConfiguration, apperr.KindOf(err))
	p.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestProviderFailureIsUpstream(t *testing.T) {
	p := &mockProvider{}
	p.On("Generate", mock.Anything, mock.Anything).Return(providers.GenerateResponse{}, providers.ProviderInfo{Name: "fake"},
		&providers.StatusError{Provider: "fake", Status: 429, Body: "rate limit exceeded"}).Once()

	audit := &recordingAudit{err: errors.New("db down")}
	_, err := newService(p, audit).Grade(context.Background(), Request{Text: "t", Rubric: "r", Model: "m"}, llmCreds)
	ae, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindUpstream, ae.Kind)
	assert.Equal(t, 429, ae.Status)
	assert.Contains(t, ae.Error(), "rate limit exceeded")

	require.Len(t, audit.records, 1)
	assert.Equal(t, "failed", audit.records[0].Status)
	assert.Equal(t, string(providers.ErrorRate), audit.records[0].ErrorType)
}

func TestProviderTimeoutIsUpstream(t *testing.T) {
	p := &mockProvider{}
	p.On("Generate", mock.Anything, mock.Anything).Return(providers.GenerateResponse{}, providers.ProviderInfo{},
		context.DeadlineExceeded).Once()
	_, err := newService(p, nil).Feedback(context.Background(), Request{Text: "t", Rubric: "r", Model: "m"}, llmCreds)
	ae, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindUpstream, ae.Kind)
	assert.True(t, ae.Timeout)
}
