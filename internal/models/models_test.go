package models

import (
	"encoding/json"
	"testing"

	"gradeflow/internal/credentials"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlagiarismThreshold(t *testing.T) {
	cases := map[string]int{
		`{"text":"x"}`:                             40,
		`{"text":"x","similarity_threshold":null}`: 0,
		`{"text":"x","similarity_threshold":0}`:    0,
		`{"text":"x","similarity_threshold":85}`:   85,
	}
	for body, want := range cases {
		var req PlagiarismRequest
		require.NoError(t, json.Unmarshal([]byte(body), &req))
		assert.Equal(t, want, req.Threshold(), body)
	}
}

func TestEvaluationThresholdNullIsZero(t *testing.T) {
	var req EvaluationRequest
	require.NoError(t, json.Unmarshal([]byte(`{"text":"t","rubric":"r","similarity_threshold":null}`), &req))
	assert.True(t, req.SimilarityThreshold.Set)
	assert.Equal(t, 0, req.Threshold())

	assert.Equal(t, 40, EvaluationRequest{}.Threshold())
	assert.Equal(t, 70, EvaluationRequest{SimilarityThreshold: IntValue(70)}.Threshold())

	var bad EvaluationRequest
	assert.Error(t, json.Unmarshal([]byte(`{"similarity_threshold":"high"}`), &bad))
}

func TestGradeRequestModelFallback(t *testing.T) {
	var req GradeRequest
	require.NoError(t, json.Unmarshal([]byte(`{"text":"t","rubric":"r"}`), &req))
	assert.Equal(t, "gemini-1.5-flash-8b", req.ModelOr("gemini-1.5-flash-8b"))

	require.NoError(t, json.Unmarshal([]byte(`{"text":"t","rubric":"r","model":"llama-3.1-8b-instant"}`), &req))
	assert.Equal(t, "llama-3.1-8b-instant", req.ModelOr("gemini-1.5-flash-8b"))
}

func TestCredentialFieldsAlias(t *testing.T) {
	var req GradeRequest
	require.NoError(t, json.Unmarshal([]byte(`{"gemini_api_key":"g","google_api_key":"k","search_engine_id":"cx"}`), &req))
	assert.Equal(t, credentials.Credentials{LanguageModelKey: "g", SearchAPIKey: "k", SearchEngineID: "cx"}, req.Credentials())
	assert.False(t, req.CredentialFields.Empty())

	req = GradeRequest{CredentialFields: CredentialFields{LLMAPIKey: "new", GeminiAPIKey: "old"}}
	assert.Equal(t, "new", req.Credentials().LanguageModelKey)
	assert.True(t, GradeRequest{}.CredentialFields.Empty())
}
