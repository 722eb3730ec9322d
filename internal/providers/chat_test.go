package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAICompatibleGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"A-"}}]}`))
	}))
	defer srv.Close()

	for _, p := range []LLMProvider{NewOpenAIProvider(srv.URL, time.Second), NewGroqProvider(srv.URL+"/", time.Second)} {
		resp, _, err := p.Generate(context.Background(), GenerateRequest{Model: "gpt-4o-mini", Prompt: "p", APIKey: "sk-test"})
		require.NoError(t, err)
		assert.Equal(t, "A-", resp.Text)
	}
}

func TestOpenAICompatibleErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "Bearer empty" {
			_, _ = w.Write([]byte(`{"choices":[]}`))
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`invalid api key`))
	}))
	defer srv.Close()

	p := NewOpenAIProvider(srv.URL, time.Second)
	_, info, err := p.Generate(context.Background(), GenerateRequest{Model: "gpt-4o-mini", Prompt: "p", APIKey: "bad"})
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusUnauthorized, se.Status)
	assert.Equal(t, "openai", info.Name)

	_, _, err = p.Generate(context.Background(), GenerateRequest{Model: "gpt-4o-mini", Prompt: "p", APIKey: "empty"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty choices")
}

func TestMockProvider(t *testing.T) {
	resp, info, err := NewMockProvider().Generate(context.Background(), GenerateRequest{Operation: "grade", Model: "mock"})
	require.NoError(t, err)
	assert.Equal(t, "B", resp.Text)
	assert.Equal(t, "mock", info.Name)
}
