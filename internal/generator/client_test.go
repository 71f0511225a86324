package generator_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byronwade/rebuzzle/internal/generator"
)

func TestClientComplete_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"choices": [{"message": {"content": "{\"puzzle\":\"x\"}"}}],
			"usage": {"prompt_tokens": 42, "completion_tokens": 17}
		}`))
	}))
	defer srv.Close()

	client := generator.NewClient(srv.URL, "test-key", "test-model", 5*time.Second)
	completion, err := client.Complete(context.Background(), "system", "user")
	require.NoError(t, err)

	assert.Equal(t, `{"puzzle":"x"}`, completion.Content)
	assert.Equal(t, 42, completion.PromptTokens)
	assert.Equal(t, 17, completion.CompletionTokens)
}

func TestClientComplete_QuotaExceeded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := generator.NewClient(srv.URL, "test-key", "test-model", 5*time.Second)
	_, err := client.Complete(context.Background(), "system", "user")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota")
}

func TestClientComplete_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := generator.NewClient(srv.URL, "test-key", "test-model", 5*time.Second)
	_, err := client.Complete(context.Background(), "system", "user")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "provider error")
}

func TestClientComplete_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": []}`))
	}))
	defer srv.Close()

	client := generator.NewClient(srv.URL, "test-key", "test-model", 5*time.Second)
	_, err := client.Complete(context.Background(), "system", "user")
	require.Error(t, err)
}
