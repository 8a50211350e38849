package openrouter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jtmst/dash-md/internal/platform/httpclient"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	hc, err := httpclient.NewWithBaseURL(srv.URL, 5*time.Second)
	require.NoError(t, err)
	return NewWithHTTPClient(hc, "sk-test", "openai/gpt-4o-mini")
}

func TestNew_Validates(t *testing.T) {
	_, err := New("", "openai/gpt-4o-mini")
	assert.Error(t, err)

	_, err = New("sk-test", "")
	assert.Error(t, err)

	c, err := New("sk-test", "openai/gpt-4o-mini")
	require.NoError(t, err)
	assert.NotNil(t, c)
}

func TestGenerate(t *testing.T) {
	var gotAuth string
	var gotReq chatRequest

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"A clinical summary."}}]}`))
	})

	text, err := c.Generate(context.Background(), "system prompt", "user message")
	require.NoError(t, err)

	assert.Equal(t, "A clinical summary.", text)
	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "openai/gpt-4o-mini", gotReq.Model)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
	assert.Equal(t, "system prompt", gotReq.Messages[0].Content)
	assert.Equal(t, "user", gotReq.Messages[1].Role)
}

func TestGenerate_HTTPError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	})

	_, err := c.Generate(context.Background(), "s", "u")
	require.Error(t, err)

	var he *httpclient.HTTPError
	require.True(t, errors.As(err, &he))
	assert.Equal(t, http.StatusTooManyRequests, he.StatusCode)
}

func TestGenerate_EmptyChoices(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	})

	_, err := c.Generate(context.Background(), "s", "u")
	assert.Error(t, err)
}

func TestGenerate_EmptyContent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":""}}]}`))
	})

	_, err := c.Generate(context.Background(), "s", "u")
	assert.Error(t, err)
}
