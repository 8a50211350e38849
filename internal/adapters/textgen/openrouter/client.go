// Package openrouter implementa el puerto textgen contra la API
// chat/completions de OpenRouter.
package openrouter

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/jtmst/dash-md/internal/apperrors"
	"github.com/jtmst/dash-md/internal/platform/httpclient"
)

const (
	defaultBaseURL = "https://openrouter.ai/api/v1"
	defaultTimeout = 30 * time.Second
)

type Client struct {
	http   *httpclient.Client
	apiKey string
	model  string
}

// New crea el cliente. Se construye una vez por proceso y se reutiliza.
func New(apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("openrouter: api key is required")
	}
	if model == "" {
		return nil, errors.New("openrouter: model is required")
	}

	hc, err := httpclient.NewWithBaseURL(defaultBaseURL, defaultTimeout)
	if err != nil {
		return nil, err
	}

	return &Client{
		http:   hc,
		apiKey: apiKey,
		model:  model,
	}, nil
}

// NewWithHTTPClient permite inyectar el httpclient (tests).
func NewWithHTTPClient(hc *httpclient.Client, apiKey, model string) *Client {
	return &Client{http: hc, apiKey: apiKey, model: model}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate hace una única llamada de chat-completions, sin retries.
// Respuestas sin contenido cuentan como falla.
func (c *Client) Generate(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	req := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userMessage},
		},
	}

	headers := map[string]string{
		"Authorization": "Bearer " + c.apiKey,
	}

	var resp chatResponse
	if err := c.http.DoJSON(ctx, http.MethodPost, "/chat/completions", headers, req, &resp); err != nil {
		return "", apperrors.NewExternal("openrouter request failed", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", errors.New("openrouter: empty completion content")
	}
	return resp.Choices[0].Message.Content, nil
}
