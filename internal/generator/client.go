package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/byronwade/rebuzzle/internal/logger"
)

// Provider produces one raw completion for a prompt pair. The concrete
// implementation talks to an OpenAI-compatible chat-completions API;
// tests substitute their own.
type Provider interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (*Completion, error)
	Name() string
	Model() string
}

// Completion is a raw provider response plus token accounting.
type Completion struct {
	Content          string
	PromptTokens     int
	CompletionTokens int
}

// Client calls an OpenAI-compatible chat-completions endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	log        *logger.Logger
}

// NewClient creates a provider client. timeout bounds each request.
func NewClient(baseURL, apiKey, model string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.Default().WithPrefix("ai-client"),
	}
}

func (c *Client) Name() string  { return "openai-compatible" }
func (c *Client) Model() string { return c.model }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string) (*Completion, error) {
	log := logger.FromContext(ctx).WithPrefix("ai-client").WithField("model", c.model)
	url := c.baseURL + "/chat/completions"

	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: 0.9,
	}
	reqBody.ResponseFormat.Type = "json_object"

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	log.Debug("requesting completion")
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		log.Error("failed to create request: %v", err)
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("completion request failed: %v", err)
		return nil, err
	}
	defer resp.Body.Close()

	log.Debug("completion response received in %v, status=%d", time.Since(start), resp.StatusCode)

	if resp.StatusCode == http.StatusTooManyRequests {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("provider quota exceeded: status %d: %s", resp.StatusCode, string(body))
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.Error("completion request failed: status=%d, body=%s", resp.StatusCode, string(body))
		return nil, fmt.Errorf("provider error: status %d: %s", resp.StatusCode, string(body))
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		log.Error("failed to decode completion response: %v", err)
		return nil, fmt.Errorf("provider response decode: %w", err)
	}
	if out.Error != nil {
		return nil, fmt.Errorf("provider error: %s", out.Error.Message)
	}
	if len(out.Choices) == 0 {
		return nil, fmt.Errorf("provider error: empty choices")
	}

	log.Debug("completion ok: prompt_tokens=%d, completion_tokens=%d",
		out.Usage.PromptTokens, out.Usage.CompletionTokens)
	return &Completion{
		Content:          out.Choices[0].Message.Content,
		PromptTokens:     out.Usage.PromptTokens,
		CompletionTokens: out.Usage.CompletionTokens,
	}, nil
}
