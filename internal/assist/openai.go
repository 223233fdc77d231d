package assist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ent0n29/taskboard/internal/reliability"
)

const (
	defaultAPIURL     = "https://api.openai.com/v1/chat/completions"
	defaultModel      = "gpt-4o-mini"
	defaultMaxRetries = 2
	backoffBase       = 500 * time.Millisecond
	backoffCap        = 8 * time.Second
)

// OpenAIClient talks to an OpenAI-compatible chat completions endpoint with
// bounded retry. Authentication failures are returned immediately; rate
// limits and transient server errors back off exponentially.
type OpenAIClient struct {
	url        string
	apiKey     string
	model      string
	maxRetries int
	client     *http.Client
}

func NewOpenAIClient(cfg Config) *OpenAIClient {
	url := strings.TrimSpace(cfg.APIURL)
	if url == "" {
		url = defaultAPIURL
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}
	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = defaultMaxRetries
	}
	return &OpenAIClient{
		url:        url,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		model:      model,
		maxRetries: maxRetries,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *OpenAIClient) Complete(ctx context.Context, system, user string) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	})
	if err != nil {
		return "", &Error{Kind: KindGeneric, Err: fmt.Errorf("marshal request: %w", err)}
	}

	var lastErr *Error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			wait := reliability.ExponentialBackoff(attempt-1, backoffBase, backoffCap)
			select {
			case <-ctx.Done():
				return "", &Error{Kind: KindNetwork, Err: ctx.Err()}
			case <-time.After(wait):
			}
		}

		text, aerr := c.once(ctx, payload)
		if aerr == nil {
			return text, nil
		}
		lastErr = aerr
		// Auth failures never improve on retry.
		if aerr.Kind == KindAuth || !aerr.retryable {
			return "", aerr
		}
	}
	return "", lastErr
}

func (c *OpenAIClient) once(ctx context.Context, payload []byte) (string, *Error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return "", &Error{Kind: KindGeneric, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	res, err := c.client.Do(req)
	if err != nil {
		return "", &Error{Kind: KindNetwork, Err: err, retryable: true}
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		e := &Error{
			Kind:      kindForStatus(res.StatusCode),
			Err:       fmt.Errorf("completion status %d: %s", res.StatusCode, strings.TrimSpace(string(body))),
			retryable: reliability.IsRetryableHTTPStatus(res.StatusCode),
		}
		return "", e
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", &Error{Kind: KindNetwork, Err: fmt.Errorf("read response: %w", err), retryable: true}
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", &Error{Kind: KindGeneric, Err: fmt.Errorf("decode response: %w", err)}
	}
	if len(parsed.Choices) == 0 {
		return "", &Error{Kind: KindGeneric, Err: errors.New("completion returned no choices")}
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}
