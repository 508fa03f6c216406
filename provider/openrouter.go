package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

const (
	requestTimeout = 120 * time.Second
	connectTimeout = 10 * time.Second
)

type openRouterClient struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

type chatCompletionRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Code    any    `json:"code"`
	} `json:"error"`
}

// NewOpenRouterClient returns a Client for the OpenRouter chat-completions
// API. The HTTP client enforces a connect timeout separately from the overall
// request timeout so slow completions and unreachable hosts fail differently.
func NewOpenRouterClient(baseURL, apiKey, model string) Client {
	return &openRouterClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		client: &http.Client{
			Timeout: requestTimeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{Timeout: connectTimeout}).DialContext,
			},
		},
	}
}

func (c *openRouterClient) Complete(ctx context.Context, messages []Message) (string, error) {
	body, err := json.Marshal(chatCompletionRequest{Model: c.model, Messages: messages})
	if err != nil {
		return "", &Error{Reason: ReasonConnection, Message: "marshal request: " + err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", &Error{Reason: ReasonConnection, Message: "create request: " + err.Error()}
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Title", "DocuMind")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", classifyTransportError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &Error{Reason: ReasonConnection, Message: "read response body: " + err.Error()}
	}

	var parsed chatCompletionResponse
	decodeErr := json.Unmarshal(data, &parsed)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &Error{
			Reason:  ReasonStatus,
			Status:  resp.StatusCode,
			Message: errorEnvelopeMessage(&parsed, data, resp.StatusCode),
		}
	}

	if decodeErr != nil {
		return "", &Error{Reason: ReasonEmpty, Message: "decode response: " + decodeErr.Error()}
	}
	if parsed.Error != nil && parsed.Error.Message != "" {
		return "", &Error{Reason: ReasonStatus, Status: resp.StatusCode, Message: parsed.Error.Message}
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", &Error{Reason: ReasonEmpty, Message: "completion has no content: " + truncate(string(data), 500)}
	}

	return parsed.Choices[0].Message.Content, nil
}

func classifyTransportError(err error) *Error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &Error{Reason: ReasonTimeout, Message: "request took too long: " + err.Error()}
	}
	return &Error{Reason: ReasonConnection, Message: "could not reach provider: " + err.Error()}
}

// errorEnvelopeMessage pulls a human-readable message out of the provider's
// error envelope, falling back to the raw body when there is none.
func errorEnvelopeMessage(parsed *chatCompletionResponse, raw []byte, status int) string {
	if parsed.Error != nil {
		if parsed.Error.Message != "" {
			return parsed.Error.Message
		}
		if parsed.Error.Code != nil {
			return strings.TrimSpace(strings.Trim(jsonString(parsed.Error.Code), `"`))
		}
	}
	if len(raw) > 0 {
		return truncate(string(raw), 500)
	}
	return http.StatusText(status)
}

func jsonString(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

var _ Client = (*openRouterClient)(nil)
