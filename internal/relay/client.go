package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/Marstronix218/yui-study-buddy-bot/internal/character"
)

// Turn is one prior exchange entry sent to the relay as context.
type Turn struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// chatRequest is the relay wire format.
type chatRequest struct {
	Message   string        `json:"message"`
	Character chatCharacter `json:"character"`
	History   []Turn        `json:"history,omitempty"`
}

type chatCharacter struct {
	Name   string `json:"name"`
	Prompt string `json:"prompt"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

type errorResponse struct {
	Error   string          `json:"error"`
	Details json.RawMessage `json:"details,omitempty"`
}

// Client talks to the relay endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a relay client for the given base URL
// (e.g. http://localhost:3000).
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
	}
}

// RequestReply sends one conversation turn to the relay and returns
// the assistant's reply text. Inputs are validated before anything is
// sent; failures are one of ValidationError, ProviderError or
// TransportError.
func (c *Client) RequestReply(ctx context.Context, message string, ch character.Character, history []Turn) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", &ValidationError{Reason: "message must not be empty"}
	}
	if ch.Name == "" {
		return "", &ValidationError{Reason: "character name must not be empty"}
	}
	if ch.Prompt == "" {
		return "", &ValidationError{Reason: "character prompt must not be empty"}
	}

	body, err := json.Marshal(chatRequest{
		Message: message,
		Character: chatCharacter{
			Name:   ch.Name,
			Prompt: ch.Prompt,
		},
		History: history,
	})
	if err != nil {
		return "", &TransportError{Err: fmt.Errorf("encode request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", &TransportError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &TransportError{Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		var out chatResponse
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return "", &TransportError{Err: fmt.Errorf("decode response: %w", err)}
		}
		return out.Reply, nil

	case resp.StatusCode == http.StatusBadRequest:
		var out errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&out)
		reason := out.Error
		if reason == "" {
			reason = "request rejected by relay"
		}
		return "", &ValidationError{Reason: reason}

	default:
		var out errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&out)
		message := out.Error
		if message == "" {
			message = resp.Status
		}
		return "", &ProviderError{
			Status:  resp.StatusCode,
			Message: message,
			Details: strings.Trim(string(out.Details), `"`),
		}
	}
}
