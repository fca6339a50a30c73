package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

// UpstreamMessage is one entry in the prompt sent to the model
// provider.
type UpstreamMessage struct {
	Role    string `json:"role"` // "system", "user" or "assistant"
	Content string `json:"content"`
}

// Upstream produces a completion for a fully prepared prompt.
type Upstream interface {
	Complete(ctx context.Context, messages []UpstreamMessage) (string, error)
}

// OpenAIClient calls the OpenAI chat completions API.
type OpenAIClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewOpenAIClient creates an upstream client. Sampling parameters are
// fixed; they are tuned for conversational character replies.
func NewOpenAIClient(apiKey, model string) *OpenAIClient {
	return &OpenAIClient{
		apiKey:     apiKey,
		model:      model,
		baseURL:    defaultOpenAIBaseURL,
		httpClient: http.DefaultClient,
	}
}

type completionRequest struct {
	Model            string            `json:"model"`
	Messages         []UpstreamMessage `json:"messages"`
	Temperature      float64           `json:"temperature"`
	PresencePenalty  float64           `json:"presence_penalty"`
	FrequencyPenalty float64           `json:"frequency_penalty"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    any    `json:"code"`
	} `json:"error"`
}

// Complete sends the prompt to the chat completions endpoint and
// returns the first choice's content.
func (c *OpenAIClient) Complete(ctx context.Context, messages []UpstreamMessage) (string, error) {
	body, err := json.Marshal(completionRequest{
		Model:            c.model,
		Messages:         messages,
		Temperature:      0.7,
		PresencePenalty:  0.6,
		FrequencyPenalty: 0.3,
	})
	if err != nil {
		return "", fmt.Errorf("encode completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &TransportError{Err: err}
	}
	defer resp.Body.Close()

	var out completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &TransportError{Err: fmt.Errorf("decode completion response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK || out.Error != nil {
		message := resp.Status
		if out.Error != nil {
			message = out.Error.Message
		}
		return "", &ProviderError{
			Status:  resp.StatusCode,
			Message: "OpenAI API error",
			Details: message,
		}
	}

	if len(out.Choices) == 0 {
		return "", &ProviderError{
			Status:  resp.StatusCode,
			Message: "OpenAI API error",
			Details: "completion returned no choices",
		}
	}

	return out.Choices[0].Message.Content, nil
}
