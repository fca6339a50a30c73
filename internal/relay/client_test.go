package relay

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Marstronix218/yui-study-buddy-bot/internal/character"
)

func testCharacter() character.Character {
	return character.Character{
		ID:     "haku",
		Name:   "ハク",
		Prompt: "論理的に話す。",
	}
}

func TestRequestReplySuccess(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("path = %q, want /api/chat", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		JSON(w, http.StatusOK, chatResponse{Reply: "なるほど。"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	history := []Turn{{Role: "assistant", Content: "こんにちは"}}

	reply, err := client.RequestReply(context.Background(), "微分とは？", testCharacter(), history)
	if err != nil {
		t.Fatalf("RequestReply failed: %v", err)
	}
	if reply != "なるほど。" {
		t.Errorf("reply = %q", reply)
	}

	if got.Message != "微分とは？" {
		t.Errorf("sent message = %q", got.Message)
	}
	if got.Character.Name != "ハク" || got.Character.Prompt == "" {
		t.Errorf("sent character = %+v", got.Character)
	}
	if len(got.History) != 1 || got.History[0].Role != "assistant" {
		t.Errorf("sent history = %+v", got.History)
	}
}

func TestRequestReplyLocalValidation(t *testing.T) {
	// Server must never be reached.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should have been rejected before the network")
	}))
	defer srv.Close()
	client := NewClient(srv.URL)

	tests := []struct {
		name    string
		message string
		ch      character.Character
	}{
		{"blank message", "   ", testCharacter()},
		{"unnamed character", "hi", character.Character{Prompt: "p"}},
		{"promptless character", "hi", character.Character{Name: "n"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.RequestReply(context.Background(), tt.message, tt.ch, nil)
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Errorf("error = %v, want ValidationError", err)
			}
		})
	}
}

func TestRequestReplyBadRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		JSON(w, http.StatusBadRequest, errorResponse{
			Error:   "Invalid request format",
			Details: json.RawMessage(`["message: must contain at least 1 character"]`),
		})
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).RequestReply(context.Background(), "hi", testCharacter(), nil)

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
	if vErr.Reason != "Invalid request format" {
		t.Errorf("reason = %q", vErr.Reason)
	}
}

func TestRequestReplyProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		JSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "OpenAI API error",
			"details": "rate limited",
		})
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).RequestReply(context.Background(), "hi", testCharacter(), nil)

	var pErr *ProviderError
	if !errors.As(err, &pErr) {
		t.Fatalf("error = %v, want ProviderError", err)
	}
	if pErr.Status != http.StatusInternalServerError {
		t.Errorf("status = %d", pErr.Status)
	}
	if pErr.Message != "OpenAI API error" || pErr.Details != "rate limited" {
		t.Errorf("provider error = %+v", pErr)
	}
}

func TestRequestReplyTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	_, err := NewClient(srv.URL).RequestReply(context.Background(), "hi", testCharacter(), nil)

	var tErr *TransportError
	if !errors.As(err, &tErr) {
		t.Fatalf("error = %v, want TransportError", err)
	}
}
