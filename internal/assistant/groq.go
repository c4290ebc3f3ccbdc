// ABOUTME: Groq chat-completions client speaking the OpenAI-compatible API
// ABOUTME: Implements the Completer interface used by the assistant service

package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/huddleapp/huddle/internal/store"
)

// DefaultBaseURL is Groq's OpenAI-compatible endpoint root.
const DefaultBaseURL = "https://api.groq.com/openai/v1"

// DefaultModel matches the model the product shipped with.
const DefaultModel = "llama-3.1-8b-instant"

// Completer produces an assistant reply for a conversation.
type Completer interface {
	Complete(ctx context.Context, turns []store.Turn) (string, error)
}

// GroqClient calls Groq's chat-completions endpoint.
type GroqClient struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

// NewGroqClient builds a client. Empty baseURL and model fall back to the
// Groq defaults.
func NewGroqClient(baseURL, apiKey, model string) (*GroqClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("groq api key is required")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	return &GroqClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{Timeout: 60 * time.Second},
	}, nil
}

type completionRequest struct {
	Model       string       `json:"model"`
	Messages    []store.Turn `json:"messages"`
	Temperature float64      `json:"temperature"`
	MaxTokens   int          `json:"max_tokens"`
	TopP        float64      `json:"top_p"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends the full transcript and returns the model's reply text.
func (g *GroqClient) Complete(ctx context.Context, turns []store.Turn) (string, error) {
	body, err := json.Marshal(completionRequest{
		Model:       g.model,
		Messages:    turns,
		Temperature: 1,
		MaxTokens:   1024,
		TopP:        1,
	})
	if err != nil {
		return "", fmt.Errorf("encoding completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling completion API: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("reading completion response: %w", err)
	}

	var parsed completionResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("decoding completion response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		if parsed.Error != nil {
			return "", fmt.Errorf("completion API error (status %d): %s", resp.StatusCode, parsed.Error.Message)
		}
		return "", fmt.Errorf("completion API returned status %d", resp.StatusCode)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("completion API returned no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}
