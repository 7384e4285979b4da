package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"mealmate/internal/config"
)

const (
	openAIAPIURL = "https://api.openai.com/v1/chat/completions"
	openAIModel  = "gpt-3.5-turbo"
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
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
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// openAIClient is a client for the OpenAI chat-completion API.
type openAIClient struct {
	apiKey     string
	url        string
	httpClient *http.Client
}

// NewOpenAIClient creates a new OpenAI API client. The per-request
// deadline comes from the Request, so the underlying http.Client does
// not carry its own timeout.
func NewOpenAIClient(cfg *config.Config) Completer {
	return &openAIClient{
		apiKey:     cfg.OpenAIAPIKey,
		url:        openAIAPIURL,
		httpClient: &http.Client{},
	}
}

// Complete sends a chat-completion request and returns the first choice's text.
func (c *openAIClient) Complete(ctx context.Context, req Request) (string, error) {
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	messages := make([]chatMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.User})

	body := chatRequest{
		Model:       openAIModel,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("completion exceeded %v deadline: %w", timeout, ErrTimeout)
		}
		return "", fmt.Errorf("failed to send request: %w: %w", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return "", fmt.Errorf("openai api error: status=%d body=%s: %w", resp.StatusCode, string(bodyBytes), ErrInvalidAPIKey)
		case http.StatusTooManyRequests:
			return "", fmt.Errorf("openai api error: status=%d body=%s: %w", resp.StatusCode, string(bodyBytes), ErrRateLimited)
		default:
			return "", fmt.Errorf("openai api error: status=%d body=%s", resp.StatusCode, string(bodyBytes))
		}
	}

	var completion chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(completion.Choices) == 0 {
		return req.Fallback, nil
	}

	return completion.Choices[0].Message.Content, nil
}
