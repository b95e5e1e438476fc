// Package grading calls a remote chat-completion service for per-answer
// feedback and end-of-interview evaluation. Two interchangeable backends are
// supported; the backend is fixed for a client's lifetime.
package grading

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"interviewd/internal/config"
	"interviewd/internal/model"
)

// Client talks to one grading backend. Each call is an independent request;
// the client holds no persistent connection and performs no retries.
type Client struct {
	provider config.Provider
	cfg      config.ProviderConfig
	maxTok   int
	client   *http.Client
}

// NewClient creates a grading client bound to the given backend. The
// credential is checked per call, not here: a session may be configured
// before its key exists.
func NewClient(cfg *config.AIConfig, provider config.Provider) *Client {
	return &Client{
		provider: provider,
		cfg:      cfg.ForProvider(provider),
		maxTok:   cfg.MaxTokens,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond,
		},
	}
}

// Provider returns the backend this client is bound to.
func (c *Client) Provider() config.Provider { return c.provider }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	MaxTokens      int           `json:"max_tokens,omitempty"`
	Temperature    float64       `json:"temperature"`
	ResponseFormat *struct {
		Type string `json:"type"`
	} `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// AskQuestion requests feedback on one answer to one question.
func (c *Client) AskQuestion(ctx context.Context, questionText, answerText string) (string, error) {
	req := chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: interviewerSystemPrompt},
			{Role: "user", Content: buildFeedbackPrompt(questionText, answerText)},
		},
		MaxTokens:   c.maxTok,
		Temperature: 0.7,
	}
	return c.complete(ctx, req)
}

// Evaluate requests a structured verdict over the full interview.
func (c *Client) Evaluate(ctx context.Context, questions, answers, referenceAnswers []string) (*model.Evaluation, error) {
	req := chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: evaluatorSystemPrompt},
			{Role: "user", Content: buildEvaluationPrompt(questions, answers, referenceAnswers)},
		},
		MaxTokens:   c.maxTok,
		Temperature: 0.3,
		ResponseFormat: &struct {
			Type string `json:"type"`
		}{Type: "json_object"},
	}

	content, err := c.complete(ctx, req)
	if err != nil {
		return nil, err
	}

	var verdict struct {
		Score      int      `json:"score"`
		Feedback   string   `json:"feedback"`
		Strengths  []string `json:"strengths"`
		Weaknesses []string `json:"weaknesses"`
	}
	if err := json.Unmarshal([]byte(content), &verdict); err != nil {
		return nil, &Error{Kind: KindParse, Provider: string(c.provider), Message: "evaluation response is not valid JSON", Err: err}
	}

	return &model.Evaluation{
		OverallScore: verdict.Score,
		Feedback:     verdict.Feedback,
		Strengths:    verdict.Strengths,
		Weaknesses:   verdict.Weaknesses,
	}, nil
}

// complete performs one chat-completion round trip and extracts the first
// choice's message content.
func (c *Client) complete(ctx context.Context, reqBody chatRequest) (string, error) {
	if c.cfg.APIKey == "" {
		return "", &Error{Kind: KindProvider, Provider: string(c.provider), Message: "no API key configured"}
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", &Error{Kind: KindRemote, Provider: string(c.provider), Message: "encode request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", &Error{Kind: KindRemote, Provider: string(c.provider), Message: "build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &Error{Kind: KindRemote, Provider: string(c.provider), Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &Error{Kind: KindRemote, Provider: string(c.provider), Message: "read response", Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return "", &Error{Kind: KindRemote, Provider: string(c.provider), Message: fmt.Sprintf("request failed with status %d", resp.StatusCode)}
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", &Error{Kind: KindParse, Provider: string(c.provider), Message: "malformed completion response", Err: err}
	}
	if len(parsed.Choices) == 0 {
		return "", &Error{Kind: KindParse, Provider: string(c.provider), Message: "empty completion response"}
	}
	return parsed.Choices[0].Message.Content, nil
}
