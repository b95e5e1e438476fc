package grading

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"interviewd/internal/config"
)

func testConfig(baseURL string) *config.AIConfig {
	return &config.AIConfig{
		OpenAI: config.ProviderConfig{
			APIKey:  "test-key",
			BaseURL: baseURL,
			Model:   "gpt-3.5-turbo",
		},
		TimeoutMS: 5000,
		MaxTokens: 256,
	}
}

func chatResponseBody(content string) string {
	body, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	})
	return string(body)
}

func TestAskQuestionSendsPromptAndAuth(t *testing.T) {
	var captured struct {
		auth string
		body chatRequest
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.auth = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &captured.body))
		io.WriteString(w, chatResponseBody("good answer, but mention closures"))
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), config.ProviderOpenAI)
	feedback, err := c.AskQuestion(context.Background(), "What is a closure?", "A function with captured scope")
	require.NoError(t, err)
	require.Equal(t, "good answer, but mention closures", feedback)

	require.Equal(t, "Bearer test-key", captured.auth)
	require.Equal(t, "gpt-3.5-turbo", captured.body.Model)
	require.Len(t, captured.body.Messages, 2)
	require.Equal(t, "system", captured.body.Messages[0].Role)
	require.Contains(t, captured.body.Messages[1].Content, "Question: What is a closure?")
	require.Contains(t, captured.body.Messages[1].Content, "User's Answer: A function with captured scope")
	require.Nil(t, captured.body.ResponseFormat)
}

func TestEvaluateParsesVerdict(t *testing.T) {
	var captured chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &captured))
		io.WriteString(w, chatResponseBody(`{
			"score": 78,
			"feedback": "solid fundamentals",
			"strengths": ["clear definitions"],
			"weaknesses": ["few examples"]
		}`))
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), config.ProviderOpenAI)
	got, err := c.Evaluate(context.Background(),
		[]string{"q1", "q2"},
		[]string{"a1"},
		[]string{"r1", "r2"})
	require.NoError(t, err)
	require.Equal(t, 78, got.OverallScore)
	require.Equal(t, "solid fundamentals", got.Feedback)
	require.Equal(t, []string{"clear definitions"}, got.Strengths)
	require.Equal(t, []string{"few examples"}, got.Weaknesses)

	require.NotNil(t, captured.ResponseFormat)
	require.Equal(t, "json_object", captured.ResponseFormat.Type)
	// Unanswered questions still appear in the prompt.
	require.Contains(t, captured.Messages[1].Content, "Question 2: q2")
}

func TestEvaluateRejectsNonJSONVerdict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, chatResponseBody("the candidate did well overall"))
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), config.ProviderOpenAI)
	_, err := c.Evaluate(context.Background(), []string{"q"}, []string{"a"}, []string{"r"})
	require.Error(t, err)
	require.Equal(t, KindParse, KindOf(err))
}

func TestMissingAPIKey(t *testing.T) {
	cfg := testConfig("http://unused.invalid")
	cfg.OpenAI.APIKey = ""

	c := NewClient(cfg, config.ProviderOpenAI)
	_, err := c.AskQuestion(context.Background(), "q", "a")
	require.Error(t, err)
	require.Equal(t, KindProvider, KindOf(err))
}

func TestRemoteErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), config.ProviderOpenAI)
	_, err := c.AskQuestion(context.Background(), "q", "a")
	require.Error(t, err)
	require.Equal(t, KindRemote, KindOf(err))
	require.Contains(t, err.Error(), "429")
}

func TestEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"choices": []}`)
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), config.ProviderOpenAI)
	_, err := c.AskQuestion(context.Background(), "q", "a")
	require.Error(t, err)
	require.Equal(t, KindParse, KindOf(err))
}

func TestPerplexityUsesOwnConfig(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &req))
		require.Equal(t, "llama-3-sonar-small-32k-chat", req.Model)
		require.Equal(t, "Bearer pplx-key", r.Header.Get("Authorization"))
		io.WriteString(w, chatResponseBody("ok"))
	}))
	defer srv.Close()

	cfg := testConfig("http://unused.invalid")
	cfg.Perplexity = config.ProviderConfig{
		APIKey:  "pplx-key",
		BaseURL: srv.URL,
		Model:   "llama-3-sonar-small-32k-chat",
	}

	c := NewClient(cfg, config.ProviderPerplexity)
	require.Equal(t, config.ProviderPerplexity, c.Provider())
	feedback, err := c.AskQuestion(context.Background(), "q", "a")
	require.NoError(t, err)
	require.Equal(t, "ok", feedback)
}
