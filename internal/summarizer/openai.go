// Package summarizer turns a topic cluster into a multi-perspective prose summary.
package summarizer

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

	"github.com/DeafMist/topic-radar/internal/models"
)

const systemPrompt = "You are an impartial global news analyst. Provide a balanced, nuanced summary of the topic from multiple perspectives."

// Config configures the OpenAI-compatible chat completions client.
type Config struct {
	APIKey          string
	BaseURL         string
	Model           string
	MaxTokens       int
	Temperature     float64
	Timeout         time.Duration
	MaxContextChars int
	MaxRetries      int
}

// OpenAI summarizes clusters with a chat completions endpoint.
type OpenAI struct {
	cfg    Config
	client *http.Client
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewOpenAI creates a chat completions summarizer.
func NewOpenAI(cfg Config) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai api key is empty")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-3.5-turbo-16k"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	return &OpenAI{cfg: cfg, client: &http.Client{Timeout: cfg.Timeout}}, nil
}

// Summarize asks the model for a multi-perspective analysis of cluster.
func (o *OpenAI) Summarize(ctx context.Context, cluster models.TopicCluster) (string, error) {
	req := chatRequest{
		Model: o.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildPrompt(cluster, o.cfg.MaxContextChars)},
		},
		MaxTokens:   o.cfg.MaxTokens,
		Temperature: o.cfg.Temperature,
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= o.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, backoff(attempt)); err != nil {
				return "", err
			}
		}

		text, retry, err := o.complete(ctx, payload)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if !retry {
			break
		}
	}
	return "", lastErr
}

func (o *OpenAI) complete(ctx context.Context, payload []byte) (string, bool, error) {
	url := strings.TrimRight(o.cfg.BaseURL, "/") + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", false, fmt.Errorf("build chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+o.cfg.APIKey)

	resp, err := o.client.Do(httpReq)
	if err != nil {
		return "", ctx.Err() == nil, fmt.Errorf("chat completion: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", true, fmt.Errorf("read chat response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
		return "", true, fmt.Errorf("chat completion: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if resp.StatusCode != http.StatusOK {
		return "", false, fmt.Errorf("chat completion: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", false, fmt.Errorf("decode chat response: %w", err)
	}
	if parsed.Error != nil {
		return "", false, fmt.Errorf("chat completion: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 || strings.TrimSpace(parsed.Choices[0].Message.Content) == "" {
		return "", false, errors.New("chat completion returned no content")
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), false, nil
}

func buildPrompt(cluster models.TopicCluster, maxChars int) string {
	parts := make([]string, 0, len(cluster.Documents))
	for _, d := range cluster.Documents {
		parts = append(parts, d.Text)
	}
	articles := strings.Join(parts, " ")
	if maxChars > 0 && len(articles) > maxChars {
		articles = truncate(articles, maxChars)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Analyze these news articles about '%s' from multiple international perspectives.\n\n", cluster.Title)
	fmt.Fprintf(&b, "Context: %s\n\n", articles)
	b.WriteString("Please provide:\n")
	b.WriteString("1. A balanced summary of the topic\n")
	b.WriteString("2. Key perspectives from different regions or news sources\n")
	b.WriteString("3. Background context\n")
	b.WriteString("4. Potential implications\n")
	b.WriteString("5. Areas of agreement and disagreement\n\n")
	b.WriteString("Maintain objectivity and represent diverse viewpoints.")
	return b.String()
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	for n > 0 && n < len(s) && !isRuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func isRuneStart(b byte) bool { return b&0xC0 != 0x80 }

func backoff(attempt int) time.Duration {
	return time.Duration(1<<uint(attempt-1)) * 500 * time.Millisecond
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
