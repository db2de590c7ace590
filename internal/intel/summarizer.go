package intel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	apperrors "threatlens/pkg/errors"
)

const providerSummarizer = "summarizer"

const summarizerPrompt = "You are a security analyst. Summarize the following threat data in plain language for a non-expert, flagging anything that needs urgent attention."

// SummarizerClient proxies the generative-AI summary API.
type SummarizerClient struct {
	baseURL string
	apiKey  string
	model   string
	httpc   *http.Client
}

func NewSummarizerClient(baseURL, apiKey, model string) *SummarizerClient {
	return &SummarizerClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		httpc:   &http.Client{Timeout: 60 * time.Second},
	}
}

// Summarize asks the model for a plain-language summary of text.
func (c *SummarizerClient) Summarize(ctx context.Context, text string) (string, error) {
	payload := map[string]interface{}{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "system", "content": summarizerPrompt},
			{"role": "user", "content": text},
		},
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", apperrors.NewProviderError(providerSummarizer, "summarize", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(encoded))
	if err != nil {
		return "", apperrors.NewProviderError(providerSummarizer, "summarize", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", apperrors.NewProviderError(providerSummarizer, "summarize", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", apperrors.NewProviderError(providerSummarizer, "summarize", fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperrors.NewProviderError(providerSummarizer, "summarize", err)
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", apperrors.NewProviderError(providerSummarizer, "summarize", fmt.Errorf("decode response: %w", err))
	}
	if len(parsed.Choices) == 0 {
		return "", apperrors.NewProviderError(providerSummarizer, "summarize", fmt.Errorf("response contained no choices"))
	}
	return parsed.Choices[0].Message.Content, nil
}
