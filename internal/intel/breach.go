package intel

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "threatlens/pkg/errors"
)

const providerBreach = "breach-directory"

// BreachEntry is one leaked credential source for an account.
type BreachEntry struct {
	Source       string `json:"sources"`
	Line         string `json:"line,omitempty"`
	HasPassword  bool   `json:"has_password"`
	PasswordHash string `json:"hash_password,omitempty"`
}

// BreachReport is the breach-directory view of one account.
type BreachReport struct {
	Account string        `json:"account"`
	Found   int           `json:"found"`
	Entries []BreachEntry `json:"entries"`
}

// BreachClient proxies the breach-directory lookup API. One call per
// request, never retried.
type BreachClient struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
}

func NewBreachClient(baseURL, apiKey string) *BreachClient {
	return &BreachClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpc:   &http.Client{Timeout: 15 * time.Second},
	}
}

// Lookup checks account (an email address or domain) against the breach
// directory.
func (c *BreachClient) Lookup(ctx context.Context, account string) (*BreachReport, error) {
	endpoint := fmt.Sprintf("%s/?func=auto&term=%s", c.baseURL, url.QueryEscape(account))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, apperrors.NewProviderError(providerBreach, "lookup", err)
	}
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, apperrors.NewProviderError(providerBreach, "lookup", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperrors.NewProviderError(providerBreach, "lookup", fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NewProviderError(providerBreach, "lookup", err)
	}

	var parsed struct {
		Found  int           `json:"found"`
		Result []BreachEntry `json:"result"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, apperrors.NewProviderError(providerBreach, "lookup", fmt.Errorf("decode response: %w", err))
	}

	return &BreachReport{
		Account: account,
		Found:   parsed.Found,
		Entries: parsed.Result,
	}, nil
}
