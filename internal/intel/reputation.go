package intel

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"threatlens/internal/models"
	apperrors "threatlens/pkg/errors"
)

const providerReputation = "reputation"

// ReputationClient talks to the URL/file reputation service. Submit starts
// an analysis; FetchAnalysis reads its current state. A well-formed response
// with a non-terminal status is a valid snapshot, not a fault.
type ReputationClient struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
}

func NewReputationClient(baseURL, apiKey string) *ReputationClient {
	return &ReputationClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpc:   &http.Client{Timeout: 30 * time.Second},
	}
}

type submitResponse struct {
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

type analysisResponse struct {
	Data struct {
		ID         string `json:"id"`
		Attributes struct {
			Status  string         `json:"status"`
			Stats   map[string]int `json:"stats"`
			Results map[string]struct {
				Category string `json:"category"`
				Result   string `json:"result"`
			} `json:"results"`
		} `json:"attributes"`
	} `json:"data"`
}

type fileResponse struct {
	Data struct {
		ID         string `json:"id"`
		Attributes struct {
			LastAnalysisStats   map[string]int `json:"last_analysis_stats"`
			LastAnalysisResults map[string]struct {
				Category string `json:"category"`
				Result   string `json:"result"`
			} `json:"last_analysis_results"`
		} `json:"attributes"`
	} `json:"data"`
}

// Submit enqueues target for analysis and returns the provider's analysis id.
func (c *ReputationClient) Submit(ctx context.Context, target string) (string, error) {
	form := url.Values{}
	form.Set("url", target)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/urls", strings.NewReader(form.Encode()))
	if err != nil {
		return "", apperrors.NewProviderError(providerReputation, "submit", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("x-apikey", c.apiKey)

	body, _, err := c.do(req, "submit")
	if err != nil {
		return "", err
	}

	var parsed submitResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", apperrors.NewProviderError(providerReputation, "submit", fmt.Errorf("decode response: %w", err))
	}
	if parsed.Data.ID == "" {
		return "", apperrors.NewProviderError(providerReputation, "submit", fmt.Errorf("response missing analysis id"))
	}
	return parsed.Data.ID, nil
}

// FetchAnalysis reads the current state of a previously submitted analysis.
func (c *ReputationClient) FetchAnalysis(ctx context.Context, analysisID string) (*AnalysisSnapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/analyses/"+url.PathEscape(analysisID), nil)
	if err != nil {
		return nil, apperrors.NewProviderError(providerReputation, "fetch analysis", err)
	}
	req.Header.Set("x-apikey", c.apiKey)

	body, header, err := c.do(req, "fetch analysis")
	if err != nil {
		return nil, err
	}

	var parsed analysisResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, apperrors.NewProviderError(providerReputation, "fetch analysis", fmt.Errorf("decode response: %w", err))
	}

	snap := &AnalysisSnapshot{
		AnalysisID: analysisID,
		Status:     NormalizeStatus(parsed.Data.Attributes.Status),
		RetryAfter: parseRetryAfter(header),
	}
	if snap.Status == StatusCompleted {
		snap.Stats = parsed.Data.Attributes.Stats
		snap.Results = make(map[string]models.EngineResult, len(parsed.Data.Attributes.Results))
		for engine, r := range parsed.Data.Attributes.Results {
			snap.Results[engine] = models.EngineResult{Category: r.Category, Result: r.Result}
		}
	}
	return snap, nil
}

// LookupFileHash fetches the provider's existing report for a file hash.
// Hash lookups are synchronous on the provider side so the snapshot is
// always terminal: completed when known, failed when unknown.
func (c *ReputationClient) LookupFileHash(ctx context.Context, hash string) (*AnalysisSnapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/files/"+url.PathEscape(hash), nil)
	if err != nil {
		return nil, apperrors.NewProviderError(providerReputation, "lookup file", err)
	}
	req.Header.Set("x-apikey", c.apiKey)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, apperrors.NewProviderError(providerReputation, "lookup file", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return &AnalysisSnapshot{AnalysisID: hash, Status: StatusFailed}, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperrors.NewProviderError(providerReputation, "lookup file", fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NewProviderError(providerReputation, "lookup file", err)
	}

	var parsed fileResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, apperrors.NewProviderError(providerReputation, "lookup file", fmt.Errorf("decode response: %w", err))
	}

	snap := &AnalysisSnapshot{
		AnalysisID: hash,
		Status:     StatusCompleted,
		Stats:      parsed.Data.Attributes.LastAnalysisStats,
		Results:    make(map[string]models.EngineResult, len(parsed.Data.Attributes.LastAnalysisResults)),
	}
	for engine, r := range parsed.Data.Attributes.LastAnalysisResults {
		snap.Results[engine] = models.EngineResult{Category: r.Category, Result: r.Result}
	}
	return snap, nil
}

func (c *ReputationClient) do(req *http.Request, op string) ([]byte, http.Header, error) {
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, nil, apperrors.NewProviderError(providerReputation, op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, nil, apperrors.NewProviderError(providerReputation, op, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, apperrors.NewProviderError(providerReputation, op, err)
	}
	return body, resp.Header, nil
}

func parseRetryAfter(header http.Header) time.Duration {
	raw := header.Get("Retry-After")
	if raw == "" {
		return 0
	}
	secs, err := strconv.Atoi(raw)
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
