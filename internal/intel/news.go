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

const providerNews = "news"

// Article is one security-news headline.
type Article struct {
	Title       string `json:"title"`
	Source      string `json:"source"`
	URL         string `json:"url"`
	PublishedAt string `json:"published_at"`
}

// NewsClient proxies the news aggregator API.
type NewsClient struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
}

func NewNewsClient(baseURL, apiKey string) *NewsClient {
	return &NewsClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpc:   &http.Client{Timeout: 15 * time.Second},
	}
}

// Headlines fetches recent articles matching query. An empty query falls
// back to general cybersecurity coverage.
func (c *NewsClient) Headlines(ctx context.Context, query string) ([]Article, error) {
	if query == "" {
		query = "cybersecurity"
	}

	endpoint := fmt.Sprintf("%s/everything?q=%s&sortBy=publishedAt&pageSize=20", c.baseURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, apperrors.NewProviderError(providerNews, "headlines", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, apperrors.NewProviderError(providerNews, "headlines", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperrors.NewProviderError(providerNews, "headlines", fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NewProviderError(providerNews, "headlines", err)
	}

	var parsed struct {
		Articles []struct {
			Title  string `json:"title"`
			URL    string `json:"url"`
			Source struct {
				Name string `json:"name"`
			} `json:"source"`
			PublishedAt string `json:"publishedAt"`
		} `json:"articles"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, apperrors.NewProviderError(providerNews, "headlines", fmt.Errorf("decode response: %w", err))
	}

	articles := make([]Article, 0, len(parsed.Articles))
	for _, a := range parsed.Articles {
		articles = append(articles, Article{
			Title:       a.Title,
			Source:      a.Source.Name,
			URL:         a.URL,
			PublishedAt: a.PublishedAt,
		})
	}
	return articles, nil
}
