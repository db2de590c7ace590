package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"threatlens/internal/intel"
	apperrors "threatlens/pkg/errors"
)

type stubBreach struct {
	report *intel.BreachReport
	err    error
	calls  int
	asked  string
}

func (s *stubBreach) Lookup(ctx context.Context, account string) (*intel.BreachReport, error) {
	s.calls++
	s.asked = account
	return s.report, s.err
}

type stubNews struct {
	articles []intel.Article
	err      error
	asked    string
}

func (s *stubNews) Headlines(ctx context.Context, query string) ([]intel.Article, error) {
	s.asked = query
	return s.articles, s.err
}

type stubSummarizer struct {
	summary string
	err     error
	input   string
}

func (s *stubSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	s.input = text
	return s.summary, s.err
}

func TestBreachCheckValidatesAccount(t *testing.T) {
	breach := &stubBreach{report: &intel.BreachReport{Account: "a@b.com", Found: 1}}
	svc := NewLookupService(breach, &stubNews{}, &stubSummarizer{})

	_, err := svc.BreachCheck(context.Background(), "   ")
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
	assert.Equal(t, 0, breach.calls)

	report, err := svc.BreachCheck(context.Background(), "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, 1, report.Found)
}

func TestDomainIntelNormalizesToRegistrableDomain(t *testing.T) {
	breach := &stubBreach{report: &intel.BreachReport{}}
	news := &stubNews{}
	svc := NewLookupService(breach, news, &stubSummarizer{})

	result, err := svc.DomainIntel(context.Background(), "https://mail.corp.example.com/login", false)
	require.NoError(t, err)

	assert.Equal(t, "example.com", result.Domain)
	assert.Equal(t, "example.com", breach.asked)
	assert.Equal(t, "example.com", news.asked)
}

func TestDomainIntelAggregatesProviders(t *testing.T) {
	breach := &stubBreach{report: &intel.BreachReport{Account: "example.com", Found: 2}}
	news := &stubNews{articles: []intel.Article{{Title: "Breach disclosed", Source: "Wire"}}}
	svc := NewLookupService(breach, news, &stubSummarizer{})

	result, err := svc.DomainIntel(context.Background(), "example.com", false)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Breach.Found)
	require.Len(t, result.News, 1)
	assert.Empty(t, result.Summary)
}

func TestDomainIntelProviderFaultPropagates(t *testing.T) {
	breach := &stubBreach{err: apperrors.NewProviderError("breach-directory", "lookup", fmt.Errorf("timeout"))}
	svc := NewLookupService(breach, &stubNews{}, &stubSummarizer{})

	_, err := svc.DomainIntel(context.Background(), "example.com", false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrProviderUnavailable))
}

func TestDomainIntelSummaryIsBestEffort(t *testing.T) {
	breach := &stubBreach{report: &intel.BreachReport{Found: 1, Entries: []intel.BreachEntry{{Source: "collection-1"}}}}
	news := &stubNews{articles: []intel.Article{{Title: "Credentials leaked", Source: "Wire"}}}

	working := &stubSummarizer{summary: "one breach, one headline"}
	svc := NewLookupService(breach, news, working)
	result, err := svc.DomainIntel(context.Background(), "example.com", true)
	require.NoError(t, err)
	assert.Equal(t, "one breach, one headline", result.Summary)
	assert.Contains(t, working.input, "example.com")
	assert.Contains(t, working.input, "collection-1")

	broken := &stubSummarizer{err: apperrors.NewProviderError("summarizer", "summarize", fmt.Errorf("quota exceeded"))}
	svc = NewLookupService(breach, news, broken)
	result, err = svc.DomainIntel(context.Background(), "example.com", true)
	require.NoError(t, err)
	assert.Empty(t, result.Summary)
}

func TestSummarizeValidatesText(t *testing.T) {
	svc := NewLookupService(&stubBreach{}, &stubNews{}, &stubSummarizer{summary: "ok"})

	_, err := svc.Summarize(context.Background(), "")
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))

	summary, err := svc.Summarize(context.Background(), "scan output")
	require.NoError(t, err)
	assert.Equal(t, "ok", summary)
}
