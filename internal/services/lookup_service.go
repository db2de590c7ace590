package services

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/sync/errgroup"

	"threatlens/internal/intel"
	apperrors "threatlens/pkg/errors"
	"threatlens/pkg/logger"
)

// BreachLookup, NewsFeed and Summarizer are the boundaries to the
// remaining single-call providers.
type BreachLookup interface {
	Lookup(ctx context.Context, account string) (*intel.BreachReport, error)
}

type NewsFeed interface {
	Headlines(ctx context.Context, query string) ([]intel.Article, error)
}

type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// DomainIntel aggregates the provider views of one registrable domain.
type DomainIntel struct {
	Domain  string              `json:"domain"`
	Breach  *intel.BreachReport `json:"breach"`
	News    []intel.Article     `json:"news"`
	Summary string              `json:"summary,omitempty"`
}

type LookupServiceMethods interface {
	BreachCheck(ctx context.Context, account string) (*intel.BreachReport, error)
	News(ctx context.Context, query string) ([]intel.Article, error)
	Summarize(ctx context.Context, text string) (string, error)
	DomainIntel(ctx context.Context, domain string, summarize bool) (*DomainIntel, error)
}

type lookupService struct {
	breach     BreachLookup
	news       NewsFeed
	summarizer Summarizer
	logger     *logger.Logger
}

func NewLookupService(breach BreachLookup, news NewsFeed, summarizer Summarizer) LookupServiceMethods {
	return &lookupService{
		breach:     breach,
		news:       news,
		summarizer: summarizer,
		logger:     logger.NewLogger(logrus.InfoLevel),
	}
}

func (s *lookupService) BreachCheck(ctx context.Context, account string) (*intel.BreachReport, error) {
	if strings.TrimSpace(account) == "" {
		return nil, apperrors.NewInputError("account", "must not be empty")
	}
	return s.breach.Lookup(ctx, account)
}

func (s *lookupService) News(ctx context.Context, query string) ([]intel.Article, error) {
	return s.news.Headlines(ctx, query)
}

func (s *lookupService) Summarize(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", apperrors.NewInputError("text", "must not be empty")
	}
	return s.summarizer.Summarize(ctx, text)
}

// DomainIntel fans out the breach and news lookups concurrently and,
// when asked, feeds the combined result to the summarizer.
func (s *lookupService) DomainIntel(ctx context.Context, domain string, summarize bool) (*DomainIntel, error) {
	registrable, err := normalizeDomain(domain)
	if err != nil {
		return nil, err
	}

	result := &DomainIntel{Domain: registrable}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		report, err := s.breach.Lookup(gctx, registrable)
		if err != nil {
			return err
		}
		result.Breach = report
		return nil
	})
	g.Go(func() error {
		articles, err := s.news.Headlines(gctx, registrable)
		if err != nil {
			return err
		}
		result.News = articles
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if summarize {
		summary, err := s.summarizer.Summarize(ctx, describeIntel(result))
		if err != nil {
			// The aggregation is still useful without the narrative.
			s.logger.WithFields(logger.Fields{"domain": registrable, "error": err}).Warn("Intel summary failed")
		} else {
			result.Summary = summary
		}
	}

	return result, nil
}

// normalizeDomain reduces a hostname or URL to its registrable domain
// (eTLD+1) so lookups hit the same key regardless of subdomain.
func normalizeDomain(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", apperrors.NewInputError("domain", "must not be empty")
	}

	host := trimmed
	if strings.Contains(trimmed, "://") {
		u, err := url.Parse(trimmed)
		if err != nil || u.Hostname() == "" {
			return "", apperrors.NewInputError("domain", "must be a hostname or URL")
		}
		host = u.Hostname()
	}

	registrable, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		// Bare hosts without a public suffix (intranet names) pass through.
		registrable = host
	}
	return registrable, nil
}

func describeIntel(result *DomainIntel) string {
	var b strings.Builder
	b.WriteString("Domain: " + result.Domain + "\n")
	if result.Breach != nil {
		b.WriteString("Breach directory entries found: " + strconv.Itoa(result.Breach.Found) + "\n")
		for _, entry := range result.Breach.Entries {
			b.WriteString("- leaked via " + entry.Source + "\n")
		}
	}
	if len(result.News) > 0 {
		b.WriteString("Recent related headlines:\n")
		for _, article := range result.News {
			b.WriteString("- " + article.Title + " (" + article.Source + ")\n")
		}
	}
	return b.String()
}
