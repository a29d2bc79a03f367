package scrape

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"

	"gradstats/app/cfg"
	"gradstats/app/clean"
)

// SiteSource pages through the survey site lazily, one results page per
// fetch, and yields its postings as raw records. Paging stops at the first
// empty page or at the configured page cap.
type SiteSource struct {
	http     *resty.Client
	baseURL  string
	maxPages int
	delay    time.Duration

	page      int
	buffered  []clean.RawRecord
	exhausted bool
}

var _ clean.Source = (*SiteSource)(nil)

func NewSiteSource(config *cfg.Cfg) *SiteSource {
	client := resty.New()
	client.SetHeader("User-Agent", config.UserAgent)
	client.SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	client.SetTimeout(30 * time.Second)

	return &SiteSource{
		http:     client,
		baseURL:  config.ScrapeBaseURL,
		maxPages: config.ScrapeMaxPages,
		delay:    time.Duration(config.ScrapeDelay) * time.Second,
	}
}

// Next yields the next posting, fetching further pages on demand. It returns
// nil once the site runs out of results.
func (s *SiteSource) Next(ctx context.Context) (*clean.RawRecord, error) {
	for len(s.buffered) == 0 {
		if s.exhausted {
			return nil, nil
		}
		if err := s.fetchNextPage(ctx); err != nil {
			return nil, err
		}
	}

	record := s.buffered[0]
	s.buffered = s.buffered[1:]
	return &record, nil
}

func (s *SiteSource) fetchNextPage(ctx context.Context) error {
	if s.page >= s.maxPages {
		s.exhausted = true
		return nil
	}

	if s.page > 0 && s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	s.page++

	res, err := s.http.R().
		SetContext(ctx).
		SetQueryParam("page", fmt.Sprintf("%d", s.page)).
		Get(s.baseURL + "/survey/")
	if err != nil {
		return fmt.Errorf("failed to fetch page %d: %w", s.page, err)
	}
	if res.StatusCode() != 200 {
		return fmt.Errorf("failed to fetch page %d: status %d", s.page, res.StatusCode())
	}

	records, err := ParsePage(s.baseURL, bytes.NewReader(res.Body()))
	if err != nil {
		return fmt.Errorf("failed to parse page %d: %w", s.page, err)
	}
	if len(records) == 0 {
		slog.Debug("No postings on page, stopping", "page", s.page)
		s.exhausted = true
		return nil
	}

	slog.Debug("Fetched survey page", "page", s.page, "postings", len(records))
	s.buffered = records
	return nil
}
