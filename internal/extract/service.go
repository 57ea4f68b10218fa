package extract

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/mfalzone/emailsift/internal/extractor"
	"github.com/mfalzone/emailsift/internal/telemetry"
)

// Service runs the extraction pipeline end to end:
// validate URL -> fetch -> extract candidates -> filter -> dedupe -> sort.
type Service struct {
	fetcher Fetcher
	logger  *zap.Logger
}

// NewService constructs a Service.
func NewService(fetcher Fetcher, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{fetcher: fetcher, logger: logger}
}

// Extract fetches rawURL and returns the filtered, sorted email list.
// Each call is fully independent; the Service holds no per-request state.
func (s *Service) Extract(ctx context.Context, rawURL string) (Result, error) {
	start := time.Now()

	target, err := validateURL(rawURL)
	if err != nil {
		telemetry.ObserveExtraction("invalid_url", 0, time.Since(start))
		return Result{}, err
	}

	page, err := s.fetcher.Fetch(ctx, target)
	if err != nil {
		telemetry.ObserveExtraction("fetch_error", 0, time.Since(start))
		s.logger.Warn("fetch failed", zap.String("url", target), zap.Error(err))
		return Result{}, err
	}
	telemetry.AddFetchedBytes(len(page.Body))

	// A page that fails to parse yields no candidates rather than an error;
	// a malformed page must not fail the whole request.
	candidates := extractor.Extract(page.Body)
	emails := sortUnique(extractor.Filter(candidates))

	telemetry.ObserveExtraction("ok", len(emails), time.Since(start))
	s.logger.Info("extraction complete",
		zap.String("url", target),
		zap.Int("candidates", len(candidates)),
		zap.Int("emails", len(emails)),
		zap.Duration("duration", time.Since(start)),
	)

	return Result{
		URL:        target,
		FinalURL:   page.FinalURL,
		StatusCode: page.StatusCode,
		Emails:     emails,
		Count:      len(emails),
		Duration:   time.Since(start),
	}, nil
}

// validateURL checks that rawURL is an absolute http(s) URL and returns its
// canonical string form.
func validateURL(rawURL string) (string, error) {
	u, err := url.ParseRequestURI(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: scheme must be http or https", ErrInvalidURL)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: missing host", ErrInvalidURL)
	}
	return u.String(), nil
}

// sortUnique deduplicates (case-sensitive exact match) and sorts ascending.
// Deterministic order keeps results reproducible across runs on the same page.
func sortUnique(emails []string) []string {
	seen := make(map[string]struct{}, len(emails))
	out := make([]string, 0, len(emails))
	for _, e := range emails {
		if _, dup := seen[e]; dup {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	sort.Strings(out)
	return out
}
