// Package collyfetcher implements extract.Fetcher using gocolly.
package collyfetcher

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"syscall"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/mfalzone/emailsift/internal/extract"
)

// DefaultUserAgent is a browser-like identity; plenty of sites reject the Go
// default outright.
const DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Config controls collector behavior.
type Config struct {
	UserAgent    string
	Timeout      time.Duration
	MaxBodyBytes int
}

// Fetcher implements extract.Fetcher using the Colly collector.
type Fetcher struct {
	cfg           Config
	baseCollector *colly.Collector
}

// New builds a Fetcher.
func New(cfg Config) *Fetcher {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 10 << 20
	}

	c := colly.NewCollector(colly.Async(false))
	c.IgnoreRobotsTxt = true
	// Clones share the visit store; the same URL must stay fetchable across requests.
	c.AllowURLRevisit = true
	c.WithTransport(newHTTPTransport())

	return &Fetcher{cfg: cfg, baseCollector: c}
}

// Fetch executes a single HTTP GET and returns the page body as text.
// The body is capped at MaxBodyBytes; larger responses fail with
// extract.ErrSizeExceeded. A status outside [200, 300) fails with
// *extract.StatusError.
func (f *Fetcher) Fetch(ctx context.Context, url string) (extract.Page, error) {
	var (
		result     extract.Page
		fetchErr   error
		statusCode int
	)
	start := time.Now()

	collector := f.baseCollector.Clone()
	collector.UserAgent = f.cfg.UserAgent
	collector.IgnoreRobotsTxt = true
	collector.AllowURLRevisit = true
	collector.SetRequestTimeout(f.cfg.Timeout)
	// One past the cap so an at-cap truncation is distinguishable from a
	// response that is exactly the cap.
	collector.MaxBodySize = f.cfg.MaxBodyBytes + 1

	collector.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
		r.Headers.Set("Accept-Language", "en-US,en;q=0.9")
	})
	collector.OnResponse(func(r *colly.Response) {
		result = extract.Page{
			URL:        url,
			FinalURL:   r.Request.URL.String(),
			StatusCode: r.StatusCode,
			Body:       string(r.Body),
			Duration:   time.Since(start),
		}
	})
	collector.OnError(func(r *colly.Response, err error) {
		if r != nil {
			statusCode = r.StatusCode
		}
		fetchErr = err
	})

	if err := runCollector(ctx, collector, url); err != nil {
		return extract.Page{}, err
	}
	if fetchErr != nil {
		return extract.Page{}, classifyError(fetchErr, statusCode)
	}
	if len(result.Body) > f.cfg.MaxBodyBytes {
		return extract.Page{}, fmt.Errorf("%w: body larger than %d bytes", extract.ErrSizeExceeded, f.cfg.MaxBodyBytes)
	}
	if result.StatusCode < 200 || result.StatusCode >= 300 {
		return extract.Page{}, &extract.StatusError{Code: result.StatusCode}
	}
	return result, nil
}

// runCollector drives the collector on its own goroutine so the fetch remains
// responsive to context cancellation.
func runCollector(ctx context.Context, collector *colly.Collector, url string) error {
	done := make(chan struct{})
	go func() {
		// Visit errors are surfaced through the OnError hook.
		_ = collector.Visit(url)
		close(done)
	}()

	select {
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w: %v", extract.ErrTimeout, ctx.Err())
		}
		return fmt.Errorf("fetch canceled: %w", ctx.Err())
	case <-done:
		return nil
	}
}

// classifyError maps transport failures onto the pipeline error taxonomy.
func classifyError(err error, statusCode int) error {
	if statusCode >= 100 && (statusCode < 200 || statusCode >= 300) {
		return &extract.StatusError{Code: statusCode}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return fmt.Errorf("%w: %s", extract.ErrDNS, dnsErr.Name)
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return fmt.Errorf("%w: %v", extract.ErrConnection, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", extract.ErrTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", extract.ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", extract.ErrConnection, err)
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
	}
}
