// Package extract defines the email extraction pipeline: fetch a single page,
// scan it for email-shaped strings, filter false positives, and return a
// deduplicated sorted list.
package extract

import (
	"context"
	"time"
)

// Page is the fetched content of a single URL.
type Page struct {
	// URL is the URL that was requested.
	URL string
	// FinalURL is the URL after redirects.
	FinalURL string
	// StatusCode is the HTTP status of the final response.
	StatusCode int
	// Body is the response body, assumed UTF-8.
	Body string
	// Duration is the wall-clock time of the fetch.
	Duration time.Duration
}

// Fetcher retrieves a single page over HTTP(S).
type Fetcher interface {
	Fetch(ctx context.Context, url string) (Page, error)
}

// Result is the outcome of a successful extraction.
type Result struct {
	URL        string        `json:"url"`
	FinalURL   string        `json:"final_url,omitempty"`
	StatusCode int           `json:"status_code,omitempty"`
	Emails     []string      `json:"emails"`
	Count      int           `json:"count"`
	Duration   time.Duration `json:"-"`
}
