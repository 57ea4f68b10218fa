package extract

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubFetcher struct {
	page    Page
	err     error
	lastURL string
	calls   int
}

func (s *stubFetcher) Fetch(_ context.Context, url string) (Page, error) {
	s.calls++
	s.lastURL = url
	if s.err != nil {
		return Page{}, s.err
	}
	return s.page, nil
}

func TestService_Extract_SortedUniqueOutput(t *testing.T) {
	t.Parallel()

	fetcher := &stubFetcher{page: Page{
		URL:        "https://acme.net/contact",
		FinalURL:   "https://acme.net/contact",
		StatusCode: 200,
		Body: `<html><body>
			<a href="mailto:zeta@acme.net">mail</a>
			<p>alpha@acme.net or zeta@acme.net</p>
		</body></html>`,
	}}
	svc := NewService(fetcher, zap.NewNop())

	result, err := svc.Extract(context.Background(), "https://acme.net/contact")

	require.NoError(t, err)
	require.Equal(t, []string{"alpha@acme.net", "zeta@acme.net"}, result.Emails)
	require.Equal(t, 2, result.Count)
	require.Equal(t, 200, result.StatusCode)
}

func TestService_Extract_FiltersFalsePositives(t *testing.T) {
	t.Parallel()

	fetcher := &stubFetcher{page: Page{
		StatusCode: 200,
		Body: `<body>
			real@acme.net
			noreply@example.com
			photo@2x.png
		</body>`,
	}}
	svc := NewService(fetcher, zap.NewNop())

	result, err := svc.Extract(context.Background(), "https://acme.net/")

	require.NoError(t, err)
	require.Equal(t, []string{"real@acme.net"}, result.Emails)
}

func TestService_Extract_InvalidURL(t *testing.T) {
	t.Parallel()

	fetcher := &stubFetcher{}
	svc := NewService(fetcher, zap.NewNop())

	for _, raw := range []string{
		"",
		"not a url",
		"ftp://files.acme.net/list",
		"file:///etc/passwd",
		"/relative/path",
		"acme.net",
	} {
		_, err := svc.Extract(context.Background(), raw)
		require.ErrorIs(t, err, ErrInvalidURL, "url %q", raw)
	}
	require.Zero(t, fetcher.calls, "fetcher must not run for invalid URLs")
}

func TestService_Extract_FetchErrorPropagates(t *testing.T) {
	t.Parallel()

	fetchErr := errors.New("boom")
	svc := NewService(&stubFetcher{err: fetchErr}, zap.NewNop())

	_, err := svc.Extract(context.Background(), "https://acme.net/")

	require.ErrorIs(t, err, fetchErr)
}

func TestService_Extract_EmptyPageSucceeds(t *testing.T) {
	t.Parallel()

	svc := NewService(&stubFetcher{page: Page{StatusCode: 200, Body: ""}}, zap.NewNop())

	result, err := svc.Extract(context.Background(), "https://acme.net/")

	require.NoError(t, err)
	require.Empty(t, result.Emails)
	require.Zero(t, result.Count)
}

func TestSortUnique(t *testing.T) {
	t.Parallel()

	got := sortUnique([]string{"c@c.net", "a@a.net", "c@c.net", "B@b.net"})

	// Case-sensitive set semantics, ascending order.
	require.Equal(t, []string{"B@b.net", "a@a.net", "c@c.net"}, got)
}

func TestValidateURL_Canonicalizes(t *testing.T) {
	t.Parallel()

	got, err := validateURL("https://acme.net/contact?x=1")
	require.NoError(t, err)
	require.Equal(t, "https://acme.net/contact?x=1", got)
}

func TestService_Extract_RecordsDuration(t *testing.T) {
	t.Parallel()

	svc := NewService(&stubFetcher{page: Page{StatusCode: 200, Body: "<body></body>", Duration: time.Millisecond}}, zap.NewNop())

	result, err := svc.Extract(context.Background(), "https://acme.net/")

	require.NoError(t, err)
	require.GreaterOrEqual(t, result.Duration, time.Duration(0))
}
