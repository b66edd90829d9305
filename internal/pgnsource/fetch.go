package pgnsource

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
)

// Fetcher downloads PGN files over HTTP(S).
type Fetcher struct {
	http           *fasthttp.Client
	defaultTimeout time.Duration
	retryMax       int
}

type Option func(*Fetcher)

func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) { f.defaultTimeout = d }
}

func WithRetry(max int) Option {
	return func(f *Fetcher) { f.retryMax = max }
}

func WithMaxBodySize(n int) Option {
	return func(f *Fetcher) {
		f.http.MaxResponseBodySize = n
	}
}

func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		http:           &fasthttp.Client{ReadTimeout: 30 * time.Second, WriteTimeout: 10 * time.Second, MaxConnsPerHost: 4},
		defaultTimeout: 30 * time.Second,
		retryMax:       3,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// IsRemote reports whether input names an HTTP(S) resource.
func IsRemote(input string) bool {
	s := strings.ToLower(strings.TrimSpace(input))
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Load returns the PGN bytes for a local path or an HTTP(S) URL.
func Load(ctx context.Context, input string, fetcher *Fetcher) ([]byte, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("pgn input is required")
	}
	if IsRemote(input) {
		if fetcher == nil {
			fetcher = NewFetcher()
		}
		return fetcher.Get(ctx, input)
	}
	data, err := os.ReadFile(input)
	if err != nil {
		return nil, fmt.Errorf("read pgn file: %w", err)
	}
	return data, nil
}

func (f *Fetcher) Get(ctx context.Context, url string) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer func() {
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)
	}()

	req.Header.SetMethod(fasthttp.MethodGet)
	req.SetRequestURI(url)
	req.Header.Set("Accept", "application/x-chess-pgn, text/plain, */*")

	attempts := f.retryMax
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		deadline := f.computeDeadline(ctx)
		err := f.http.DoDeadline(req, resp, deadline)
		if err != nil {
			if attempt == attempts {
				return nil, fmt.Errorf("fetch pgn: %w", err)
			}
			lastErr = err
			if sleepErr := sleepWithContext(ctx, backoffDuration(attempt)); sleepErr != nil {
				return nil, lastErr
			}
			continue
		}

		status := resp.StatusCode()
		if status < 200 || status >= 300 {
			err := fmt.Errorf("fetch pgn: status=%d body=%s", status, truncate(string(resp.Body()), 256))
			if attempt == attempts || !shouldRetryStatus(status) {
				return nil, err
			}
			lastErr = err
			if sleepErr := sleepWithContext(ctx, backoffDuration(attempt)); sleepErr != nil {
				return nil, lastErr
			}
			continue
		}

		body := resp.Body()
		out := make([]byte, len(body))
		copy(out, body)
		return out, nil
	}

	if lastErr == nil {
		lastErr = errors.New("unknown error")
	}
	return nil, lastErr
}

func (f *Fetcher) computeDeadline(ctx context.Context) time.Time {
	clientDL := time.Now().Add(f.defaultTimeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(clientDL) {
		return dl
	}
	return clientDL
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func backoffDuration(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if attempt > 6 {
		attempt = 6
	}
	return time.Duration(1<<uint(attempt-1)) * 100 * time.Millisecond
}

func shouldRetryStatus(code int) bool {
	switch code {
	case 500, 502, 503, 504:
		return true
	default:
		return false
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
