// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across stages.
package httputil

import (
	"context"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// RetryBaseDelay controls the base duration for exponential backoff on
// HTTP 429 responses. Tests override this to avoid real sleeps.
var RetryBaseDelay = 2 * time.Second

// MaxRetryAfter caps the wait requested by a Retry-After header.
var MaxRetryAfter = 2 * time.Minute

// DoWithRetry executes an HTTP request and retries on HTTP 429 (Too Many
// Requests). Any other status, and any transport error, is returned to the
// caller unchanged after a single attempt.
//
// maxRetries bounds the number of additional attempts; zero or a negative
// value disables retrying. The wait is taken from a Retry-After header
// (seconds) when present, otherwise it starts at RetryBaseDelay and doubles
// each attempt. On each 429 the response body is drained and closed before
// sleeping. If the context is cancelled during a wait the function returns
// ctx.Err(). After exhausting retries the last 429 response is returned so
// the caller can inspect it.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int, logger *slog.Logger) (*http.Response, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}

		if resp.StatusCode != http.StatusTooManyRequests || attempt >= maxRetries {
			return resp, nil
		}

		wait := retryAfter(resp.Header.Get("Retry-After"))
		if wait == 0 {
			wait = time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay
		}

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		logger.Warn("rate limited",
			"url", req.URL.String(),
			"retry_in", wait,
			"attempt", attempt+1,
			"max_retries", maxRetries)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
}

// retryAfter parses a Retry-After header given in seconds. HTTP-date values
// and garbage yield zero so the caller falls back to exponential backoff.
func retryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs <= 0 {
		return 0
	}
	d := time.Duration(secs) * time.Second
	if d > MaxRetryAfter {
		d = MaxRetryAfter
	}
	return d
}
