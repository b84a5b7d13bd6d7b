// Package fetch retrieves upstream feed bodies through a chain of CORS
// proxy endpoints. Proxies are tried in order; the first 2xx response
// with a body wins.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"ham-kiosk/dashboard/internal/logging"
)

// maxBodyBytes caps how much of an untrusted feed body is read.
const maxBodyBytes = 4 << 20

// AllProxiesFailedError reports that every configured proxy failed for
// one upstream target.
type AllProxiesFailedError struct {
	Target  string
	Proxies []string
}

func (e *AllProxiesFailedError) Error() string {
	return fmt.Sprintf("all proxies failed for %s (tried %s)",
		e.Target, strings.Join(e.Proxies, ", "))
}

// ProxyFetcher issues GETs through an ordered proxy list. One instance
// is shared by all data-source controllers; the rate limiter keeps the
// kiosk polite toward the public proxies.
type ProxyFetcher struct {
	proxies   []string
	client    *http.Client
	limiter   *rate.Limiter
	timeout   time.Duration
	onAttempt func(outcome string)
}

// NewProxyFetcher builds a fetcher over the given proxy URL prefixes.
// attemptTimeout bounds each single proxy attempt; it does not bound the
// whole chain.
func NewProxyFetcher(proxies []string, attemptTimeout time.Duration) *ProxyFetcher {
	if attemptTimeout <= 0 {
		attemptTimeout = 10 * time.Second
	}
	return &ProxyFetcher{
		proxies: proxies,
		client:  &http.Client{Timeout: attemptTimeout},
		limiter: rate.NewLimiter(rate.Limit(2), 4),
		timeout: attemptTimeout,
	}
}

// SetAttemptObserver registers a callback invoked once per proxy attempt
// with outcome "success" or "failure". Used to feed metrics without the
// fetcher depending on the metrics package.
func (f *ProxyFetcher) SetAttemptObserver(fn func(outcome string)) {
	f.onAttempt = fn
}

func (f *ProxyFetcher) observe(outcome string) {
	if f.onAttempt != nil {
		f.onAttempt(outcome)
	}
}

// Fetch GETs targetURL through the proxy chain and returns the first
// successful body. Per-proxy failures are logged and skipped; if every
// proxy fails the returned error is an *AllProxiesFailedError naming the
// target. There is no retry-with-backoff here: the refresh scheduler's
// own interval is the retry mechanism.
func (f *ProxyFetcher) Fetch(ctx context.Context, targetURL string) (string, error) {
	if len(f.proxies) == 0 {
		return "", fmt.Errorf("no proxies configured for %s", targetURL)
	}

	encoded := url.QueryEscape(targetURL)
	for _, proxy := range f.proxies {
		if err := f.limiter.Wait(ctx); err != nil {
			return "", err
		}

		body, err := f.attempt(ctx, proxy+encoded)
		if err != nil {
			f.observe("failure")
			logging.Warn("proxy attempt failed",
				"proxy", proxy,
				"target", targetURL,
				"error", err.Error(),
			)
			continue
		}
		f.observe("success")
		return body, nil
	}

	return "", &AllProxiesFailedError{Target: targetURL, Proxies: append([]string(nil), f.proxies...)}
}

func (f *ProxyFetcher) attempt(ctx context.Context, fullURL string) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, fullURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", err
	}
	return string(body), nil
}
