package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestFetch_FirstProxyWins(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("feed body"))
	}))
	defer server.Close()

	f := NewProxyFetcher([]string{server.URL + "/?url="}, time.Second)
	body, err := f.Fetch(context.Background(), "https://example.com/feed")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body != "feed body" {
		t.Errorf("expected feed body, got %q", body)
	}
}

func TestFetch_TargetIsPercentEncoded(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	f := NewProxyFetcher([]string{server.URL + "/?url="}, time.Second)
	target := "https://example.com/feed?adif=1&days=1"
	if _, err := f.Fetch(context.Background(), target); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(gotQuery, url.QueryEscape(target)) {
		t.Errorf("target not percent-encoded in proxy URL: %q", gotQuery)
	}
}

func TestFetch_FallsBackThroughChain(t *testing.T) {
	var calls [3]int32

	handler := func(i int, status int, body string) *httptest.Server {
		return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls[i], 1)
			w.WriteHeader(status)
			w.Write([]byte(body))
		}))
	}

	bad1 := handler(0, http.StatusBadGateway, "")
	bad2 := handler(1, http.StatusTooManyRequests, "")
	good := handler(2, http.StatusOK, "third time lucky")
	defer bad1.Close()
	defer bad2.Close()
	defer good.Close()

	f := NewProxyFetcher([]string{
		bad1.URL + "/?url=",
		bad2.URL + "/?url=",
		good.URL + "/?url=",
	}, time.Second)

	body, err := f.Fetch(context.Background(), "https://example.com/feed")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body != "third time lucky" {
		t.Errorf("expected third proxy body, got %q", body)
	}
	for i, want := range []int32{1, 1, 1} {
		if got := atomic.LoadInt32(&calls[i]); got != want {
			t.Errorf("proxy %d called %d times, want %d", i, got, want)
		}
	}
}

func TestFetch_AllProxiesFailed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	proxies := []string{
		server.URL + "/a?url=",
		server.URL + "/b?url=",
		server.URL + "/c?url=",
	}
	f := NewProxyFetcher(proxies, time.Second)

	_, err := f.Fetch(context.Background(), "https://example.com/feed")
	if err == nil {
		t.Fatal("expected aggregate failure")
	}

	var allFailed *AllProxiesFailedError
	if !errors.As(err, &allFailed) {
		t.Fatalf("expected AllProxiesFailedError, got %T: %v", err, err)
	}
	if allFailed.Target != "https://example.com/feed" {
		t.Errorf("error does not name the target: %q", allFailed.Target)
	}
	if len(allFailed.Proxies) != 3 {
		t.Errorf("error does not name all attempted proxies: %v", allFailed.Proxies)
	}
}

func TestFetch_NoProxiesConfigured(t *testing.T) {
	f := NewProxyFetcher(nil, time.Second)
	if _, err := f.Fetch(context.Background(), "https://example.com"); err == nil {
		t.Fatal("expected error with empty proxy list")
	}
}

func TestFetch_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte("late"))
	}))
	defer server.Close()

	f := NewProxyFetcher([]string{server.URL + "/?url="}, time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := f.Fetch(ctx, "https://example.com/feed"); err == nil {
		t.Fatal("expected cancellation to surface as an error")
	}
}
