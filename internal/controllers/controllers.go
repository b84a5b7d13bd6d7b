// Package controllers hosts one controller per data source. Each
// controller listens for its refresh signal on the bus, fetches and
// parses its feed, keeps the last-known-good snapshot, and publishes
// the new state for renderers and API handlers.
package controllers

import (
	"context"
	"time"
)

// Cache keys for last-known-good snapshots.
const (
	cacheKeySpots = "snapshot:spots"
	cacheKeySolar = "snapshot:solar"
	cacheKeyBands = "snapshot:bands"
	cacheKeyQuote = "snapshot:quote"
)

// snapshotTTL bounds how long a stale snapshot survives in cache. The
// cache is the canonical last-known-good store: controllers read it on
// every snapshot, so a kiosk left running through a long outage shows
// the expired/empty state rather than day-old data presented as
// current.
const snapshotTTL = 24 * time.Hour

// Fetcher retrieves one upstream document body. Satisfied by
// fetch.ProxyFetcher; tests substitute a stub.
type Fetcher interface {
	Fetch(ctx context.Context, targetURL string) (string, error)
}
