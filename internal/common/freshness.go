// Package common provides shared utilities for Perfolio
package common

import "time"

// Freshness TTLs for cached data components
const (
	// FreshnessEOD is how long a cached EOD history is served before a
	// network refetch. Daily bars only change once per trading day.
	FreshnessEOD = 24 * time.Hour
)

// IsFresh returns true if the given timestamp is within the TTL
func IsFresh(updated time.Time, ttl time.Duration) bool {
	if updated.IsZero() {
		return false
	}
	return time.Since(updated) < ttl
}
