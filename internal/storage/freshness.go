package storage

import "time"

// IsFresh reports whether a record last written at lastUpdated is still
// within ttl at now. A zero lastUpdated means there is no data and is never
// fresh; the boundary itself is stale. A non-positive ttl is never fresh,
// even for a lastUpdated ahead of now, so a caller passing 0 always refetches.
func IsFresh(lastUpdated time.Time, ttl time.Duration, now time.Time) bool {
	if lastUpdated.IsZero() || ttl <= 0 {
		return false
	}
	return now.Sub(lastUpdated) < ttl
}

// TTLFromSeconds converts a caller supplied TTL. Negative values become zero.
func TTLFromSeconds(seconds int) time.Duration {
	if seconds <= 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
