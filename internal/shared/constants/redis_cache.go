package constants

import (
	"fmt"
	"time"
)

// Redis Cache Configuration
// This file centralizes all Redis cache keys and TTL values for the CineBook application
// Pattern: cinebook:{module}:{operation}:{identifier}

// ================== CACHE TTL DURATIONS ==================

// Semi-Static Data (Medium TTL: changes occasionally)
const (
	TTL_SHOW_LIST   = 15 * time.Minute // upcoming show listings
	TTL_SHOW_DETAIL = 1 * time.Hour    // individual show details
)

// Highly Dynamic (Micro TTL: real-time sensitive)
const (
	TTL_OCCUPIED_SEATS = 30 * time.Second // live seat-occupancy reads
)

// Analytics
const (
	TTL_ADMIN_DASHBOARD = 10 * time.Minute
)

// ================== REDIS KEY PREFIXES ==================

const (
	CACHE_PREFIX = "cinebook"
)

// ================== SHOWS MODULE ==================

const (
	CACHE_KEY_SHOWS_UPCOMING     = CACHE_PREFIX + ":shows:upcoming"
	CACHE_KEY_SHOW_DETAIL        = CACHE_PREFIX + ":shows:detail:uuid:"   // + show-id
	CACHE_KEY_SHOW_OCCUPIED      = CACHE_PREFIX + ":shows:occupied:uuid:" // + show-id
	CACHE_PATTERN_SHOWS_OCCUPIED = CACHE_PREFIX + ":shows:occupied:*"
)

// BuildOccupiedSeatsKey builds the cache key for a show's occupied-seats read
func BuildOccupiedSeatsKey(showID string) string {
	return fmt.Sprintf("%s%s", CACHE_KEY_SHOW_OCCUPIED, showID)
}

// BuildShowDetailKey builds the cache key for a show's detail read
func BuildShowDetailKey(showID string) string {
	return fmt.Sprintf("%s%s", CACHE_KEY_SHOW_DETAIL, showID)
}

// ================== ADMIN MODULE ==================

const (
	CACHE_KEY_ADMIN_DASHBOARD = CACHE_PREFIX + ":admin:dashboard"
)
