package constants

import "time"

// Redis key and TTL catalog for the quickshow backend.
// Pattern: quickshow:{module}:{operation}:{identifier}

const CACHE_PREFIX = "quickshow"

// ================== CACHE TTL DURATIONS ==================

const (
	TTL_STATIC_LONG   = 24 * time.Hour // very stable data (movie metadata)
	TTL_STATIC_SHORT  = 6 * time.Hour  // user mirrors
	TTL_SEMI_STATIC   = 1 * time.Hour  // show listings
	TTL_DYNAMIC_SHORT = 5 * time.Minute
	TTL_REALTIME      = 30 * time.Second // live seat occupancy
)

// ================== MOVIES MODULE ==================

const (
	CACHE_KEY_MOVIES_LIST        = CACHE_PREFIX + ":movies:list"
	CACHE_KEY_MOVIE_DETAIL       = CACHE_PREFIX + ":movies:detail:id:" // + tmdb-id
	CACHE_KEY_MOVIES_NOW_PLAYING = CACHE_PREFIX + ":movies:now_playing"
)

const (
	TTL_MOVIES_LIST        = TTL_SEMI_STATIC
	TTL_MOVIE_DETAIL       = TTL_STATIC_LONG
	TTL_MOVIES_NOW_PLAYING = TTL_SEMI_STATIC
)

// ================== SHOWS MODULE ==================

const (
	CACHE_KEY_SHOWS_UPCOMING   = CACHE_PREFIX + ":shows:upcoming"
	CACHE_KEY_SHOWS_FOR_MOVIE  = CACHE_PREFIX + ":shows:movie:id:" // + tmdb-id
	CACHE_KEY_SHOW_OCCUPANCY   = CACHE_PREFIX + ":shows:occupancy:uuid:"
	PATTERN_INVALIDATE_SHOWS   = CACHE_PREFIX + ":shows:*"
	PATTERN_INVALIDATE_MOVIES  = CACHE_PREFIX + ":movies:list*"
)

const (
	TTL_SHOWS_UPCOMING  = TTL_DYNAMIC_SHORT
	TTL_SHOWS_FOR_MOVIE = TTL_DYNAMIC_SHORT
	TTL_SHOW_OCCUPANCY  = TTL_REALTIME
)

// ================== BOOKINGS MODULE ==================

const (
	// Sorted set of pending bookings, scored by release due time (unix
	// seconds). The reaper claims due members and runs the expiry check.
	KEY_BOOKING_RELEASE_DUE = CACHE_PREFIX + ":bookings:release:due"

	CACHE_KEY_USER_BOOKINGS = CACHE_PREFIX + ":bookings:user:id:" // + user-id
)

const (
	TTL_USER_BOOKINGS = TTL_DYNAMIC_SHORT
)
