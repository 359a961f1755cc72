// Package constants provides shared constants used throughout the tagctl
// codebase. This includes timeouts, limits, file permissions, and other
// configuration values that should be consistent across the application.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for HTTP requests to the
	// content repository API
	DefaultHTTPTimeout = 15 * time.Second

	// CollectTimeout is the timeout for a full tag collection pass
	CollectTimeout = 5 * time.Minute

	// MutateTimeout is the timeout for a full merge/rename/remove batch
	MutateTimeout = 10 * time.Minute

	// VerifyRetryDelay is the pause before re-reading an item whose first
	// post-write verification disagreed with the write
	VerifyRetryDelay = 500 * time.Millisecond
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// SecureFilePermissions is for sensitive files like the session token (rw-------)
	SecureFilePermissions = 0600
)

// Limit constants define various limits and capacities
const (
	// SearchPageSize is the batch size requested from the search endpoint
	SearchPageSize = 1000

	// MaxSearchPages caps the pagination loop so collection terminates even
	// when the server-side total disagrees with actual page delivery
	MaxSearchPages = 100

	// MaxBrowseDepth caps recursion during the browse fallback
	MaxBrowseDepth = 20

	// MaxVerifyRetries is how many times a failed write verification is
	// retried before the item is reported as verify-failed
	MaxVerifyRetries = 1

	// DefaultSimilarityThreshold is the inclusive score cutoff used by the
	// similarity commands when none is given
	DefaultSimilarityThreshold = 70
)
