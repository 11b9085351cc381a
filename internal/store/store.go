// internal/store/store.go

// Package store holds per-repository detail entries keyed by repository full
// name. An entry is fetched at most once: once cached it is never refreshed.
package store

import (
	"fmt"
	"strings"
)

// Status describes the state of a cache entry.
type Status int

const (
	StatusAbsent Status = iota
	StatusCached
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusAbsent:
		return "absent"
	case StatusCached:
		return "cached"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Store is a fetch-if-absent cache of JSON-serializable detail values.
type Store interface {
	// Lookup reports the state of the entry for key.
	Lookup(key string) (Status, error)
	// Load decodes the cached entry for key into v. It returns false when the
	// entry is not cached.
	Load(key string, v any) (bool, error)
	// Save stores v as the cached entry for key.
	Save(key string, v any) error
	// MarkFailed records that fetching key failed.
	MarkFailed(key string, reason error) error
}

// SanitizeKey turns an "owner/name" full name into a file-name-safe token.
func SanitizeKey(fullName string) string {
	return strings.ReplaceAll(fullName, "/", "_")
}
