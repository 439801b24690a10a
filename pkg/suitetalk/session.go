// Package suitetalk defines the contract the tap consumes from a NetSuite
// session: paginated search, upsert keyed by external id, search filter
// primitives and the record reference types used when writing back.
//
// Implementations own authentication, wire encoding, rate limiting and
// retries. Callers must treat a Session as not safe for concurrent searches.
package suitetalk

import (
	"context"
)

// Record is one raw record as returned by the remote system.
type Record map[string]any

// Field returns a top-level string field, or empty
func (r Record) Field(name string) string {
	if v, ok := r[name].(string); ok {
		return v
	}
	return ""
}

// InternalID returns the remote identity of the record, or empty.
func (r Record) InternalID() string {
	for _, key := range []string{"internalId", "id"} {
		if v := r.Field(key); v != "" {
			return v
		}
	}
	return ""
}

// SearchRequest combines a basic search on one search type with its
// pagination settings.
type SearchRequest struct {
	SearchType string
	Filters    []Filter
	PageSize   int
}

// UpsertRequest is a create-or-update keyed by ExternalID.
type UpsertRequest struct {
	RecordType string
	ExternalID string
	Body       any
}

// Session is an authenticated handle to the remote system.
type Session interface {
	// Search issues a search and returns a cursor over its pages.
	Search(ctx context.Context, req SearchRequest) (Cursor, error)
	// Upsert creates or updates the record identified by req.ExternalID and
	// returns the stored record.
	Upsert(ctx context.Context, req UpsertRequest) (Record, error)
	// Close releases the session.
	Close() error
}

// Cursor yields successive pages of a search result.
type Cursor interface {
	// Next returns the next page. Returns (nil, false, nil) when exhausted.
	Next(ctx context.Context) ([]Record, bool, error)
	// Close releases any server-side state held by the cursor.
	Close() error
}

// Credentials identifies an account and how to authenticate to it.
type Credentials struct {
	AccountID    string
	BaseURL      string
	ClientID     string
	ClientSecret string
	RefreshToken string
	AccessToken  string
}

// Opener establishes sessions. Each call returns an independent session.
type Opener interface {
	Open(ctx context.Context, creds Credentials, caching bool) (Session, error)
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(ctx context.Context, creds Credentials, caching bool) (Session, error)

// Open calls f.
func (f OpenerFunc) Open(ctx context.Context, creds Credentials, caching bool) (Session, error) {
	return f(ctx, creds, caching)
}
