// Package suitetalktest provides an in-memory suitetalk.Session for tests.
package suitetalktest

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/ajitpratap0/tap-netsuite/pkg/suitetalk"
)

// Session is an in-memory suitetalk.Session. Searches filter the records
// seeded with Add; upserts create or update by (record type, external id).
type Session struct {
	mu       sync.Mutex
	records  map[string][]suitetalk.Record
	upserted map[string]suitetalk.Record
	nextID   int

	searches []suitetalk.SearchRequest
	upserts  []suitetalk.UpsertRequest
	open     int
	closed   bool

	// SearchErr and UpsertErr, when set, are returned by the matching call.
	SearchErr error
	UpsertErr error
	// PageErr, when set, is returned by the cursor after its first page.
	PageErr error
	// CloseErr, when set, is returned when a cursor is closed.
	CloseErr error
}

// New returns an empty Session.
func New() *Session {
	return &Session{
		records:  make(map[string][]suitetalk.Record),
		upserted: make(map[string]suitetalk.Record),
		nextID:   1000,
	}
}

// Opener returns a suitetalk.Opener that always hands out s.
func (s *Session) Opener() suitetalk.Opener {
	return suitetalk.OpenerFunc(func(context.Context, suitetalk.Credentials, bool) (suitetalk.Session, error) {
		return s, nil
	})
}

// Add seeds records searchable under searchType.
func (s *Session) Add(searchType string, recs ...suitetalk.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[searchType] = append(s.records[searchType], recs...)
}

// Search implements suitetalk.Session.
func (s *Session) Search(ctx context.Context, req suitetalk.SearchRequest) (suitetalk.Cursor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.searches = append(s.searches, req)
	if s.SearchErr != nil {
		return nil, s.SearchErr
	}

	var matched []suitetalk.Record
	for _, rec := range s.records[req.SearchType] {
		if matchAll(rec, req.Filters) {
			matched = append(matched, rec)
		}
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 200
	}
	s.open++
	return &cursor{session: s, records: matched, pageSize: pageSize, pageErr: s.PageErr, closeErr: s.CloseErr}, nil
}

// Upsert implements suitetalk.Session.
func (s *Session) Upsert(ctx context.Context, req suitetalk.UpsertRequest) (suitetalk.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.upserts = append(s.upserts, req)
	if s.UpsertErr != nil {
		return nil, s.UpsertErr
	}

	body, err := json.Marshal(req.Body)
	if err != nil {
		return nil, err
	}
	rec := suitetalk.Record{}
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, err
	}

	key := req.RecordType + "|" + req.ExternalID
	if prev, ok := s.upserted[key]; ok {
		rec["internalId"] = prev["internalId"]
	} else {
		s.nextID++
		rec["internalId"] = strconv.Itoa(s.nextID)
	}
	rec["externalId"] = req.ExternalID
	rec["recordType"] = req.RecordType
	s.upserted[key] = rec

	out := make(suitetalk.Record, len(rec))
	for k, v := range rec {
		out[k] = v
	}
	return out, nil
}

// Close implements suitetalk.Session.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Searches returns the search requests received so far.
func (s *Session) Searches() []suitetalk.SearchRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]suitetalk.SearchRequest(nil), s.searches...)
}

// Upserts returns the upsert requests received so far.
func (s *Session) Upserts() []suitetalk.UpsertRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]suitetalk.UpsertRequest(nil), s.upserts...)
}

// Calls returns the total number of remote calls received.
func (s *Session) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.searches) + len(s.upserts)
}

// OpenCursors returns the number of cursors not yet closed.
func (s *Session) OpenCursors() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// Closed reports whether Close was called.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

type cursor struct {
	session  *Session
	records  []suitetalk.Record
	pageSize int
	offset   int
	pages    int
	pageErr  error
	closeErr error
	closed   bool
}

func (c *cursor) Next(ctx context.Context) ([]suitetalk.Record, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	if c.closed || c.offset >= len(c.records) {
		return nil, false, nil
	}
	if c.pages > 0 && c.pageErr != nil {
		return nil, false, c.pageErr
	}

	end := min(c.offset+c.pageSize, len(c.records))
	page := c.records[c.offset:end]
	c.offset = end
	c.pages++
	return page, true, nil
}

func (c *cursor) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.session.mu.Lock()
	c.session.open--
	c.session.mu.Unlock()
	return c.closeErr
}

func matchAll(rec suitetalk.Record, filters []suitetalk.Filter) bool {
	for _, f := range filters {
		switch f := f.(type) {
		case suitetalk.StringFilter:
			if !f.Match(rec.Field(f.Field)) {
				return false
			}
		case suitetalk.DateFilter:
			t, ok := timeField(rec, f.Field)
			if !ok || !f.Match(t) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func timeField(rec suitetalk.Record, name string) (time.Time, bool) {
	switch v := rec[name].(type) {
	case time.Time:
		return v, true
	case string:
		t, err := time.Parse(time.RFC3339, v)
		return t, err == nil
	}
	return time.Time{}, false
}
