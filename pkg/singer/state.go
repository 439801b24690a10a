package singer

import (
	"bytes"
	"io"
	"os"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/ajitpratap0/tap-netsuite/pkg/errors"
)

// BookmarkKey is the bookmark field holding a stream's watermark
const BookmarkKey = "lastModifiedDate"

// Bookmark is the resume point of one stream
type Bookmark struct {
	LastModifiedDate string `json:"lastModifiedDate,omitempty"`
}

// Snapshot is the serialised form of State
type Snapshot struct {
	Bookmarks map[string]Bookmark `json:"bookmarks"`
}

// State tracks per-stream bookmarks. Bookmarks only move forward.
type State struct {
	mu        sync.Mutex
	bookmarks map[string]Bookmark
}

// NewState returns an empty state
func NewState() *State {
	return &State{bookmarks: make(map[string]Bookmark)}
}

// ParseState reads a state document. Both a bare {"bookmarks": ...} value
// and a full STATE message are accepted; empty input is an empty state.
func ParseState(r io.Reader) (*State, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to read state")
	}
	st := NewState()
	if len(bytes.TrimSpace(data)) == 0 {
		return st, nil
	}

	var doc struct {
		Type      string              `json:"type"`
		Value     *Snapshot           `json:"value"`
		Bookmarks map[string]Bookmark `json:"bookmarks"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to parse state")
	}
	src := doc.Bookmarks
	if doc.Value != nil {
		src = doc.Value.Bookmarks
	}
	for stream, bm := range src {
		if bm.LastModifiedDate == "" {
			continue
		}
		if _, err := time.Parse(time.RFC3339, bm.LastModifiedDate); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeData, "invalid bookmark").WithDetail("stream", stream)
		}
		st.bookmarks[stream] = bm
	}
	return st, nil
}

// LoadState reads the state file at path; an empty path is an empty state
func LoadState(path string) (*State, error) {
	if path == "" {
		return NewState(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to open state file").WithDetail("path", path)
	}
	defer f.Close()
	return ParseState(f)
}

// Watermark returns the stream's bookmark, or nil if it has none
func (s *State) Watermark(stream string) *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	bm, ok := s.bookmarks[stream]
	if !ok || bm.LastModifiedDate == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, bm.LastModifiedDate)
	if err != nil {
		return nil
	}
	return &t
}

// Advance moves the stream's bookmark to t if t is later. It reports
// whether the bookmark changed.
func (s *State) Advance(stream string, t time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.bookmarks[stream]; ok {
		if prev, err := time.Parse(time.RFC3339, cur.LastModifiedDate); err == nil && !t.After(prev) {
			return false
		}
	}
	s.bookmarks[stream] = Bookmark{LastModifiedDate: t.UTC().Format(time.RFC3339)}
	return true
}

// Snapshot copies the current bookmarks
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := Snapshot{Bookmarks: make(map[string]Bookmark, len(s.bookmarks))}
	for k, v := range s.bookmarks {
		out.Bookmarks[k] = v
	}
	return out
}
