package netsuite

import (
	"context"
	"iter"
	"sync"

	"github.com/ajitpratap0/tap-netsuite/pkg/errors"
	"github.com/ajitpratap0/tap-netsuite/pkg/suitetalk"
)

// RecordStream is a lazy, forward-only sequence of records backed by one
// remote cursor. It is not restartable: once exhausted, closed or failed it
// yields nothing more. A RecordStream is owned by a single consumer.
type RecordStream struct {
	stream string
	cursor suitetalk.Cursor
	// session guards page pulls on a session shared with other streams
	session sync.Locker

	page  []suitetalk.Record
	pos   int
	count int
	err   error
	done  bool

	onClose func(count int, err error)
}

func newRecordStream(stream string, cursor suitetalk.Cursor, session sync.Locker) *RecordStream {
	if session == nil {
		session = &sync.Mutex{}
	}
	return &RecordStream{stream: stream, cursor: cursor, session: session}
}

// Next returns the next record. It returns (nil, false, nil) once the result
// set is exhausted and (nil, false, err) if a page fetch failed. The cursor
// is released on exhaustion and on failure.
func (s *RecordStream) Next(ctx context.Context) (suitetalk.Record, bool, error) {
	for {
		if s.done {
			return nil, false, s.err
		}
		if s.pos < len(s.page) {
			rec := s.page[s.pos]
			s.pos++
			s.count++
			return rec, true, nil
		}
		if err := s.fetchPage(ctx); err != nil {
			s.finish(err)
			return nil, false, s.err
		}
	}
}

func (s *RecordStream) fetchPage(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.session.Lock()
	page, ok, err := s.cursor.Next(ctx)
	s.session.Unlock()

	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeRemote, "search page failed").
			WithDetail("stream", s.stream)
	}
	if !ok {
		s.finish(nil)
		return nil
	}
	s.page, s.pos = page, 0
	return nil
}

// Err returns the error that ended the stream, if any.
func (s *RecordStream) Err() error {
	return s.err
}

// Count returns the number of records yielded so far.
func (s *RecordStream) Count() int {
	return s.count
}

// Close releases the cursor and reports a failure to do so. It is safe to
// call more than once and after the stream has ended on its own; only the
// call that releases the cursor returns an error.
func (s *RecordStream) Close() error {
	if s.done {
		return nil
	}
	s.finish(nil)
	return s.err
}

// All returns an iterator over the remaining records. Breaking out of the
// loop closes the stream. A page failure is yielded once as a non-nil error.
func (s *RecordStream) All(ctx context.Context) iter.Seq2[suitetalk.Record, error] {
	return func(yield func(suitetalk.Record, error) bool) {
		defer s.Close()
		for {
			rec, ok, err := s.Next(ctx)
			if err != nil {
				yield(nil, err)
				return
			}
			if !ok || !yield(rec, nil) {
				return
			}
		}
	}
}

// Collect drains the stream into a slice.
func (s *RecordStream) Collect(ctx context.Context) ([]suitetalk.Record, error) {
	var out []suitetalk.Record
	for rec, err := range s.All(ctx) {
		if err != nil {
			return out, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s *RecordStream) finish(err error) {
	if s.done {
		return
	}
	s.done = true
	s.err = err
	s.page = nil

	s.session.Lock()
	closeErr := s.cursor.Close()
	s.session.Unlock()
	if s.err == nil && closeErr != nil {
		s.err = errors.Wrap(closeErr, errors.ErrorTypeRemote, "closing search cursor").
			WithDetail("stream", s.stream)
	}

	if s.onClose != nil {
		s.onClose(s.count, s.err)
	}
}
