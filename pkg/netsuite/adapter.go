package netsuite

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ajitpratap0/tap-netsuite/pkg/errors"
	"github.com/ajitpratap0/tap-netsuite/pkg/suitetalk"
)

// Adapter fetches and posts records of one stream. Adapters borrow the
// session of the Connection that built them and never close it.
type Adapter struct {
	desc     EntityDescriptor
	session  suitetalk.Session
	lock     sync.Locker
	pageSize int
	logger   *zap.Logger
}

func newAdapter(desc EntityDescriptor, session suitetalk.Session, lock sync.Locker, pageSize int, log *zap.Logger) *Adapter {
	return &Adapter{
		desc:     desc,
		session:  session,
		lock:     lock,
		pageSize: pageSize,
		logger:   log.With(zap.String("stream", desc.Stream)),
	}
}

// Descriptor returns the adapter's descriptor.
func (a *Adapter) Descriptor() EntityDescriptor {
	return a.desc
}

// FetchAll issues the search for this stream and returns a lazy stream over
// its results. The watermark is applied as given; a nil watermark means a
// full sync.
func (a *Adapter) FetchAll(ctx context.Context, watermark *time.Time) (*RecordStream, error) {
	req := BuildSearch(a.desc, watermark, a.pageSize)

	a.lock.Lock()
	cursor, err := a.session.Search(ctx, req)
	a.lock.Unlock()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeRemote, "search failed").
			WithDetail("stream", a.desc.Stream).
			WithDetail("search_type", req.SearchType)
	}

	a.logger.Debug("search issued",
		zap.String("search_type", req.SearchType),
		zap.Int("filters", len(req.Filters)),
		zap.Int("page_size", req.PageSize))

	return newRecordStream(a.desc.Stream, cursor, a.lock), nil
}

// Post writes rec back when the stream supports it. Streams without
// write-back return (nil, nil) without contacting the session.
func (a *Adapter) Post(ctx context.Context, rec suitetalk.Record) (suitetalk.Record, error) {
	if !a.desc.Writable {
		return nil, nil
	}

	je, err := buildJournalEntry(rec, a.logger)
	if err != nil {
		var e *errors.Error
		if errors.As(err, &e) {
			e.WithDetail("stream", a.desc.Stream)
		}
		return nil, err
	}

	debit, credit := Totals(je)
	a.logger.Info("posting journal entry",
		zap.Int("lines", len(je.LineList)),
		zap.String("external_id", je.ExternalID),
		zap.String("tran_date", je.TranDate),
		zap.String("debit", debit.String()),
		zap.String("credit", credit.String()))

	a.lock.Lock()
	res, err := a.session.Upsert(ctx, suitetalk.UpsertRequest{
		RecordType: a.desc.RemoteType,
		ExternalID: je.ExternalID,
		Body:       je,
	})
	a.lock.Unlock()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeRemote, "upsert failed").
			WithDetail("stream", a.desc.Stream).
			WithDetail("external_id", je.ExternalID)
	}
	return res, nil
}
