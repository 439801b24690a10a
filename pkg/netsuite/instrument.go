package netsuite

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ajitpratap0/tap-netsuite/pkg/logger"
	"github.com/ajitpratap0/tap-netsuite/pkg/metrics"
	"github.com/ajitpratap0/tap-netsuite/pkg/observability"
	"github.com/ajitpratap0/tap-netsuite/pkg/suitetalk"
)

// Instrumented wraps a Connection with timing logs, Prometheus metrics and
// a trace span per fetch and post. It has the same surface as Connection.
type Instrumented struct {
	*Connection
	metrics *metrics.Collector
}

// Instrument wraps conn. A nil collector uses metrics.Default().
func Instrument(conn *Connection, collector *metrics.Collector) *Instrumented {
	if collector == nil {
		collector = metrics.Default()
	}
	return &Instrumented{Connection: conn, metrics: collector}
}

// Fetch logs the start of the fetch and returns a stream whose end (drained,
// failed or closed) logs the duration and record count.
func (i *Instrumented) Fetch(ctx context.Context, stream string, watermark *time.Time) (*RecordStream, error) {
	ctx = logger.WithStream(ctx, stream)
	log := logger.WithContext(ctx)
	start := time.Now()

	ctx, span := observability.NewSpan(ctx, "netsuite.fetch")
	span.SetAttribute("stream", stream)
	if watermark != nil {
		span.SetAttribute("watermark", watermark.UTC().Format(time.RFC3339))
	}

	log.Info("starting fetch", zap.Timep("watermark", watermark))
	i.metrics.StreamStarted()

	rs, err := i.Connection.Fetch(ctx, stream, watermark)
	if err != nil {
		i.metrics.ObserveFetch(stream, 0, time.Since(start), err)
		log.Error("fetch failed", zap.Error(err))
		span.Finish(err)
		return nil, err
	}

	rs.onClose = func(count int, err error) {
		d := time.Since(start)
		i.metrics.ObserveFetch(stream, count, d, err)
		span.SetAttribute("records", count)
		span.Finish(err)
		if err != nil {
			log.Error("fetch ended with error", zap.Int("records", count), zap.Duration("duration", d), zap.Error(err))
			return
		}
		log.Info("fetch complete", zap.Int("records", count), zap.Duration("duration", d))
	}
	return rs, nil
}

// Post times the write-back and records its outcome.
func (i *Instrumented) Post(ctx context.Context, stream string, rec suitetalk.Record) (suitetalk.Record, error) {
	ctx = logger.WithStream(ctx, stream)
	log := logger.WithContext(ctx)
	timer := metrics.NewTimer("post")

	ctx, span := observability.NewSpan(ctx, "netsuite.post")
	span.SetAttribute("stream", stream)

	res, err := i.Connection.Post(ctx, stream, rec)
	d := timer.Stop()
	span.Finish(err)

	if res == nil && err == nil {
		log.Debug("stream does not support write-back")
		return nil, nil
	}
	i.metrics.ObservePost(stream, d, err)
	if err != nil {
		log.Error("post failed", zap.Duration("duration", d), zap.Error(err))
		return nil, err
	}
	log.Info("post complete", zap.String("internal_id", res.InternalID()), zap.Duration("duration", d))
	return res, nil
}
