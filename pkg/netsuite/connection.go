package netsuite

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ajitpratap0/tap-netsuite/pkg/errors"
	"github.com/ajitpratap0/tap-netsuite/pkg/logger"
	"github.com/ajitpratap0/tap-netsuite/pkg/suitetalk"
)

// Registry maps stream names to adapters. It is built once and read-only
// afterwards.
type Registry struct {
	adapters map[string]*Adapter
	names    []string
}

func newRegistry(descs []EntityDescriptor, session suitetalk.Session, lock sync.Locker, pageSize int, log *zap.Logger) (*Registry, error) {
	r := &Registry{adapters: make(map[string]*Adapter, len(descs))}
	for _, d := range descs {
		if err := d.validate(); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeConfig, "invalid descriptor")
		}
		if _, exists := r.adapters[d.Stream]; exists {
			return nil, errors.New(errors.ErrorTypeConfig, fmt.Sprintf("stream %s registered twice", d.Stream))
		}
		r.adapters[d.Stream] = newAdapter(d, session, lock, pageSize, log)
		r.names = append(r.names, d.Stream)
	}
	sort.Strings(r.names)
	return r, nil
}

// Lookup returns the adapter registered for stream.
func (r *Registry) Lookup(stream string) (*Adapter, error) {
	a, ok := r.adapters[stream]
	if !ok {
		return nil, errors.New(errors.ErrorTypeLookup, fmt.Sprintf("unknown stream %s", stream)).
			WithDetail("stream", stream)
	}
	return a, nil
}

// Names returns the registered stream names in sorted order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}

// Connection owns one session and dispatches Fetch and Post to the adapter
// registered for a stream. Page pulls and upserts on the session are
// serialised, so concurrent Fetch calls on one Connection are safe but do
// not run in parallel.
type Connection struct {
	session  suitetalk.Session
	mu       sync.Mutex
	registry *Registry
	logger   *zap.Logger
}

// Option configures a Connection.
type Option func(*options)

type options struct {
	pageSize    int
	logger      *zap.Logger
	descriptors []EntityDescriptor
}

// WithPageSize sets the search page size. Non-positive values keep the default.
func WithPageSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.pageSize = n
		}
	}
}

// WithLogger sets the connection logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithDescriptors replaces the built-in catalog.
func WithDescriptors(descs []EntityDescriptor) Option {
	return func(o *options) {
		o.descriptors = descs
	}
}

// Open establishes one session through opener and builds the registry bound
// to it.
func Open(ctx context.Context, opener suitetalk.Opener, creds suitetalk.Credentials, caching bool, opts ...Option) (*Connection, error) {
	session, err := opener.Open(ctx, creds, caching)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConnection, "failed to open session").
			WithDetail("account", creds.AccountID)
	}

	conn, err := NewConnection(session, opts...)
	if err != nil {
		_ = session.Close()
		return nil, err
	}
	return conn, nil
}

// NewConnection builds a Connection over an established session. The
// Connection takes ownership of the session.
func NewConnection(session suitetalk.Session, opts ...Option) (*Connection, error) {
	o := options{
		pageSize:    DefaultPageSize,
		logger:      logger.Get(),
		descriptors: catalog,
	}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Connection{
		session: session,
		logger:  o.logger.With(zap.String("component", "netsuite_connection")),
	}
	registry, err := newRegistry(o.descriptors, session, &c.mu, o.pageSize, c.logger)
	if err != nil {
		return nil, err
	}
	c.registry = registry
	return c, nil
}

// StreamNames returns every registered stream name, sorted.
func (c *Connection) StreamNames() []string {
	return c.registry.Names()
}

// Descriptor returns the descriptor registered for stream.
func (c *Connection) Descriptor(stream string) (EntityDescriptor, error) {
	a, err := c.registry.Lookup(stream)
	if err != nil {
		return EntityDescriptor{}, err
	}
	return a.Descriptor(), nil
}

// Fetch returns a lazy stream over the records of stream. The watermark is
// forwarded only when the stream requires one; otherwise it is ignored.
// The caller must Close the returned stream or drain it.
func (c *Connection) Fetch(ctx context.Context, stream string, watermark *time.Time) (*RecordStream, error) {
	a, err := c.registry.Lookup(stream)
	if err != nil {
		return nil, err
	}
	if !a.desc.RequiresWatermark {
		watermark = nil
	}
	return a.FetchAll(ctx, watermark)
}

// Post writes rec back through the adapter for stream. Streams without
// write-back return (nil, nil).
func (c *Connection) Post(ctx context.Context, stream string, rec suitetalk.Record) (suitetalk.Record, error) {
	a, err := c.registry.Lookup(stream)
	if err != nil {
		return nil, err
	}
	return a.Post(ctx, rec)
}

// Close closes the session.
func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.session.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeConnection, "failed to close session")
	}
	return nil
}
