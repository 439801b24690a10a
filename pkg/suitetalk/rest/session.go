// Package rest implements suitetalk.Session over the NetSuite REST web
// services. Searches run as SuiteQL queries paged with limit and offset;
// upserts use the record service keyed by external id.
package rest

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/ajitpratap0/tap-netsuite/pkg/config"
	"github.com/ajitpratap0/tap-netsuite/pkg/errors"
	"github.com/ajitpratap0/tap-netsuite/pkg/suitetalk"
)

const (
	suiteQLPath = "/services/rest/query/v1/suiteql"
	recordPath  = "/services/rest/record/v1/"

	defaultPageSize = 200
	maxPageSize     = 1000
)

// Doer sends HTTP requests. *clients.HTTPClient implements it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// RetryPolicy bounds retries of throttled and failed requests
type RetryPolicy struct {
	Attempts   int
	Initial    time.Duration
	Max        time.Duration
	Multiplier float64
	Randomize  float64
}

// DefaultRetryPolicy retries three times starting at one second
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Attempts: 3, Initial: time.Second, Max: time.Minute, Multiplier: 2, Randomize: 0.5}
}

// RetryPolicyFrom maps the reliability section of the configuration
func RetryPolicyFrom(r config.ReliabilityConfig) RetryPolicy {
	p := DefaultRetryPolicy()
	p.Attempts = r.RetryAttempts
	if r.RetryDelay > 0 {
		p.Initial = r.RetryDelay
	}
	if r.MaxRetryDelay > 0 {
		p.Max = r.MaxRetryDelay
	}
	if r.RetryMultiplier > 0 {
		p.Multiplier = r.RetryMultiplier
	}
	return p
}

func (p RetryPolicy) backOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.Initial
	b.MaxInterval = p.Max
	b.Multiplier = p.Multiplier
	b.RandomizationFactor = p.Randomize
	b.Reset()
	return b
}

// Session is a suitetalk.Session backed by the REST API
type Session struct {
	client  Doer
	baseURL string
	retry   RetryPolicy
	logger  *zap.Logger

	caching bool
	mu      sync.Mutex
	cache   map[string]suitetalk.Record
}

// Option configures a Session
type Option func(*Session)

// WithCaching memoises record GETs for the life of the session
func WithCaching(enabled bool) Option {
	return func(s *Session) { s.caching = enabled }
}

// WithRetry sets the retry policy
func WithRetry(p RetryPolicy) Option {
	return func(s *Session) { s.retry = p }
}

// WithLogger sets the session logger
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// New creates a session that sends requests through client to baseURL
func New(client Doer, baseURL string, opts ...Option) *Session {
	s := &Session{
		client:  client,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		retry:   DefaultRetryPolicy(),
		logger:  zap.NewNop(),
		cache:   make(map[string]suitetalk.Record),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(zap.String("component", "suitetalk_rest"))
	return s
}

// Search renders req as SuiteQL and returns a cursor. No request is sent
// until the first page is read.
func (s *Session) Search(_ context.Context, req suitetalk.SearchRequest) (suitetalk.Cursor, error) {
	stmt, err := RenderSuiteQL(req)
	if err != nil {
		return nil, err
	}
	size := req.PageSize
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	s.logger.Debug("suiteql search", zap.String("query", stmt), zap.Int("page_size", size))
	return &cursor{session: s, query: stmt, limit: size}, nil
}

// Upsert PUTs req.Body to the record keyed by its external id and returns
// the stored record read back from the Location header.
func (s *Session) Upsert(ctx context.Context, req suitetalk.UpsertRequest) (suitetalk.Record, error) {
	if req.ExternalID == "" {
		return nil, errors.New(errors.ErrorTypeValidation, "upsert requires an external id")
	}
	body, err := encodeBody(req.Body)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to encode upsert body")
	}

	target := s.baseURL + recordPath + recordTypePath(req.RecordType) + "/eid:" + url.PathEscape(req.ExternalID)
	resp, _, err := s.send(ctx, func(ctx context.Context) (*http.Request, error) {
		r, err := http.NewRequestWithContext(ctx, http.MethodPut, target, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		r.Header.Set("Content-Type", "application/json")
		return r, nil
	})
	if err != nil {
		return nil, err
	}

	loc := resp.Header.Get("Location")
	if loc == "" {
		return nil, errors.New(errors.ErrorTypeRemote, "upsert response has no location").
			WithDetail("external_id", req.ExternalID)
	}
	loc = s.resolve(loc)
	s.forget(loc)
	return s.get(ctx, loc)
}

// Get reads one record by type and internal id
func (s *Session) Get(ctx context.Context, recordType, internalID string) (suitetalk.Record, error) {
	return s.get(ctx, s.baseURL+recordPath+recordTypePath(recordType)+"/"+url.PathEscape(internalID))
}

// Close drops the record cache and closes the client if it can be closed
func (s *Session) Close() error {
	s.mu.Lock()
	s.cache = make(map[string]suitetalk.Record)
	s.mu.Unlock()
	if c, ok := s.client.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (s *Session) get(ctx context.Context, target string) (suitetalk.Record, error) {
	if s.caching {
		s.mu.Lock()
		rec, ok := s.cache[target]
		s.mu.Unlock()
		if ok {
			return rec, nil
		}
	}

	_, body, err := s.send(ctx, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	})
	if err != nil {
		return nil, err
	}
	var rec suitetalk.Record
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to decode record")
	}
	rec = normalize(rec)

	if s.caching {
		s.mu.Lock()
		s.cache[target] = rec
		s.mu.Unlock()
	}
	return rec, nil
}

func (s *Session) forget(target string) {
	s.mu.Lock()
	delete(s.cache, target)
	s.mu.Unlock()
}

func (s *Session) resolve(loc string) string {
	if strings.HasPrefix(loc, "http://") || strings.HasPrefix(loc, "https://") {
		return loc
	}
	return s.baseURL + "/" + strings.TrimPrefix(loc, "/")
}

// send issues the request built by build, retrying rate-limited and
// transient failures with exponential backoff. The body is fully read.
func (s *Session) send(ctx context.Context, build func(context.Context) (*http.Request, error)) (*http.Response, []byte, error) {
	b := s.retry.backOff()
	for attempt := 0; ; attempt++ {
		req, err := build(ctx)
		if err != nil {
			return nil, nil, errors.Wrap(err, errors.ErrorTypeInternal, "failed to build request")
		}

		resp, body, err := s.roundTrip(req)
		if err == nil {
			return resp, body, nil
		}
		if !errors.IsRetryable(err) || attempt >= s.retry.Attempts {
			return nil, nil, err
		}

		wait := b.NextBackOff()
		if ra := retryAfter(resp); ra > 0 {
			wait = ra
		}
		if wait == backoff.Stop {
			return nil, nil, err
		}
		s.logger.Warn("request failed, retrying",
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.Int("attempt", attempt+1),
			zap.Duration("wait", wait),
			zap.Error(err))

		select {
		case <-ctx.Done():
			return nil, nil, errors.Wrap(ctx.Err(), errors.ErrorTypeTimeout, "retry wait cancelled")
		case <-time.After(wait):
		}
	}
}

func (s *Session) roundTrip(req *http.Request) (*http.Response, []byte, error) {
	req.Header.Set("Accept", "application/json")
	resp, err := s.client.Do(req)
	if err != nil {
		if errors.IsType(err, errors.ErrorTypeConnection) || errors.IsType(err, errors.ErrorTypeAuthentication) || errors.IsType(err, errors.ErrorTypeRateLimit) {
			return nil, nil, err
		}
		return nil, nil, errors.Wrap(err, errors.ErrorTypeConnection, "request failed")
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp, nil, errors.Wrap(err, errors.ErrorTypeConnection, "failed to read response")
	}
	if err := statusError(resp.StatusCode, body); err != nil {
		return resp, body, err
	}
	return resp, body, nil
}

// apiError is the REST error body
type apiError struct {
	Title   string `json:"title"`
	Status  int    `json:"status"`
	Details []struct {
		Detail    string `json:"detail"`
		ErrorCode string `json:"o:errorCode"`
	} `json:"o:errorDetails"`
}

func statusError(code int, body []byte) error {
	if code < 300 {
		return nil
	}

	msg := http.StatusText(code)
	var errCode string
	var ae apiError
	if json.Unmarshal(body, &ae) == nil {
		if len(ae.Details) > 0 {
			msg = ae.Details[0].Detail
			errCode = ae.Details[0].ErrorCode
		} else if ae.Title != "" {
			msg = ae.Title
		}
	}

	kind := errors.ErrorTypeRemote
	switch {
	case code == http.StatusTooManyRequests:
		kind = errors.ErrorTypeRateLimit
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		kind = errors.ErrorTypeAuthentication
	case code >= http.StatusInternalServerError:
		kind = errors.ErrorTypeConnection
	}
	e := errors.Newf(kind, "netsuite returned %d: %s", code, msg).WithDetail("status", code)
	if errCode != "" {
		e = e.WithDetail("error_code", errCode)
	}
	return e
}

func retryAfter(resp *http.Response) time.Duration {
	if resp == nil {
		return 0
	}
	secs, err := strconv.Atoi(resp.Header.Get("Retry-After"))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// recordTypePath converts a record type to its REST path segment,
// e.g. JournalEntry becomes journalEntry.
func recordTypePath(recordType string) string {
	if recordType == "" {
		return ""
	}
	return strings.ToLower(recordType[:1]) + recordType[1:]
}

type cursor struct {
	session *Session
	query   string
	limit   int
	offset  int
	done    bool
}

type suiteQLPage struct {
	Items   []suitetalk.Record `json:"items"`
	HasMore bool               `json:"hasMore"`
}

// Next fetches the next page
func (c *cursor) Next(ctx context.Context) ([]suitetalk.Record, bool, error) {
	if c.done {
		return nil, false, nil
	}

	payload, err := json.Marshal(map[string]string{"q": c.query})
	if err != nil {
		return nil, false, errors.Wrap(err, errors.ErrorTypeInternal, "failed to encode query")
	}
	target := c.session.baseURL + suiteQLPath + "?limit=" + strconv.Itoa(c.limit) + "&offset=" + strconv.Itoa(c.offset)

	_, body, err := c.session.send(ctx, func(ctx context.Context) (*http.Request, error) {
		r, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		r.Header.Set("Content-Type", "application/json")
		r.Header.Set("Prefer", "transient")
		return r, nil
	})
	if err != nil {
		return nil, false, err
	}

	var page suiteQLPage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, false, errors.Wrap(err, errors.ErrorTypeData, "failed to decode suiteql page")
	}
	if len(page.Items) == 0 {
		c.done = true
		return nil, false, nil
	}
	for i := range page.Items {
		page.Items[i] = normalize(page.Items[i])
	}
	c.offset += len(page.Items)
	c.done = !page.HasMore
	return page.Items, true, nil
}

// Close marks the cursor exhausted. SuiteQL holds no server-side state.
func (c *cursor) Close() error {
	c.done = true
	return nil
}
