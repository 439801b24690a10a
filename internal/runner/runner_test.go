package runner

import (
	"bufio"
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/tap-netsuite/pkg/errors"
	"github.com/ajitpratap0/tap-netsuite/pkg/metrics"
	"github.com/ajitpratap0/tap-netsuite/pkg/netsuite"
	"github.com/ajitpratap0/tap-netsuite/pkg/singer"
	"github.com/ajitpratap0/tap-netsuite/pkg/suitetalk"
	"github.com/ajitpratap0/tap-netsuite/pkg/suitetalk/suitetalktest"
	"github.com/ajitpratap0/tap-netsuite/pkg/testutil"
)

type message struct {
	Type   string          `json:"type"`
	Stream string          `json:"stream"`
	Record map[string]any  `json:"record"`
	Value  singer.Snapshot `json:"value"`
}

func decode(t *testing.T, buf *bytes.Buffer) []message {
	t.Helper()
	var out []message
	sc := bufio.NewScanner(buf)
	for sc.Scan() {
		var m message
		require.NoError(t, json.Unmarshal(sc.Bytes(), &m))
		out = append(out, m)
	}
	require.NoError(t, sc.Err())
	return out
}

func newRunner(t *testing.T, opener suitetalk.Opener, cfg Config, buf *bytes.Buffer, state *singer.State) *Runner {
	t.Helper()
	return New(opener, suitetalk.Credentials{AccountID: "1234567"}, cfg, singer.NewWriter(buf, 0), state,
		WithMetrics(metrics.NewCollector(prometheus.NewRegistry())),
		WithLogger(testutil.TestLogger(t)))
}

func seed() *suitetalktest.Session {
	fake := suitetalktest.New()
	fake.Add(netsuite.ContainerTransaction,
		suitetalktest.Transaction("invoice", "1", "2023-12-01T00:00:00Z"),
		suitetalktest.Transaction("invoice", "2", "2024-02-01T00:00:00Z"),
		suitetalktest.Transaction("invoice", "3", "2024-03-01T00:00:00Z"),
		suitetalktest.Transaction("vendorBill", "4", "2024-03-05T00:00:00Z"),
	)
	fake.Add("Account",
		suitetalktest.Entity("10", "2020-01-01T00:00:00Z"),
		suitetalktest.Entity("11", "2020-01-02T00:00:00Z"),
	)
	return fake
}

func TestRunner_IncrementalAndFullTable(t *testing.T) {
	ctx := testutil.TestContext(t)
	fake := seed()

	state := singer.NewState()
	state.Advance("Invoice", testutil.MustTime(t, "2024-01-01T00:00:00Z"))

	var buf bytes.Buffer
	r := newRunner(t, fake.Opener(), Config{Streams: []string{"Invoice", "Accounts"}, MaxConcurrency: 2}, &buf, state)
	assert.NotEmpty(t, r.RunID())

	results, err := r.Run(ctx)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Invoice", results[0].Stream)
	assert.Equal(t, 2, results[0].Records)
	assert.Equal(t, "Accounts", results[1].Stream)
	assert.Equal(t, 2, results[1].Records)

	// Invoice moved to the newest record it saw; Accounts never bookmarks.
	require.NotNil(t, state.Watermark("Invoice"))
	assert.True(t, testutil.MustTime(t, "2024-03-01T00:00:00Z").Equal(*state.Watermark("Invoice")))
	assert.Nil(t, state.Watermark("Accounts"))

	perStream := map[string][]string{}
	for _, m := range decode(t, &buf) {
		perStream[m.Stream] = append(perStream[m.Stream], m.Type)
	}
	assert.Equal(t, []string{singer.TypeSchema, singer.TypeRecord, singer.TypeRecord}, perStream["Invoice"])
	assert.Equal(t, []string{singer.TypeSchema, singer.TypeRecord, singer.TypeRecord}, perStream["Accounts"])
	assert.Len(t, perStream[""], 2, "one STATE per stream")

	assert.Equal(t, 0, fake.OpenCursors())
}

func TestRunner_RereadsBookmarkSecond(t *testing.T) {
	ctx := testutil.TestContext(t)
	fake := seed()
	// saved after the previous run read invoice 3, within the same second
	fake.Add(netsuite.ContainerTransaction, suitetalktest.Transaction("invoice", "5", "2024-03-01T00:00:00Z"))

	state := singer.NewState()
	state.Advance("Invoice", testutil.MustTime(t, "2024-03-01T00:00:00Z"))

	var buf bytes.Buffer
	r := newRunner(t, fake.Opener(), Config{Streams: []string{"Invoice"}}, &buf, state)
	results, err := r.Run(ctx)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 2, results[0].Records)

	var got []any
	for _, m := range decode(t, &buf) {
		if m.Type == singer.TypeRecord {
			got = append(got, m.Record["internalId"])
		}
	}
	assert.Equal(t, []any{"3", "5"}, got)
	assert.True(t, testutil.MustTime(t, "2024-03-01T00:00:00Z").Equal(*state.Watermark("Invoice")))
}

func TestResumeAt(t *testing.T) {
	w := testutil.MustTime(t, "2024-03-01T10:00:00Z")
	got := resumeAt(w.Add(250 * time.Millisecond))
	assert.True(t, got.Before(w))
	assert.True(t, got.After(w.Add(-time.Second)))
	assert.Equal(t, "2024-03-01 09:59:59", got.UTC().Format("2006-01-02 15:04:05"))
}

func TestRunner_StartDateAppliesWithoutBookmark(t *testing.T) {
	ctx := testutil.TestContext(t)
	start := testutil.MustTime(t, "2024-02-15T00:00:00Z")

	var buf bytes.Buffer
	r := newRunner(t, seed().Opener(), Config{Streams: []string{"Invoice"}, StartDate: &start}, &buf, nil)

	results, err := r.Run(ctx)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 1, results[0].Records)

	msgs := decode(t, &buf)
	last := msgs[len(msgs)-1]
	assert.Equal(t, singer.TypeState, last.Type)
	assert.Equal(t, "2024-03-01T00:00:00Z", last.Value.Bookmarks["Invoice"].LastModifiedDate)
}

func TestRunner_UnknownStream(t *testing.T) {
	var buf bytes.Buffer
	r := newRunner(t, seed().Opener(), Config{Streams: []string{"Invoice", "Opportunity"}}, &buf, nil)

	_, err := r.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeLookup))
	assert.Zero(t, buf.Len())
}

func TestRunner_EmptySelectionIsEveryStream(t *testing.T) {
	r := newRunner(t, seed().Opener(), Config{Streams: []string{"Invoice", "Invoice"}}, &bytes.Buffer{}, nil)
	streams, err := r.Streams()
	require.NoError(t, err)
	assert.Equal(t, []string{"Invoice"}, streams)

	r = newRunner(t, seed().Opener(), Config{}, &bytes.Buffer{}, nil)
	streams, err = r.Streams()
	require.NoError(t, err)
	assert.Len(t, streams, len(netsuite.Catalog()))
	assert.IsIncreasing(t, streams)
}

func TestRunner_StreamFailureDoesNotStopOthers(t *testing.T) {
	ctx := testutil.TestContext(t)
	fake := seed()
	fake.PageErr = errors.New(errors.ErrorTypeRemote, "page fetch failed")

	state := singer.NewState()
	state.Advance("Invoice", testutil.MustTime(t, "2024-01-01T00:00:00Z"))

	var buf bytes.Buffer
	// One record per page: Invoice needs a second page and fails on it,
	// VendorBills fits on its first.
	r := newRunner(t, fake.Opener(), Config{Streams: []string{"Invoice", "VendorBills"}, PageSize: 1}, &buf, state)

	results, err := r.Run(ctx)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeRemote))

	require.Len(t, results, 2)
	assert.Error(t, results[0].Err)
	assert.Equal(t, 1, results[0].Records)
	assert.NoError(t, results[1].Err)
	assert.Equal(t, 1, results[1].Records)

	// The failed stream keeps its previous bookmark.
	assert.True(t, testutil.MustTime(t, "2024-01-01T00:00:00Z").Equal(*state.Watermark("Invoice")))
	assert.Equal(t, 0, fake.OpenCursors())
}

func TestRunner_OpenFailure(t *testing.T) {
	opener := suitetalk.OpenerFunc(func(context.Context, suitetalk.Credentials, bool) (suitetalk.Session, error) {
		return nil, errors.New(errors.ErrorTypeAuthentication, "invalid token")
	})

	var buf bytes.Buffer
	r := newRunner(t, opener, Config{Streams: []string{"Accounts", "Vendors"}, FailFast: true, MaxConcurrency: 1}, &buf, nil)

	results, err := r.Run(testutil.TestContext(t))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeAuthentication))
	require.NotEmpty(t, results)
	assert.Error(t, results[0].Err)
}
