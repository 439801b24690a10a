package netsuite

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/tap-netsuite/pkg/errors"
	"github.com/ajitpratap0/tap-netsuite/pkg/suitetalk/suitetalktest"
	"github.com/ajitpratap0/tap-netsuite/pkg/testutil"
)

func seededInvoices(n int) *suitetalktest.Session {
	fake := suitetalktest.New()
	for i := 0; i < n; i++ {
		fake.Add(ContainerTransaction, suitetalktest.Transaction("invoice", fmt.Sprint(i), "2024-01-01T00:00:00Z"))
	}
	return fake
}

func TestRecordStream_NotRestartable(t *testing.T) {
	ctx := testutil.TestContext(t)
	fake := seededInvoices(5)
	conn := newTestConnection(t, fake, WithPageSize(2))

	rs, err := conn.Fetch(ctx, "Invoice", nil)
	require.NoError(t, err)

	first := 0
	for _, err := range rs.All(ctx) {
		require.NoError(t, err)
		first++
	}
	assert.Equal(t, 5, first)

	second := 0
	for range rs.All(ctx) {
		second++
	}
	assert.Zero(t, second)

	rec, ok, err := rs.Next(ctx)
	assert.Nil(t, rec)
	assert.False(t, ok)
	assert.NoError(t, err)

	// exhaustion did not re-issue the search
	assert.Len(t, fake.Searches(), 1)
	assert.Zero(t, fake.OpenCursors())
}

func TestRecordStream_BreakReleasesCursor(t *testing.T) {
	ctx := testutil.TestContext(t)
	fake := seededInvoices(10)
	conn := newTestConnection(t, fake, WithPageSize(3))

	rs, err := conn.Fetch(ctx, "Invoice", nil)
	require.NoError(t, err)
	require.Equal(t, 1, fake.OpenCursors())

	for range rs.All(ctx) {
		break
	}
	assert.Zero(t, fake.OpenCursors())
	assert.Equal(t, 1, rs.Count())

	_, ok, _ := rs.Next(ctx)
	assert.False(t, ok)
}

func TestRecordStream_CloseIsIdempotent(t *testing.T) {
	ctx := testutil.TestContext(t)
	fake := seededInvoices(3)
	conn := newTestConnection(t, fake)

	rs, err := conn.Fetch(ctx, "Invoice", nil)
	require.NoError(t, err)

	require.NoError(t, rs.Close())
	require.NoError(t, rs.Close())
	assert.Zero(t, fake.OpenCursors())
	assert.Zero(t, rs.Count())
}

func TestRecordStream_CloseReportsCursorFailure(t *testing.T) {
	ctx := testutil.TestContext(t)
	boom := stderrors.New("cursor release failed")
	fake := seededInvoices(3)
	fake.CloseErr = boom
	conn := newTestConnection(t, fake)

	rs, err := conn.Fetch(ctx, "Invoice", nil)
	require.NoError(t, err)
	_, ok, err := rs.Next(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	err = rs.Close()
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.True(t, errors.IsType(err, errors.ErrorTypeRemote))
	assert.Equal(t, err, rs.Err())
	assert.Zero(t, fake.OpenCursors())

	// already released
	assert.NoError(t, rs.Close())
}

func TestRecordStream_PageErrorEndsStream(t *testing.T) {
	ctx := testutil.TestContext(t)
	boom := stderrors.New("SSS_REQUEST_LIMIT_EXCEEDED")
	fake := seededInvoices(5)
	fake.PageErr = boom
	conn := newTestConnection(t, fake, WithPageSize(2))

	rs, err := conn.Fetch(ctx, "Invoice", nil)
	require.NoError(t, err)

	recs, err := rs.Collect(ctx)
	require.Error(t, err)
	assert.Len(t, recs, 2)
	assert.True(t, errors.IsType(err, errors.ErrorTypeRemote))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, err, rs.Err())
	assert.Zero(t, fake.OpenCursors())

	// the failure is sticky
	_, ok, err2 := rs.Next(ctx)
	assert.False(t, ok)
	assert.Equal(t, err, err2)
}

func TestRecordStream_CancelledContext(t *testing.T) {
	fake := seededInvoices(3)
	conn := newTestConnection(t, fake)

	rs, err := conn.Fetch(testutil.TestContext(t), "Invoice", nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, ok, err := rs.Next(ctx)
	assert.False(t, ok)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, fake.OpenCursors())
}

func TestRecordStream_LazyUntilConsumed(t *testing.T) {
	ctx := testutil.TestContext(t)
	fake := seededInvoices(4)
	conn := newTestConnection(t, fake, WithPageSize(2))

	rs, err := conn.Fetch(ctx, "Invoice", nil)
	require.NoError(t, err)
	defer rs.Close()

	rec, ok, err := rs.Next(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "0", rec.InternalID())
	assert.Equal(t, 1, fake.OpenCursors())
}
