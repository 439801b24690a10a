package netsuite

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/tap-netsuite/pkg/errors"
	"github.com/ajitpratap0/tap-netsuite/pkg/metrics"
	"github.com/ajitpratap0/tap-netsuite/pkg/suitetalk"
	"github.com/ajitpratap0/tap-netsuite/pkg/suitetalk/suitetalktest"
	"github.com/ajitpratap0/tap-netsuite/pkg/testutil"
)

// counterValue sums a gathered counter over series matching labels.
func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)

	var total float64
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	series:
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if want, ok := labels[lp.GetName()]; ok && want != lp.GetValue() {
					continue series
				}
			}
			total += m.GetCounter().GetValue()
		}
	}
	return total
}

func TestInstrumented_FetchRecordsMetricsOnDrain(t *testing.T) {
	ctx := testutil.TestContext(t)
	reg := prometheus.NewRegistry()
	fake := seededInvoices(4)
	conn := Instrument(newTestConnection(t, fake), metrics.NewCollector(reg))

	rs, err := conn.Fetch(ctx, "Invoice", nil)
	require.NoError(t, err)
	recs, err := rs.Collect(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 4)

	assert.Equal(t, 4.0, counterValue(t, reg, "tap_netsuite_records_fetched_total", map[string]string{"stream": "Invoice"}))
	assert.Equal(t, 1.0, counterValue(t, reg, "tap_netsuite_fetches_total", map[string]string{"stream": "Invoice", "status": "success"}))
}

func TestInstrumented_FetchUnknownStream(t *testing.T) {
	reg := prometheus.NewRegistry()
	conn := Instrument(newTestConnection(t, suitetalktest.New()), metrics.NewCollector(reg))

	_, err := conn.Fetch(testutil.TestContext(t), "Nope", nil)
	assert.True(t, errors.IsType(err, errors.ErrorTypeLookup))
	assert.Equal(t, 1.0, counterValue(t, reg, "tap_netsuite_fetches_total", map[string]string{"status": "failure"}))
}

func TestInstrumented_Post(t *testing.T) {
	ctx := testutil.TestContext(t)
	reg := prometheus.NewRegistry()
	fake := suitetalktest.New()
	conn := Instrument(newTestConnection(t, fake), metrics.NewCollector(reg))

	res, err := conn.Post(ctx, "JournalEntry", suitetalktest.JournalEntry("JE-9"))
	require.NoError(t, err)
	assert.NotEmpty(t, res.InternalID())

	res, err = conn.Post(ctx, "Invoice", suitetalk.Record{})
	require.NoError(t, err)
	assert.Nil(t, res)

	_, err = conn.Post(ctx, "JournalEntry", suitetalk.Record{"currency": map[string]any{"name": "USD"}})
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))

	assert.Equal(t, 1.0, counterValue(t, reg, "tap_netsuite_posts_total", map[string]string{"status": "success"}))
	assert.Equal(t, 1.0, counterValue(t, reg, "tap_netsuite_posts_total", map[string]string{"status": "failure"}))
	assert.Len(t, fake.Upserts(), 1)
}
