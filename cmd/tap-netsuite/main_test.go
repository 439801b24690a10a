package main

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/tap-netsuite/pkg/compression"
	"github.com/ajitpratap0/tap-netsuite/pkg/config"
	"github.com/ajitpratap0/tap-netsuite/pkg/errors"
	"github.com/ajitpratap0/tap-netsuite/pkg/netsuite"
	"github.com/ajitpratap0/tap-netsuite/pkg/testutil"
)

func TestLoadConfig_EnvOverrides(t *testing.T) {
	path := testutil.WriteFile(t, "netsuite.yaml", []byte(`
account_id: "1111111"
streams: [Customer]
security:
  auth_type: oauth2
  credentials:
    client_id: from-file
`))
	t.Setenv("NETSUITE_ACCOUNT_ID", "2222222_SB1")
	t.Setenv("NETSUITE_STREAMS", "Invoice, VendorBills,")
	t.Setenv("NETSUITE_CLIENT_SECRET", "secret")
	t.Setenv("NETSUITE_REFRESH_TOKEN", "refresh")

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "2222222_SB1", cfg.AccountID)
	assert.Equal(t, []string{"Invoice", "VendorBills"}, cfg.Streams)
	require.NoError(t, cfg.Validate())

	creds := credentials(cfg)
	assert.Equal(t, "from-file", creds.ClientID)
	assert.Equal(t, "secret", creds.ClientSecret)
	assert.Equal(t, "refresh", creds.RefreshToken)
	assert.Empty(t, creds.AccessToken)
}

func TestLoadConfig_AccessTokenImpliesTokenAuth(t *testing.T) {
	t.Setenv("NETSUITE_ACCOUNT_ID", "1234567")
	t.Setenv("NETSUITE_ACCESS_TOKEN", "tok")

	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, config.AuthTypeToken, cfg.Security.AuthType)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "tok", credentials(cfg).AccessToken)
}

func TestReadRecords(t *testing.T) {
	one := testutil.WriteFile(t, "one.json", []byte(`{"externalId":"JE-1"}`))
	recs, err := readRecords(one)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "JE-1", recs[0].Field("externalId"))

	many := testutil.WriteFile(t, "many.json", []byte(` [{"externalId":"JE-1"},{"externalId":"JE-2"}]`))
	recs, err = readRecords(many)
	require.NoError(t, err)
	assert.Len(t, recs, 2)

	bad := testutil.WriteFile(t, "bad.json", []byte(`{`))
	_, err = readRecords(bad)
	assert.True(t, errors.IsType(err, errors.ErrorTypeData))

	_, err = readRecords(filepath.Join(t.TempDir(), "missing.json"))
	assert.True(t, errors.IsType(err, errors.ErrorTypeFile))
}

func TestDiscover_CoversCatalog(t *testing.T) {
	cat := discover()
	require.Len(t, cat.Streams, len(netsuite.Catalog()))
	for _, e := range cat.Streams {
		assert.Equal(t, []string{"internalId"}, e.KeyProperties, e.Stream)
	}
}

func TestSync_WritesCompressedOutput(t *testing.T) {
	var queries atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/services/rest/query/v1/suiteql" {
			http.NotFound(w, r)
			return
		}
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		queries.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"hasMore":false,"items":[
			{"id":"7","recordtype":"invoice","lastmodifieddate":"2024-05-01T10:00:00Z"},
			{"id":"8","recordtype":"invoice","lastmodifieddate":"2024-05-02T10:00:00Z"}]}`))
	}))
	defer srv.Close()

	path := testutil.WriteFile(t, "netsuite.yaml", []byte(`
account_id: "1234567"
base_url: `+srv.URL+`
streams: [Invoice]
security:
  auth_type: token
  credentials:
    access_token: tok
observability:
  enable_metrics: false
  log_level: error
`))
	out := filepath.Join(t.TempDir(), "sync.jsonl.zst")

	a := &app{configPath: path}
	require.NoError(t, a.setup(true))
	defer a.close()
	require.NoError(t, a.sync(context.Background(), &syncFlags{outputPath: out}, os.Stdout))
	assert.EqualValues(t, 1, queries.Load())

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	r, err := compression.NewReader(f, compression.Zstd)
	require.NoError(t, err)
	defer r.Close()

	var types []string
	var last map[string]any
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		var m map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &m))
		types = append(types, m["type"].(string))
		last = m
	}
	require.NoError(t, sc.Err())
	assert.Equal(t, []string{"SCHEMA", "RECORD", "RECORD", "STATE"}, types)
	assert.Equal(t, map[string]any{"bookmarks": map[string]any{
		"Invoice": map[string]any{"lastModifiedDate": "2024-05-02T10:00:00Z"},
	}}, last["value"])
}
