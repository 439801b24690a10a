// Package tapnetsuite extracts NetSuite records through SuiteTalk and emits
// them as a Singer message stream, with journal entries writable back by
// external id.
//
// # Architecture
//
// The tap is organised in layers:
//
//  1. Catalog: one EntityDescriptor per stream (154 of them) says which
//     remote type is searched, whether it sits inside a container search
//     type such as Transaction, and whether it takes a watermark, pages or
//     accepts writes. Behaviour is shared; only data differs per stream.
//
//  2. Connection: a Registry of adapters built from the catalog and bound
//     to one suitetalk.Session. Fetch returns a lazy RecordStream; Post
//     upserts a journal entry keyed by its external id.
//
//  3. Session: pkg/suitetalk/rest speaks SuiteQL and the REST record API
//     over an HTTP client with OAuth 2.0, rate limiting, a circuit breaker
//     and retries. pkg/suitetalk/suitetalktest is the in-memory double.
//
//  4. Runner: internal/runner syncs the selected streams concurrently, one
//     session per stream, and writes SCHEMA, RECORD and STATE messages.
//
// # Quick Start
//
//	tap-netsuite streams
//	tap-netsuite discover > catalog.json
//	tap-netsuite sync --config netsuite.yaml --state state.json
//	tap-netsuite post --config netsuite.yaml --stream JournalEntry --file je.json
//
// Using the library directly:
//
//	conn, err := netsuite.Open(ctx, rest.NewOpener(rest.OpenerConfig{}), creds, true)
//	if err != nil {
//	    return err
//	}
//	defer conn.Close()
//
//	rs, err := conn.Fetch(ctx, "Invoice", &since)
//	if err != nil {
//	    return err
//	}
//	for rec, err := range rs.All(ctx) {
//	    ...
//	}
//
// # Key Packages
//
//	pkg/netsuite     - Catalog, registry, record streams, journal upsert
//	pkg/suitetalk    - Session contract, search filters, record refs
//	pkg/singer       - Singer message writer, state and catalog
//	pkg/clients      - HTTP client, OAuth 2.0, rate limiter, circuit breaker
//	pkg/config       - YAML configuration with env substitution and validation
//	pkg/errors       - Typed errors
//	pkg/logger       - Structured logging
//	pkg/metrics      - Prometheus collectors
//	pkg/compression  - Output compression
//
// # Configuration
//
//	account_id: "1234567_SB1"
//	start_date: "2024-01-01T00:00:00Z"
//	streams: [Invoice, Customer, JournalEntry]
//	security:
//	  auth_type: oauth2
//	  credentials:
//	    client_id: ${NETSUITE_CLIENT_ID}
//	    client_secret: ${NETSUITE_CLIENT_SECRET}
//	    refresh_token: ${NETSUITE_REFRESH_TOKEN}
//
// Environment variables are supported with ${VAR_NAME} syntax, and
// NETSUITE_* variables override the file.
package tapnetsuite
