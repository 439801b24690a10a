// Package config provides configuration management for the NetSuite tap.
//
// # Key Features
//
// - BaseConfig: shared sections (performance, timeouts, reliability, security, observability)
// - NetSuiteConfig: account, stream selection, caching and start date on top of BaseConfig
// - Environment variable substitution with ${VAR_NAME} syntax
// - Defaults from NewNetSuiteConfig and validation through Validate
//
// # Usage
//
//	cfg, err := config.LoadNetSuite("tap.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//		log.Fatal(err)
//	}
//
// ## Environment Variable Substitution
//
//	# tap.yaml
//	account_id: ${NETSUITE_ACCOUNT}
//	caching: true
//	streams: [Customer, Invoice, JournalEntry]
//	security:
//	  auth_type: oauth2
//	  credentials:
//	    client_id: ${NETSUITE_CLIENT_ID}
//	    client_secret: ${NETSUITE_CLIENT_SECRET}
//	    refresh_token: ${NETSUITE_REFRESH_TOKEN}
//
// Unset variables substitute to the empty string, which Validate then reports.
package config
