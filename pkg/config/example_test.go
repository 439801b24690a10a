package config_test

import (
	"fmt"
	"log"
	"time"

	"github.com/ajitpratap0/tap-netsuite/pkg/config"
)

// ExampleNewNetSuiteConfig demonstrates creating a configuration
// with default values.
func ExampleNewNetSuiteConfig() {
	cfg := config.NewNetSuiteConfig("1234567")

	fmt.Printf("Page Size: %d\n", cfg.Performance.PageSize)
	fmt.Printf("Connection Timeout: %s\n", cfg.Timeouts.Connection)
	fmt.Printf("Caching: %t\n", cfg.Caching)

	// Output:
	// Page Size: 200
	// Connection Timeout: 10s
	// Caching: true
}

// ExampleNetSuiteConfig_Validate shows how to validate a configuration
// before using it.
func ExampleNetSuiteConfig_Validate() {
	cfg := config.NewNetSuiteConfig("1234567")
	cfg.Security.Credentials["client_id"] = "id"
	cfg.Security.Credentials["client_secret"] = "secret"
	cfg.Security.Credentials["refresh_token"] = "refresh"
	cfg.Performance.MaxConcurrency = 8
	cfg.Timeouts.Request = 5 * time.Minute

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	fmt.Println("Configuration is valid!")

	// Output:
	// Configuration is valid!
}
