// Package config provides the NetSuite-specific configuration that embeds BaseConfig
package config

import (
	"time"

	"github.com/ajitpratap0/tap-netsuite/pkg/errors"
	"github.com/ajitpratap0/tap-netsuite/pkg/validation"
)

// NetSuiteConfig contains configuration for a NetSuite extraction run
type NetSuiteConfig struct {
	BaseConfig `yaml:",inline" json:",inline"`

	// AccountID is the NetSuite account, e.g. 1234567 or 1234567_SB1
	AccountID string `yaml:"account_id" json:"account_id" validate:"required"`
	// BaseURL overrides the account-derived REST endpoint
	BaseURL string `yaml:"base_url" json:"base_url" validate:"omitempty,url"`
	// Caching memoises record lookups for the lifetime of one session
	Caching bool `yaml:"caching" json:"caching"`
	// Streams selects the streams to sync; empty means all registered streams
	Streams []string `yaml:"streams" json:"streams" validate:"dive,required"`
	// StartDate is the watermark used for streams without a bookmark (RFC 3339)
	StartDate string `yaml:"start_date" json:"start_date" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

// NewNetSuiteConfig creates a NetSuiteConfig with defaults for the given account
func NewNetSuiteConfig(accountID string) *NetSuiteConfig {
	return &NetSuiteConfig{
		BaseConfig: *NewBaseConfig("tap-netsuite"),
		AccountID:  accountID,
		Caching:    true,
	}
}

// Validate validates the embedded base config and the NetSuite fields
func (c *NetSuiteConfig) Validate() error {
	if err := c.BaseConfig.Validate(); err != nil {
		return err
	}
	if err := validation.Struct(c); err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "invalid netsuite config")
	}
	return nil
}

// StartTime parses StartDate, returning nil when it is unset
func (c *NetSuiteConfig) StartTime() (*time.Time, error) {
	if c.StartDate == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, c.StartDate)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "invalid start_date")
	}
	return &t, nil
}

// LoadNetSuite loads a NetSuiteConfig from YAML on top of the defaults
func LoadNetSuite(filePath string) (*NetSuiteConfig, error) {
	cfg := NewNetSuiteConfig("")
	if err := Load(filePath, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
