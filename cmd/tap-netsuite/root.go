package main

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ajitpratap0/tap-netsuite/pkg/clients"
	"github.com/ajitpratap0/tap-netsuite/pkg/config"
	"github.com/ajitpratap0/tap-netsuite/pkg/logger"
	"github.com/ajitpratap0/tap-netsuite/pkg/metrics"
	"github.com/ajitpratap0/tap-netsuite/pkg/observability"
	"github.com/ajitpratap0/tap-netsuite/pkg/suitetalk"
	"github.com/ajitpratap0/tap-netsuite/pkg/suitetalk/rest"
)

// envPrefix namespaces environment overrides, e.g. NETSUITE_ACCOUNT_ID
const envPrefix = "NETSUITE"

// credential keys read from security.credentials or the environment
var credentialKeys = []string{"client_id", "client_secret", "refresh_token", "access_token"}

// app carries what every subcommand needs once the config is loaded
type app struct {
	configPath string
	logLevel   string

	cfg      *config.NetSuiteConfig
	log      *zap.Logger
	shutdown observability.ShutdownFunc
}

func newRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "tap-netsuite",
		Short: "Extract NetSuite records as a Singer message stream",
		Long: `tap-netsuite extracts NetSuite entities through SuiteTalk and writes
SCHEMA, RECORD and STATE messages to stdout. Journal entries can be
written back by external id.

Settings come from the YAML config file; NETSUITE_* environment
variables override it, e.g. NETSUITE_ACCOUNT_ID or NETSUITE_REFRESH_TOKEN.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Path to the YAML config file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides the config")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tap-netsuite v%s\n", version)
			fmt.Fprintf(cmd.OutOrStdout(), "Go version: %s\n", runtime.Version())
			fmt.Fprintf(cmd.OutOrStdout(), "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})
	root.AddCommand(newStreamsCommand(), newDiscoverCommand(), newSyncCommand(a), newPostCommand(a))
	return root
}

// setup loads the config and starts logging and tracing. Callers defer
// a.close.
func (a *app) setup(requireAccount bool) error {
	cfg, err := loadConfig(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Observability.LogLevel = a.logLevel
	}
	if requireAccount {
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	a.cfg = cfg

	if err := logger.Init(logger.Config{
		Level:    cfg.Observability.LogLevel,
		Encoding: cfg.Observability.LogEncoding,
	}); err != nil {
		return err
	}
	a.log = logger.Get()

	if cfg.Observability.EnableTracing {
		shutdown, err := observability.InitTracing(observability.TracingConfig{
			ServiceName:    "tap-netsuite",
			ServiceVersion: version,
			SamplingRate:   cfg.Observability.TracingSampleRate,
		})
		if err != nil {
			return err
		}
		a.shutdown = shutdown
	}
	return nil
}

func (a *app) close() {
	if a.shutdown != nil {
		if err := a.shutdown(context.Background()); err != nil {
			a.log.Warn("failed to flush traces", zap.Error(err))
		}
	}
	_ = logger.Sync()
}

// opener builds the REST opener from the loaded config.
func (a *app) opener(collector *metrics.Collector) suitetalk.Opener {
	return rest.NewOpener(rest.OpenerConfig{
		HTTP:    clients.HTTPConfigFrom(&a.cfg.BaseConfig),
		Retry:   rest.RetryPolicyFrom(a.cfg.Reliability),
		Metrics: collector,
		Logger:  a.log,
	})
}

// loadConfig reads path (optional) on top of the defaults and applies
// NETSUITE_* environment overrides.
func loadConfig(path string) (*config.NetSuiteConfig, error) {
	cfg := config.NewNetSuiteConfig("")
	if path != "" {
		loaded, err := config.LoadNetSuite(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if s := v.GetString("account_id"); s != "" {
		cfg.AccountID = s
	}
	if s := v.GetString("base_url"); s != "" {
		cfg.BaseURL = s
	}
	if s := v.GetString("start_date"); s != "" {
		cfg.StartDate = s
	}
	if s := v.GetString("streams"); s != "" {
		cfg.Streams = splitList(s)
	}
	if s := v.GetString("auth_type"); s != "" {
		cfg.Security.AuthType = s
	}
	if s := v.GetString("log_level"); s != "" {
		cfg.Observability.LogLevel = s
	}
	if cfg.Security.Credentials == nil {
		cfg.Security.Credentials = make(map[string]string)
	}
	for _, key := range credentialKeys {
		if s := v.GetString(key); s != "" {
			cfg.Security.Credentials[key] = s
		}
	}
	// A bare access token implies token auth.
	if cfg.Security.Credentials["access_token"] != "" && cfg.Security.Credentials["refresh_token"] == "" {
		cfg.Security.AuthType = config.AuthTypeToken
	}
	return cfg, nil
}

// credentials maps the config onto session credentials.
func credentials(cfg *config.NetSuiteConfig) suitetalk.Credentials {
	creds := suitetalk.Credentials{
		AccountID: cfg.AccountID,
		BaseURL:   cfg.BaseURL,
	}
	switch cfg.Security.AuthType {
	case config.AuthTypeToken:
		creds.AccessToken = cfg.Security.Credential("access_token")
	default:
		creds.ClientID = cfg.Security.Credential("client_id")
		creds.ClientSecret = cfg.Security.Credential("client_secret")
		creds.RefreshToken = cfg.Security.Credential("refresh_token")
	}
	return creds
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
