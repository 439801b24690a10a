package rest

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/ajitpratap0/tap-netsuite/pkg/clients"
	"github.com/ajitpratap0/tap-netsuite/pkg/errors"
	"github.com/ajitpratap0/tap-netsuite/pkg/metrics"
	"github.com/ajitpratap0/tap-netsuite/pkg/suitetalk"
)

const tokenPath = "/services/rest/auth/oauth2/v1/token"

// OpenerConfig is shared by every session an Opener creates
type OpenerConfig struct {
	HTTP    *clients.HTTPConfig
	Retry   RetryPolicy
	Metrics *metrics.Collector
	Logger  *zap.Logger
}

// NewOpener returns an Opener that authenticates each session with a
// static access token when one is given, or else the refresh token grant.
// Each session gets its own HTTP client and token cache.
func NewOpener(cfg OpenerConfig) suitetalk.Opener {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return suitetalk.OpenerFunc(func(ctx context.Context, creds suitetalk.Credentials, caching bool) (suitetalk.Session, error) {
		base := creds.BaseURL
		if base == "" {
			if creds.AccountID == "" {
				return nil, errors.New(errors.ErrorTypeConfig, "account id is required")
			}
			base = clients.AccountBaseURL(creds.AccountID)
		}

		ts, err := tokenSource(ctx, base, creds)
		if err != nil {
			return nil, err
		}

		opts := []clients.Option{clients.WithTokenSource(ts)}
		if cfg.Metrics != nil {
			opts = append(opts, clients.WithMetrics(cfg.Metrics))
		}
		client := clients.NewHTTPClient(cfg.HTTP, cfg.Logger, opts...)

		cfg.Logger.Debug("opened netsuite session",
			zap.String("account_id", creds.AccountID),
			zap.String("base_url", base),
			zap.Bool("caching", caching))
		return New(client, base, WithCaching(caching), WithRetry(cfg.Retry), WithLogger(cfg.Logger)), nil
	})
}

func tokenSource(ctx context.Context, base string, creds suitetalk.Credentials) (oauth2.TokenSource, error) {
	if creds.AccessToken != "" {
		return clients.NewStaticTokenSource(creds.AccessToken), nil
	}
	if creds.RefreshToken == "" {
		return nil, errors.New(errors.ErrorTypeAuthentication, "no access token or refresh token configured")
	}
	// the token source refreshes lazily, so it must not die with ctx
	return clients.NewRefreshTokenSource(context.WithoutCancel(ctx), clients.OAuth2Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		RefreshToken: creds.RefreshToken,
		TokenURL:     base + tokenPath,
	}, nil)
}
