package clients

import (
	"context"
	"net/http"
	"strings"

	"golang.org/x/oauth2"

	"github.com/ajitpratap0/tap-netsuite/pkg/errors"
)

// OAuth2Config holds the NetSuite integration record credentials used for
// the refresh token grant.
type OAuth2Config struct {
	ClientID     string   `json:"client_id"`
	ClientSecret string   `json:"client_secret"`
	RefreshToken string   `json:"refresh_token"`
	TokenURL     string   `json:"token_url"`
	Scopes       []string `json:"scopes,omitempty"`
}

// AccountHost converts an account id to its host label, e.g. 1234567_SB1
// becomes 1234567-sb1.
func AccountHost(accountID string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(accountID)), "_", "-")
}

// AccountBaseURL is the REST root for an account
func AccountBaseURL(accountID string) string {
	return "https://" + AccountHost(accountID) + ".suitetalk.api.netsuite.com"
}

// TokenURL is the OAuth 2.0 token endpoint for an account
func TokenURL(accountID string) string {
	return AccountBaseURL(accountID) + "/services/rest/auth/oauth2/v1/token"
}

// NewRefreshTokenSource returns a caching token source that trades the
// refresh token for access tokens as they expire. ctx must outlive the
// source; hc, when set, is used for token requests.
func NewRefreshTokenSource(ctx context.Context, cfg OAuth2Config, hc *http.Client) (oauth2.TokenSource, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" || cfg.RefreshToken == "" {
		return nil, errors.New(errors.ErrorTypeConfig, "oauth2 requires client_id, client_secret and refresh_token")
	}
	if cfg.TokenURL == "" {
		return nil, errors.New(errors.ErrorTypeConfig, "oauth2 token url is empty")
	}

	conf := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL:  cfg.TokenURL,
			AuthStyle: oauth2.AuthStyleInHeader,
		},
		Scopes: cfg.Scopes,
	}
	if hc != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, hc)
	}
	return conf.TokenSource(ctx, &oauth2.Token{RefreshToken: cfg.RefreshToken}), nil
}

// NewStaticTokenSource always yields the given bearer token
func NewStaticTokenSource(accessToken string) oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})
}
