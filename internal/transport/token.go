package transport

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/agentstation/utc"
	"github.com/golang-jwt/jwt/v5"

	"github.com/agentstation/taxonomy-import/pkg/constants"
	"github.com/agentstation/taxonomy-import/pkg/errors"
	"github.com/agentstation/taxonomy-import/pkg/logging"
)

const grantClientCredentials = "client_credentials"

type tokenRequest struct {
	GrantType    string `json:"grant_type"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	Audience     string `json:"audience"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	Scope       string `json:"scope"`
	ExpiresIn   int64  `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// ClientCredentials fetches and caches an access token using the OAuth2
// client-credentials grant. The token is replaced once it is within
// constants.TokenRefreshMargin of expiring.
type ClientCredentials struct {
	tokenURL     string
	clientID     string
	clientSecret string
	http         *http.Client
	now          func() utc.Time

	mu        sync.Mutex
	token     string
	issuedAt  utc.Time
	expiresAt utc.Time
}

// CredentialsOption configures a ClientCredentials source.
type CredentialsOption func(*ClientCredentials)

// WithTokenHTTPClient replaces the client used to call the token server.
func WithTokenHTTPClient(hc *http.Client) CredentialsOption {
	return func(c *ClientCredentials) {
		c.http = hc
	}
}

// WithClock replaces the time source. Used by tests.
func WithClock(now func() utc.Time) CredentialsOption {
	return func(c *ClientCredentials) {
		c.now = now
	}
}

// NewClientCredentials creates a token source for the given token server.
func NewClientCredentials(tokenURL, clientID, clientSecret string, opts ...CredentialsOption) *ClientCredentials {
	c := &ClientCredentials{
		tokenURL:     tokenURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		http:         newHTTPClient(constants.TokenTimeout),
		now:          utc.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Token returns the cached token, fetching a new one when none is held or the
// held one is about to expire.
func (c *ClientCredentials) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if !c.expired(now) {
		return c.token, nil
	}
	if err := c.refresh(ctx, now); err != nil {
		return "", err
	}
	return c.token, nil
}

// IssuedAt returns when the held token was fetched.
func (c *ClientCredentials) IssuedAt() utc.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.issuedAt
}

// ExpiresAt returns when the held token expires.
func (c *ClientCredentials) ExpiresAt() utc.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.expiresAt
}

func (c *ClientCredentials) expired(now utc.Time) bool {
	if c.token == "" {
		return true
	}
	return !now.Time.Before(c.expiresAt.Time.Add(-constants.TokenRefreshMargin))
}

func (c *ClientCredentials) refresh(ctx context.Context, now utc.Time) error {
	body := tokenRequest{
		GrantType:    grantClientCredentials,
		ClientID:     c.clientID,
		ClientSecret: c.clientSecret,
		Audience:     constants.TokenAudience,
	}
	// The token call goes through a bare client so it is never authenticated
	// itself.
	tc := &Client{http: c.http, auth: &NoAuth{}}
	req, err := tc.NewRequest(ctx, http.MethodPost, c.tokenURL, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.NewAuthenticationError(grantClientCredentials, "token request failed", err)
	}

	var tr tokenResponse
	if err := DecodeResponse(resp, &tr); err != nil {
		return errors.NewAuthenticationError(grantClientCredentials, "token server rejected the credentials for "+c.tokenURL, err)
	}
	if tr.AccessToken == "" {
		return errors.NewAuthenticationError(grantClientCredentials, "token response carries no access token", nil)
	}

	expiresAt, err := tokenExpiry(tr, now)
	if err != nil {
		return err
	}

	c.token = tr.AccessToken
	c.issuedAt = now
	c.expiresAt = expiresAt
	logging.FromContext(ctx).Debug().
		Time("expires_at", expiresAt.Time).
		Msg("Fetched access token")
	return nil
}

// tokenExpiry prefers expires_in and falls back to the JWT exp claim.
func tokenExpiry(tr tokenResponse, issuedAt utc.Time) (utc.Time, error) {
	if tr.ExpiresIn > 0 {
		return utc.New(issuedAt.Time.Add(time.Duration(tr.ExpiresIn) * time.Second)), nil
	}

	tok, _, err := jwt.NewParser().ParseUnverified(tr.AccessToken, jwt.MapClaims{})
	if err != nil {
		return utc.Time{}, errors.NewAuthenticationError(grantClientCredentials, "token has no expires_in and is not a JWT", err)
	}
	exp, err := tok.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return utc.Time{}, errors.NewAuthenticationError(grantClientCredentials, "token has no expiry", err)
	}
	return utc.New(exp.Time), nil
}
