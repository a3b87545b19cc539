package transport

import (
	"context"
	"net/http"
	"strings"

	"github.com/agentstation/taxonomy-import/pkg/constants"
)

// Authenticator applies authentication to HTTP requests.
type Authenticator interface {
	Apply(ctx context.Context, req *http.Request) error
}

// TokenSource hands out a currently valid access token.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// NoAuth implements no authentication.
type NoAuth struct{}

// Apply implements the Authenticator interface for NoAuth.
func (a *NoAuth) Apply(context.Context, *http.Request) error {
	return nil
}

// BearerAuth implements static Bearer token authentication.
type BearerAuth struct {
	Token string
}

// Apply implements the Authenticator interface for BearerAuth.
func (a *BearerAuth) Apply(_ context.Context, req *http.Request) error {
	req.Header.Set("Authorization", "Bearer "+a.Token)
	return nil
}

// HeaderAuth implements custom header authentication.
type HeaderAuth struct {
	Header string
	Value  string
}

// Apply implements the Authenticator interface for HeaderAuth.
func (a *HeaderAuth) Apply(_ context.Context, req *http.Request) error {
	req.Header.Set(a.Header, a.Value)
	return nil
}

// TokenAuth sends a Bearer token fetched from Source before each request.
type TokenAuth struct {
	Source TokenSource
}

// Apply implements the Authenticator interface for TokenAuth.
func (a *TokenAuth) Apply(ctx context.Context, req *http.Request) error {
	token, err := a.Source.Token(ctx)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return nil
}

// NewAuthenticator picks the authenticator for a set of client credentials.
// A blank client id, or the integration-test id, disables authentication.
func NewAuthenticator(tokenURL, clientID, clientSecret string) Authenticator {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" || clientID == constants.IntegrationTestClientID {
		return &NoAuth{}
	}
	return &TokenAuth{Source: NewClientCredentials(tokenURL, clientID, clientSecret)}
}
