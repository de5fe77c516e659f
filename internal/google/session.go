package google

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/teemow/drivepush/internal/apperr"
)

// SessionConfig describes how to build an authorized session.
type SessionConfig struct {
	// CredentialsFile is the path to a service-account JSON key.
	CredentialsFile string

	// Scopes are the OAuth scopes to request. DefaultScopes when empty.
	Scopes []string

	// Subject is an optional user to impersonate through domain-wide
	// delegation.
	Subject string
}

// Session is an authorized handle for Google API calls.
type Session struct {
	client      *http.Client
	tokenSource oauth2.TokenSource
	email       string
}

// HTTPClient returns the authorized HTTP client.
func (s *Session) HTTPClient() *http.Client {
	return s.client
}

// TokenSource returns the token source backing the session.
func (s *Session) TokenSource() oauth2.TokenSource {
	return s.tokenSource
}

// Email returns the service account's client email.
func (s *Session) Email() string {
	return s.email
}

// NewSession loads the credential file and returns an authorized session.
// A token is fetched before returning, so the key and scopes are known to
// be accepted by Google.
func NewSession(ctx context.Context, cfg SessionConfig) (*Session, error) {
	if cfg.CredentialsFile == "" {
		return nil, &apperr.CredentialError{Err: errors.New("no credentials file configured")}
	}

	data, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, &apperr.CredentialError{Path: cfg.CredentialsFile, Err: fmt.Errorf("reading credentials: %w", err)}
	}

	return NewSessionFromJSON(ctx, data, cfg)
}

// NewSessionFromJSON is NewSession for key material already in memory.
// cfg.CredentialsFile is only used for error messages.
func NewSessionFromJSON(ctx context.Context, data []byte, cfg SessionConfig) (*Session, error) {
	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = DefaultScopes
	}

	conf, err := google.JWTConfigFromJSON(data, scopes...)
	if err != nil {
		return nil, &apperr.CredentialError{Path: cfg.CredentialsFile, Err: fmt.Errorf("parsing credentials: %w", err)}
	}
	if cfg.Subject != "" {
		conf.Subject = cfg.Subject
	}

	ts := conf.TokenSource(ctx)

	// Validate the key and scopes up front
	if _, err := ts.Token(); err != nil {
		return nil, &apperr.CredentialError{Path: cfg.CredentialsFile, Err: fmt.Errorf("token rejected: %w", err)}
	}

	return &Session{
		client:      newHTTPClient(ctx, ts),
		tokenSource: ts,
		email:       conf.Email,
	}, nil
}

// newHTTPClient returns an HTTP client configured with OAuth2 authentication.
// The client is configured to use HTTP/1.1 to avoid HTTP/2 protocol errors
// on long resumable uploads.
func newHTTPClient(ctx context.Context, ts oauth2.TokenSource) *http.Client {
	client := oauth2.NewClient(ctx, ts)

	base := http.DefaultTransport.(*http.Transport).Clone()
	base.ForceAttemptHTTP2 = false
	base.TLSNextProto = map[string]func(string, *tls.Conn) http.RoundTripper{}

	if transport, ok := client.Transport.(*oauth2.Transport); ok {
		transport.Base = base
	}

	return client
}
