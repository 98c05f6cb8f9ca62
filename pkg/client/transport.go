package client

import (
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
)

// unauthenticatedPaths never carry a credential.
var unauthenticatedPaths = []string{"/users/login", "/users/register"}

// Transport attaches the bearer token from Source to every outgoing request
// except login and registration. A missing or empty token sends the request
// unauthenticated.
type Transport struct {
	Source oauth2.TokenSource
	Base   http.RoundTripper
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.Source == nil || skipAuth(req.URL.Path) {
		return t.base().RoundTrip(req)
	}

	tok, err := t.Source.Token()
	if err != nil {
		if req.Body != nil {
			_ = req.Body.Close()
		}
		return nil, fmt.Errorf("token source: %w", err)
	}
	if tok == nil || tok.AccessToken == "" {
		return t.base().RoundTrip(req)
	}

	// RoundTrippers must not modify the caller's request.
	r2 := req.Clone(req.Context())
	tok.SetAuthHeader(r2)
	return t.base().RoundTrip(r2)
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

func skipAuth(path string) bool {
	for _, p := range unauthenticatedPaths {
		if strings.Contains(path, p) {
			return true
		}
	}
	return false
}

// StoredToken is a TokenSource over a token persisted by the caller. An empty
// string yields an empty token rather than an error.
type StoredToken string

func (s StoredToken) Token() (*oauth2.Token, error) {
	return &oauth2.Token{AccessToken: strings.TrimSpace(string(s)), TokenType: "Bearer"}, nil
}
