// Package auth holds the pre-obtained Twitch credentials used to sign Helix
// requests. Token acquisition happens outside this program.
package auth

import (
	"errors"
	"strings"

	"github.com/Guliveer/twitch-browser-go/internal/constants"
)

var (
	// ErrMissingToken is returned when no auth token is configured.
	ErrMissingToken = errors.New("auth token is required")
	// ErrMissingClientID is returned when no client id is configured.
	ErrMissingClientID = errors.New("client id is required")
)

// Credentials is an immutable bearer token and client id pair.
// It is safe for concurrent use.
type Credentials struct {
	authToken string
	clientID  string
}

// NewCredentials validates and normalizes a token/client id pair. Tokens
// copied with an "oauth:" or "Bearer " prefix are accepted.
func NewCredentials(authToken, clientID string) (*Credentials, error) {
	token := normalizeToken(authToken)
	if token == "" {
		return nil, ErrMissingToken
	}
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return nil, ErrMissingClientID
	}
	return &Credentials{authToken: token, clientID: clientID}, nil
}

// ClientID returns the application client id.
func (c *Credentials) ClientID() string {
	return c.clientID
}

// GetAuthHeaders returns the Helix authentication headers.
func (c *Credentials) GetAuthHeaders() map[string]string {
	return map[string]string{
		constants.HeaderAuthorization: "Bearer " + c.authToken,
		constants.HeaderClientID:      c.clientID,
	}
}

func normalizeToken(token string) string {
	token = strings.TrimSpace(token)
	for _, prefix := range []string{"oauth:", "Bearer ", "bearer ", "OAuth "} {
		token = strings.TrimPrefix(token, prefix)
	}
	return strings.TrimSpace(token)
}
