package twitch

import (
	"errors"
	"fmt"

	"github.com/Guliveer/twitch-browser-go/internal/httpclient"
)

// ErrNoAuthUser is returned when /helix/users answers with an empty data
// array for the bearer token.
var ErrNoAuthUser = errors.New("twitch: no user for auth token")

// Error is the error envelope Helix returns with non-2xx responses.
type Error struct {
	ErrorName string `json:"error"`
	Status    int    `json:"status"`
	Message   string `json:"message"`
}

func (e Error) Error() string {
	return fmt.Sprintf("twitch: %d %s: %s", e.Status, e.ErrorName, e.Message)
}

// StatusError is the concrete error returned for a non-2xx Helix response.
type StatusError = httpclient.StatusError[Error]

// AsError extracts the Helix error envelope from err.
func AsError(err error) (*Error, bool) {
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		return nil, false
	}
	return &statusErr.Body, true
}
