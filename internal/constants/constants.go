// Package constants defines the Twitch Helix host, resource paths, request
// limits and the default timeout/threshold values used by the browser.
package constants

import "time"

const (
	// HelixHost is the Twitch Helix API host. Requests are always sent over HTTPS.
	HelixHost = "api.twitch.tv"
	// TwitchURL is the base Twitch web URL, used to build channel links.
	TwitchURL = "https://twitch.tv"
)

// Helix resource paths.
const (
	ResourceUsers          = "/helix/users"
	ResourceFollowed       = "/helix/streams/followed"
	ResourceFollows        = "/helix/users/follows"
	ResourceSearchChannels = "/helix/search/channels"
	ResourceVideos         = "/helix/videos"
	ResourceClips          = "/helix/clips"
)

const (
	// HeaderAuthorization carries the bearer token.
	HeaderAuthorization = "Authorization"
	// HeaderClientID carries the application client id.
	HeaderClientID = "Client-Id"
)

const (
	// MaxUsersPerRequest is the maximum number of id/login parameters Helix
	// accepts on a single /helix/users call.
	MaxUsersPerRequest = 100
	// UserLookupWorkers bounds concurrent /helix/users batches.
	UserLookupWorkers = 4
	// DefaultMinViewCount is the view-count floor below which offline
	// followed channels are hidden.
	DefaultMinViewCount = 10_000
	// MaxResponseBodySize caps how much of a response body is read.
	MaxResponseBodySize = 4 << 20
)

const (
	// DefaultHTTPTimeout is the default timeout for Helix requests. Zero
	// disables the client-side timeout.
	DefaultHTTPTimeout = 15 * time.Second
	// DefaultGracefulShutdownTimeout is the timeout for graceful HTTP server shutdown.
	DefaultGracefulShutdownTimeout = 5 * time.Second
	// DefaultServerAddr is the listen address of the local JSON surface.
	DefaultServerAddr = "127.0.0.1:8080"
)

// DefaultThumbnailSize is the edge length substituted into thumbnail URL templates.
const DefaultThumbnailSize = 400
