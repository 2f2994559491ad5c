// Package twitch provides a typed Twitch Helix client on top of httpclient.
// It knows Helix resource paths and headers, unwraps the {"data": [...]}
// envelope and caches the authenticated user for the process lifetime.
package twitch

import (
	"context"
	"net/url"
	"regexp"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/Guliveer/twitch-browser-go/internal/auth"
	"github.com/Guliveer/twitch-browser-go/internal/constants"
	"github.com/Guliveer/twitch-browser-go/internal/httpclient"
	"github.com/Guliveer/twitch-browser-go/internal/logger"
	"github.com/Guliveer/twitch-browser-go/internal/model"
)

var numericToken = regexp.MustCompile(`^[0-9]+$`)

type response[T any] struct {
	Data []T `json:"data"`
}

type options struct {
	host     string
	log      *logger.Logger
	httpOpts []httpclient.Option
}

// Option configures a Client.
type Option func(*options)

// WithHost overrides the Helix host. Used by tests and proxies.
func WithHost(host string) Option {
	return func(o *options) {
		if host != "" {
			o.host = host
		}
	}
}

// WithLogger sets the logger for the client and its transport.
func WithLogger(log *logger.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// WithHTTPOptions passes options through to the underlying httpclient.
func WithHTTPOptions(opts ...httpclient.Option) Option {
	return func(o *options) {
		o.httpOpts = append(o.httpOpts, opts...)
	}
}

// Client is the Helix API client. Construct one per process and share it so
// the authenticated user is resolved once. It is safe for concurrent use.
type Client struct {
	http *httpclient.Client
	log  *logger.Logger

	authGroup singleflight.Group
	authMu    sync.RWMutex
	authUser  *model.User
}

// NewClient creates a Client signed with creds.
func NewClient(creds auth.Provider, opts ...Option) *Client {
	o := options{
		host: constants.HelixHost,
		log:  logger.Discard(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	httpOpts := append([]httpclient.Option{httpclient.WithLogger(o.log)}, o.httpOpts...)
	c := &Client{
		http: httpclient.New(o.host, creds.GetAuthHeaders(), httpOpts...),
		log:  o.log,
	}
	c.log.Debug("Helix client ready", "host", c.http.Host(), "client_id", creds.ClientID())
	return c
}

// GetAuthUser returns the user owning the bearer token. The first successful
// lookup is cached; concurrent first callers share one request and a failed
// lookup is retried on the next call. The shared request is not cancelled
// with any single caller, but each caller stops waiting when its ctx is done.
func (c *Client) GetAuthUser(ctx context.Context) (model.User, error) {
	c.authMu.RLock()
	cached := c.authUser
	c.authMu.RUnlock()
	if cached != nil {
		return *cached, nil
	}

	ch := c.authGroup.DoChan("auth-user", func() (any, error) {
		return c.fetchAuthUser(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		return model.User{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return model.User{}, res.Err
		}
		return res.Val.(model.User), nil
	}
}

func (c *Client) fetchAuthUser(ctx context.Context) (model.User, error) {
	c.authMu.RLock()
	cached := c.authUser
	c.authMu.RUnlock()
	if cached != nil {
		return *cached, nil
	}

	users, err := list[model.User](ctx, c, constants.ResourceUsers)
	if err != nil {
		return model.User{}, err
	}
	if len(users) == 0 {
		return model.User{}, ErrNoAuthUser
	}

	user := users[0]
	c.authMu.Lock()
	c.authUser = &user
	c.authMu.Unlock()

	c.log.Event(logger.EventAuthUser, "Resolved authenticated user",
		"login", user.Login, "user_id", user.ID)
	return user, nil
}

// GetLiveFollowedStreams returns live streams of channels userID follows.
func (c *Client) GetLiveFollowedStreams(ctx context.Context, userID string) ([]model.Stream, error) {
	return list[model.Stream](ctx, c, constants.ResourceFollowed+"?user_id="+url.QueryEscape(userID))
}

// GetUserFollows returns the follow edges originating at userID.
func (c *Client) GetUserFollows(ctx context.Context, userID string) ([]model.Follow, error) {
	return list[model.Follow](ctx, c, constants.ResourceFollows+"?from_id="+url.QueryEscape(userID))
}

// GetUsers looks up users by id (numeric tokens) or login (anything else).
// An empty input returns an empty result without a request.
func (c *Client) GetUsers(ctx context.Context, idsOrLogins []string) ([]model.User, error) {
	if len(idsOrLogins) == 0 {
		return []model.User{}, nil
	}

	params := make([]string, 0, len(idsOrLogins))
	for _, token := range idsOrLogins {
		if numericToken.MatchString(token) {
			params = append(params, "id="+token)
		} else {
			params = append(params, "login="+url.QueryEscape(token))
		}
	}
	return list[model.User](ctx, c, constants.ResourceUsers+"?"+strings.Join(params, "&"))
}

// SearchChannels searches channels by name. An empty query returns an empty
// result without a request.
func (c *Client) SearchChannels(ctx context.Context, query string) ([]model.Channel, error) {
	if query == "" {
		return []model.Channel{}, nil
	}
	return list[model.Channel](ctx, c, constants.ResourceSearchChannels+"?query="+url.QueryEscape(query))
}

// GetUserVideos returns videos owned by userID. q may be nil.
func (c *Client) GetUserVideos(ctx context.Context, userID string, q *VideoQuery) ([]model.Video, error) {
	if userID == "" {
		return []model.Video{}, nil
	}
	qs, err := encodeQuery("user_id", userID, q)
	if err != nil {
		return nil, err
	}
	return list[model.Video](ctx, c, constants.ResourceVideos+"?"+qs)
}

// GetClips returns clips of broadcasterID. q may be nil.
func (c *Client) GetClips(ctx context.Context, broadcasterID string, q *ClipQuery) ([]model.Clip, error) {
	if broadcasterID == "" {
		return []model.Clip{}, nil
	}
	qs, err := encodeQuery("broadcaster_id", broadcasterID, q)
	if err != nil {
		return nil, err
	}
	return list[model.Clip](ctx, c, constants.ResourceClips+"?"+qs)
}

func list[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	resp, err := httpclient.Get[response[T], Error](ctx, c.http, path)
	if err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return []T{}, nil
	}
	return resp.Data, nil
}
