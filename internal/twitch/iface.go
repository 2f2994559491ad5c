package twitch

import (
	"context"

	"github.com/Guliveer/twitch-browser-go/internal/model"
)

// API is the Helix surface used by the aggregators.
// *Client satisfies this interface.
type API interface {
	GetAuthUser(ctx context.Context) (model.User, error)
	GetLiveFollowedStreams(ctx context.Context, userID string) ([]model.Stream, error)
	GetUserFollows(ctx context.Context, userID string) ([]model.Follow, error)
	GetUsers(ctx context.Context, idsOrLogins []string) ([]model.User, error)
	SearchChannels(ctx context.Context, query string) ([]model.Channel, error)
	GetUserVideos(ctx context.Context, userID string, q *VideoQuery) ([]model.Video, error)
	GetClips(ctx context.Context, broadcasterID string, q *ClipQuery) ([]model.Clip, error)
}

var _ API = (*Client)(nil)
