package aggregate

import (
	"context"

	"github.com/Guliveer/twitch-browser-go/internal/logger"
	"github.com/Guliveer/twitch-browser-go/internal/model"
	"github.com/Guliveer/twitch-browser-go/internal/twitch"
)

// VideosSnapshot is the state of a videos pass.
type VideosSnapshot struct {
	Err     error
	Loading bool
	Videos  []model.Video
}

// Videos fetches a user's videos.
type Videos struct {
	api   twitch.API
	log   *logger.Logger
	state state[VideosSnapshot]
}

// NewVideos creates a Videos aggregator.
func NewVideos(api twitch.API, opts Options) *Videos {
	opts = opts.withDefaults()
	return &Videos{
		api:   api,
		log:   opts.Log.WithComponent("Videos"),
		state: state[VideosSnapshot]{snap: VideosSnapshot{Videos: []model.Video{}}},
	}
}

func (v *Videos) Snapshot() VideosSnapshot {
	return v.state.snapshot()
}

func (v *Videos) Subscribe(fn Subscriber[VideosSnapshot]) {
	v.state.subscribe(fn)
}

// Run executes one pass. q may be nil.
func (v *Videos) Run(ctx context.Context, userID string, q *twitch.VideoQuery) VideosSnapshot {
	gen := v.state.begin(func(s *VideosSnapshot) {
		s.Err = nil
		s.Loading = true
	})

	videos, err := v.api.GetUserVideos(ctx, userID, q)
	v.state.update(gen, func(s *VideosSnapshot) {
		if err == nil {
			s.Videos = videos
		}
		s.Err = err
		s.Loading = false
	})
	if err != nil {
		v.log.Event(logger.EventPassFailed, "Videos pass failed", "user_id", userID, "error", err)
	}
	return v.state.snapshot()
}
