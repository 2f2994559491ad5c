package aggregate

import (
	"context"

	"github.com/Guliveer/twitch-browser-go/internal/logger"
	"github.com/Guliveer/twitch-browser-go/internal/model"
	"github.com/Guliveer/twitch-browser-go/internal/twitch"
)

// LiveSnapshot is the state of a live-followed pass.
type LiveSnapshot struct {
	Err     error
	Loading bool
	Live    []model.Stream
}

// LiveFollowed fetches the live streams of channels the authenticated user
// follows.
type LiveFollowed struct {
	api   twitch.API
	log   *logger.Logger
	state state[LiveSnapshot]
}

// NewLiveFollowed creates a LiveFollowed aggregator.
func NewLiveFollowed(api twitch.API, opts Options) *LiveFollowed {
	opts = opts.withDefaults()
	return &LiveFollowed{
		api:   api,
		log:   opts.Log.WithComponent("Live"),
		state: state[LiveSnapshot]{snap: LiveSnapshot{Live: []model.Stream{}}},
	}
}

func (l *LiveFollowed) Snapshot() LiveSnapshot {
	return l.state.snapshot()
}

func (l *LiveFollowed) Subscribe(fn Subscriber[LiveSnapshot]) {
	l.state.subscribe(fn)
}

// Run executes one pass.
func (l *LiveFollowed) Run(ctx context.Context) LiveSnapshot {
	gen := l.state.begin(func(s *LiveSnapshot) {
		s.Err = nil
		s.Loading = true
	})

	live, err := l.fetch(ctx)
	l.state.update(gen, func(s *LiveSnapshot) {
		if err == nil {
			s.Live = live
		}
		s.Err = err
		s.Loading = false
	})
	if err != nil {
		l.log.Event(logger.EventPassFailed, "Live streams pass failed", "error", err)
	} else {
		l.log.Event(logger.EventLiveStreams, "Live followed streams", "count", len(live))
	}
	return l.state.snapshot()
}

func (l *LiveFollowed) fetch(ctx context.Context) ([]model.Stream, error) {
	user, err := l.api.GetAuthUser(ctx)
	if err != nil {
		return nil, err
	}
	return l.api.GetLiveFollowedStreams(ctx, user.ID)
}
