package aggregate

import (
	"context"

	"github.com/Guliveer/twitch-browser-go/internal/logger"
	"github.com/Guliveer/twitch-browser-go/internal/model"
	"github.com/Guliveer/twitch-browser-go/internal/twitch"
)

// SearchSnapshot is the state of a channel search pass.
type SearchSnapshot struct {
	Err     error
	Loading bool
	Live    []model.Channel
	Offline []model.Channel
}

// Search searches channels and splits the result by is_live.
type Search struct {
	api   twitch.API
	log   *logger.Logger
	state state[SearchSnapshot]
}

// NewSearch creates a Search aggregator.
func NewSearch(api twitch.API, opts Options) *Search {
	opts = opts.withDefaults()
	return &Search{
		api: api,
		log: opts.Log.WithComponent("Search"),
		state: state[SearchSnapshot]{snap: SearchSnapshot{
			Live:    []model.Channel{},
			Offline: []model.Channel{},
		}},
	}
}

func (s *Search) Snapshot() SearchSnapshot {
	return s.state.snapshot()
}

func (s *Search) Subscribe(fn Subscriber[SearchSnapshot]) {
	s.state.subscribe(fn)
}

// Run executes one pass for query. An empty query publishes empty lists
// without a request.
func (s *Search) Run(ctx context.Context, query string) SearchSnapshot {
	if query == "" {
		s.state.begin(func(snap *SearchSnapshot) {
			*snap = SearchSnapshot{Live: []model.Channel{}, Offline: []model.Channel{}}
		})
		return s.state.snapshot()
	}

	gen := s.state.begin(func(snap *SearchSnapshot) {
		snap.Err = nil
		snap.Loading = true
	})

	channels, err := s.api.SearchChannels(ctx, query)
	live, offline := PartitionLive(channels)
	s.state.update(gen, func(snap *SearchSnapshot) {
		if err == nil {
			snap.Live = live
			snap.Offline = offline
		}
		snap.Err = err
		snap.Loading = false
	})
	if err != nil {
		s.log.Event(logger.EventPassFailed, "Channel search failed", "query", query, "error", err)
	} else {
		s.log.Event(logger.EventSearch, "Channel search",
			"query", query, "live", len(live), "offline", len(offline))
	}
	return s.state.snapshot()
}

// PartitionLive splits channels by is_live, keeping order within each side.
func PartitionLive(channels []model.Channel) (live, offline []model.Channel) {
	live = []model.Channel{}
	offline = []model.Channel{}
	for _, c := range channels {
		if c.IsLive {
			live = append(live, c)
		} else {
			offline = append(offline, c)
		}
	}
	return live, offline
}
