package aggregate

import (
	"context"
	"slices"

	"github.com/Guliveer/twitch-browser-go/internal/constants"
	"github.com/Guliveer/twitch-browser-go/internal/logger"
	"github.com/Guliveer/twitch-browser-go/internal/model"
	"github.com/Guliveer/twitch-browser-go/internal/twitch"
	"github.com/Guliveer/twitch-browser-go/internal/workerpool"
)

// FollowedSnapshot is the state of a followed-channels pass.
type FollowedSnapshot struct {
	Err     error
	Loading bool
	Live    []model.Stream
	Offline []model.User
}

// Followed splits the authenticated user's followed channels into live
// streams and offline channels.
type Followed struct {
	api   twitch.API
	opts  Options
	log   *logger.Logger
	state state[FollowedSnapshot]
}

// NewFollowed creates a Followed aggregator.
func NewFollowed(api twitch.API, opts Options) *Followed {
	opts = opts.withDefaults()
	return &Followed{
		api:  api,
		opts: opts,
		log:  opts.Log.WithComponent("Followed"),
		state: state[FollowedSnapshot]{snap: FollowedSnapshot{
			Live:    []model.Stream{},
			Offline: []model.User{},
		}},
	}
}

// Snapshot returns the latest published state.
func (f *Followed) Snapshot() FollowedSnapshot {
	return f.state.snapshot()
}

// Subscribe registers fn for every published snapshot.
func (f *Followed) Subscribe(fn Subscriber[FollowedSnapshot]) {
	f.state.subscribe(fn)
}

// Run executes one pass. Live streams are published as soon as they arrive.
// A failing step stops the pass and is stored in Err; lists published
// earlier in the pass stay in place.
func (f *Followed) Run(ctx context.Context) FollowedSnapshot {
	gen := f.state.begin(func(s *FollowedSnapshot) {
		s.Err = nil
		s.Loading = true
	})

	err := f.run(ctx, gen)
	f.state.update(gen, func(s *FollowedSnapshot) {
		s.Err = err
		s.Loading = false
	})
	if err != nil {
		f.log.Event(logger.EventPassFailed, "Followed channels pass failed", "error", err)
	}
	return f.state.snapshot()
}

func (f *Followed) run(ctx context.Context, gen uint64) error {
	user, err := f.api.GetAuthUser(ctx)
	if err != nil {
		return err
	}

	live, err := f.api.GetLiveFollowedStreams(ctx, user.ID)
	if err != nil {
		return err
	}
	published := f.state.update(gen, func(s *FollowedSnapshot) {
		s.Live = live
		s.Offline = withoutLive(s.Offline, live)
	})
	if !published {
		return nil
	}
	f.log.Event(logger.EventLiveStreams, "Live followed streams", "count", len(live))

	if f.opts.HideOffline {
		f.state.update(gen, func(s *FollowedSnapshot) { s.Offline = []model.User{} })
		return nil
	}

	follows, err := f.api.GetUserFollows(ctx, user.ID)
	if err != nil {
		return err
	}

	users, err := f.lookupUsers(ctx, OfflineIDs(live, follows))
	if err != nil {
		return err
	}

	offline := AboveViewCount(users, f.opts.MinViewCount)
	if f.state.update(gen, func(s *FollowedSnapshot) { s.Offline = offline }) {
		f.log.Event(logger.EventOfflineStreams, "Offline followed channels",
			"count", len(offline), "candidates", len(users))
	}
	return nil
}

// lookupUsers fetches users in batches of the Helix per-request limit,
// keeping input order.
func (f *Followed) lookupUsers(ctx context.Context, ids []string) ([]model.User, error) {
	batches := workerpool.Chunk(ids, constants.MaxUsersPerRequest)
	results, err := workerpool.Map(ctx, batches, f.opts.Workers, f.api.GetUsers)
	if err != nil {
		return nil, err
	}
	return slices.Concat(results...), nil
}

// OfflineIDs returns the followed channel ids with no live stream, in follow
// order.
func OfflineIDs(live []model.Stream, follows []model.Follow) []string {
	liveIDs := make(map[string]struct{}, len(live))
	for _, s := range live {
		liveIDs[s.UserID] = struct{}{}
	}

	ids := make([]string, 0, len(follows))
	for _, follow := range follows {
		if _, ok := liveIDs[follow.ToID]; !ok {
			ids = append(ids, follow.ToID)
		}
	}
	return ids
}

// withoutLive drops users that have a stream in live. Offline users kept
// from an earlier pass must not contradict the current live list.
func withoutLive(users []model.User, live []model.Stream) []model.User {
	liveIDs := make(map[string]struct{}, len(live))
	for _, s := range live {
		liveIDs[s.UserID] = struct{}{}
	}
	return slices.DeleteFunc(slices.Clone(users), func(u model.User) bool {
		_, ok := liveIDs[u.ID]
		return ok
	})
}

// AboveViewCount keeps users whose view_count is strictly greater than min.
func AboveViewCount(users []model.User, min int) []model.User {
	out := make([]model.User, 0, len(users))
	for _, u := range users {
		if u.ViewCount > min {
			out = append(out, u)
		}
	}
	return out
}
