package aggregate

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/Guliveer/twitch-browser-go/internal/logger"
	"github.com/Guliveer/twitch-browser-go/internal/model"
	"github.com/Guliveer/twitch-browser-go/internal/twitch"
)

// MediaTypeError is returned for a media kind other than video or clip.
type MediaTypeError struct {
	Status    int    `json:"status"`
	ErrorName string `json:"error"`
	Message   string `json:"message"`
}

func newMediaTypeError(kind string) *MediaTypeError {
	return &MediaTypeError{
		Status:    http.StatusBadRequest,
		ErrorName: "Unknown media type",
		Message:   fmt.Sprintf("%s media type is not yet supported", kind),
	}
}

func (e *MediaTypeError) Error() string {
	return e.Message
}

// MediaRequest selects which media to fetch. It is implemented only by
// VideoRequest and ClipRequest.
type MediaRequest interface {
	Kind() model.MediaKind
	isMediaRequest()
}

// VideoRequest fetches videos with optional filters.
type VideoRequest struct {
	Query *twitch.VideoQuery
}

func (VideoRequest) Kind() model.MediaKind { return model.MediaVideo }
func (VideoRequest) isMediaRequest()       {}

// ClipRequest fetches clips with optional filters.
type ClipRequest struct {
	Query *twitch.ClipQuery
}

func (ClipRequest) Kind() model.MediaKind { return model.MediaClip }
func (ClipRequest) isMediaRequest()       {}

// RequestFor builds a MediaRequest from a free-form kind. Matching is case
// insensitive. The query that does not match the kind is ignored.
func RequestFor(kind string, videos *twitch.VideoQuery, clips *twitch.ClipQuery) (MediaRequest, error) {
	switch model.MediaKind(strings.ToLower(strings.TrimSpace(kind))) {
	case model.MediaVideo:
		return VideoRequest{Query: videos}, nil
	case model.MediaClip:
		return ClipRequest{Query: clips}, nil
	default:
		return nil, newMediaTypeError(kind)
	}
}

// MediaSnapshot is the state of a media pass. Only the list matching the
// requested kind is filled.
type MediaSnapshot struct {
	Err     error
	Loading bool
	Kind    model.MediaKind
	Videos  []model.Video
	Clips   []model.Clip
}

// Media fetches a channel's videos or clips.
type Media struct {
	api   twitch.API
	log   *logger.Logger
	state state[MediaSnapshot]
}

// NewMedia creates a Media aggregator.
func NewMedia(api twitch.API, opts Options) *Media {
	opts = opts.withDefaults()
	return &Media{
		api:   api,
		log:   opts.Log.WithComponent("Media"),
		state: state[MediaSnapshot]{snap: emptyMedia("")},
	}
}

func (m *Media) Snapshot() MediaSnapshot {
	return m.state.snapshot()
}

func (m *Media) Subscribe(fn Subscriber[MediaSnapshot]) {
	m.state.subscribe(fn)
}

// RunKind parses kind and runs a pass. An unknown kind is published as a
// *MediaTypeError without a request.
func (m *Media) RunKind(ctx context.Context, userID, kind string, videos *twitch.VideoQuery, clips *twitch.ClipQuery) MediaSnapshot {
	req, err := RequestFor(kind, videos, clips)
	if err != nil {
		gen := m.state.begin(func(s *MediaSnapshot) {
			*s = emptyMedia("")
			s.Loading = true
		})
		m.finish(gen, err)
		return m.state.snapshot()
	}
	return m.Run(ctx, userID, req)
}

// Run executes one pass for req.
func (m *Media) Run(ctx context.Context, userID string, req MediaRequest) MediaSnapshot {
	var kind model.MediaKind
	if req != nil {
		kind = req.Kind()
	}
	gen := m.state.begin(func(s *MediaSnapshot) {
		*s = emptyMedia(kind)
		s.Loading = true
	})

	var err error
	switch r := req.(type) {
	case VideoRequest:
		var videos []model.Video
		videos, err = m.api.GetUserVideos(ctx, userID, r.Query)
		if err == nil {
			m.state.update(gen, func(s *MediaSnapshot) { s.Videos = videos })
			m.log.Event(logger.EventMedia, "Videos", "user_id", userID, "count", len(videos))
		}
	case ClipRequest:
		var clips []model.Clip
		clips, err = m.api.GetClips(ctx, userID, r.Query)
		if err == nil {
			m.state.update(gen, func(s *MediaSnapshot) { s.Clips = clips })
			m.log.Event(logger.EventMedia, "Clips", "user_id", userID, "count", len(clips))
		}
	default:
		err = newMediaTypeError(fmt.Sprint(req))
	}

	m.finish(gen, err)
	return m.state.snapshot()
}

func (m *Media) finish(gen uint64, err error) {
	m.state.update(gen, func(s *MediaSnapshot) {
		s.Err = err
		s.Loading = false
	})
	if err != nil {
		m.log.Event(logger.EventPassFailed, "Media pass failed", "error", err)
	}
}

func emptyMedia(kind model.MediaKind) MediaSnapshot {
	return MediaSnapshot{Kind: kind, Videos: []model.Video{}, Clips: []model.Clip{}}
}
