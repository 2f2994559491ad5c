package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"time"

	"github.com/Guliveer/twitch-browser-go/internal/aggregate"
	"github.com/Guliveer/twitch-browser-go/internal/constants"
	"github.com/Guliveer/twitch-browser-go/internal/httpclient"
	"github.com/Guliveer/twitch-browser-go/internal/model"
	"github.com/Guliveer/twitch-browser-go/internal/twitch"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleFollowed(w http.ResponseWriter, r *http.Request) {
	snap := aggregate.NewFollowed(s.api, s.opts).Run(r.Context())
	status, errBody := errorBody(snap.Err)
	writeJSON(w, status, followedResponse{
		Error:   errBody,
		Loading: snap.Loading,
		Live:    withStreamThumbnails(snap.Live),
		Offline: snap.Offline,
	})
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	snap := aggregate.NewLiveFollowed(s.api, s.opts).Run(r.Context())
	status, errBody := errorBody(snap.Err)
	writeJSON(w, status, liveResponse{
		Error:   errBody,
		Loading: snap.Loading,
		Live:    withStreamThumbnails(snap.Live),
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	snap := aggregate.NewSearch(s.api, s.opts).Run(r.Context(), r.URL.Query().Get("query"))
	status, errBody := errorBody(snap.Err)
	writeJSON(w, status, searchResponse{
		Error:   errBody,
		Loading: snap.Loading,
		Live:    snap.Live,
		Offline: snap.Offline,
	})
}

func (s *Server) handleMedia(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	kind := params.Get("kind")
	if kind == "" {
		kind = string(model.MediaVideo)
	}

	videoQ, err := videoQuery(params)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	clipQ, err := clipQuery(params)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	snap := aggregate.NewMedia(s.api, s.opts).RunKind(r.Context(), r.PathValue("id"), kind, videoQ, clipQ)
	status, errBody := errorBody(snap.Err)
	writeJSON(w, status, mediaResponse{
		Error:   errBody,
		Loading: snap.Loading,
		Kind:    snap.Kind,
		Videos:  withVideoThumbnails(snap.Videos),
		Clips:   snap.Clips,
	})
}

func (s *Server) handleVideos(w http.ResponseWriter, r *http.Request) {
	q, err := videoQuery(r.URL.Query())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	snap := aggregate.NewVideos(s.api, s.opts).Run(r.Context(), r.PathValue("id"), q)
	status, errBody := errorBody(snap.Err)
	writeJSON(w, status, videosResponse{
		Error:   errBody,
		Loading: snap.Loading,
		Videos:  withVideoThumbnails(snap.Videos),
	})
}

func pageQuery(params url.Values) (twitch.Page, error) {
	page := twitch.Page{
		After:  params.Get("after"),
		Before: params.Get("before"),
	}
	if v := params.Get("first"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 100 {
			return page, fmt.Errorf("first must be a number between 1 and 100, got %q", v)
		}
		page.First = n
	}
	return page, nil
}

func videoQuery(params url.Values) (*twitch.VideoQuery, error) {
	page, err := pageQuery(params)
	if err != nil {
		return nil, err
	}
	q := &twitch.VideoQuery{
		Page:     page,
		Language: params.Get("language"),
		Period:   model.VideoPeriod(params.Get("period")),
		Sort:     model.VideoSort(params.Get("sort")),
		Type:     model.VideoType(params.Get("type")),
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return q, nil
}

func clipQuery(params url.Values) (*twitch.ClipQuery, error) {
	page, err := pageQuery(params)
	if err != nil {
		return nil, err
	}
	q := &twitch.ClipQuery{Page: page}
	if q.StartedAt, err = timeParam(params, "started_at"); err != nil {
		return nil, err
	}
	if q.EndedAt, err = timeParam(params, "ended_at"); err != nil {
		return nil, err
	}
	return q, nil
}

func timeParam(params url.Values, key string) (*time.Time, error) {
	v := params.Get(key)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, fmt.Errorf("%s must be an RFC3339 timestamp, got %q", key, v)
	}
	return &t, nil
}

// withStreamThumbnails returns copies of streams with their thumbnail
// templates resolved.
func withStreamThumbnails(streams []model.Stream) []model.Stream {
	out := slices.Clone(streams)
	for i := range out {
		out[i].ThumbnailURL = thumbnail(out[i].ThumbnailURL)
	}
	return out
}

func withVideoThumbnails(videos []model.Video) []model.Video {
	out := slices.Clone(videos)
	for i := range out {
		out[i].ThumbnailURL = thumbnail(out[i].ThumbnailURL)
	}
	return out
}

func thumbnail(template string) string {
	return model.ThumbnailURL(template, constants.DefaultThumbnailSize, constants.DefaultThumbnailSize*9/16)
}

// errorBody maps a snapshot error to an HTTP status and its JSON envelope.
// Known error types are serialized in their own shape.
func errorBody(err error) (int, any) {
	if err == nil {
		return http.StatusOK, nil
	}

	var mediaErr *aggregate.MediaTypeError
	if errors.As(err, &mediaErr) {
		return mediaErr.Status, mediaErr
	}

	var statusErr *twitch.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode, statusErr.Body
	}

	var apiErr *httpclient.APIError
	if errors.As(err, &apiErr) {
		return http.StatusBadGateway, apiErr
	}

	if errors.Is(err, twitch.ErrNoAuthUser) {
		return http.StatusUnauthorized, errorResponse{Error: err.Error()}
	}

	return http.StatusInternalServerError, errorResponse{Error: err.Error()}
}

type followedResponse struct {
	Error   any            `json:"error"`
	Loading bool           `json:"loading"`
	Live    []model.Stream `json:"live"`
	Offline []model.User   `json:"offline"`
}

type liveResponse struct {
	Error   any            `json:"error"`
	Loading bool           `json:"loading"`
	Live    []model.Stream `json:"live"`
}

type searchResponse struct {
	Error   any             `json:"error"`
	Loading bool            `json:"loading"`
	Live    []model.Channel `json:"live"`
	Offline []model.Channel `json:"offline"`
}

type mediaResponse struct {
	Error   any             `json:"error"`
	Loading bool            `json:"loading"`
	Kind    model.MediaKind `json:"kind,omitempty"`
	Videos  []model.Video   `json:"videos"`
	Clips   []model.Clip    `json:"clips"`
}

type videosResponse struct {
	Error   any           `json:"error"`
	Loading bool          `json:"loading"`
	Videos  []model.Video `json:"videos"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(v) //nolint:errcheck
}
