package twitch

import (
	"fmt"
	"net/url"
	"slices"
	"time"

	"github.com/google/go-querystring/query"

	"github.com/Guliveer/twitch-browser-go/internal/model"
)

// Page holds Helix cursor pagination parameters.
type Page struct {
	First  int    `url:"first,omitempty"`
	After  string `url:"after,omitempty"`
	Before string `url:"before,omitempty"`
}

// VideoQuery holds optional /helix/videos filters.
type VideoQuery struct {
	Page
	Language string            `url:"language,omitempty"`
	Period   model.VideoPeriod `url:"period,omitempty"`
	Sort     model.VideoSort   `url:"sort,omitempty"`
	Type     model.VideoType   `url:"type,omitempty"`
}

// Validate rejects filter values Helix does not accept. Empty values are
// left out of the request and always pass.
func (q *VideoQuery) Validate() error {
	if q == nil {
		return nil
	}
	if q.Type != "" && !slices.Contains(model.VideoTypes, q.Type) {
		return fmt.Errorf("type must be one of %v, got %q", model.VideoTypes, q.Type)
	}
	if q.Period != "" && !slices.Contains(model.VideoPeriods, q.Period) {
		return fmt.Errorf("period must be one of %v, got %q", model.VideoPeriods, q.Period)
	}
	if q.Sort != "" && !slices.Contains(model.VideoSorts, q.Sort) {
		return fmt.Errorf("sort must be one of %v, got %q", model.VideoSorts, q.Sort)
	}
	return nil
}

// ClipQuery holds optional /helix/clips filters.
type ClipQuery struct {
	Page
	StartedAt *time.Time `url:"started_at,omitempty" layout:"2006-01-02T15:04:05Z07:00"`
	EndedAt   *time.Time `url:"ended_at,omitempty" layout:"2006-01-02T15:04:05Z07:00"`
}

// encodeQuery builds "<key>=<id>[&filters]". A nil filter struct adds nothing.
func encodeQuery(key, id string, filters any) (string, error) {
	values, err := query.Values(filters)
	if err != nil {
		return "", err
	}
	if values == nil {
		values = url.Values{}
	}
	values.Set(key, id)
	return values.Encode(), nil
}
