package model

import (
	"regexp"
	"strconv"
	"strings"
)

// MediaKind selects which media listing of a channel is requested.
type MediaKind string

const (
	MediaVideo MediaKind = "video"
	MediaClip  MediaKind = "clip"
)

// VideoType filters videos by how they were produced.
type VideoType string

const (
	VideoAll       VideoType = "all"
	VideoUpload    VideoType = "upload"
	VideoArchive   VideoType = "archive"
	VideoHighlight VideoType = "highlight"
)

// VideoTypes lists every VideoType in display order.
var VideoTypes = []VideoType{VideoAll, VideoUpload, VideoArchive, VideoHighlight}

// VideoPeriod filters videos by publication window.
type VideoPeriod string

const (
	PeriodAll   VideoPeriod = "all"
	PeriodDay   VideoPeriod = "day"
	PeriodWeek  VideoPeriod = "week"
	PeriodMonth VideoPeriod = "month"
)

// VideoPeriods lists every VideoPeriod.
var VideoPeriods = []VideoPeriod{PeriodAll, PeriodDay, PeriodWeek, PeriodMonth}

// VideoSort orders a video listing.
type VideoSort string

const (
	SortTime     VideoSort = "time"
	SortTrending VideoSort = "trending"
	SortViews    VideoSort = "views"
)

// VideoSorts lists every VideoSort.
var VideoSorts = []VideoSort{SortTime, SortTrending, SortViews}

// MutedSegment is a muted range of a video, in seconds.
type MutedSegment struct {
	Duration int `json:"duration"`
	Offset   int `json:"offset"`
}

// Video is a VOD, upload or highlight from GET /helix/videos.
type Video struct {
	ID            string         `json:"id"`
	StreamID      *string        `json:"stream_id"`
	UserID        string         `json:"user_id"`
	UserLogin     string         `json:"user_login"`
	UserName      string         `json:"user_name"`
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	CreatedAt     string         `json:"created_at"`
	PublishedAt   string         `json:"published_at"`
	URL           string         `json:"url"`
	ThumbnailURL  string         `json:"thumbnail_url"`
	Viewable      string         `json:"viewable"`
	ViewCount     int            `json:"view_count"`
	Language      string         `json:"language"`
	Type          VideoType      `json:"type"`
	Duration      string         `json:"duration"`
	MutedSegments []MutedSegment `json:"muted_segments"`
}

// Clip is a short highlight from GET /helix/clips.
type Clip struct {
	ID              string  `json:"id"`
	URL             string  `json:"url"`
	EmbedURL        string  `json:"embed_url"`
	BroadcasterID   string  `json:"broadcaster_id"`
	BroadcasterName string  `json:"broadcaster_name"`
	CreatorID       string  `json:"creator_id"`
	CreatorName     string  `json:"creator_name"`
	VideoID         string  `json:"video_id"`
	GameID          string  `json:"game_id"`
	Language        string  `json:"language"`
	Title           string  `json:"title"`
	ViewCount       int     `json:"view_count"`
	CreatedAt       string  `json:"created_at"`
	ThumbnailURL    string  `json:"thumbnail_url"`
	Duration        float64 `json:"duration"`
	VodOffset       *int    `json:"vod_offset"`
}

var thumbnailPlaceholder = regexp.MustCompile(`(?i)%?\{(width|height)\}`)

// ThumbnailURL fills the {width}/{height} (or %{width}/%{height}) placeholders
// of a Helix thumbnail template.
func ThumbnailURL(template string, width, height int) string {
	return thumbnailPlaceholder.ReplaceAllStringFunc(template, func(match string) string {
		if strings.EqualFold(thumbnailPlaceholder.FindStringSubmatch(match)[1], "width") {
			return strconv.Itoa(width)
		}
		return strconv.Itoa(height)
	})
}
