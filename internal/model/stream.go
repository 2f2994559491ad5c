package model

import "github.com/Guliveer/twitch-browser-go/internal/constants"

// StreamType is "live" for an active broadcast and empty on error.
type StreamType string

const (
	StreamLive StreamType = "live"
	StreamNone StreamType = ""
)

// Stream is an active broadcast as returned by GET /helix/streams/followed.
type Stream struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	UserLogin    string     `json:"user_login"`
	UserName     string     `json:"user_name"`
	GameID       string     `json:"game_id"`
	GameName     string     `json:"game_name"`
	Type         StreamType `json:"type"`
	Title        string     `json:"title"`
	ViewerCount  int        `json:"viewer_count"`
	StartedAt    string     `json:"started_at"`
	Language     string     `json:"language"`
	ThumbnailURL string     `json:"thumbnail_url"`
	TagIDs       []string   `json:"tag_ids"`
	IsMature     bool       `json:"is_mature"`
}

// ChannelURL returns the public channel page of the broadcaster.
func (s Stream) ChannelURL() string {
	return channelURL(s.UserLogin)
}

func channelURL(login string) string {
	return constants.TwitchURL + "/" + login
}
