package model

// Channel is a search hit from GET /helix/search/channels.
type Channel struct {
	ID                  string   `json:"id"`
	BroadcasterLogin    string   `json:"broadcaster_login"`
	DisplayName         string   `json:"display_name"`
	GameID              string   `json:"game_id"`
	GameName            string   `json:"game_name"`
	Title               string   `json:"title"`
	IsLive              bool     `json:"is_live"`
	StartedAt           string   `json:"started_at"`
	TagsIDs             []string `json:"tags_ids"`
	ThumbnailURL        string   `json:"thumbnail_url"`
	BroadcasterLanguage string   `json:"broadcaster_language"`
}

// ChannelURL returns the public channel page of the broadcaster.
func (c Channel) ChannelURL() string {
	return channelURL(c.BroadcasterLogin)
}
