// Package model defines the Twitch Helix records the browser works with.
// All records are plain values decoded from JSON and never mutated after
// construction.
package model

// UserType is the Twitch staff classification of a user.
type UserType string

const (
	UserTypeStaff     UserType = "staff"
	UserTypeAdmin     UserType = "admin"
	UserTypeGlobalMod UserType = "global_mod"
	UserTypeNormal    UserType = ""
)

// BroadcasterType is the monetization tier of a channel.
type BroadcasterType string

const (
	BroadcasterPartner   BroadcasterType = "partner"
	BroadcasterAffiliate BroadcasterType = "affiliate"
	BroadcasterNormal    BroadcasterType = ""
)

// User is a Twitch account as returned by GET /helix/users.
type User struct {
	ID              string          `json:"id"`
	Login           string          `json:"login"`
	DisplayName     string          `json:"display_name"`
	Type            UserType        `json:"type"`
	BroadcasterType BroadcasterType `json:"broadcaster_type"`
	Description     string          `json:"description"`
	ProfileImageURL string          `json:"profile_image_url"`
	OfflineImageURL string          `json:"offline_image_url"`
	ViewCount       int             `json:"view_count"`
	CreatedAt       string          `json:"created_at"`
	// Email is only present when the token carries the user:read:email scope.
	Email string `json:"email,omitempty"`
}

// ChannelURL returns the public channel page of the user.
func (u User) ChannelURL() string {
	return channelURL(u.Login)
}
