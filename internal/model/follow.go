package model

// Follow is a directed "FromID follows ToID" edge from GET /helix/users/follows.
type Follow struct {
	FromID     string `json:"from_id"`
	FromLogin  string `json:"from_login"`
	FromName   string `json:"from_name"`
	ToID       string `json:"to_id"`
	ToLogin    string `json:"to_login,omitempty"`
	ToName     string `json:"to_name"`
	FollowedAt string `json:"followed_at"`
}
