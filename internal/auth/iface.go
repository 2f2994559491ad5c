package auth

// Provider supplies the credentials attached to every Helix request.
// *Credentials satisfies this interface.
type Provider interface {
	ClientID() string
	GetAuthHeaders() map[string]string
}
