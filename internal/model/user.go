package model

// AuthUser is the principal decoded from an access token.
type AuthUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}
