package models

// Session is the console's only durable client state: the bearer token
// issued by the titulation backend plus the username it belongs to.
type Session struct {
	Token    string
	Username string
}

// Valid reports whether the session is fully present. A half-present
// pair (token without username or vice versa) counts as no session.
func (s Session) Valid() bool {
	return s.Token != "" && s.Username != ""
}

// LoginRequest carries the credentials sent to the backend.
type LoginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// LoginResponse is the backend's answer to a successful login.
type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}
