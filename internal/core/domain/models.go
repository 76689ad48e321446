package domain

// LoginRequest is the JSON body of POST /auth/login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse is returned on successful login, alongside the session cookie.
type LoginResponse struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

// ProfileResponse is returned by the protected profile probe.
// LastActivity is the value observed before this request's renewal.
type ProfileResponse struct {
	UserID       string `json:"userId"`
	Username     string `json:"username"`
	LastActivity int64  `json:"lastActivity"`
}
