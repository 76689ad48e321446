package v1

import (
	"net/http"
	"time"
)

// CookieOptions defines how the session cookie is issued.
type CookieOptions struct {
	Name   string
	MaxAge time.Duration
	// Secure is set in production; local HTTP development cannot carry
	// Secure cookies.
	Secure bool
}

// setSessionCookie issues the session cookie: HttpOnly, SameSite=Lax,
// path-scoped to the whole site, max-age matching the inactivity window.
func setSessionCookie(w http.ResponseWriter, sessionID string, opts CookieOptions) {
	http.SetCookie(w, &http.Cookie{
		Name:     opts.Name,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   int(opts.MaxAge / time.Second),
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearSessionCookie removes the session cookie from the client.
func clearSessionCookie(w http.ResponseWriter, opts CookieOptions) {
	http.SetCookie(w, &http.Cookie{
		Name:     opts.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
