package v1

import (
	"net/http"
	"strings"
)

const bearerPrefix = "Bearer "

// ExtractSessionID pulls the candidate session identifier out of request
// headers: a Bearer token from Authorization first, else the named cookie.
// Returns "" when neither is present.
//
// Both enforcement points re-derive the credential through this one
// function, from scratch — the backend never trusts identity headers the
// edge may have attached.
func ExtractSessionID(headers http.Header, cookieName string) string {
	auth := headers.Get("Authorization")
	if strings.HasPrefix(auth, bearerPrefix) {
		if token := strings.TrimSpace(auth[len(bearerPrefix):]); token != "" {
			return token
		}
	}

	// net/http cookie parsing handles quoting and attribute edge cases.
	req := http.Request{Header: headers}
	cookie, err := req.Cookie(cookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
