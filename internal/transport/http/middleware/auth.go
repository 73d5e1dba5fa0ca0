package middleware

import (
	"net/http"
	"strings"
)

// BearerToken extracts the bearer token from the Authorization header.
func BearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	tok := strings.TrimPrefix(header, "Bearer ")
	if tok == "" {
		return "", false
	}
	return tok, true
}
