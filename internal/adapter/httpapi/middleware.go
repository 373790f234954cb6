package httpapi

import (
	"encoding/json"
	"net/http"
)

// AuthMiddleware validates the Authorization header against the configured
// API token. If the token is missing or invalid the request is rejected
// with 401; if valid, the wrapped handler runs with the original request.
func AuthMiddleware(validToken string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get("Authorization")
		if token == "" {
			unauthorized(w, "missing authorization header")
			return
		}
		if token != validToken {
			unauthorized(w, "invalid token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
