package types

import (
	"os"
	"strings"
)

// Context keys under which the access guard attaches resolved request state.
const (
	ContextUserKey    = "user"
	ContextRoleKey    = "role"
	ContextProjectKey = "project"
	ContextBidKey     = "bid"
)

// AuthCookieName holds the issued token, prefixed with "Bearer " so the same
// value works when replayed as an Authorization header.
const AuthCookieName = "auth_token"

var (
	// Default allowed origins for development
	defaultOrigins = []string{
		"http://localhost:3000",
		"http://localhost:5173",
	}

	AllowedOrigins = initAllowedOrigins()
)

func initAllowedOrigins() []string {
	origins := make([]string, len(defaultOrigins))
	copy(origins, defaultOrigins)

	if clientURL := os.Getenv("CLIENT_URL"); clientURL != "" {
		origins = append(origins, clientURL)
	}

	if allowedOrigins := os.Getenv("ALLOWED_ORIGINS"); allowedOrigins != "" {
		envOrigins := strings.Split(allowedOrigins, ",")
		for _, origin := range envOrigins {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				origins = append(origins, trimmed)
			}
		}
	}

	return origins
}
