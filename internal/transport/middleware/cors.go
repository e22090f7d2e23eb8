package middleware

import (
	"net/http"
	"strings"
)

// CORS answers preflight requests and opens the API to the configured browser
// origins. "*" (or an empty list) allows any origin; otherwise the request's
// Origin header must match an entry exactly.
func CORS(allowedOrigins string) func(http.Handler) http.Handler {
	origins := parseOrigins(allowedOrigins)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if allowed := resolveOrigin(origins, r.Header.Get("Origin")); allowed != "" {
				w.Header().Set("Access-Control-Allow-Origin", allowed)
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type, X-Trace-ID")
				w.Header().Add("Vary", "Origin")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func parseOrigins(allowedOrigins string) []string {
	var origins []string
	for _, origin := range strings.Split(allowedOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

func resolveOrigin(origins []string, requestOrigin string) string {
	if len(origins) == 0 {
		return "*"
	}
	for _, origin := range origins {
		if origin == "*" {
			return "*"
		}
		if origin == requestOrigin {
			return origin
		}
	}
	return ""
}
