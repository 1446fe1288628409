package http

import (
	"net"
	"net/http"
	"strconv"
)

// Limit rejects a request with 429 once its client has spent the bucket.
// Retry-After tells the browser how long one token takes to come back.
func (r *RateLimiter) Limit(next http.Handler) http.Handler {
	retryAfter := strconv.Itoa(r.secondsPerToken())

	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if !r.Allow(clientIP(req)) {
			w.Header().Set("Retry-After", retryAfter)
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, req)
	})
}

func clientIP(req *http.Request) string {
	host, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		return req.RemoteAddr
	}
	return host
}
