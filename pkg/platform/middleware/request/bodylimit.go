package request

import (
	"net/http"
)

// BodyLimit caps request body size before any handler reads it. Oversize
// bodies surface as *http.MaxBytesError from the JSON decode, which the
// error translation answers with 413. Must sit ahead of decoding in the
// chain.
func BodyLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
