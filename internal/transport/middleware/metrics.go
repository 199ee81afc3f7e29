package middleware

import (
	"net/http"
	"strconv"
	"time"
)

type httpObserver interface {
	ObserveHTTP(method string, status string, d time.Duration)
}

// Metrics records request count and latency by method and status.
func Metrics(obs httpObserver) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw, ok := w.(*statusWriter)
			if !ok {
				sw = &statusWriter{ResponseWriter: w, status: http.StatusOK}
			}

			next.ServeHTTP(sw, r)

			obs.ObserveHTTP(r.Method, strconv.Itoa(sw.status), time.Since(start))
		})
	}
}
