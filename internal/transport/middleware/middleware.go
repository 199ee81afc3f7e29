// Package middleware holds the HTTP middleware shared by every route:
// panic recovery, request ids, access logging, metrics and bearer auth.
package middleware

import "net/http"

// Middleware wraps an http.Handler. It converts to chi's middleware type.
type Middleware func(http.Handler) http.Handler
