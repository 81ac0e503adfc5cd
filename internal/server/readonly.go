package server

import "net/http"

// ReadOnlyMiddleware rejects mutating requests, for demo deployments of
// the editor where the catalog must not change. Only GET, HEAD, and
// OPTIONS are allowed through.
func ReadOnlyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
		default:
			WriteProblem(w, Problem{
				Type:     ProblemTypeForbidden,
				Title:    "Forbidden",
				Status:   http.StatusForbidden,
				Detail:   "server is running in read-only mode",
				Instance: r.URL.Path,
			})
		}
	})
}
