package adapthttp

import (
	"context"
	"net/http"
	"time"

	"inkwell/internal/logutil"
	"inkwell/internal/token"

	"github.com/julienschmidt/httprouter"
)

type contextKey string

const claimsContextKey contextKey = "claims"

// protected verifies the session cookie before running h and makes the
// embedded identity available via claimsFrom. Missing or invalid tokens get
// a structured 401 instead of failing the request wholesale.
func (s *Server) protected(h httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		cookie, err := r.Cookie(sessionCookie)
		if err != nil || cookie.Value == "" {
			writeFail(w, http.StatusUnauthorized, "missing session token")
			return
		}

		claims, err := s.auth.Identify(cookie.Value)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), claimsContextKey, claims)
		h(w, r.WithContext(ctx), ps)
	}
}

// claimsFrom returns the verified identity stored by protected.
func claimsFrom(ctx context.Context) *token.Claims {
	claims, _ := ctx.Value(claimsContextKey).(*token.Claims)
	return claims
}

// withCORS allows the configured browser origin to send credentialed
// requests.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.corsOrigin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Vary", "Origin")
		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withRequestLog emits one structured log line per request.
func (s *Server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger := logutil.GetOrDefault(r.Context())
		logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}
