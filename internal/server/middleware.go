package server

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// chain wraps h so that mws run in the order given.
func chain(h http.Handler, mws ...mux.MiddlewareFunc) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// predictionHandler is handlePredict behind the API middleware. Panics are
// recovered before the rate limiter so a crashing request still consumed
// its token.
func (s *Server) predictionHandler() http.Handler {
	return chain(http.HandlerFunc(s.handlePredict),
		s.observe,
		s.tagRequest,
		s.recoverPanic,
		s.throttle,
		s.logRequest,
	)
}

// tagRequest keeps a caller supplied X-Request-Id when it is a UUID and mints
// a new one otherwise.
func (s *Server) tagRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(withRequestID(r.Context(), id)))
	})
}

func (s *Server) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recorderFor(w)
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if err, ok := v.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(v)
			}

			apiMetrics.panics.Inc()
			loggerFrom(r.Context()).Error("prediction panicked",
				"panic", fmt.Sprint(v),
				"path", r.URL.Path,
				"stack", string(debug.Stack()))

			if !rec.wroteHeader() {
				WriteError(rec, r, http.StatusInternalServerError, ErrCodeInternalError,
					"Internal server error", false, nil)
			}
		}()
		next.ServeHTTP(rec, r)
	})
}

// throttle admits a request only when the token bucket has a token now.
// Rejected callers get the wait until the next token in Retry-After.
func (s *Server) throttle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		res := s.rateLimiter.Reserve()
		if res.OK() && res.Delay() == 0 {
			next.ServeHTTP(w, r)
			return
		}

		retry := 1
		if res.OK() {
			retry = max(1, int(math.Ceil(res.Delay().Seconds())))
			res.Cancel()
		}

		apiMetrics.throttled.Inc()
		w.Header().Set("Retry-After", strconv.Itoa(retry))
		WriteError(w, r, http.StatusTooManyRequests, ErrCodeRateLimitExceeded,
			"Rate limit exceeded", true, map[string]any{
				"limit":             float64(s.config.RateLimit),
				"burst":             s.config.RateLimitBurst,
				"retryAfterSeconds": retry,
			})
	})
}

func (s *Server) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recorderFor(w)
		start := time.Now()
		next.ServeHTTP(rec, r)

		loggerFrom(r.Context()).Debug("prediction served",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.Status(),
			"bytes", rec.bytes,
			"duration", time.Since(start))
	})
}
