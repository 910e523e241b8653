package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/attribute"

	"aqarna-listings/internal/common/logger"
	"aqarna-listings/internal/common/metrics"
	"aqarna-listings/internal/common/observability"
	"aqarna-listings/internal/i18n"
	"aqarna-listings/internal/listings/selection"
	"aqarna-listings/internal/listings/session"
)

// LoggerMiddleware logs one line per request.
func LoggerMiddleware(log logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			log.Info("request finished", map[string]interface{}{
				"requestId":    middleware.GetReqID(r.Context()),
				"method":       r.Method,
				"path":         r.URL.Path,
				"status":       ww.Status(),
				"bytesWritten": ww.BytesWritten(),
				"durationMs":   time.Since(start).Milliseconds(),
			})
		})
	}
}

// MetricsMiddleware records request counts and latency by route pattern.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		metrics.HTTPRequests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

// TracingMiddleware opens a server span per request.
func TracingMiddleware(t *observability.Tracing) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := t.Start(r.Context(), "http.request",
				attribute.String("http.method", r.Method),
				attribute.String("http.target", r.URL.Path),
			)
			defer span.End()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))
			span.SetAttributes(attribute.Int("http.status_code", ww.Status()))
		})
	}
}

// SessionMiddleware issues or reads the session cookie.
func SessionMiddleware(cookie session.Cookie) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, _ := cookie.Ensure(w, r)
			next.ServeHTTP(w, r.WithContext(withSessionID(r.Context(), id)))
		})
	}
}

// LanguageMiddleware hydrates the request language: from the cookie when
// present, else from Accept-Language, then reconciled with the session's
// stored preference.
func LanguageMiddleware(store i18n.CookieStore, prefs *i18n.MemoryPreferences, fallback i18n.Language) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lc := i18n.NewContext(i18n.ResponseCookie{Store: store, Writer: w})

			if c, err := r.Cookie(store.Name); err == nil {
				lc.HydrateFromServer(c.Value)
			} else if accept := r.Header.Get("Accept-Language"); accept != "" {
				lc.HydrateWith(i18n.Negotiate(accept))
			} else {
				lc.HydrateWith(fallback)
			}

			if id := SessionID(r.Context()); id != "" && prefs != nil {
				lc.HydrateFromClient(prefs.For(id))
			}

			next.ServeHTTP(w, r.WithContext(withLanguage(r.Context(), lc)))
		})
	}
}

var touchUserAgentTokens = []string{"mobi", "android", "iphone", "ipad", "ipod"}

// InteractionMode resolves pointer vs touch for a new page.
func InteractionMode(r *http.Request) selection.InteractionMode {
	if m, ok := selection.ParseInteractionMode(r.Header.Get("X-Interaction-Mode")); ok {
		return m
	}
	ua := strings.ToLower(r.UserAgent())
	for _, token := range touchUserAgentTokens {
		if strings.Contains(ua, token) {
			return selection.TouchPrimary
		}
	}
	return selection.PointerHover
}
