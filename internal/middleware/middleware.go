// Package middleware holds the gin middleware chain that wraps every request before the
// route table dispatches it.
package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RequestIDHeader carries the correlation id in both directions.
const RequestIDHeader = "X-Request-ID"

const requestIDKey = "request_id"

// Unmatched labels requests that no route binding serves.
const Unmatched = "unmatched"

// RouteNamer maps a request path to the name of the route binding serving it ("" for none).
type RouteNamer func(path string) string

// HTTPObserver records finished requests; implemented by metrics.Metrics.
type HTTPObserver interface {
	ObserveHTTP(route, method string, status int, d time.Duration)
}

func routeName(namer RouteNamer, path string) string {
	if namer == nil {
		return Unmatched
	}
	if name := namer(path); name != "" {
		return name
	}
	return Unmatched
}

// RequestID reuses a valid inbound X-Request-ID or issues a new UUID, echoes it on the
// response and attaches a request-scoped logger to the request context.
func RequestID(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)

		l := logger.With().Str("request_id", id).Logger()
		c.Request = c.Request.WithContext(l.WithContext(c.Request.Context()))
		c.Next()
	}
}

// GetRequestID returns the id assigned by RequestID, if any.
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// AccessLog writes one event per request; 5xx at error, 4xx at warn, the rest at info.
func AccessLog(namer RouteNamer) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		c.Next()

		status := c.Writer.Status()
		l := zerolog.Ctx(c.Request.Context())
		var event *zerolog.Event
		switch {
		case status >= http.StatusInternalServerError:
			event = l.Error()
		case status >= http.StatusBadRequest:
			event = l.Warn()
		default:
			event = l.Info()
		}
		event.
			Str("route", routeName(namer, path)).
			Str("method", c.Request.Method).
			Str("path", path).
			Str("query", c.Request.URL.RawQuery).
			Int("status", status).
			Int("bytes", c.Writer.Size()).
			Str("client_ip", c.ClientIP()).
			Dur("duration", time.Since(start)).
			Msg("http request")
	}
}

// Metrics feeds every finished request into obs.
func Metrics(obs HTTPObserver, namer RouteNamer) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		c.Next()
		obs.ObserveHTTP(routeName(namer, path), methodLabel(c.Request.Method), c.Writer.Status(), time.Since(start))
	}
}

// OtherMethod labels requests whose method is not a standard HTTP verb, which keeps
// the metric label set bounded.
const OtherMethod = "OTHER"

func methodLabel(method string) string {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut, http.MethodPatch,
		http.MethodDelete, http.MethodConnect, http.MethodOptions, http.MethodTrace:
		return method
	default:
		return OtherMethod
	}
}
