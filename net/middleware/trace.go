// Package middleware holds the gin middleware shared by the HTTP server.
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/screener/ctxutil"
	"github.com/ncobase/screener/logging/logger"
	"github.com/sirupsen/logrus"
)

// Trace attaches a trace id and the client address to every request. The
// trace id sent in the X-Trace-ID header is reused and echoed back.
func Trace() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(ctxutil.TraceIDHeader)
		if traceID == "" {
			traceID = ctxutil.NewTraceID()
		}
		ctx := ctxutil.SetTraceID(c.Request.Context(), traceID)
		ctx = ctxutil.SetClientIP(ctx, ctxutil.ClientIP(c))
		c.Request = c.Request.WithContext(ctx)
		c.Set(ctxutil.TraceIDKey, traceID)
		c.Header(ctxutil.TraceIDHeader, traceID)
		c.Next()
	}
}

// Logger writes one entry per request
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path += "?" + raw
		}

		c.Next()

		status := c.Writer.Status()
		entry := logger.WithFields(c.Request.Context(), logrus.Fields{
			"method":    c.Request.Method,
			"path":      path,
			"status":    status,
			"duration":  time.Since(start).String(),
			"client_ip": ctxutil.GetClientIP(c.Request.Context()),
		})
		if len(c.Errors) > 0 {
			entry = entry.WithField("errors", c.Errors.String())
		}

		switch {
		case status >= 500:
			entry.Error("HTTP request")
		case status >= 400:
			entry.Warn("HTTP request")
		default:
			entry.Info("HTTP request")
		}
	}
}
