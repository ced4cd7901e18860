package ctxutil

import (
	"context"
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

const clientIPKey = "client_ip"

// SetClientIP sets client IP to context.Context
func SetClientIP(ctx context.Context, ip string) context.Context {
	return SetValue(ctx, clientIPKey, ip)
}

// GetClientIP gets client IP from context.Context
func GetClientIP(ctx context.Context) string {
	if ip, ok := GetValue(ctx, clientIPKey).(string); ok && ip != "" {
		return ip
	}
	if c, ok := GetGinContext(ctx); ok {
		return ClientIP(c)
	}
	return "unknown"
}

// ClientIP resolves the client address of a gin request, preferring public
// addresses from proxy headers.
func ClientIP(c *gin.Context) string {
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		ip := strings.TrimSpace(strings.Split(xff, ",")[0])
		if ip != "" && !isPrivateIP(ip) {
			return ip
		}
	}

	if ip := c.GetHeader("X-Real-IP"); ip != "" && !isPrivateIP(ip) {
		return ip
	}

	if ip := c.ClientIP(); ip != "" {
		return ip
	}

	if c.Request != nil {
		if host, _, err := net.SplitHostPort(c.Request.RemoteAddr); err == nil {
			return host
		}
		return c.Request.RemoteAddr
	}
	return "unknown"
}

// isPrivateIP checks if IP is private; unparsable input counts as private
func isPrivateIP(ipStr string) bool {
	ip := net.ParseIP(ipStr)
	if ip == nil {
		return true
	}
	return ip.IsPrivate() || ip.IsLoopback() || ip.IsLinkLocalUnicast() || ip.IsUnspecified()
}
