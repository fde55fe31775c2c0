package httpkit

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// UnknownClient is the identifier used when no forwarding header is present.
// Every such request shares one rate-limit bucket.
const UnknownClient = "unknown"

// ClientIdentifier derives the rate-limit key for a request: the first entry of
// X-Forwarded-For, else X-Real-IP, else UnknownClient. The headers are supplied by
// the client unless a proxy overwrites them, so the value is advisory only.
func ClientIdentifier(c *gin.Context) string {
	if forwarded := c.GetHeader("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	if realIP := strings.TrimSpace(c.GetHeader("X-Real-IP")); realIP != "" {
		return realIP
	}
	return UnknownClient
}
