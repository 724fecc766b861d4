package identity

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Identity is the authenticated caller as supplied by the external identity
// provider. This service never authenticates anyone itself: a trusted gateway
// terminates auth and forwards the stable user id and username as headers.
type Identity struct {
	UserID   string
	Username string
}

const (
	headerUserID   = "X-User-ID"
	headerUsername = "X-Username"

	contextKey = "identity"
)

// Middleware materializes the forwarded identity into the gin context.
// Requests without an identity are rejected with a bare 401: no payload, so
// nothing about the requested resource leaks to unauthenticated callers. For
// websocket endpoints the abort happens before the upgrade, which rejects the
// handshake outright.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader(headerUserID))
		username := strings.TrimSpace(c.GetHeader(headerUsername))
		if userID == "" || username == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Set(contextKey, Identity{UserID: userID, Username: username})
		c.Next()
	}
}

// FromContext returns the caller identity set by Middleware.
func FromContext(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(contextKey)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}
