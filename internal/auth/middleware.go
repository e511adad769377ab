package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/jobseeker-portal/internal/storage"
)

const (
	ClientIDHeader = "X-Client-ID"

	ctxKV      = "clientKV"
	ctxSession = "session"
)

// ClientScope resolves the caller's storage namespace from X-Client-ID and
// attaches it, with the hydrated session, to the request context.
func ClientScope(kv storage.KV) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !attachClient(c, kv) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Missing " + ClientIDHeader + " header"})
			return
		}
		c.Next()
	}
}

// OptionalClientScope is ClientScope for routes that only sometimes touch
// client state. Without the header ClientKV and SessionFrom return nil.
func OptionalClientScope(kv storage.KV) gin.HandlerFunc {
	return func(c *gin.Context) {
		attachClient(c, kv)
		c.Next()
	}
}

func attachClient(c *gin.Context, kv storage.KV) bool {
	clientID := c.GetHeader(ClientIDHeader)
	if clientID == "" {
		return false
	}

	scoped := storage.Scoped(kv, clientID)
	session := NewSession(scoped)
	session.Hydrate(c.Request.Context())

	c.Set(ctxKV, scoped)
	c.Set(ctxSession, session)
	return true
}

// RequireUser rejects anonymous sessions. It must run after ClientScope.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := SessionFrom(c)
		if s == nil || !s.IsAuthenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}
		c.Next()
	}
}

func ClientKV(c *gin.Context) storage.KV {
	if v, ok := c.Get(ctxKV); ok {
		return v.(storage.KV)
	}
	return nil
}

func SessionFrom(c *gin.Context) *Session {
	if v, ok := c.Get(ctxSession); ok {
		return v.(*Session)
	}
	return nil
}
