package jwtmw

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"carvalue_backend/internal/feature/auth/domain/entity"
)

// SessionCookie is the name of the cookie carrying the session token.
const SessionCookie = "session"

const (
	contextUser      = "currentUser"
	contextSessionID = "sessionID"
)

// UserLoader loads full user records referenced by a session token.
// Following Go convention: interfaces are defined by the consumer
// (middleware), not the provider (adapters).
type UserLoader interface {
	FindByID(ctx context.Context, id uint) (*entity.User, error)
}

// SessionStore looks up session records referenced by a session token.
type SessionStore interface {
	FindByID(ctx context.Context, id string) (*entity.Session, error)
}

// CurrentUser returns middleware that resolves the identity of every
// request. It decodes the session cookie, checks the referenced session
// record is live, loads the user and attaches it to the request context.
// Every failure degrades to an anonymous request; an absent or tampered
// cookie is never a transport error. This is the single point of truth
// for "current user" — handlers and guards only read the context.
func CurrentUser(codec *Codec, sessions SessionStore, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookie)
		if err != nil {
			c.Next()
			return
		}

		userID, sessionID, ok := codec.Decode(token)
		if !ok {
			c.Next()
			return
		}

		session, err := sessions.FindByID(c.Request.Context(), sessionID)
		if err != nil || !session.IsValid() {
			c.Next()
			return
		}

		// A session referencing a deleted user is "no identity", not an error.
		user, err := users.FindByID(c.Request.Context(), userID)
		if err != nil {
			c.Next()
			return
		}

		c.Set(contextUser, user)
		c.Set(contextSessionID, sessionID)
		c.Next()
	}
}

// UserFromContext returns the resolved user for the request, if any.
func UserFromContext(c *gin.Context) (*entity.User, bool) {
	v, ok := c.Get(contextUser)
	if !ok {
		return nil, false
	}
	user, ok := v.(*entity.User)
	return user, ok
}

// SessionIDFromContext returns the resolved session ID for the request, if any.
func SessionIDFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(contextSessionID)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}

// AuthRequired returns a guard that rejects anonymous requests with 401.
// It must run after CurrentUser. The first failing guard aborts the chain,
// so the handler is never invoked.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := UserFromContext(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Next()
	}
}

// AdminRequired returns a guard that only lets admin users through.
// Anonymous requests get 401; authenticated non-admins get 403. An
// anonymous request on an admin route is a normal denial, not an error.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := UserFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		if !user.Admin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin required"})
			return
		}
		c.Next()
	}
}
