package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/CallumRowston/CA-T3A2-B-travelers-forum-server/internal/apperr"
	"github.com/CallumRowston/CA-T3A2-B-travelers-forum-server/internal/auth"
)

// IdentityKey is the context key the decoded Identity is stored under.
const IdentityKey = "identity"

// RequireAuth verifies the bearer credential and attaches the decoded
// Identity to the request context for downstream handlers.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := auth.VerifyCredential(c.GetHeader("Authorization"))
		if err != nil {
			apperr.Abort(c, err)
			return
		}
		c.Set(IdentityKey, identity)
		c.Next()
	}
}

// IdentityFrom returns the Identity attached by RequireAuth.
func IdentityFrom(c *gin.Context) (auth.Identity, bool) {
	v, exists := c.Get(IdentityKey)
	if !exists {
		return auth.Identity{}, false
	}
	identity, ok := v.(auth.Identity)
	return identity, ok
}
