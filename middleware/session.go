package middleware

import (
	"github.com/gin-gonic/gin"

	"noteflow/model"
	"noteflow/services"
)

// SessionCookieName is the cookie carrying the signed session credential.
const SessionCookieName = "session"

const identityKey = "identity"

// SessionMiddleware resolves the session cookie into an identity on every
// request. An absent, malformed or expired credential is the same as "not
// logged in": the request proceeds without an identity and nothing is
// written to the response here.
func SessionMiddleware(tokens *services.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(SessionCookieName)
		if err != nil || cookie == "" {
			c.Next()
			return
		}

		id, err := tokens.Resolve(cookie)
		if err != nil {
			c.Next()
			return
		}

		c.Set(identityKey, id)
		c.Next()
	}
}

// IdentityFrom returns the resolved identity for the request, if any.
func IdentityFrom(c *gin.Context) (model.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return model.Identity{}, false
	}
	id, ok := v.(model.Identity)
	if !ok || id.IsZero() {
		return model.Identity{}, false
	}
	return id, true
}
