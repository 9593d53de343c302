package middleware

import "github.com/gin-gonic/gin"

// usernameKey is the key used to store the authenticated username in the
// request context. The identity provider yields a stable, lowercase username
// which the core trusts verbatim as the actor identity for permission checks.
const usernameKey = contextKey("username")

// GetUsernameFromContext retrieves the authenticated username from the Gin
// context. It returns the username and a boolean indicating if it was found.
func GetUsernameFromContext(c *gin.Context) (string, bool) {
	usernameVal, exists := c.Get(string(usernameKey))
	if !exists {
		// check in the request context as well
		if v := c.Request.Context().Value(usernameKey); v != nil {
			if username, ok := v.(string); ok {
				return username, true
			}
		}
		return "", false
	}

	username, ok := usernameVal.(string)
	if !ok {
		// This should not happen if the auth middleware sets it correctly.
		return "", false
	}

	return username, true
}
