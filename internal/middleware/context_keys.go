package middleware

import "github.com/gin-gonic/gin"

// actorIDKey is the key used to store the authenticated staff user's ID.
const actorIDKey = contextKey("actorID")

// GetActorIDFromContext retrieves the acting staff user ID from the Gin
// context. It returns the ID and a boolean indicating whether it was found.
func GetActorIDFromContext(c *gin.Context) (string, bool) {
	actorVal, exists := c.Get(string(actorIDKey))
	if !exists {
		// check the request context as well
		ctxVal := c.Request.Context().Value(actorIDKey)
		if ctxVal != nil {
			if id, ok := ctxVal.(string); ok {
				return id, true
			}
		}
		return "", false
	}

	actorID, ok := actorVal.(string)
	if !ok {
		return "", false
	}
	return actorID, true
}
