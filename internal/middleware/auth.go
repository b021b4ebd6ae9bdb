package middleware

import (
	"net/http"
	"strings"

	"cineva.app/movieadmin/internal/service"
	"cineva.app/movieadmin/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AuthMiddleware struct {
	tokenService service.TokenService
	authorizer   service.Authorizer
}

func NewAuthMiddleware(tokenService service.TokenService, authorizer service.Authorizer) *AuthMiddleware {
	return &AuthMiddleware{
		tokenService: tokenService,
		authorizer:   authorizer,
	}
}

// RequireAuth resolves the credential and stores the live user id under
// "user_id". The user record is re-fetched on every request, so a
// deleted account is rejected even with a previously valid token.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")

		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}

		// Fallback to query parameter "token" (useful for direct file links)
		if tokenString == "" {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			c.Abort()
			return
		}

		user, err := m.tokenService.Resolve(c.Request.Context(), tokenString)
		if err != nil {
			response.ResponseError(c, err)
			c.Abort()
			return
		}

		c.Set("user_id", user.ID.String())
		c.Next()
	}
}

// RequireOperation allows the request through when the user's role
// grants at least one of the named operations. Must run after
// RequireAuth.
func (m *AuthMiddleware) RequireOperation(slugs ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := response.GetUserID(c)
		if err != nil {
			response.ResponseError(c, err)
			c.Abort()
			return
		}

		uid, err := uuid.Parse(userID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user id"})
			c.Abort()
			return
		}

		if err := m.authorizer.AuthorizeAny(c.Request.Context(), uid, slugs); err != nil {
			response.ResponseError(c, err)
			c.Abort()
			return
		}

		c.Next()
	}
}
