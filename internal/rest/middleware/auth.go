package middleware

import (
	"net/http"
	"strings"

	"github.com/funnytourism/tourprice/internal/config"
	"github.com/funnytourism/tourprice/internal/logger"
	"github.com/funnytourism/tourprice/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

const HeaderAuthorization = "Authorization"

// Claims are the claims of an admin or agent token. The subject is the user id.
type Claims struct {
	AgentID string `json:"agent_id,omitempty"`
	jwt.RegisteredClaims
}

// GuestAuthenticateMiddleware lets anonymous catalog requests through with
// the default user
func GuestAuthenticateMiddleware(c *gin.Context) {
	ctx := types.SetUserID(c.Request.Context(), types.DefaultUserID)
	c.Request = c.Request.WithContext(ctx)
	c.Next()
}

// AuthenticateMiddleware requires an HS256 bearer token signed with the
// configured secret and stores the user and agent ids in the request context
func AuthenticateMiddleware(cfg *config.Configuration, log *logger.Logger) gin.HandlerFunc {
	secret := []byte(cfg.Auth.Secret)

	return func(c *gin.Context) {
		authHeader := c.GetHeader(HeaderAuthorization)
		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		claims, err := ParseToken(tokenString, secret)
		if err != nil {
			log.Debugw("failed to validate token", "error", err)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		ctx := types.SetUserID(c.Request.Context(), claims.Subject)
		if claims.AgentID != "" {
			ctx = types.SetAgentID(ctx, claims.AgentID)
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// ParseToken validates tokenString and returns its claims
func ParseToken(tokenString string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.Subject == "" {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
