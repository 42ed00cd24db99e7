package middleware

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/sekolahku/backoffice-api/internal/models"
)

// ContextActorKey is the gin context key storing the actor claims.
const ContextActorKey = "currentActor"

// ActorIdentity attaches the bearer token's claims to the request context
// when a valid token is present. The identity only stamps recorded_by and
// generated_by fields on writes; requests without a token still pass.
func ActorIdentity(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.Next()
			return
		}

		claims, err := parseActorToken(parts[1], secret)
		if err != nil {
			c.Next()
			return
		}

		c.Set(ContextActorKey, claims)
		c.Next()
	}
}

func parseActorToken(token, secret string) (*models.ActorClaims, error) {
	claims := &models.ActorClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// ActorFromContext returns the claims attached by ActorIdentity, or nil.
func ActorFromContext(c *gin.Context) *models.ActorClaims {
	value, exists := c.Get(ContextActorKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.ActorClaims)
	if !ok {
		return nil
	}
	return claims
}

// ActorID returns the acting user's ID, or empty when anonymous.
func ActorID(c *gin.Context) string {
	if claims := ActorFromContext(c); claims != nil {
		return claims.UserID
	}
	return ""
}
