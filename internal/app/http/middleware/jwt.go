package middleware

import (
	"net/http"
	"strings"

	"invoice-portal/internal/domain/access"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const identityKey = "identity"

// Claims is the token payload issued by the login service.
type Claims struct {
	Role  string `json:"role"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// AuthMiddleware verifies an HS256 bearer token and stores the caller's
// access.Identity on the context. Requests without a valid token stop here
// with 401.
func AuthMiddleware(secret []byte) gin.HandlerFunc {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	return func(c *gin.Context) {
		if len(secret) == 0 {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "JWT secret not configured"})
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header missing"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader || strings.TrimSpace(tokenString) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Bearer token malformed"})
			return
		}

		var claims Claims
		token, err := parser.ParseWithClaims(strings.TrimSpace(tokenString), &claims, func(*jwt.Token) (interface{}, error) {
			return secret, nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		if claims.Subject == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			return
		}

		SetIdentity(c, access.Identity{
			ID:    claims.Subject,
			Role:  access.ParseRole(claims.Role),
			Email: claims.Email,
		})
		c.Next()
	}
}

// SetIdentity attaches a verified identity to the request.
func SetIdentity(c *gin.Context, who access.Identity) {
	c.Set(identityKey, who)
}

// CurrentIdentity returns the identity set by AuthMiddleware, or the zero
// (anonymous) identity on routes without it.
func CurrentIdentity(c *gin.Context) access.Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return access.Identity{}
	}
	id, _ := v.(access.Identity)
	return id
}

func RequireRole(role access.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		who := CurrentIdentity(c)
		if !who.Authenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Role not found in token"})
			return
		}
		if who.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return
		}
		c.Next()
	}
}
