package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// UserTokenCookie is the cookie carrying the user session token
const UserTokenCookie = "user_token"

// UserClaims contains JWT claims for directory user sessions
type UserClaims struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// GenerateUserToken creates a JWT token for a user session (valid 24 hours).
// Uses the global JWTSecret initialized at startup.
func GenerateUserToken(userID int64, email string) (string, error) {
	if JWTSecret == "" {
		return "", fmt.Errorf("JWT secret not initialized")
	}

	claims := UserClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "userdir",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(JWTSecret))
}

// ValidateUserToken parses and validates a user session token
func ValidateUserToken(tokenString string) (*UserClaims, error) {
	if JWTSecret == "" {
		return nil, fmt.Errorf("JWT secret not initialized")
	}

	claims := &UserClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(JWTSecret), nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	// A token minted for an admin session carries no user id
	if claims.UserID == 0 {
		return nil, fmt.Errorf("not a user token")
	}

	return claims, nil
}

// UserAuthMiddleware is the single gate for self-service routes: it requires
// a valid user token in the cookie or Authorization header
func UserAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c, UserTokenCookie)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
			c.Abort()
			return
		}

		claims, err := ValidateUserToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("user_email", claims.Email)
		c.Next()
	}
}
