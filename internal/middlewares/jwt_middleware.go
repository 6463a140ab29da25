package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/fiich/fiich-server/configs"
)

const (
	userIDKey    = "user_id"
	userEmailKey = "user_email"
)

var ErrNoAuthenticatedUser = errors.New("no authenticated user in context")

// JWTMiddleware extracts the bearer token from the Authorization header,
// verifies its HS256 signature against the configured secret and stores the
// sub (user id) and email claims in the echo context.
func JWTMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing authorization header"})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid authorization header format"})
		}
		tokenStr := parts[1]

		token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(configs.Configs.Secrets.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid or expired token"})
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unable to parse claims"})
		}

		sub, err := claims.GetSubject()
		if err != nil || sub == "" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "subject (sub) claim missing"})
		}
		userID, err := uuid.Parse(sub)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "subject is not a valid user id"})
		}

		c.Set(userIDKey, userID)
		if email, ok := claims["email"].(string); ok {
			c.Set(userEmailKey, email)
		}

		return next(c)
	}
}

// GetUserID returns the authenticated user id stored by JWTMiddleware.
func GetUserID(c echo.Context) (uuid.UUID, error) {
	userID, ok := c.Get(userIDKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, ErrNoAuthenticatedUser
	}
	return userID, nil
}

// GetUserEmail returns the authenticated user's email, when the token carried
// one.
func GetUserEmail(c echo.Context) string {
	email, _ := c.Get(userEmailKey).(string)
	return email
}
