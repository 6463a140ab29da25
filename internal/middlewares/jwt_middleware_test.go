package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fiich/fiich-server/configs"
)

const testSecret = "test-secret"

func createValidJWT(t *testing.T, userID uuid.UUID, email string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   userID.String(),
		"email": email,
		"exp":   time.Now().Add(time.Hour).Unix(),
		"iat":   time.Now().Unix(),
	})
	tokenString, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return tokenString
}

func invokeMiddleware(t *testing.T, authHeader string) (*httptest.ResponseRecorder, bool, uuid.UUID, string) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	reached := false
	var gotID uuid.UUID
	var gotEmail string
	handler := JWTMiddleware(func(c echo.Context) error {
		reached = true
		gotID, _ = GetUserID(c)
		gotEmail = GetUserEmail(c)
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
	return rec, reached, gotID, gotEmail
}

func TestJWTMiddleware(t *testing.T) {
	configs.Configs.Secrets.JWTSecret = testSecret

	t.Run("valid token reaches handler with identity", func(t *testing.T) {
		userID := uuid.New()
		token := createValidJWT(t, userID, "owner@dupont-btp.fr")

		rec, reached, gotID, gotEmail := invokeMiddleware(t, "Bearer "+token)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, reached)
		assert.Equal(t, userID, gotID)
		assert.Equal(t, "owner@dupont-btp.fr", gotEmail)
	})

	t.Run("missing header is rejected", func(t *testing.T) {
		rec, reached, _, _ := invokeMiddleware(t, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, reached)
	})

	t.Run("malformed header is rejected", func(t *testing.T) {
		rec, reached, _, _ := invokeMiddleware(t, "Token abc")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, reached)
	})

	t.Run("wrong signature is rejected", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": uuid.New().String(),
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		signed, err := token.SignedString([]byte("other-secret"))
		require.NoError(t, err)

		rec, reached, _, _ := invokeMiddleware(t, "Bearer "+signed)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, reached)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": uuid.New().String(),
			"exp": time.Now().Add(-time.Hour).Unix(),
		})
		signed, err := token.SignedString([]byte(testSecret))
		require.NoError(t, err)

		rec, reached, _, _ := invokeMiddleware(t, "Bearer "+signed)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, reached)
	})

	t.Run("non-uuid subject is rejected", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": "not-a-uuid",
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		signed, err := token.SignedString([]byte(testSecret))
		require.NoError(t, err)

		rec, reached, _, _ := invokeMiddleware(t, "Bearer "+signed)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, reached)
	})
}

func TestGetUserID_NoIdentity(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	_, err := GetUserID(c)
	assert.ErrorIs(t, err, ErrNoAuthenticatedUser)
}
