package jwthelper

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var key = []byte("test-signing-key")

func TestGenerateAndParse(t *testing.T) {
	token, err := GenerateToken(key, 42, "STUDENT", time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(key, token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "STUDENT", claims.Role)
}

func TestParse_PayloadShape(t *testing.T) {
	token, err := GenerateToken(key, 7, "ADMIN", time.Hour)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	raw, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(raw, &payload))
	assert.EqualValues(t, 7, payload["userId"])
	assert.Equal(t, "ADMIN", payload["role"])
	assert.Contains(t, payload, "exp")
}

func TestParse_Expired(t *testing.T) {
	token, err := GenerateToken(key, 1, "STUDENT", -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(key, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParse_WrongKey(t *testing.T) {
	token, err := GenerateToken(key, 1, "STUDENT", time.Hour)
	require.NoError(t, err)

	_, err = ParseToken([]byte("other-key"), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParse_TamperedPayload(t *testing.T) {
	token, err := GenerateToken(key, 1, "STUDENT", time.Hour)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	forged, _ := json.Marshal(map[string]any{"userId": 1, "role": "ADMIN", "exp": time.Now().Add(time.Hour).Unix()})
	parts[1] = base64.RawURLEncoding.EncodeToString(forged)

	_, err = ParseToken(key, strings.Join(parts, "."))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParse_MissingExpiry(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: 1, Role: "STUDENT"}).SignedString(key)
	require.NoError(t, err)

	_, err = ParseToken(key, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParse_Garbage(t *testing.T) {
	_, err := ParseToken(key, "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
