package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testSecretKey = "0123456789abcdef0123456789abcdef"

func TestJWTMaker(t *testing.T) {
	maker, err := NewJWTMaker(testSecretKey)
	require.NoError(t, err)

	sessionID := "sess_1"
	duration := time.Minute

	tokenString, payload, err := maker.CreateToken(sessionID, duration)
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)
	require.Equal(t, sessionID, payload.Subject)

	verified, err := maker.VerifyToken(tokenString)
	require.NoError(t, err)
	require.Equal(t, sessionID, verified.Subject)
	require.Equal(t, payload.ID, verified.ID)
}

func TestShortSecretKey(t *testing.T) {
	_, err := NewJWTMaker("too-short")
	require.Error(t, err)
}

func TestExpiredToken(t *testing.T) {
	maker, err := NewJWTMaker(testSecretKey)
	require.NoError(t, err)

	tokenString, _, err := maker.CreateToken("sess_1", -time.Minute)
	require.NoError(t, err)

	_, err = maker.VerifyToken(tokenString)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestInvalidTokenAlgNone(t *testing.T) {
	payload, err := NewPayload("sess_1", time.Minute)
	require.NoError(t, err)

	jwtToken := jwt.NewWithClaims(jwt.SigningMethodNone, payload)
	tokenString, err := jwtToken.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	maker, err := NewJWTMaker(testSecretKey)
	require.NoError(t, err)

	_, err = maker.VerifyToken(tokenString)
	require.ErrorIs(t, err, ErrInvalidToken)
}
