package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"social-casino-backend/internal/config"
)

func newTestJWT(clock Clock) *JWTService {
	svc := NewJWTService(&config.Config{JWTSecret: "test-secret", JWTTTL: time.Hour})
	svc.clock = clock
	return svc
}

func TestJWTRoundTrip(t *testing.T) {
	clock := NewManualClock(time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC))
	svc := newTestJWT(clock)

	token, err := svc.GenerateToken("user_1", "sess_1")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user_1", claims.UserID)
	assert.Equal(t, "sess_1", claims.SessionID)
}

func TestJWTExpires(t *testing.T) {
	clock := NewManualClock(time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC))
	svc := newTestJWT(clock)

	token, err := svc.GenerateToken("user_1", "sess_1")
	require.NoError(t, err)

	clock.Advance(2 * time.Hour)
	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTRejectsForeignTokens(t *testing.T) {
	svc := newTestJWT(RealClock{})

	other := NewJWTService(&config.Config{JWTSecret: "other-secret", JWTTTL: time.Hour})
	token, err := other.GenerateToken("user_1", "sess_1")
	require.NoError(t, err)
	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "user_1", SessionID: "sess_1"})
	raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.ValidateToken(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)

	noSession, err := svc.GenerateToken("user_1", "")
	require.NoError(t, err)
	_, err = svc.ValidateToken(noSession)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestMemoryRateLimitWindow(t *testing.T) {
	clock := NewManualClock(time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC))
	mem := NewMemoryService()
	mem.clock = clock

	for range 3 {
		allowed, err := mem.CheckRateLimit(t.Context(), "user_1", "spin", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed)
	}
	allowed, _ := mem.CheckRateLimit(t.Context(), "user_1", "spin", 3, time.Minute)
	assert.False(t, allowed)

	allowed, _ = mem.CheckRateLimit(t.Context(), "user_1", "bridge", 3, time.Minute)
	assert.True(t, allowed, "actions are counted separately")

	clock.Advance(time.Minute)
	allowed, _ = mem.CheckRateLimit(t.Context(), "user_1", "spin", 3, time.Minute)
	assert.True(t, allowed)
}

func TestEnvelopeVersioning(t *testing.T) {
	raw, err := encodeEnvelope([]string{"a", "b"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"schemaVersion":1,"data":["a","b"]}`, string(raw))

	var out []string
	require.NoError(t, decodeEnvelope(raw, &out))
	assert.Equal(t, []string{"a", "b"}, out)

	err = decodeEnvelope([]byte(`{"schemaVersion":2,"data":[]}`), &out)
	assert.Error(t, err)
	err = decodeEnvelope([]byte(`not json`), &out)
	assert.Error(t, err)
}
