package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *TokenService {
	return NewTokenService("test-secret", 30*time.Minute, 7*24*time.Hour)
}

func TestTokenService_IssueAndVerify(t *testing.T) {
	svc := newTestService()
	userID := uuid.New()

	access, err := svc.IssueAccess(userID)
	require.NoError(t, err)

	subject, err := svc.Verify(access, TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, userID, subject)
}

func TestTokenService_RejectsWrongType(t *testing.T) {
	svc := newTestService()
	refresh, err := svc.IssueRefresh(uuid.New())
	require.NoError(t, err)

	_, err = svc.Verify(refresh, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestTokenService_RejectsExpired(t *testing.T) {
	svc := newTestService()
	issuedAt := time.Now().Add(-time.Hour)
	svc.now = func() time.Time { return issuedAt }

	access, err := svc.IssueAccess(uuid.New())
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.Verify(access, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_RejectsTampering(t *testing.T) {
	svc := newTestService()
	access, err := svc.IssueAccess(uuid.New())
	require.NoError(t, err)

	other := NewTokenService("another-secret", time.Minute, time.Hour)
	_, err = other.Verify(access, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)

	replacement := "abcd"
	if strings.HasSuffix(access, replacement) {
		replacement = "wxyz"
	}
	_, err = svc.Verify(access[:len(access)-4]+replacement, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.Verify("not-a-token", TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_RejectsNoneAlgorithm(t *testing.T) {
	svc := newTestService()
	claims := Claims{
		Type: TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.Verify(unsigned, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_RotateKeepsOldRefreshValid(t *testing.T) {
	svc := newTestService()
	userID := uuid.New()
	pair, err := svc.IssuePair(userID)
	require.NoError(t, err)
	assert.Equal(t, "bearer", pair.TokenType)
	assert.Equal(t, int64(1800), pair.ExpiresIn)

	subject, rotated, err := svc.Rotate(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, userID, subject)
	assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	// rotation does not revoke
	_, _, err = svc.Rotate(pair.RefreshToken)
	assert.NoError(t, err)

	_, _, err = svc.Rotate(pair.AccessToken)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret!", hash)
	assert.True(t, CheckPassword(hash, "s3cret!"))
	assert.False(t, CheckPassword(hash, "wrong"))
}
