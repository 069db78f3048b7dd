package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenType distinguishes short-lived access tokens from refresh tokens.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrWrongTokenType = errors.New("unexpected token type")
)

// Claims are the JWT claims issued by TokenService.
type Claims struct {
	Type TokenType `json:"type"`
	jwt.RegisteredClaims
}

// TokenPair is returned by login, registration and rotation.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// TokenService issues and verifies HS256 tokens whose subject is a user id.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewTokenService(secret string, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

func (s *TokenService) IssueAccess(subject uuid.UUID) (string, error) {
	return s.issue(subject, TokenTypeAccess, s.accessTTL)
}

func (s *TokenService) IssueRefresh(subject uuid.UUID) (string, error) {
	return s.issue(subject, TokenTypeRefresh, s.refreshTTL)
}

// IssuePair issues a fresh access and refresh token for subject.
func (s *TokenService) IssuePair(subject uuid.UUID) (*TokenPair, error) {
	access, err := s.IssueAccess(subject)
	if err != nil {
		return nil, err
	}
	refresh, err := s.IssueRefresh(subject)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    int64(s.accessTTL.Seconds()),
	}, nil
}

// Verify checks signature, expiry and type, and returns the subject.
func (s *TokenService) Verify(tokenString string, expected TokenType) (uuid.UUID, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return uuid.Nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Type != expected {
		return uuid.Nil, ErrWrongTokenType
	}

	subject, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: malformed subject", ErrInvalidToken)
	}
	return subject, nil
}

// Rotate exchanges a valid refresh token for a new pair. The old token stays valid until it expires.
func (s *TokenService) Rotate(refreshToken string) (uuid.UUID, *TokenPair, error) {
	subject, err := s.Verify(refreshToken, TokenTypeRefresh)
	if err != nil {
		return uuid.Nil, nil, err
	}
	pair, err := s.IssuePair(subject)
	if err != nil {
		return uuid.Nil, nil, err
	}
	return subject, pair, nil
}

func (s *TokenService) issue(subject uuid.UUID, tokenType TokenType, ttl time.Duration) (string, error) {
	now := s.now()
	claims := Claims{
		Type: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
