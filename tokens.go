package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

var (
	errTokenInvalid   = errors.New("token is invalid or expired")
	errTokenWrongType = errors.New("token has wrong type")
)

// tokenErrorDetail is the client-facing text for a token failure.
func tokenErrorDetail(err error) string {
	if errors.Is(err, errTokenWrongType) {
		return "Token has wrong type"
	}
	return "Token is invalid or expired"
}

// tokenClaims is the payload of both token kinds; token_type tells them apart.
type tokenClaims struct {
	TokenType string `json:"token_type"`
	UserID    uint   `json:"user_id"`
	jwt.RegisteredClaims
}

// tokenIssuer signs and verifies HS256 session tokens.
type tokenIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func newTokenIssuer(secret string, accessTTL, refreshTTL time.Duration) *tokenIssuer {
	return &tokenIssuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

func (t *tokenIssuer) issue(userID uint, tokenType string) (string, error) {
	ttl := t.accessTTL
	if tokenType == tokenTypeRefresh {
		ttl = t.refreshTTL
	}
	now := t.now()
	claims := tokenClaims{
		TokenType: tokenType,
		UserID:    userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", tokenType, err)
	}
	return signed, nil
}

func (t *tokenIssuer) issueAccess(userID uint) (string, error) {
	return t.issue(userID, tokenTypeAccess)
}

// issuePair returns a fresh access and refresh token for the user.
func (t *tokenIssuer) issuePair(userID uint) (access, refresh string, err error) {
	if access, err = t.issue(userID, tokenTypeAccess); err != nil {
		return "", "", err
	}
	if refresh, err = t.issue(userID, tokenTypeRefresh); err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// parse verifies signature, expiry and token_type.
func (t *tokenIssuer) parse(raw, wantType string) (*tokenClaims, error) {
	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrInvalidKeyType
		}
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || !token.Valid {
		return nil, errTokenInvalid
	}
	if claims.TokenType != wantType {
		return nil, errTokenWrongType
	}
	if claims.UserID == 0 {
		return nil, errTokenInvalid
	}
	return claims, nil
}
