// Package utils provides helper functions for session token signing and
// password hashing.
package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionTTL is the fixed lifetime of a session credential. Expiry is
// embedded as the exp claim and checked on every verification; there is no
// background sweep.
const SessionTTL = time.Hour

// SessionClaims is the decoded identity a verified session credential
// carries: the subject user id plus the name and role claims embedded at
// signing time.
type SessionClaims struct {
	UserID uint64
	Name   string
	Role   string
}

var errBadClaims = errors.New("malformed session claims")

// NewSessionToken builds and signs an HS256 JWT for a user. The claims are
// subject (sub), name, role, expiration (exp) and issued at (iat).
func NewSessionToken(secret string, userID uint64, name, role string) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":  userID,
		"name": name,
		"role": role,
		"exp":  now.Add(SessionTTL).Unix(),
		"iat":  now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

// ParseSessionToken verifies signature and expiry of a session credential
// and extracts its claims. Any defect (wrong algorithm, bad signature,
// elapsed exp, missing claims) yields an error; callers must treat every
// failure mode identically.
func ParseSessionToken(secret, raw string) (SessionClaims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		// Only HMAC is accepted; reject any other signing method.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		if err == nil {
			err = errors.New("invalid token")
		}
		return SessionClaims{}, err
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return SessionClaims{}, errBadClaims
	}
	sub, ok := claims["sub"].(float64)
	if !ok || sub <= 0 {
		return SessionClaims{}, errBadClaims
	}
	name, _ := claims["name"].(string)
	role, ok := claims["role"].(string)
	if !ok || role == "" {
		return SessionClaims{}, errBadClaims
	}
	return SessionClaims{UserID: uint64(sub), Name: name, Role: role}, nil
}
