package utils // package utils provides helpers for token creation and hashing

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating and verifying signed tokens
)

// AccessToken represents a signed HS256 JWT along with its expiry.  Access
// tokens are bearer credentials: self-contained, stateless and not
// revocable before expiry.  The signing secret is always passed in by the
// caller; this package holds no ambient signing state.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// Claims is the verified identity carried by an access token.  Downstream
// handlers consume it from the request context after the auth middleware
// has validated the token once.
type Claims struct {
	Subject  string // user id the token was issued to
	Username string // username at issuance time
	Role     string // role claim used for authorization
}

// ErrInvalidToken is returned by VerifyAccessToken for any token that is
// malformed, carries a bad signature, is expired, or is missing claims.
var ErrInvalidToken = errors.New("invalid token")

// NewAccessToken builds and signs an HS256 JWT for a user.  The claims are
// the standard subject (sub) and expiration (exp) plus username and role,
// and iat for the issuance time.  ttlMin may be negative, which produces
// an already-expired token; that is intentional and exercised by tests.
func NewAccessToken(secret, subjectID, username, role string, ttlMin int) (AccessToken, error) {
	exp := time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":      subjectID,
		"username": username,
		"role":     role,
		"exp":      exp.Unix(),
		"iat":      time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// VerifyAccessToken parses and validates a raw token string.  Verification
// fails for a malformed token, a signature produced with a different
// secret or algorithm, and an exp strictly in the past.  On success the
// identity claims are returned.
func VerifyAccessToken(secret, raw string) (Claims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		// Only HMAC is acceptable; reject alg-substitution attempts.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return Claims{}, ErrInvalidToken
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}
	sub, _ := mc["sub"].(string)
	username, _ := mc["username"].(string)
	role, _ := mc["role"].(string)
	if sub == "" || role == "" {
		return Claims{}, ErrInvalidToken
	}
	return Claims{Subject: sub, Username: username, Role: role}, nil
}
