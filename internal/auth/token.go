// Package auth issues and verifies the bearer tokens that prove identity to
// the storefront API, and hashes passwords.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// Claims is the payload carried by a bearer token.
type Claims struct {
	UserID  int64  `json:"userId"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
	Exp     int64  `json:"exp"`
}

const (
	UserTokenTTL  = 24 * time.Hour
	AdminTokenTTL = 8 * time.Hour
)

var b64 = base64.RawURLEncoding

// Sign produces "payload.signature" where the signature is an HMAC-SHA256 over
// the JSON payload.
func Sign(secret []byte, c Claims) string {
	payload, _ := json.Marshal(c)
	mac := hmac.New(sha256.New, secret)
	mac.Write(payload)
	return b64.EncodeToString(payload) + "." + b64.EncodeToString(mac.Sum(nil))
}

// Verify checks the signature and expiry and returns the claims.
func Verify(secret []byte, token string) (*Claims, error) {
	payloadPart, sigPart, ok := strings.Cut(token, ".")
	if !ok {
		return nil, ErrInvalidToken
	}
	payload, err := b64.DecodeString(payloadPart)
	if err != nil {
		return nil, ErrInvalidToken
	}
	sig, err := b64.DecodeString(sigPart)
	if err != nil {
		return nil, ErrInvalidToken
	}
	mac := hmac.New(sha256.New, secret)
	mac.Write(payload)
	if !hmac.Equal(sig, mac.Sum(nil)) {
		return nil, ErrInvalidToken
	}
	var c Claims
	if err := json.Unmarshal(payload, &c); err != nil {
		return nil, ErrInvalidToken
	}
	if time.Now().Unix() >= c.Exp {
		return nil, ErrExpiredToken
	}
	return &c, nil
}
