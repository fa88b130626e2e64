// Package edge verifies session tokens in the request-interception layer that guards admin
// pages. It depends only on HMAC-SHA256, base64url and JSON decoding so it can run where the
// full token library is unavailable, and it accepts exactly the tokens auth.JWTService accepts.
package edge

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"time"
)

const algorithm = "HS256"

// Identity is the subset of token claims the interception layer needs.
type Identity struct {
	UserID    string
	Email     string
	Name      string
	Role      string
	ExpiresAt time.Time
}

// Verifier checks HS256 tokens against a shared secret.
type Verifier struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewVerifier builds a Verifier. An empty secret is rejected.
func NewVerifier(secret, issuer string, clock func() time.Time) (*Verifier, error) {
	if secret == "" {
		return nil, errors.New("edge: secret must be provided")
	}
	if clock == nil {
		clock = time.Now
	}
	return &Verifier{secret: []byte(secret), issuer: issuer, now: clock}, nil
}

// claims mirrors the JSON types of the full token claims so that malformed values are
// rejected the same way on both sides.
type claims struct {
	UserID    string          `json:"uid"`
	Email     string          `json:"email"`
	Name      string          `json:"name"`
	Role      string          `json:"role"`
	Issuer    string          `json:"iss"`
	Subject   string          `json:"sub"`
	ID        string          `json:"jti"`
	Audience  json.RawMessage `json:"aud"`
	ExpiresAt *json.Number    `json:"exp"`
	NotBefore *json.Number    `json:"nbf"`
	IssuedAt  *json.Number    `json:"iat"`
}

// Verify returns the token identity and true when the signature, algorithm, expiry, not-before,
// issuer and user id all check out. Any other outcome is false.
func (v *Verifier) Verify(token string) (*Identity, bool) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, false
	}

	headerBytes, err := decodeSegment(parts[0])
	if err != nil {
		return nil, false
	}
	var header map[string]any
	if err := json.Unmarshal(headerBytes, &header); err != nil {
		return nil, false
	}
	if alg, ok := header["alg"].(string); !ok || alg != algorithm {
		return nil, false
	}

	payload, err := decodeSegment(parts[1])
	if err != nil {
		return nil, false
	}
	var c claims
	if err := json.Unmarshal(payload, &c); err != nil {
		return nil, false
	}
	if !validAudience(c.Audience) {
		return nil, false
	}

	signature, err := decodeSegment(parts[2])
	if err != nil {
		return nil, false
	}
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(parts[0] + "." + parts[1]))
	if !hmac.Equal(signature, mac.Sum(nil)) {
		return nil, false
	}

	exp, ok := numericDate(c.ExpiresAt)
	if !ok || exp == nil {
		return nil, false
	}
	nbf, ok := numericDate(c.NotBefore)
	if !ok {
		return nil, false
	}
	if _, ok := numericDate(c.IssuedAt); !ok {
		return nil, false
	}

	now := v.now()
	if !now.Before(*exp) {
		return nil, false
	}
	if nbf != nil && now.Before(*nbf) {
		return nil, false
	}

	if v.issuer != "" && c.Issuer != v.issuer {
		return nil, false
	}
	if c.UserID == "" {
		return nil, false
	}

	return &Identity{
		UserID:    c.UserID,
		Email:     c.Email,
		Name:      c.Name,
		Role:      c.Role,
		ExpiresAt: *exp,
	}, true
}

func decodeSegment(seg string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(seg)
}

// numericDate converts a seconds-since-epoch claim, truncated to whole seconds. A nil number
// yields a nil time; an unparsable one yields ok == false.
func numericDate(n *json.Number) (*time.Time, bool) {
	if n == nil {
		return nil, true
	}
	f, err := n.Float64()
	if err != nil {
		return nil, false
	}
	whole, frac := math.Modf(f)
	t := time.Unix(int64(whole), int64(frac*1e9)).Truncate(time.Second)
	return &t, true
}

// validAudience accepts an absent audience, a string or an array of strings.
func validAudience(raw json.RawMessage) bool {
	if len(raw) == 0 || string(raw) == "null" {
		return true
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return true
	}
	var many []any
	if err := json.Unmarshal(raw, &many); err != nil {
		return false
	}
	for _, item := range many {
		if _, ok := item.(string); !ok {
			return false
		}
	}
	return true
}
