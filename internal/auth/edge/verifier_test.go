package edge

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func sign(t *testing.T, secret string, header, payload any) string {
	t.Helper()
	h, err := json.Marshal(header)
	require.NoError(t, err)
	p, err := json.Marshal(payload)
	require.NoError(t, err)

	signingInput := base64.RawURLEncoding.EncodeToString(h) + "." + base64.RawURLEncoding.EncodeToString(p)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(signingInput))
	return signingInput + "." + base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func validPayload() map[string]any {
	return map[string]any{
		"uid":   "user-1",
		"email": "editor@example.com",
		"name":  "Editor",
		"role":  "editor",
		"sub":   "user-1",
		"iss":   "sitecms",
		"iat":   testNow.Unix(),
		"nbf":   testNow.Unix(),
		"exp":   testNow.Add(time.Hour).Unix(),
	}
}

func hs256() map[string]any {
	return map[string]any{"alg": "HS256", "typ": "JWT"}
}

func newVerifier(t *testing.T, at time.Time) *Verifier {
	t.Helper()
	v, err := NewVerifier("secret", "sitecms", func() time.Time { return at })
	require.NoError(t, err)
	return v
}

func TestNewVerifierRequiresSecret(t *testing.T) {
	_, err := NewVerifier("", "", nil)
	require.Error(t, err)
}

func TestVerifyAcceptsValidToken(t *testing.T) {
	token := sign(t, "secret", hs256(), validPayload())

	identity, ok := newVerifier(t, testNow).Verify(token)
	require.True(t, ok)
	require.Equal(t, "user-1", identity.UserID)
	require.Equal(t, "editor@example.com", identity.Email)
	require.Equal(t, "editor", identity.Role)
	require.True(t, identity.ExpiresAt.Equal(testNow.Add(time.Hour)))
}

func TestVerifyRejects(t *testing.T) {
	cases := map[string]func() string{
		"wrong secret": func() string { return sign(t, "other", hs256(), validPayload()) },
		"wrong algorithm": func() string {
			return sign(t, "secret", map[string]any{"alg": "HS512"}, validPayload())
		},
		"none algorithm": func() string {
			return sign(t, "secret", map[string]any{"alg": "none"}, validPayload())
		},
		"missing exp": func() string {
			p := validPayload()
			delete(p, "exp")
			return sign(t, "secret", hs256(), p)
		},
		"expired": func() string {
			p := validPayload()
			p["exp"] = testNow.Unix()
			return sign(t, "secret", hs256(), p)
		},
		"not yet valid": func() string {
			p := validPayload()
			p["nbf"] = testNow.Add(time.Second).Unix()
			return sign(t, "secret", hs256(), p)
		},
		"wrong issuer": func() string {
			p := validPayload()
			p["iss"] = "elsewhere"
			return sign(t, "secret", hs256(), p)
		},
		"missing user": func() string {
			p := validPayload()
			delete(p, "uid")
			return sign(t, "secret", hs256(), p)
		},
		"exp not a number": func() string {
			p := validPayload()
			p["exp"] = true
			return sign(t, "secret", hs256(), p)
		},
		"bad audience": func() string {
			p := validPayload()
			p["aud"] = []any{"site", 7}
			return sign(t, "secret", hs256(), p)
		},
		"two segments": func() string { return "abc.def" },
		"garbage":      func() string { return "not a token" },
		"empty":        func() string { return "" },
	}

	v := newVerifier(t, testNow)
	for name, build := range cases {
		t.Run(name, func(t *testing.T) {
			_, ok := v.Verify(build())
			require.False(t, ok)
		})
	}
}

func TestVerifyTruncatesFractionalExpiry(t *testing.T) {
	p := validPayload()
	p["exp"] = float64(testNow.Unix()) + 0.9
	token := sign(t, "secret", hs256(), p)

	_, ok := newVerifier(t, testNow).Verify(token)
	require.False(t, ok)
}

func TestVerifyWithoutConfiguredIssuer(t *testing.T) {
	p := validPayload()
	delete(p, "iss")
	token := sign(t, "secret", hs256(), p)

	v, err := NewVerifier("secret", "", func() time.Time { return testNow })
	require.NoError(t, err)

	_, ok := v.Verify(token)
	require.True(t, ok)
}
