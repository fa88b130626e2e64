package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	iauth "github.com/charlesng35/sitecms/internal/auth"
	"github.com/charlesng35/sitecms/internal/auth/edge"
	"github.com/charlesng35/sitecms/internal/models"
)

const testSecret = "middleware-secret"

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func newJWT(t *testing.T) *iauth.JWTService {
	t.Helper()
	svc, err := iauth.NewJWTService(iauth.JWTConfig{Secret: testSecret, Issuer: "sitecms", Clock: fixedClock})
	require.NoError(t, err)
	return svc
}

func newEdge(t *testing.T) *edge.Verifier {
	t.Helper()
	v, err := edge.NewVerifier(testSecret, "sitecms", fixedClock)
	require.NoError(t, err)
	return v
}

func issue(t *testing.T, svc *iauth.JWTService, role models.Role) string {
	t.Helper()
	token, err := svc.IssueToken(&models.User{
		BaseModel: models.BaseModel{ID: "user-123"},
		Email:     "ada@example.com",
		Name:      "Ada",
		Role:      role,
	})
	require.NoError(t, err)
	return token
}
