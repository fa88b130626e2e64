package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/charlesng35/sitecms/internal/auth"
	"github.com/charlesng35/sitecms/internal/database/testutil"
	"github.com/charlesng35/sitecms/internal/models"
	apperrors "github.com/charlesng35/sitecms/pkg/errors"
)

type authFixture struct {
	auth   *AuthService
	users  *UserService
	tokens *auth.JWTService
	clock  *testClock
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	clock := newTestClock()

	users, err := NewUserService(db, time.Second)
	require.NoError(t, err)
	tokens, err := auth.NewJWTService(auth.JWTConfig{Secret: "test-secret", Issuer: "sitecms", Clock: clock.Now})
	require.NoError(t, err)
	authenticator, err := auth.NewLocalAuthenticator(db, clock.Now)
	require.NoError(t, err)
	svc, err := NewAuthService(authenticator, tokens, users, clock.Now)
	require.NoError(t, err)

	return &authFixture{auth: svc, users: users, tokens: tokens, clock: clock}
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	admin, err := fx.users.Create(ctx, CreateUserInput{Email: "Admin@Example.com", Name: "Admin", Password: "correct-horse", Role: models.RoleAdmin})
	require.NoError(t, err)

	result, err := fx.auth.Login(ctx, " admin@example.com ", "correct-horse")
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)
	require.Equal(t, admin.ID, result.User.ID)
	require.Equal(t, fx.clock.Now().Add(auth.DefaultTokenTTL), result.ExpiresAt)

	claims, ok := fx.tokens.Verify(result.Token)
	require.True(t, ok)
	require.Equal(t, admin.ID, claims.UserID)
	require.Equal(t, "admin@example.com", claims.Email)
	require.Equal(t, string(models.RoleAdmin), claims.Role)

	me, err := fx.auth.Me(ctx, claims.UserID)
	require.NoError(t, err)
	require.Equal(t, admin.Email, me.Email)
	require.NotNil(t, me.LastLoginAt)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	_, err := fx.users.Create(ctx, CreateUserInput{Email: "editor@example.com", Name: "Ed", Password: "password123"})
	require.NoError(t, err)

	_, wrongPassword := fx.auth.Login(ctx, "editor@example.com", "nope-nope")
	_, unknownUser := fx.auth.Login(ctx, "ghost@example.com", "password123")

	require.ErrorIs(t, wrongPassword, apperrors.ErrInvalidCredentials)
	require.ErrorIs(t, unknownUser, apperrors.ErrInvalidCredentials)
	require.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

func TestMeForDeletedUserIsUnauthorized(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	_, err := fx.auth.Me(ctx, "missing")
	requireAppStatus(t, err, http.StatusUnauthorized)
}

func TestUserServiceCreateValidatesAndHashes(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	user, err := fx.users.Create(ctx, CreateUserInput{Email: "a@b.test", Name: "A", Password: "longenough"})
	require.NoError(t, err)
	require.Equal(t, models.RoleEditor, user.Role)
	require.NotEqual(t, "longenough", user.Password)

	_, err = fx.users.Create(ctx, CreateUserInput{Email: "A@B.test", Name: "Again", Password: "longenough"})
	require.ErrorIs(t, err, ErrEmailTaken)

	_, err = fx.users.Create(ctx, CreateUserInput{Email: "short@b.test", Name: "S", Password: "short"})
	requireAppStatus(t, err, http.StatusBadRequest)

	_, err = fx.users.Create(ctx, CreateUserInput{Email: "not-an-email", Name: "N", Password: "longenough"})
	requireAppStatus(t, err, http.StatusBadRequest)

	_, err = fx.users.Create(ctx, CreateUserInput{Email: "r@b.test", Name: "R", Password: "longenough", Role: "owner"})
	requireAppStatus(t, err, http.StatusBadRequest)
}

func TestUserServiceUpdateAndDelete(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	admin, err := fx.users.Create(ctx, CreateUserInput{Email: "admin@b.test", Name: "Admin", Password: "longenough", Role: models.RoleAdmin})
	require.NoError(t, err)
	editor, err := fx.users.Create(ctx, CreateUserInput{Email: "editor@b.test", Name: "Editor", Password: "longenough"})
	require.NoError(t, err)

	updated, err := fx.users.Update(ctx, editor.ID, UpdateUserInput{Role: ptr(models.RoleAdmin), Password: ptr("new-password")})
	require.NoError(t, err)
	require.Equal(t, models.RoleAdmin, updated.Role)

	_, err = fx.auth.Login(ctx, "editor@b.test", "new-password")
	require.NoError(t, err)

	requireAppStatus(t, fx.users.Delete(ctx, admin.ID, admin.ID), http.StatusBadRequest)
	require.NoError(t, fx.users.Delete(ctx, admin.ID, editor.ID))

	users, err := fx.users.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.Equal(t, admin.ID, users[0].ID)
}

func TestStatsSummary(t *testing.T) {
	fx := newContentFixture(t)
	pages, err := NewPageService(fx.cfg)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = pages.Create(ctx, "u", PageInput{Title: ptr("Home"), PublishStatus: published()})
	require.NoError(t, err)
	_, err = pages.Create(ctx, "u", PageInput{Title: ptr("Draft")})
	require.NoError(t, err)

	stats, err := NewStatsService(fx.db, map[string]StatsSource{"pages": pages})
	require.NoError(t, err)

	summary, err := stats.Summary(ctx)
	require.NoError(t, err)
	require.Equal(t, CollectionStats{Total: 2, Published: 1}, summary["pages"])
	require.Equal(t, CollectionStats{}, summary["media"])
}
