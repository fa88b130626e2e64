package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/charlesng35/sitecms/internal/database/testutil"
	"github.com/charlesng35/sitecms/internal/models"
	"github.com/charlesng35/sitecms/pkg/crypto"
)

func TestLocalAuthenticator(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	loginAt := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	hash, err := crypto.HashPasswordWithCost("correct horse", bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.User{
		Email:    "editor@example.com",
		Name:     "Editor",
		Password: hash,
		Role:     models.RoleEditor,
	}).Error)

	authn, err := NewLocalAuthenticator(db, func() time.Time { return loginAt })
	require.NoError(t, err)
	ctx := context.Background()

	user, err := authn.Authenticate(ctx, " Editor@Example.com ", "correct horse")
	require.NoError(t, err)
	require.Equal(t, "editor@example.com", user.Email)
	require.NotNil(t, user.LastLoginAt)
	require.True(t, user.LastLoginAt.Equal(loginAt))

	_, err = authn.Authenticate(ctx, "editor@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = authn.Authenticate(ctx, "nobody@example.com", "correct horse")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = authn.Authenticate(ctx, "", "")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestNewLocalAuthenticatorRequiresDB(t *testing.T) {
	_, err := NewLocalAuthenticator(nil, nil)
	require.Error(t, err)
}
