package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/charlesng35/sitecms/internal/models"
	"github.com/charlesng35/sitecms/pkg/crypto"
)

// ErrInvalidCredentials is returned when the supplied email/password pair is invalid.
var ErrInvalidCredentials = errors.New("auth: invalid credentials")

// dummyHash is compared against when the email is unknown so both paths cost one bcrypt check.
const dummyHash = "$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5BWX4Z3ZyYhM/ZEIB6yOKqHdq5Rbe"

// LocalAuthenticator verifies email/password credentials stored in the users table.
type LocalAuthenticator struct {
	db    *gorm.DB
	clock func() time.Time
}

// NewLocalAuthenticator builds an authenticator over db.
func NewLocalAuthenticator(db *gorm.DB, clock func() time.Time) (*LocalAuthenticator, error) {
	if db == nil {
		return nil, errors.New("local authenticator: db is required")
	}
	if clock == nil {
		clock = time.Now
	}
	return &LocalAuthenticator{db: db, clock: clock}, nil
}

// Authenticate returns the user owning the credentials or ErrInvalidCredentials.
func (a *LocalAuthenticator) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	var user models.User
	err := a.db.WithContext(ctx).Where(&models.User{Email: email}).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		crypto.VerifyPassword(dummyHash, password)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("local authenticator: query user: %w", err)
	}

	if !crypto.VerifyPassword(user.Password, password) {
		return nil, ErrInvalidCredentials
	}

	now := a.clock()
	if err := a.db.WithContext(ctx).Model(&user).Update("last_login_at", now).Error; err != nil {
		return nil, fmt.Errorf("local authenticator: record login: %w", err)
	}
	user.LastLoginAt = &now

	return &user, nil
}
