package services

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/charlesng35/sitecms/internal/models"
	"github.com/charlesng35/sitecms/internal/store"
	"github.com/charlesng35/sitecms/pkg/crypto"
	"github.com/charlesng35/sitecms/pkg/logger"
	apperrors "github.com/charlesng35/sitecms/pkg/errors"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

// CreateUserInput describes a new account.
type CreateUserInput struct {
	Email    string      `json:"email" validate:"required,email"`
	Name     string      `json:"name" validate:"required,max=200"`
	Password string      `json:"password" validate:"required,min=8,max=128"`
	Role     models.Role `json:"role" validate:"omitempty,oneof=admin editor"`
}

// UpdateUserInput describes mutable account fields.
type UpdateUserInput struct {
	Name     *string      `json:"name" validate:"omitempty,max=200"`
	Password *string      `json:"password" validate:"omitempty,min=8,max=128"`
	Role     *models.Role `json:"role" validate:"omitempty,oneof=admin editor"`
}

// UserService manages admin and editor accounts.
type UserService struct {
	users *store.Collection[models.User]
	log   *zap.Logger
}

// NewUserService constructs a UserService.
func NewUserService(db *gorm.DB, timeout time.Duration) (*UserService, error) {
	if db == nil {
		return nil, errors.New("user service: db is required")
	}
	var opts []store.Option
	if timeout > 0 {
		opts = append(opts, store.WithTimeout(timeout))
	}
	users, err := store.NewCollection[models.User](db, "users", map[string]string{
		"email":      "email",
		"name":       "name",
		"password":   "password",
		"role":       "role",
		"created_at": "created_at",
	}, opts...)
	if err != nil {
		return nil, err
	}
	return &UserService{users: users, log: logger.WithModule("users")}, nil
}

// List returns every account ordered by email.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.users.Find(ensureContext(ctx), store.Query{}.OrderBy("email", false))
	if err != nil {
		return nil, translateStoreError("User", "list", err)
	}
	return users, nil
}

// Get returns an account by id.
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.Get(ensureContext(ctx), strings.TrimSpace(id))
	if err != nil {
		return nil, translateStoreError("User", "get", err)
	}
	return user, nil
}

// Create registers an account. Emails are stored lowercased; the role defaults to editor.
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*models.User, error) {
	email, err := normaliseEmail(input.Email)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewBadRequest("name is required")
	}
	role := input.Role
	if role == "" {
		role = models.RoleEditor
	}
	if !role.Valid() {
		return nil, apperrors.NewBadRequest("role must be admin or editor")
	}
	hash, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{Email: email, Name: name, Password: hash, Role: role}
	if err := s.users.Insert(ensureContext(ctx), user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, translateStoreError("User", "create", err)
	}

	s.log.Info("user created", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return user, nil
}

// Update applies the non-nil fields of input.
func (s *UserService) Update(ctx context.Context, id string, input UpdateUserInput) (*models.User, error) {
	changes := map[string]any{}
	if err := setRequired(changes, "name", input.Name); err != nil {
		return nil, err
	}
	if input.Role != nil {
		if !input.Role.Valid() {
			return nil, apperrors.NewBadRequest("role must be admin or editor")
		}
		changes["role"] = *input.Role
	}
	if input.Password != nil {
		hash, err := hashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		changes["password"] = hash
	}

	user, err := s.users.Update(ensureContext(ctx), strings.TrimSpace(id), changes)
	if err != nil {
		return nil, translateStoreError("User", "update", err)
	}
	return user, nil
}

// Delete removes an account. Users cannot delete themselves.
func (s *UserService) Delete(ctx context.Context, actorID, id string) error {
	id = strings.TrimSpace(id)
	if id != "" && id == actorID {
		return apperrors.NewBadRequest("you cannot delete your own account")
	}
	if err := s.users.Delete(ensureContext(ctx), id); err != nil {
		return translateStoreError("User", "delete", err)
	}
	s.log.Info("user deleted", zap.String("user_id", id), zap.String("deleted_by", actorID))
	return nil
}

func normaliseEmail(value string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(value))
	if _, err := mail.ParseAddress(email); err != nil || !strings.Contains(email, "@") {
		return "", apperrors.NewBadRequest("a valid email is required")
	}
	return email, nil
}

func hashPassword(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", apperrors.NewBadRequest("password must be at least 8 characters")
	}
	hash, err := crypto.HashPassword(password)
	if err != nil {
		return "", apperrors.ErrInternalServer.WithInternal(err)
	}
	return hash, nil
}
