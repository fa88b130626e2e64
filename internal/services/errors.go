package services

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/charlesng35/sitecms/internal/store"
	apperrors "github.com/charlesng35/sitecms/pkg/errors"
)

var (
	// ErrSlugTaken indicates another record of the same collection already uses the slug.
	ErrSlugTaken = apperrors.ErrConflict.WithCode("SLUG_TAKEN").WithMessage("Slug already in use")
	// ErrInvalidSlug indicates the slug could not be normalised into a usable value.
	ErrInvalidSlug = apperrors.New("INVALID_SLUG", "Slug must contain letters or digits", http.StatusBadRequest)
	// ErrEmailTaken indicates a user already exists with the email.
	ErrEmailTaken = apperrors.ErrConflict.WithCode("EMAIL_TAKEN").WithMessage("Email already in use")
)

// notFound returns a 404 error naming the missing kind of record.
func notFound(kind string) *apperrors.AppError {
	return apperrors.ErrNotFound.WithMessage(kind + " not found")
}

// translateStoreError maps content store sentinels onto API errors. Unexpected failures keep
// their cause for logging and render as a generic 500.
func translateStoreError(kind, op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return notFound(kind)
	case errors.Is(err, store.ErrDuplicate):
		return ErrSlugTaken
	case errors.Is(err, store.ErrUnknownField):
		return apperrors.NewBadRequest(err.Error())
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperrors.ErrInternalServer.WithInternal(fmt.Errorf("%s %s: %w", op, kind, err))
}
