package validator

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
)

type testPayload struct {
	Title string `json:"title" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Order int    `json:"order" validate:"gte=0"`
}

func TestValidateStructSuccess(t *testing.T) {
	payload := testPayload{Title: "About", Email: "editor@example.com", Order: 2}
	require.NoError(t, ValidateStruct(payload))
}

func TestValidateStructFailures(t *testing.T) {
	err := ValidateStruct(testPayload{Email: "invalid", Order: -1})
	require.Error(t, err)

	vErrs, ok := err.(ValidationErrors)
	require.True(t, ok, "expected ValidationErrors, got %T", err)
	require.Len(t, vErrs, 3)

	fields := make([]string, 0, len(vErrs))
	for _, v := range vErrs {
		fields = append(fields, v.Field)
	}
	require.Contains(t, fields, "email")
	require.Contains(t, fields, "title")
}

func TestSlugRule(t *testing.T) {
	type page struct {
		Slug string `json:"slug" validate:"omitempty,slug"`
	}

	require.NoError(t, ValidateStruct(page{Slug: "about-us"}))
	require.NoError(t, ValidateStruct(page{}))
	require.Error(t, ValidateStruct(page{Slug: "About Us"}))
	require.Error(t, ValidateStruct(page{Slug: "trailing-"}))
	require.False(t, IsSlug("--"))
}

func TestRegisterValidation(t *testing.T) {
	err := RegisterValidation("sitecms", func(fl validator.FieldLevel) bool {
		return fl.Field().String() == "sitecms"
	})
	require.NoError(t, err)

	type custom struct {
		Value string `validate:"sitecms"`
	}

	require.NoError(t, ValidateStruct(custom{Value: "sitecms"}))
	require.Error(t, ValidateStruct(custom{Value: "other"}))
}
