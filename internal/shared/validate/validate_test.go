package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"travel-service/internal/shared/apperr"
)

type sample struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"min=6"`
	Kind     string `json:"accountType" validate:"oneof=creator explorer"`
}

func TestStructOK(t *testing.T) {
	assert.NoError(t, Struct(sample{Email: "a@b.io", Password: "secret1", Kind: "creator"}))
}

func TestStructUsesJSONNames(t *testing.T) {
	err := Struct(sample{Email: "nope", Password: "123", Kind: "admin"})

	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Contains(t, err.Error(), "email must be a valid email address")
	assert.Contains(t, err.Error(), "password must be at least 6 characters")
	assert.Contains(t, err.Error(), "accountType must be one of: creator explorer")
}
