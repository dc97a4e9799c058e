package middleware

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ciclored/ciclored-api/internal/model"
)

func TestRequestValidatorReportsJSONNames(t *testing.T) {
	t.Parallel()

	type body struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=6"`
		Value    *bool  `json:"value" validate:"required"`
	}
	v := NewRequestValidator()

	err := v.Validate(&body{Email: "not-an-email", Password: "123"})
	var verr *model.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"email", "password", "value"}, verr.Fields)

	f := false
	require.NoError(t, v.Validate(&body{Email: "a@b.co", Password: "secret123", Value: &f}))
}
