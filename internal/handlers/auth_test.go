package handlers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRegisterRequest(t *testing.T) {
	valid := RegisterRequest{
		Email:      "player@example.com",
		Password:   "secret123",
		PlayerName: "summoner",
	}
	assert.NoError(t, validateRegisterRequest(&valid))

	tests := []struct {
		name   string
		mutate func(r *RegisterRequest)
		field  string
	}{
		{"missing email", func(r *RegisterRequest) { r.Email = "" }, "email"},
		{"email without at sign", func(r *RegisterRequest) { r.Email = "not-an-email" }, "email"},
		{"missing password", func(r *RegisterRequest) { r.Password = "" }, "password"},
		{"short password", func(r *RegisterRequest) { r.Password = "12345" }, "password"},
		{"missing player name", func(r *RegisterRequest) { r.PlayerName = "" }, "playerName"},
		{"short player name", func(r *RegisterRequest) { r.PlayerName = "ab" }, "playerName"},
		{"long player name", func(r *RegisterRequest) { r.PlayerName = strings.Repeat("x", 51) }, "playerName"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)

			err := validateRegisterRequest(&req)
			require.Error(t, err)

			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Field: "email", Message: "Email is required"}
	assert.Equal(t, "Email is required", err.Error())
}
