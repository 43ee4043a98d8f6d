package handlers

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pitchside/injury-dashboard/internal/models"
)

func TestFormatPercent(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0%"},
		{35, "35%"},
		{35.4, "35.4%"},
		{100, "100%"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatPercent(tt.in))
	}
}

func TestValidationMessage(t *testing.T) {
	v := newValidator()

	err := v.Struct(&models.CredentialsRequest{Password: "x"})
	assert.Equal(t, "username is required", validationMessage(err))

	err = v.Struct(&models.CredentialsRequest{Username: "coach", Password: "x"})
	assert.NoError(t, err)

	assert.Equal(t, "Invalid request", validationMessage(errors.New("boom")))
}

func TestOneOfCaseInsensitive(t *testing.T) {
	v := newValidator()
	type form struct {
		Format string `json:"matchFormat" validate:"oneofci=Test ODI T20"`
	}

	assert.NoError(t, v.Struct(&form{Format: "t20"}))
	assert.NoError(t, v.Struct(&form{Format: " odi "}))
	assert.Error(t, v.Struct(&form{Format: "T10"}))
}

func TestUpstreamStatus(t *testing.T) {
	assert.Equal(t, 401, upstreamStatus(serviceError(401, "Invalid credentials")))
	assert.Equal(t, 502, upstreamStatus(serviceError(500, "boom")))
	assert.Equal(t, 502, upstreamStatus(errors.New("dial tcp: refused")))
}
