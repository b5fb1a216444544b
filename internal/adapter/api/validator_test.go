package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatorChecksTags(t *testing.T) {
	v := NewValidator()

	type payload struct {
		RecipientID string `validate:"required"`
		Content     string `validate:"max=5"`
	}

	assert.NoError(t, v.Validate(payload{RecipientID: "u1", Content: "ok"}))
	assert.Error(t, v.Validate(payload{Content: "ok"}))
	assert.Error(t, v.Validate(payload{RecipientID: "u1", Content: "too long"}))
}
