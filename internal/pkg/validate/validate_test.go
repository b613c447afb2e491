package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code,omitempty" validate:"required"`
}

func TestStruct_Valid(t *testing.T) {
	assert.NoError(t, Struct(sample{Email: "a@b.com", Code: "1"}))
}

func TestStruct_ReportsJSONFieldNames(t *testing.T) {
	err := Struct(sample{})
	require.Error(t, err)
	assert.True(t, Failed(err, "email", "required"))
	assert.True(t, Failed(err, "code", "required"))
}

func TestStruct_InvalidEmail(t *testing.T) {
	err := Struct(sample{Email: "not-an-email", Code: "1"})
	assert.True(t, Failed(err, "email", "email"))
	assert.False(t, Failed(err, "code", "required"))
}
