package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	FatherName string  `json:"fatherName" validate:"required"`
	Age        *int    `json:"age" validate:"omitempty,gt=0"`
	Status     *string `json:"status" validate:"omitempty,oneof=Pending Complete"`
}

func TestStruct_ReportsJSONFieldNames(t *testing.T) {
	err := Struct(&sample{})
	require.Error(t, err)
	assert.Equal(t, "field 'fatherName' failed 'required'", err.Error())
}

func TestStruct_NilPointersAreSkipped(t *testing.T) {
	assert.NoError(t, Struct(&sample{FatherName: "Ahmed"}))
}

func TestStruct_PointerValuesAreChecked(t *testing.T) {
	zero := 0
	bad := "Cancelled"
	err := Struct(&sample{FatherName: "Ahmed", Age: &zero, Status: &bad})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "field 'age' failed 'gt'")
	assert.Contains(t, err.Error(), "field 'status' failed 'oneof'")
}

type credentials struct {
	Email string  `json:"email" validate:"notblank"`
	Name  *string `json:"name" validate:"omitempty,notblank"`
}

func TestStruct_NotBlankRejectsWhitespace(t *testing.T) {
	blank := "  \t"
	err := Struct(&credentials{Email: "   ", Name: &blank})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "field 'email' failed 'notblank'")
	assert.Contains(t, err.Error(), "field 'name' failed 'notblank'")

	name := " Ali "
	assert.NoError(t, Struct(&credentials{Email: "a@gmail.com", Name: &name}))
	assert.NoError(t, Struct(&credentials{Email: "a@gmail.com"}))
}
