package validator

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testStruct struct {
	Name     string `json:"name" validate:"notblank"`
	Email    string `json:"email" validate:"required,email"`
	Quantity int    `json:"quantity" validate:"gte=1,lte=99"`
	Internal string `validate:"omitempty,max=3"`
}

func TestValidate_Success(t *testing.T) {
	s := testStruct{Name: "Asha", Email: "asha@example.com", Quantity: 2}
	assert.NoError(t, Validate(s))
}

func TestValidate_BlankIsRequired(t *testing.T) {
	s := testStruct{Name: "   ", Email: "asha@example.com", Quantity: 2}
	err := Validate(s)
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "is required", valErr.Fields()["name"])
}

func TestValidate_InvalidEmail(t *testing.T) {
	s := testStruct{Name: "Asha", Email: "not-an-email", Quantity: 2}
	err := Validate(s)
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "must be a valid email address", valErr.Fields()["email"])
}

func TestValidate_OutOfRange(t *testing.T) {
	s := testStruct{Name: "Asha", Email: "asha@example.com", Quantity: 100}
	err := Validate(s)
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Fields()["quantity"], "99")
}

func TestValidate_FieldWithoutJSONTagUsesGoName(t *testing.T) {
	s := testStruct{Name: "Asha", Email: "asha@example.com", Quantity: 1, Internal: "toolong"}
	err := Validate(s)
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Fields(), "Internal")
}

func TestValidationError_ErrorString(t *testing.T) {
	err := Validate(testStruct{Quantity: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "field 'name'")
	assert.Contains(t, err.Error(), "field 'email'")
}

func TestDecodeAndValidate(t *testing.T) {
	body := `{"name":"Asha","email":"asha@example.com","quantity":3}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))

	var dst testStruct
	require.NoError(t, DecodeAndValidate(req, &dst))
	assert.Equal(t, 3, dst.Quantity)
}

func TestDecodeAndValidate_UnknownField(t *testing.T) {
	body := `{"name":"Asha","email":"asha@example.com","quantity":3,"extra":true}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))

	var dst testStruct
	err := DecodeAndValidate(req, &dst)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode request body")
}

func TestDecodeAndValidate_MalformedJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{nope`))

	var dst testStruct
	err := DecodeAndValidate(req, &dst)
	require.Error(t, err)
}
