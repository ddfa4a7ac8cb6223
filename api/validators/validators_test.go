package validators

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/angelmondragon/scanpos/pkg/errors"
)

type sampleBody struct {
	Payload string `json:"payload" validate:"required,max=8"`
	Symbol  string `json:"symbol" validate:"omitempty,alphanum"`
}

func TestDecodeJSONBody(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"payload":"123","symbol":"EAN13"}`))
	var body sampleBody
	require.NoError(t, DecodeJSONBody(r, &body))
	assert.Equal(t, "123", body.Payload)
}

func TestDecodeJSONBodyValidationDetails(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"payload":"","symbol":"EAN-13"}`))
	var body sampleBody
	err := DecodeJSONBody(r, &body)
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	details := typed.Details().(map[string]string)
	assert.Equal(t, "is required", details["payload"])
	assert.Equal(t, "must be alphanumeric", details["symbol"])
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"payload":"1","extra":true}`))
	var body sampleBody
	err := DecodeJSONBody(r, &body)
	require.Error(t, err)
	assert.Equal(t, "invalid request body", pkgerrors.As(err).Message())
}

func TestParseCode(t *testing.T) {
	code, err := ParseCode("  1234567890128 \n")
	require.NoError(t, err)
	assert.Equal(t, "1234567890128", code)

	code, err = ParseCode(strings.Repeat("9", MaxCodeLength))
	require.NoError(t, err)
	assert.Len(t, code, MaxCodeLength)

	_, err = ParseCode(strings.Repeat("9", MaxCodeLength+1))
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = ParseCode("   ")
	require.Error(t, err)
	assert.Equal(t, "code is required", pkgerrors.As(err).Message())
}
