package validation

import (
	"testing"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"

	apperrors "protocol-system/pkg/errors"
)

type documentPayload struct {
	Number       string      `validate:"required,not_blank,max=64"`
	Type         string      `validate:"required,document_type"`
	Observations null.String `validate:"omitempty,max=10"`
}

func TestValidate_DocumentType(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(documentPayload{Number: "2024-001", Type: "INVOICE"}))
	assert.NoError(t, v.Validate(documentPayload{Number: "2024-001", Type: " invoice "}))
	assert.Error(t, v.Validate(documentPayload{Number: "2024-001", Type: "SPACESHIP"}))
}

func TestValidate_NotBlank(t *testing.T) {
	v := New()

	assert.Error(t, v.Validate(documentPayload{Number: "   ", Type: "MEMO"}))
}

func TestValidate_NullStringLooksInside(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(documentPayload{Number: "1", Type: "MEMO"}))
	assert.NoError(t, v.Validate(documentPayload{Number: "1", Type: "MEMO", Observations: null.StringFrom("short")}))
	assert.Error(t, v.Validate(documentPayload{Number: "1", Type: "MEMO", Observations: null.StringFrom("far too long to pass")}))
}

func TestValidate_ReturnsTypedErrorWithJSONNames(t *testing.T) {
	type payload struct {
		Number string `json:"number" validate:"required"`
		Reason string `json:"reason" validate:"max=3"`
	}

	err := New().Validate(payload{Reason: "too long"})

	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	assert.Equal(t, "invalid input: number: required; reason: max=3", err.Error())
}
