package validation

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"protocol-system/internal/entities"
)

func registerRules(v *validator.Validate) error {
	if err := v.RegisterValidation("document_type", isDocumentType); err != nil {
		return err
	}
	if err := v.RegisterValidation("not_blank", isNotBlank); err != nil {
		return err
	}
	return nil
}

// isDocumentType accepts only members of the closed document type set,
// compared the way the document service normalizes them.
func isDocumentType(fl validator.FieldLevel) bool {
	return entities.DocumentType(strings.ToUpper(strings.TrimSpace(fl.Field().String()))).IsValid()
}

func isNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
