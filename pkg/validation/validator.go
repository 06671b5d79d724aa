package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "protocol-system/pkg/errors"
)

// CustomValidator adapts validator.Validate to echo.Validator.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate returns a VALIDATION AppError naming every failed field by its
// json name.
func (cv *CustomValidator) Validate(i interface{}) error {
	return explain(cv.validator.Struct(i))
}

// New panics when a rule fails to register: the server must not start
// with a validator that silently accepts everything.
func New() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(jsonFieldName)

	registerNullTypes(v)

	if err := registerRules(v); err != nil {
		panic("failed to register validation rules: " + err.Error())
	}

	return &CustomValidator{validator: v}
}

func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return field.Name
	}
	return name
}

func explain(err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.Validation("%s", err.Error())
	}
	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s: %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s: %s", fe.Field(), fe.Tag()))
		}
	}
	return apperrors.Validation("invalid input: %s", strings.Join(parts, "; "))
}
