package utils

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"protocol-system/pkg/api"
	apperrors "protocol-system/pkg/errors"
)

var kindStatus = map[apperrors.Kind]int{
	apperrors.KindNotFound:      http.StatusNotFound,
	apperrors.KindValidation:    http.StatusBadRequest,
	apperrors.KindAlreadyExists: http.StatusConflict,
	apperrors.KindUnauthorized:  http.StatusUnauthorized,
	apperrors.KindForbidden:     http.StatusForbidden,
	apperrors.KindInternal:      http.StatusInternalServerError,
}

func SuccessResponse(ctx echo.Context, body interface{}, message string, code int) error {
	return api.SuccessOne(ctx, code, message, body)
}

// ToHttpError picks the status for err from its kind. Internal failures get
// a generic message; the cause stays in Err for the logs.
func ToHttpError(err error) *apperrors.HttpError {
	var httpErr *apperrors.HttpError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	kind := apperrors.KindOf(err)
	code, ok := kindStatus[kind]
	if !ok {
		code = http.StatusInternalServerError
	}
	message := err.Error()
	if kind == apperrors.KindInternal {
		message = "internal server error"
	}
	return apperrors.NewHttpError(code, message, err, map[string]interface{}{"kind": string(kind)})
}

func ErrorResponse(ctx echo.Context, err error, logger *zap.Logger) error {
	httpErr := ToHttpError(err)

	fields := []zap.Field{
		zap.Int("status", httpErr.Code),
		zap.String("method", ctx.Request().Method),
		zap.String("uri", ctx.Request().RequestURI),
		zap.Error(err),
	}
	for key, value := range httpErr.Context {
		fields = append(fields, zap.Any(key, value))
	}
	if httpErr.Code >= http.StatusInternalServerError {
		logger.Error("request failed", fields...)
	} else {
		logger.Debug("request refused", fields...)
	}

	return api.ErrorResponse(ctx, httpErr)
}
