package api

import (
	"github.com/labstack/echo/v4"

	apperrors "protocol-system/pkg/errors"
)

type Response[T any] struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Body    T      `json:"body,omitempty"`
}

type ListBody[T any] struct {
	List       []T    `json:"list"`
	TotalCount uint64 `json:"total_count"`
}

func SuccessOne[T any](c echo.Context, code int, message string, data T) error {
	return c.JSON(code, Response[T]{
		Status:  true,
		Message: message,
		Body:    data,
	})
}

func SuccessList[T any](c echo.Context, message string, list []T) error {
	if list == nil {
		list = make([]T, 0)
	}
	return c.JSON(200, Response[ListBody[T]]{
		Status:  true,
		Message: message,
		Body:    ListBody[T]{List: list, TotalCount: uint64(len(list))},
	})
}

// ErrorResponse writes only the user-facing part of an HttpError.
func ErrorResponse(c echo.Context, err *apperrors.HttpError) error {
	return c.JSON(err.Code, Response[any]{
		Status:  false,
		Message: err.Message,
	})
}
