package controllers

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"protocol-system/internal/entities"
	apperrors "protocol-system/pkg/errors"
	"protocol-system/pkg/utils"
)

func bindAndValidate(c echo.Context, payload interface{}) error {
	if err := c.Bind(payload); err != nil {
		return apperrors.Validation("malformed request body")
	}
	return c.Validate(payload)
}

func pathID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.Validation("invalid id %q", c.Param("id"))
	}
	return id, nil
}

func identityOf(c echo.Context) (entities.Identity, error) {
	identity, err := utils.GetIdentityFromCtx(c.Request().Context())
	if err != nil {
		return entities.Identity{}, apperrors.ErrUnauthorized
	}
	return identity, nil
}

// sinceParam reads an optional RFC 3339 lower bound from ?since=.
func sinceParam(c echo.Context) (*time.Time, error) {
	raw := c.QueryParam("since")
	if raw == "" {
		return nil, nil
	}
	since, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, apperrors.Validation("since must be an RFC 3339 timestamp")
	}
	return &since, nil
}
