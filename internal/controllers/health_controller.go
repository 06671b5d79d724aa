package controllers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "protocol-system/pkg/errors"
	"protocol-system/pkg/utils"
)

type HealthController struct {
	ping   func(ctx context.Context) error
	logger *zap.Logger
}

func NewHealthController(ping func(ctx context.Context) error, logger *zap.Logger) *HealthController {
	return &HealthController{ping: ping, logger: logger}
}

func (ctrl *HealthController) Health(c echo.Context) error {
	if err := ctrl.ping(c.Request().Context()); err != nil {
		ctrl.logger.Error("storage ping failed", zap.Error(err))
		return utils.ErrorResponse(c,
			apperrors.NewHttpError(http.StatusServiceUnavailable, "storage unavailable", err, nil), ctrl.logger)
	}
	return utils.SuccessResponse(c, map[string]string{"storage": "ok"}, "healthy", http.StatusOK)
}
