package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"protocol-system/internal/dto"
	"protocol-system/internal/services"
	"protocol-system/pkg/utils"
)

type AuthController struct {
	authService services.AuthServiceInterface
	logger      *zap.Logger
}

func NewAuthController(authService services.AuthServiceInterface, logger *zap.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		logger:      logger,
	}
}

func (ctrl *AuthController) errorResponse(c echo.Context, err error) error {
	return utils.ErrorResponse(c, err, ctrl.logger)
}

func (ctrl *AuthController) Login(c echo.Context) error {
	var payload dto.LoginDTO
	if err := bindAndValidate(c, &payload); err != nil {
		return ctrl.errorResponse(c, err)
	}

	resp, err := ctrl.authService.Login(c.Request().Context(), payload)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}
	return utils.SuccessResponse(c, resp, "Logged in", http.StatusOK)
}

func (ctrl *AuthController) Me(c echo.Context) error {
	identity, err := identityOf(c)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}

	me, err := ctrl.authService.Me(c.Request().Context(), identity)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}
	return utils.SuccessResponse(c, me, "Current user", http.StatusOK)
}

// DeactivateUser is an admin action: the user's tokens stop working once
// the cached identity is dropped.
func (ctrl *AuthController) DeactivateUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}

	if err := ctrl.authService.DeactivateUser(c.Request().Context(), id); err != nil {
		return ctrl.errorResponse(c, err)
	}
	return utils.SuccessResponse(c, nil, "User deactivated", http.StatusOK)
}
