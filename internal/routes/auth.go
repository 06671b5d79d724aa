package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"protocol-system/internal/authz"
	"protocol-system/internal/controllers"
	"protocol-system/pkg/middleware"
)

func runAuthRouter(api *echo.Group, secureGroup *echo.Group, authCtrl *controllers.AuthController, logger *zap.Logger) {
	api.POST("/auth/login", authCtrl.Login)
	secureGroup.GET("/auth/me", authCtrl.Me, middleware.RequireCapability(authz.UserRead, logger))
}
