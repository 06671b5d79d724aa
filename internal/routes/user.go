package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"protocol-system/internal/authz"
	"protocol-system/internal/controllers"
	"protocol-system/pkg/middleware"
)

func runUserRouter(secureGroup *echo.Group, authCtrl *controllers.AuthController, logger *zap.Logger) {
	users := secureGroup.Group("/users")
	users.DELETE("/:id", authCtrl.DeactivateUser, middleware.RequireCapability(authz.AdminWrite, logger))
}
