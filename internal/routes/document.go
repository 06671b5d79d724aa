package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"protocol-system/internal/authz"
	"protocol-system/internal/controllers"
	"protocol-system/pkg/middleware"
)

func runDocumentRouter(secureGroup *echo.Group, ctrl *controllers.DocumentController, logger *zap.Logger) {
	read := middleware.RequireCapability(authz.UserRead, logger)
	write := middleware.RequireCapability(authz.UserWrite, logger)
	admin := middleware.RequireCapability(authz.AdminWrite, logger)

	documents := secureGroup.Group("/documents")
	{
		documents.GET("/dashboard", ctrl.Dashboard, read)
		documents.GET("/export", ctrl.ExportDocuments, read)
		documents.POST("/send", ctrl.SendDocuments, write)
		documents.POST("/accept", ctrl.AcceptDocuments, write)

		documents.GET("", ctrl.ListDocuments, read)
		documents.POST("", ctrl.CreateDocument, write)
		documents.GET("/:id", ctrl.GetDocument, read)
		documents.PUT("/:id", ctrl.EditDocument, write)
		documents.DELETE("/:id", ctrl.DeleteDocument, admin)
		documents.POST("/:id/accept", ctrl.AcceptDocument, write)
		documents.POST("/:id/reject", ctrl.RejectDocument, write)
		documents.POST("/:id/cancel", ctrl.CancelDocument, write)
		documents.POST("/:id/request", ctrl.RequestDocument, write)
	}
}
