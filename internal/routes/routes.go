package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"protocol-system/internal/controllers"
	"protocol-system/internal/listeners"
	"protocol-system/internal/repositories"
	"protocol-system/internal/services"
	"protocol-system/pkg/config"
	"protocol-system/pkg/eventbus"
	"protocol-system/pkg/middleware"
	"protocol-system/pkg/service"
	"protocol-system/pkg/websocket"
)

type Loggers struct {
	Main     *zap.Logger
	Auth     *zap.Logger
	Document *zap.Logger
	Notify   *zap.Logger
}

// Dependencies is everything InitRouter wires together. Stores decides the
// storage driver; the router does not care which one it is.
type Dependencies struct {
	Stores  repositories.Stores
	Cache   repositories.CacheRepositoryInterface
	JWT     service.JWTService
	Bus     *eventbus.Bus
	Hub     *websocket.Hub
	Config  *config.Config
	Loggers *Loggers
}

func InitRouter(e *echo.Echo, deps Dependencies) {
	loggers := deps.Loggers
	stores := deps.Stores

	// --- services ---
	authService := services.NewAuthService(stores.Users, deps.Cache, deps.JWT, deps.Config.Identity.CacheTTL, loggers.Auth)
	documentService := services.NewDocumentService(
		stores.TxManager, stores.Documents, stores.History, stores.Movements,
		stores.Requests, stores.Sectors, deps.Bus, loggers.Document,
	)
	exportService := services.NewExportService(documentService, loggers.Document)
	notificationService := services.NewNotificationService(stores.Users, deps.Hub, loggers.Notify)

	listeners.NewNotificationListener(notificationService, loggers.Notify).Register(deps.Bus)

	// --- controllers ---
	authCtrl := controllers.NewAuthController(authService, loggers.Auth)
	documentCtrl := controllers.NewDocumentController(documentService, exportService, loggers.Document)
	wsCtrl := controllers.NewWebSocketController(deps.Hub, deps.Config.Server.CORSOrigins, loggers.Notify)
	healthCtrl := controllers.NewHealthController(stores.Ping, loggers.Main)

	// --- routes ---
	authMW := middleware.NewAuthMiddleware(deps.JWT, authService, loggers.Auth)

	e.GET("/health", healthCtrl.Health)
	e.GET("/ws", wsCtrl.ServeWs, authMW.AuthQuery)

	api := e.Group("/api")
	secureGroup := api.Group("", authMW.Auth)

	runAuthRouter(api, secureGroup, authCtrl, loggers.Auth)
	runUserRouter(secureGroup, authCtrl, loggers.Auth)
	runDocumentRouter(secureGroup, documentCtrl, loggers.Document)

	loggers.Main.Info("routes registered")
}
