package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"protocol-system/internal/authz"
	"protocol-system/internal/entities"
	apperrors "protocol-system/pkg/errors"
	"protocol-system/pkg/service"
	"protocol-system/pkg/utils"
)

// IdentityResolver loads the current principal behind a validated token.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, userID uint64) (entities.Identity, authz.Capabilities, error)
}

type AuthMiddleware struct {
	jwtService service.JWTService
	resolver   IdentityResolver
	logger     *zap.Logger
}

func NewAuthMiddleware(jwtSvc service.JWTService, resolver IdentityResolver, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtSvc,
		resolver:   resolver,
		logger:     logger,
	}
}

// Auth reads a bearer token, validates it and stores the resolved identity
// and capabilities in the request context.
func (m *AuthMiddleware) Auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		tokenString, err := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
		if err != nil {
			return utils.ErrorResponse(c, err, m.logger)
		}
		return m.authenticate(c, next, tokenString)
	}
}

// AuthQuery is Auth for websocket upgrades, where browsers cannot set
// headers: the token travels in ?token=.
func (m *AuthMiddleware) AuthQuery(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		tokenString := c.QueryParam("token")
		if tokenString == "" {
			return utils.ErrorResponse(c, apperrors.ErrEmptyAuthHeader, m.logger)
		}
		return m.authenticate(c, next, tokenString)
	}
}

func (m *AuthMiddleware) authenticate(c echo.Context, next echo.HandlerFunc, tokenString string) error {
	claims, err := m.jwtService.ValidateToken(tokenString)
	if err != nil {
		m.logger.Debug("token rejected", zap.Error(err))
		return utils.ErrorResponse(c, err, m.logger)
	}

	ctx := c.Request().Context()
	identity, caps, err := m.resolver.ResolveIdentity(ctx, claims.UserID)
	if err != nil {
		return utils.ErrorResponse(c, err, m.logger)
	}

	c.SetRequest(c.Request().WithContext(utils.WithIdentity(ctx, identity, caps)))
	return next(c)
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", apperrors.ErrEmptyAuthHeader
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", apperrors.ErrInvalidAuthHeader
	}
	return parts[1], nil
}

// RequireCapability refuses the request unless the authenticated principal
// holds capability. It must run after Auth.
func RequireCapability(capability authz.Capability, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			caps := utils.GetCapabilitiesFromCtx(c.Request().Context())
			if err := authz.Require(caps, capability); err != nil {
				return utils.ErrorResponse(c, err, logger)
			}
			return next(c)
		}
	}
}
