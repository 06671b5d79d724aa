package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"protocol-system/internal/authz"
	"protocol-system/internal/dto"
	"protocol-system/internal/entities"
	apperrors "protocol-system/pkg/errors"
	"protocol-system/pkg/service"
	"protocol-system/pkg/utils"
)

type stubResolver struct {
	identity entities.Identity
	level    string
	err      error
}

func (r stubResolver) ResolveIdentity(_ context.Context, userID uint64) (entities.Identity, authz.Capabilities, error) {
	if r.err != nil {
		return entities.Identity{}, nil, r.err
	}
	caps, err := authz.Resolve("USER", r.level)
	identity := r.identity
	identity.UserID = userID
	return identity, caps, err
}

func newProtectedServer(t *testing.T, resolver IdentityResolver) (*echo.Echo, service.JWTService) {
	t.Helper()
	jwtSvc := service.NewJWTService("middleware-secret", time.Hour)
	auth := NewAuthMiddleware(jwtSvc, resolver, zap.NewNop())

	e := echo.New()
	e.Use(RequestLogger(zap.NewNop()))
	handler := func(c echo.Context) error {
		identity, err := utils.GetIdentityFromCtx(c.Request().Context())
		if err != nil {
			return utils.ErrorResponse(c, err, zap.NewNop())
		}
		return c.String(http.StatusOK, identity.Sector)
	}
	e.GET("/read", handler, auth.Auth, RequireCapability(authz.UserRead, zap.NewNop()))
	e.GET("/write", handler, auth.Auth, RequireCapability(authz.UserWrite, zap.NewNop()))
	e.GET("/ws", handler, auth.AuthQuery)
	return e, jwtSvc
}

func token(t *testing.T, jwtSvc service.JWTService) string {
	t.Helper()
	signed, err := jwtSvc.GenerateAccessToken(dto.UserClaims{UserID: 4, Username: "dave", Sector: "Finance", Role: "USER", Level: "READ"})
	require.NoError(t, err)
	return signed
}

func serve(e *echo.Echo, target, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if authorization != "" {
		req.Header.Set(echo.HeaderAuthorization, authorization)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAuth_ResolvesIdentityFromStore(t *testing.T) {
	e, jwtSvc := newProtectedServer(t, stubResolver{identity: entities.Identity{Username: "dave", Sector: "Legal"}, level: "READ"})

	rec := serve(e, "/read", "Bearer "+token(t, jwtSvc))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Legal", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestAuth_RefusesMissingOrBrokenTokens(t *testing.T) {
	e, _ := newProtectedServer(t, stubResolver{level: "WRITE"})

	assert.Equal(t, http.StatusUnauthorized, serve(e, "/read", "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(e, "/read", "Token abc").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(e, "/read", "Bearer not-a-jwt").Code)
}

func TestAuth_RefusesDeactivatedUser(t *testing.T) {
	e, jwtSvc := newProtectedServer(t, stubResolver{err: apperrors.ErrUserDeactivated})

	rec := serve(e, "/read", "Bearer "+token(t, jwtSvc))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "user is deactivated")
}

func TestRequireCapability_ForbidsMissingCapability(t *testing.T) {
	e, jwtSvc := newProtectedServer(t, stubResolver{identity: entities.Identity{Sector: "Finance"}, level: "READ"})

	assert.Equal(t, http.StatusForbidden, serve(e, "/write", "Bearer "+token(t, jwtSvc)).Code)
}

func TestAuthQuery_ReadsTokenFromQuery(t *testing.T) {
	e, jwtSvc := newProtectedServer(t, stubResolver{identity: entities.Identity{Sector: "Archive"}, level: "READ"})

	rec := serve(e, "/ws?token="+token(t, jwtSvc), "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Archive", rec.Body.String())

	assert.Equal(t, http.StatusUnauthorized, serve(e, "/ws", "").Code)
}
