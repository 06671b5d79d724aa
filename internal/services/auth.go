package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"protocol-system/internal/authz"
	"protocol-system/internal/dto"
	"protocol-system/internal/entities"
	"protocol-system/internal/repositories"
	apperrors "protocol-system/pkg/errors"
	"protocol-system/pkg/service"
	"protocol-system/pkg/utils"
)

type AuthServiceInterface interface {
	Login(ctx context.Context, payload dto.LoginDTO) (*dto.AuthResponseDTO, error)
	ResolveIdentity(ctx context.Context, userID uint64) (entities.Identity, authz.Capabilities, error)
	Me(ctx context.Context, identity entities.Identity) (*dto.UserPublicDTO, error)
	DeactivateUser(ctx context.Context, userID uint64) error
}

// principal is the cached part of a user record. It never holds the password hash.
type principal struct {
	UserID   uint64 `json:"user_id"`
	Username string `json:"username"`
	Sector   string `json:"sector"`
	Role     string `json:"role"`
	Level    string `json:"level"`
}

func (p principal) identity() entities.Identity {
	return entities.Identity{UserID: p.UserID, Username: p.Username, Sector: p.Sector}
}

type AuthService struct {
	userRepo  repositories.UserRepositoryInterface
	cacheRepo repositories.CacheRepositoryInterface
	jwtSvc    service.JWTService
	cacheTTL  time.Duration
	logger    *zap.Logger
}

func NewAuthService(
	userRepo repositories.UserRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	jwtSvc service.JWTService,
	cacheTTL time.Duration,
	logger *zap.Logger,
) AuthServiceInterface {
	return &AuthService{
		userRepo:  userRepo,
		cacheRepo: cacheRepo,
		jwtSvc:    jwtSvc,
		cacheTTL:  cacheTTL,
		logger:    logger,
	}
}

func identityCacheKey(userID uint64) string {
	return fmt.Sprintf("identity:user:%d", userID)
}

func (s *AuthService) Login(ctx context.Context, payload dto.LoginDTO) (*dto.AuthResponseDTO, error) {
	logger := s.logger.With(zap.String("login", payload.Login))

	user, err := s.userRepo.FindUserByLogin(ctx, payload.Login)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("login attempt for unknown user")
			return nil, apperrors.ErrInvalidCredentials
		}
		logger.Error("failed to load user for login", zap.Error(err))
		return nil, apperrors.Internal(err)
	}

	if err := utils.ComparePasswords(user.Password, payload.Password); err != nil {
		logger.Warn("login attempt with wrong password", zap.Uint64("userID", user.ID))
		return nil, apperrors.ErrInvalidCredentials
	}

	caps, err := authz.Resolve(user.Role, user.Level)
	if err != nil {
		logger.Error("user carries an unknown role or level", zap.Uint64("userID", user.ID), zap.Error(err))
		return nil, apperrors.Internal(err)
	}

	token, err := s.jwtSvc.GenerateAccessToken(dto.UserClaims{
		UserID:   user.ID,
		Username: user.Username,
		Sector:   user.Sector,
		Role:     user.Role,
		Level:    user.Level,
	})
	if err != nil {
		logger.Error("failed to sign access token", zap.Error(err))
		return nil, apperrors.Internal(err)
	}

	logger.Info("user logged in", zap.Uint64("userID", user.ID), zap.String("sector", user.Sector))
	return &dto.AuthResponseDTO{
		AccessToken: token,
		User:        userToPublicDTO(user.ID, user.Username, user.Sector, user.Role, user.Level, caps),
	}, nil
}

// ResolveIdentity loads the current user record behind a validated token.
// The sector comes from the record, not from the token, so a user moved to
// another sector acts from the new one once the cache entry expires.
func (s *AuthService) ResolveIdentity(ctx context.Context, userID uint64) (entities.Identity, authz.Capabilities, error) {
	p, err := s.loadPrincipal(ctx, userID)
	if err != nil {
		return entities.Identity{}, nil, err
	}
	caps, err := authz.Resolve(p.Role, p.Level)
	if err != nil {
		s.logger.Error("user carries an unknown role or level", zap.Uint64("userID", userID), zap.Error(err))
		return entities.Identity{}, nil, apperrors.ErrForbidden
	}
	return p.identity(), caps, nil
}

func (s *AuthService) Me(ctx context.Context, identity entities.Identity) (*dto.UserPublicDTO, error) {
	p, err := s.loadPrincipal(ctx, identity.UserID)
	if err != nil {
		return nil, err
	}
	caps, err := authz.Resolve(p.Role, p.Level)
	if err != nil {
		return nil, apperrors.ErrForbidden
	}
	result := userToPublicDTO(p.UserID, p.Username, p.Sector, p.Role, p.Level, caps)
	return &result, nil
}

func (s *AuthService) DeactivateUser(ctx context.Context, userID uint64) error {
	if err := s.userRepo.DeactivateUser(ctx, userID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NotFound("user %d not found", userID)
		}
		s.logger.Error("failed to deactivate user", zap.Uint64("userID", userID), zap.Error(err))
		return apperrors.Internal(err)
	}
	if err := s.cacheRepo.Del(ctx, identityCacheKey(userID)); err != nil {
		s.logger.Warn("failed to drop cached identity", zap.Uint64("userID", userID), zap.Error(err))
	}
	s.logger.Info("user deactivated", zap.Uint64("userID", userID))
	return nil
}

func (s *AuthService) loadPrincipal(ctx context.Context, userID uint64) (principal, error) {
	key := identityCacheKey(userID)

	cached, err := s.cacheRepo.Get(ctx, key)
	switch {
	case err == nil:
		var p principal
		if jsonErr := json.Unmarshal([]byte(cached), &p); jsonErr == nil {
			return p, nil
		}
		s.logger.Warn("dropping unreadable identity cache entry", zap.String("key", key))
	case !errors.Is(err, repositories.ErrCacheMiss):
		s.logger.Warn("identity cache unavailable, reading the user store", zap.Error(err))
	}

	user, err := s.userRepo.FindUser(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return principal{}, apperrors.ErrUnauthorized
		}
		s.logger.Error("failed to load user", zap.Uint64("userID", userID), zap.Error(err))
		return principal{}, apperrors.Internal(err)
	}
	if user.IsDeleted() {
		s.logger.Warn("deactivated user presented a valid token", zap.Uint64("userID", userID))
		return principal{}, apperrors.ErrUserDeactivated
	}

	p := principal{
		UserID:   user.ID,
		Username: user.Username,
		Sector:   user.Sector,
		Role:     user.Role,
		Level:    user.Level,
	}
	if encoded, err := json.Marshal(p); err == nil {
		if err := s.cacheRepo.Set(ctx, key, string(encoded), s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache identity", zap.Uint64("userID", userID), zap.Error(err))
		}
	}
	return p, nil
}

func userToPublicDTO(id uint64, username, sector, role, level string, caps authz.Capabilities) dto.UserPublicDTO {
	return dto.UserPublicDTO{
		ID:           id,
		Username:     username,
		Sector:       sector,
		Role:         role,
		Level:        level,
		Capabilities: caps.List(),
	}
}
