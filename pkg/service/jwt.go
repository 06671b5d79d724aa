package service

import (
	"errors"
	"strconv"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"protocol-system/internal/dto"
	apperrors "protocol-system/pkg/errors"
)

type JwtCustomClaim struct {
	UserID   uint64 `json:"userId"`
	Username string `json:"username"`
	Sector   string `json:"sector"`
	Role     string `json:"role"`
	Level    string `json:"level"`
	jwt.RegisteredClaims
}

type JWTService interface {
	GenerateAccessToken(claims dto.UserClaims) (string, error)
	ValidateToken(tokenString string) (*JwtCustomClaim, error)
	GetAccessTokenTTL() time.Duration
}

type jwtService struct {
	SecretKey      string
	AccessTokenExp time.Duration
	now            func() time.Time
}

func NewJWTService(secretKey string, accessTokenExp time.Duration) JWTService {
	return &jwtService{
		SecretKey:      secretKey,
		AccessTokenExp: accessTokenExp,
		now:            time.Now,
	}
}

func (service *jwtService) GenerateAccessToken(user dto.UserClaims) (string, error) {
	issuedAt := service.now()
	claims := &JwtCustomClaim{
		UserID:   user.UserID,
		Username: user.Username,
		Sector:   user.Sector,
		Role:     user.Role,
		Level:    user.Level,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(user.UserID, 10),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(service.AccessTokenExp)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	return token.SignedString([]byte(service.SecretKey))
}

func (service *jwtService) GetAccessTokenTTL() time.Duration {
	return service.AccessTokenExp
}

func (service *jwtService) ValidateToken(tokenString string) (*JwtCustomClaim, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JwtCustomClaim{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperrors.ErrInvalidSigningMethod
		}
		return []byte(service.SecretKey), nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, apperrors.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenNotValidYet), errors.Is(err, jwt.ErrTokenUsedBeforeIssued):
			return nil, apperrors.ErrTokenNotYetValid
		case errors.Is(err, apperrors.ErrInvalidSigningMethod):
			return nil, apperrors.ErrInvalidSigningMethod
		}
		return nil, apperrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(*JwtCustomClaim)
	if !ok || !token.Valid || claims.UserID == 0 {
		return nil, apperrors.ErrInvalidToken
	}
	return claims, nil
}
