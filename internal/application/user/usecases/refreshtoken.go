package usecases

import (
	"context"

	"kuppi/internal/infrastructure/auth"
	apperrors "kuppi/internal/shared/errors"
	"kuppi/internal/shared/logger"
)

// RefreshTokenResult carries the rotated token pair.
type RefreshTokenResult struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type RefreshTokenUseCase struct {
	jwtService *auth.JWTService
	logger     logger.Interface
}

func NewRefreshTokenUseCase(jwtService *auth.JWTService, logger logger.Interface) *RefreshTokenUseCase {
	return &RefreshTokenUseCase{
		jwtService: jwtService,
		logger:     logger,
	}
}

func (uc *RefreshTokenUseCase) Execute(ctx context.Context, refreshToken string) (*RefreshTokenResult, error) {
	tokens, err := uc.jwtService.Refresh(refreshToken)
	if err != nil {
		return nil, apperrors.NewUnauthorizedError("invalid refresh token")
	}

	return &RefreshTokenResult{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresIn:    tokens.ExpiresIn,
	}, nil
}
