package usecases

import (
	"context"
	"fmt"

	"kuppi/internal/domain/user"
	"kuppi/internal/infrastructure/auth"
	"kuppi/internal/shared/authorization"
	apperrors "kuppi/internal/shared/errors"
	"kuppi/internal/shared/logger"
)

// LoginCommand contains the credentials to verify
type LoginCommand struct {
	Email    string
	Password string
}

// LoginResult carries the authenticated user and their token pair.
type LoginResult struct {
	User         UserDTO `json:"user"`
	AccessToken  string  `json:"access_token"`
	RefreshToken string  `json:"refresh_token"`
}

type LoginUseCase struct {
	userRepo   user.UserRepository
	hasher     *auth.BcryptPasswordHasher
	jwtService *auth.JWTService
	logger     logger.Interface
}

func NewLoginUseCase(
	userRepo user.UserRepository,
	hasher *auth.BcryptPasswordHasher,
	jwtService *auth.JWTService,
	logger logger.Interface,
) *LoginUseCase {
	return &LoginUseCase{
		userRepo:   userRepo,
		hasher:     hasher,
		jwtService: jwtService,
		logger:     logger,
	}
}

func (uc *LoginUseCase) Execute(ctx context.Context, cmd LoginCommand) (*LoginResult, error) {
	account, err := uc.userRepo.GetByEmail(ctx, cmd.Email)
	if err != nil {
		// Same error for unknown email and wrong password.
		return nil, apperrors.NewUnauthorizedError("invalid credentials")
	}

	if err := uc.hasher.Verify(cmd.Password, account.PasswordHash()); err != nil {
		return nil, apperrors.NewUnauthorizedError("invalid credentials")
	}

	role := authorization.RoleStudent
	if account.IsAdmin() {
		role = authorization.RoleAdmin
	}

	tokens, err := uc.jwtService.Generate(account.SID(), role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	account.RecordLogin()
	if err := uc.userRepo.Update(ctx, account); err != nil {
		uc.logger.Warnw("failed to record login time",
			"user_sid", account.SID(), "error", err)
	}

	uc.logger.Infow("user logged in", "user_sid", account.SID())

	return &LoginResult{
		User:         toUserDTO(account),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}
