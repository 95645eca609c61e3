package usecases

import (
	"context"
	"fmt"

	"kuppi/internal/domain/user"
	"kuppi/internal/infrastructure/auth"
	apperrors "kuppi/internal/shared/errors"
	"kuppi/internal/shared/biztime"
	"kuppi/internal/shared/logger"
)

// RegisterCommand contains the data needed to create an account
type RegisterCommand struct {
	Email    string
	Name     string
	Password string
}

// UserDTO is the API representation of a user.
type UserDTO struct {
	SID         string  `json:"sid"`
	Email       string  `json:"email"`
	Name        string  `json:"name"`
	IsAdmin     bool    `json:"is_admin"`
	LastLoginAt *string `json:"last_login_at,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

// RegisterUseCase creates a new account. The single configured bootstrap
// admin email is the only account that receives the admin capability.
type RegisterUseCase struct {
	userRepo            user.UserRepository
	hasher              *auth.BcryptPasswordHasher
	bootstrapAdminEmail string
	logger              logger.Interface
}

func NewRegisterUseCase(
	userRepo user.UserRepository,
	hasher *auth.BcryptPasswordHasher,
	bootstrapAdminEmail string,
	logger logger.Interface,
) *RegisterUseCase {
	return &RegisterUseCase{
		userRepo:            userRepo,
		hasher:              hasher,
		bootstrapAdminEmail: bootstrapAdminEmail,
		logger:              logger,
	}
}

func (uc *RegisterUseCase) Execute(ctx context.Context, cmd RegisterCommand) (*UserDTO, error) {
	if len(cmd.Password) < 8 {
		return nil, apperrors.NewValidationError("password must be at least 8 characters")
	}

	exists, err := uc.userRepo.ExistsByEmail(ctx, cmd.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, apperrors.NewConflictError("email already registered")
	}

	hash, err := uc.hasher.Hash(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account, err := user.NewUser(cmd.Email, cmd.Name, hash, uc.bootstrapAdminEmail)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid account", err.Error())
	}

	if err := uc.userRepo.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	uc.logger.Infow("user registered",
		"user_sid", account.SID(), "email", account.Email(), "is_admin", account.IsAdmin())

	dto := toUserDTO(account)
	return &dto, nil
}

func toUserDTO(u *user.User) UserDTO {
	dto := UserDTO{
		SID:       u.SID(),
		Email:     u.Email(),
		Name:      u.Name(),
		IsAdmin:   u.IsAdmin(),
		CreatedAt: biztime.FormatRFC3339(u.CreatedAt()),
	}
	if u.LastLoginAt() != nil {
		formatted := biztime.FormatRFC3339(*u.LastLoginAt())
		dto.LastLoginAt = &formatted
	}
	return dto
}
