package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/aarondl/null/v8"
	"go.uber.org/zap"

	"catering-system/internal/dto"
	"catering-system/internal/entities"
	"catering-system/internal/repositories"
	"catering-system/pkg/config"
	apperrors "catering-system/pkg/errors"
	"catering-system/pkg/service"
	"catering-system/pkg/utils"
)

const loginAttemptsKeyPrefix = "login_attempts:"

type AuthServiceInterface interface {
	Login(ctx context.Context, payload dto.LoginDTO) (*dto.LoginResponseDTO, error)
	Register(ctx context.Context, payload dto.RegisterDTO) (*dto.AuthUserDTO, error)
	RefreshTokens(ctx context.Context, refreshToken string) (*dto.LoginResponseDTO, error)
	GetProfile(ctx context.Context, userID uint64) (*dto.AuthUserDTO, error)
}

type AuthService struct {
	userRepo   repositories.UserRepositoryInterface
	cacheRepo  repositories.CacheRepositoryInterface
	jwtService service.JWTService
	authConfig config.AuthConfig
	logger     *zap.Logger
}

func NewAuthService(
	userRepo repositories.UserRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	jwtService service.JWTService,
	authConfig config.AuthConfig,
	logger *zap.Logger,
) AuthServiceInterface {
	return &AuthService{
		userRepo:   userRepo,
		cacheRepo:  cacheRepo,
		jwtService: jwtService,
		authConfig: authConfig,
		logger:     logger,
	}
}

func toAuthUserDTO(user *entities.User) *dto.AuthUserDTO {
	return &dto.AuthUserDTO{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  string(user.Role),
	}
}

// Login проверяет учётные данные с лимитом попыток в Redis: после
// MaxLoginAttempts неудач вход для email блокируется на LockoutDuration.
func (s *AuthService) Login(ctx context.Context, payload dto.LoginDTO) (*dto.LoginResponseDTO, error) {
	attemptsKey := loginAttemptsKeyPrefix + payload.Email

	if attempts, err := s.cacheRepo.Get(ctx, attemptsKey); err == nil && attempts != "" {
		var count int
		fmt.Sscanf(attempts, "%d", &count)
		if count >= s.authConfig.MaxLoginAttempts {
			s.logger.Warn("Вход заблокирован из-за превышения числа попыток", zap.String("email", payload.Email))
			return nil, apperrors.NewHttpError(429, "Слишком много неудачных попыток входа. Попытайтесь позже", apperrors.ErrUnauthorized, nil)
		}
	}

	user, err := s.userRepo.FindUserByEmail(ctx, payload.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.registerFailedAttempt(ctx, attemptsKey)
			return nil, apperrors.NewUnauthorizedError("Неверный email или пароль")
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.NewForbiddenError("Учётная запись деактивирована")
	}

	if err := utils.ComparePasswords(user.Password, payload.Password); err != nil {
		s.registerFailedAttempt(ctx, attemptsKey)
		return nil, apperrors.NewUnauthorizedError("Неверный email или пароль")
	}

	// Сброс счётчика после успешного входа.
	if err := s.cacheRepo.Del(ctx, attemptsKey); err != nil {
		s.logger.Warn("Не удалось сбросить счётчик попыток входа", zap.Error(err))
	}

	accessToken, refreshToken, err := s.jwtService.GenerateTokens(user.ID, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("не удалось сгенерировать токены: %w", err)
	}

	return &dto.LoginResponseDTO{
		Token:        accessToken,
		RefreshToken: refreshToken,
		User:         *toAuthUserDTO(user),
	}, nil
}

func (s *AuthService) registerFailedAttempt(ctx context.Context, key string) {
	count, err := s.cacheRepo.Incr(ctx, key)
	if err != nil {
		s.logger.Warn("Не удалось увеличить счётчик попыток входа", zap.Error(err))
		return
	}
	if count == 1 {
		if _, err := s.cacheRepo.Expire(ctx, key, s.authConfig.LockoutDuration); err != nil {
			s.logger.Warn("Не удалось установить TTL счётчика попыток входа", zap.Error(err))
		}
	}
}

func (s *AuthService) Register(ctx context.Context, payload dto.RegisterDTO) (*dto.AuthUserDTO, error) {
	if _, err := s.userRepo.FindUserByEmail(ctx, payload.Email); err == nil {
		return nil, apperrors.NewConflictError("Пользователь с таким email уже существует", nil)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	hashed, err := utils.HashPassword(payload.Password)
	if err != nil {
		return nil, err
	}

	role := entities.UserRole(payload.Role)
	if payload.Role == "" {
		role = entities.RolePicCatering
	}

	user := entities.User{
		Name:     payload.Name,
		Email:    payload.Email,
		Password: hashed,
		Pin:      null.String{},
		Role:     role,
		IsActive: true,
	}
	created, err := s.userRepo.CreateUser(ctx, user)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Зарегистрирован новый пользователь", zap.Uint64("user_id", created.ID), zap.String("role", string(created.Role)))
	return toAuthUserDTO(created), nil
}

// RefreshTokens обменивает refresh-токен на новую пару токенов.
func (s *AuthService) RefreshTokens(ctx context.Context, refreshToken string) (*dto.LoginResponseDTO, error) {
	claims, err := s.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return nil, apperrors.NewUnauthorizedError("Недействительный refresh-токен")
	}
	if !claims.IsRefreshToken {
		return nil, apperrors.NewUnauthorizedError("Передан access-токен вместо refresh-токена")
	}

	user, err := s.userRepo.FindUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewUnauthorizedError("Пользователь не найден")
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.NewForbiddenError("Учётная запись деактивирована")
	}

	accessToken, newRefreshToken, err := s.jwtService.GenerateTokens(user.ID, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("не удалось сгенерировать токены: %w", err)
	}
	return &dto.LoginResponseDTO{
		Token:        accessToken,
		RefreshToken: newRefreshToken,
		User:         *toAuthUserDTO(user),
	}, nil
}

func (s *AuthService) GetProfile(ctx context.Context, userID uint64) (*dto.AuthUserDTO, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("Пользователь не найден")
		}
		return nil, err
	}
	return toAuthUserDTO(user), nil
}
