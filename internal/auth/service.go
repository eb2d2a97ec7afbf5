package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/MrJusticeShai/odd-handyman-api/internal/apperr"
)

type UserService interface {
	Register(ctx context.Context, u User) error
	Login(ctx context.Context, email string, password string) (User, Claims, error)
	Profile(ctx context.Context, userID uuid.UUID) (User, error)
}

type userService struct {
	repo          UserRepository
	jwtSecret     []byte
	jwtTTLSeconds int64
}

func NewUserService(repo UserRepository, jwtSecret []byte, jwtTTLSeconds int64) UserService {
	return &userService{
		repo:          repo,
		jwtSecret:     jwtSecret,
		jwtTTLSeconds: jwtTTLSeconds,
	}
}

func (s *userService) Register(ctx context.Context, u User) error {
	hashed, err := HashPassword(u.PasswordHash)
	if err != nil {
		return err
	}
	u.PasswordHash = hashed

	if err := s.repo.CreateUser(ctx, u); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.Conflict("email already registered")
		}
		return err
	}
	return nil
}

func (s *userService) Login(ctx context.Context, email string, password string) (User, Claims, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return User{}, Claims{}, apperr.Unauthorized("invalid credentials")
		}
		return User{}, Claims{}, err
	}
	if err := CheckPassword(user.PasswordHash, password); err != nil {
		return User{}, Claims{}, apperr.Unauthorized("invalid credentials")
	}
	claims := BuildJWTClaims(user, s.jwtTTLSeconds)
	return user, claims, nil
}

func (s *userService) Profile(ctx context.Context, userID uuid.UUID) (User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return User{}, apperr.NotFound("user not found")
		}
		return User{}, err
	}
	user.PasswordHash = ""
	return user, nil
}
