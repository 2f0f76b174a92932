// Package identity регистрирует пользователей и разрешает bearer токены в пользователя.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"procurement/internal/validation"
	"procurement/models"
)

// UserStore часть хранилища, нужная для учётных записей
type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// Предел длины пароля для bcrypt
const maxPasswordBytes = 72

type Service struct {
	users    UserStore
	tokens   *TokenManager
	logger   *zap.Logger
	validate *validation.Validator
	cost     int
}

func NewService(users UserStore, tokens *TokenManager, logger *zap.Logger) *Service {
	return &Service{
		users:    users,
		tokens:   tokens,
		logger:   logger,
		validate: validation.New(),
		cost:     bcrypt.DefaultCost,
	}
}

func (s *Service) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}
	// validator считает символы, bcrypt ограничен байтами
	if len(req.Password) > maxPasswordBytes {
		return nil, models.Validation("password must be at most %d bytes", maxPasswordBytes)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, models.Validation("password must be at most %d bytes", maxPasswordBytes)
	}
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &models.User{Name: req.Name, Email: req.Email, PasswordHash: string(hash), Role: req.Role}
	if err := s.users.CreateUser(ctx, u); err != nil {
		switch {
		case errors.Is(err, models.ErrDuplicate):
			return nil, models.Conflict("email %s is already registered", req.Email)
		case errors.Is(err, models.ErrStoreUnavailable):
			return nil, &models.Error{Kind: models.ErrUnavailable, Message: "storage is temporarily unavailable"}
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.logger.Info("user registered", zap.String("user_id", u.ID), zap.String("role", string(u.Role)))
	return s.respond(*u)
}

// Login одна и та же ошибка для неизвестного email и неверного пароля
func (s *Service) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}
	u, err := s.users.GetUserByEmail(ctx, req.Email)
	if errors.Is(err, models.ErrRecordNotFound) {
		return nil, models.Unauthorized("invalid email or password")
	}
	if err != nil {
		return nil, lookupErr(err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, models.Unauthorized("invalid email or password")
	}
	return s.respond(*u)
}

// Authenticate разбирает токен и загружает пользователя, роль берётся из хранилища
func (s *Service) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}
	u, err := s.users.GetUser(ctx, claims.UserID)
	if errors.Is(err, models.ErrRecordNotFound) {
		return nil, models.Unauthorized("user no longer exists")
	}
	if err != nil {
		return nil, lookupErr(err)
	}
	return u, nil
}

func (s *Service) respond(u models.User) (*models.AuthResponse, error) {
	token, err := s.tokens.Issue(u)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{Token: token, User: u}, nil
}

func lookupErr(err error) error {
	if errors.Is(err, models.ErrStoreUnavailable) {
		return &models.Error{Kind: models.ErrUnavailable, Message: "storage is temporarily unavailable"}
	}
	return fmt.Errorf("lookup user: %w", err)
}
