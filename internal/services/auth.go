// Package services holds the business operations that span a repository and
// another concern (password hashing, token issuing).
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/diewo77/go-crm/api"
	"github.com/diewo77/go-crm/auth"
	"github.com/diewo77/go-crm/internal/models"
	"github.com/diewo77/go-crm/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

// UserStore is the subset of repository.Users the auth service needs.
type UserStore interface {
	Get(ctx context.Context, id uint) (models.User, error)
	ByEmail(ctx context.Context, email string) (models.User, error)
	Create(ctx context.Context, u models.User) (models.User, error)
}

type Auth struct {
	users  UserStore
	issuer *auth.Issuer
}

func NewAuth(users UserStore, issuer *auth.Issuer) *Auth {
	return &Auth{users: users, issuer: issuer}
}

// HashPassword returns the bcrypt hash of plain.
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

// Login checks the credentials and returns the user with a fresh token.
func (s *Auth) Login(ctx context.Context, email, password string) (api.AuthResponse, error) {
	u, err := s.users.ByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, repository.ErrNotFound) {
		return api.AuthResponse{}, ErrInvalidCredentials
	}
	if err != nil {
		return api.AuthResponse{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return api.AuthResponse{}, ErrInvalidCredentials
	}
	return s.respond(u)
}

// Verify decodes token and reloads its user. A deleted user invalidates the token.
func (s *Auth) Verify(ctx context.Context, token string) (api.User, error) {
	claims, err := s.issuer.Parse(token)
	if err != nil {
		return api.User{}, err
	}
	return s.current(ctx, claims.ID)
}

// current loads the user behind an already verified token.
func (s *Auth) current(ctx context.Context, id uint) (api.User, error) {
	u, err := s.users.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return api.User{}, fmt.Errorf("%w: user %d no longer exists", auth.ErrInvalidToken, id)
	}
	if err != nil {
		return api.User{}, err
	}
	return u.API(), nil
}

// Signup creates a closer account and logs it in.
func (s *Auth) Signup(ctx context.Context, in api.SignupInput) (api.AuthResponse, error) {
	hash, err := HashPassword(in.Password)
	if err != nil {
		return api.AuthResponse{}, err
	}
	u, err := s.users.Create(ctx, models.User{
		Name:     strings.TrimSpace(in.Name),
		Email:    strings.TrimSpace(in.Email),
		Phone:    in.Phone,
		Password: hash,
		Role:     api.RoleCloser,
	})
	if err != nil {
		return api.AuthResponse{}, err
	}
	return s.respond(u)
}

func (s *Auth) respond(u models.User) (api.AuthResponse, error) {
	token, err := s.issuer.Sign(u.ID, u.Email, u.Role)
	if err != nil {
		return api.AuthResponse{}, err
	}
	return api.AuthResponse{User: u.API(), Token: token}, nil
}
