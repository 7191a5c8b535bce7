// internal/core/auth/service.go
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/LuisEduardoPedra/metasVendas/internal/domain"
	"github.com/LuisEduardoPedra/metasVendas/internal/store"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials é devolvido para usuário inexistente ou senha errada.
var ErrInvalidCredentials = errors.New("usuário ou senha inválidos")

// UserStore busca usuários pelo username.
type UserStore interface {
	FindUser(ctx context.Context, username string) (domain.User, error)
}

type Service interface {
	Login(ctx context.Context, username, password string) (string, error)
}

type service struct {
	users    UserStore
	secret   []byte
	tokenTTL time.Duration
	now      func() time.Time
}

func NewService(users UserStore, secret []byte, tokenTTL time.Duration) Service {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &service{users: users, secret: secret, tokenTTL: tokenTTL, now: time.Now}
}

func (s *service) Login(ctx context.Context, username, password string) (string, error) {
	// 1. Encontrar o usuário.
	user, err := s.users.FindUser(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", fmt.Errorf("erro ao consultar o banco de dados: %w", err)
	}

	// 2. Comparar a senha fornecida com o hash armazenado.
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	// 3. Gerar o Token JWT com as permissões (roles).
	claims := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": user.Username,
		"roles":    user.Roles,
		"exp":      s.now().Add(s.tokenTTL).Unix(),
	})

	tokenString, err := claims.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("erro ao gerar token de acesso: %w", err)
	}
	return tokenString, nil
}
