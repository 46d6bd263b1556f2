// internal/core/services/auth.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/ammerola/pos-inventory/internal/core/domain"
	"github.com/ammerola/pos-inventory/internal/core/ports"
)

const (
	maxLoginAttempts = 5
	loginLockout     = 15 * time.Minute
	minPasswordLen   = 8
	tokenIssuer      = "pos-inventory"
)

// AuthConfig configures token issuing
type AuthConfig struct {
	Secret     []byte
	TokenTTL   time.Duration
	BcryptCost int
}

// AuthService issues and verifies bearer tokens for operators
type AuthService struct {
	users  ports.UserRepository
	cache  ports.CacheRepository
	cfg    AuthConfig
	now    Clock
	logger *slog.Logger
}

var _ ports.AuthService = (*AuthService)(nil)

// NewAuthService creates a new auth service
func NewAuthService(users ports.UserRepository, cache ports.CacheRepository, cfg AuthConfig, now Clock, logger *slog.Logger) *AuthService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 12 * time.Hour
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	if now == nil {
		now = NewClock(nil)
	}
	return &AuthService{
		users:  users,
		cache:  cache,
		cfg:    cfg,
		now:    now,
		logger: logger.With(slog.String("service", "auth")),
	}
}

// Login checks the credentials and returns a signed token.
// Repeated failures for one e-mail lock it out for a while.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, domain.NewInvalidInput("credentials", "email and password are required")
	}

	attemptsKey := "auth:attempts:" + email
	if s.cache != nil {
		var attempts int64
		if err := s.cache.Get(ctx, attemptsKey, &attempts); err == nil && attempts >= maxLoginAttempts {
			return nil, fmt.Errorf("too many login attempts: %w", domain.ErrUnauthorized)
		}
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.recordFailure(ctx, attemptsKey)
		s.logger.WarnContext(ctx, "login failed", slog.String("email", email))
		return nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}

	if s.cache != nil {
		_ = s.cache.Delete(ctx, attemptsKey)
	}

	now := s.now()
	expires := now.Add(s.cfg.TokenTTL)
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(user.ID, 10),
		Issuer:    tokenIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.cfg.Secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	s.logger.InfoContext(ctx, "user logged in", slog.Int64("user_id", user.ID))

	return &domain.Session{Token: token, ExpiresAt: expires, User: *user}, nil
}

func (s *AuthService) recordFailure(ctx context.Context, key string) {
	if s.cache == nil {
		return
	}
	if _, err := s.cache.IncrementWithTTL(ctx, key, loginLockout); err != nil {
		s.logger.WarnContext(ctx, "failed to record login attempt", slog.String("error", err.Error()))
	}
}

// Register creates an operator with a bcrypt password hash
func (s *AuthService) Register(ctx context.Context, email, name, password string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !strings.Contains(email, "@") {
		return nil, domain.NewInvalidInput("email", "is not an address")
	}
	if len(password) < minPasswordLen {
		return nil, domain.NewInvalidInput("password", fmt.Sprintf("must have at least %d characters", minPasswordLen))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Email:        email,
		Name:         domain.NormalizeTitle(name),
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.InfoContext(ctx, "user registered", slog.Int64("user_id", user.ID))
	return user, nil
}

// Verify parses a token signed by Login and returns its user id
func (s *AuthService) Verify(tokenString string) (int64, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.cfg.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		if err == nil {
			err = errors.New("token is not valid")
		}
		return 0, fmt.Errorf("%v: %w", err, domain.ErrUnauthorized)
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("bad subject: %w", domain.ErrUnauthorized)
	}
	return id, nil
}
