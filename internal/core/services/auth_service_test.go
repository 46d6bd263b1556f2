// internal/core/services/auth_service_test.go
package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"github.com/ammerola/pos-inventory/internal/core/domain"
	"github.com/ammerola/pos-inventory/internal/core/services"
	"github.com/ammerola/pos-inventory/test/helpers"
	"github.com/ammerola/pos-inventory/test/mocks"
)

const testPassword = "s3nha-do-caixa"

func authConfig() services.AuthConfig {
	return services.AuthConfig{
		Secret:     []byte(helpers.TestJWTSecret),
		TokenTTL:   time.Hour,
		BcryptCost: bcrypt.MinCost,
	}
}

func testUser(t *testing.T) *domain.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	return &domain.User{ID: 17, Email: "caixa@loja.com.br", Name: "Caixa", PasswordHash: string(hash)}
}

func TestAuthService_Login(t *testing.T) {
	now := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)
	key := "auth:attempts:caixa@loja.com.br"

	t.Run("issues_token_verified_by_same_service", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		users := mocks.NewMockUserRepository(ctrl)
		cache := mocks.NewMockCacheRepository(ctrl)

		cache.EXPECT().Get(gomock.Any(), key, gomock.Any()).Return(domain.ErrNotFound)
		users.EXPECT().FindByEmail(gomock.Any(), "caixa@loja.com.br").Return(testUser(t), nil)
		cache.EXPECT().Delete(gomock.Any(), key).Return(nil)

		svc := services.NewAuthService(users, cache, authConfig(), helpers.FixedClock(now), helpers.TestLogger())
		session, err := svc.Login(context.Background(), "  Caixa@Loja.com.br ", testPassword)

		require.NoError(t, err)
		assert.Equal(t, now.Add(time.Hour), session.ExpiresAt)
		assert.Equal(t, int64(17), session.User.ID)

		userID, err := svc.Verify(session.Token)
		require.NoError(t, err)
		assert.Equal(t, int64(17), userID)
	})

	t.Run("wrong_password_counts_attempt", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		users := mocks.NewMockUserRepository(ctrl)
		cache := mocks.NewMockCacheRepository(ctrl)

		cache.EXPECT().Get(gomock.Any(), key, gomock.Any()).Return(domain.ErrNotFound)
		users.EXPECT().FindByEmail(gomock.Any(), "caixa@loja.com.br").Return(testUser(t), nil)
		cache.EXPECT().IncrementWithTTL(gomock.Any(), key, 15*time.Minute).Return(int64(1), nil)

		svc := services.NewAuthService(users, cache, authConfig(), helpers.FixedClock(now), helpers.TestLogger())
		_, err := svc.Login(context.Background(), "caixa@loja.com.br", "wrong")

		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("unknown_user_is_unauthorized", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		users := mocks.NewMockUserRepository(ctrl)
		cache := mocks.NewMockCacheRepository(ctrl)

		cache.EXPECT().Get(gomock.Any(), key, gomock.Any()).Return(domain.ErrNotFound)
		users.EXPECT().FindByEmail(gomock.Any(), "caixa@loja.com.br").Return(nil, nil)
		cache.EXPECT().IncrementWithTTL(gomock.Any(), key, 15*time.Minute).Return(int64(3), nil)

		svc := services.NewAuthService(users, cache, authConfig(), helpers.FixedClock(now), helpers.TestLogger())
		_, err := svc.Login(context.Background(), "caixa@loja.com.br", testPassword)

		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("attempt_counter_failure_still_rejects", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		users := mocks.NewMockUserRepository(ctrl)
		cache := mocks.NewMockCacheRepository(ctrl)

		cache.EXPECT().Get(gomock.Any(), key, gomock.Any()).Return(domain.ErrNotFound)
		users.EXPECT().FindByEmail(gomock.Any(), "caixa@loja.com.br").Return(testUser(t), nil)
		cache.EXPECT().IncrementWithTTL(gomock.Any(), key, 15*time.Minute).Return(int64(0), errors.New("redis down"))

		svc := services.NewAuthService(users, cache, authConfig(), helpers.FixedClock(now), helpers.TestLogger())
		_, err := svc.Login(context.Background(), "caixa@loja.com.br", "wrong")

		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("locked_out_after_too_many_attempts", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		users := mocks.NewMockUserRepository(ctrl)
		cache := mocks.NewMockCacheRepository(ctrl)

		cache.EXPECT().Get(gomock.Any(), key, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, dest interface{}) error {
				*dest.(*int64) = 5
				return nil
			})

		svc := services.NewAuthService(users, cache, authConfig(), helpers.FixedClock(now), helpers.TestLogger())
		_, err := svc.Login(context.Background(), "caixa@loja.com.br", testPassword)

		require.ErrorIs(t, err, domain.ErrUnauthorized)
		assert.Contains(t, err.Error(), "too many login attempts")
	})

	t.Run("missing_credentials", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := services.NewAuthService(mocks.NewMockUserRepository(ctrl), nil, authConfig(), nil, helpers.TestLogger())
		_, err := svc.Login(context.Background(), "", "")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestAuthService_Verify(t *testing.T) {
	issued := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)

	login := func(t *testing.T, cfg services.AuthConfig) string {
		ctrl := gomock.NewController(t)
		users := mocks.NewMockUserRepository(ctrl)
		users.EXPECT().FindByEmail(gomock.Any(), gomock.Any()).Return(testUser(t), nil)

		svc := services.NewAuthService(users, nil, cfg, helpers.FixedClock(issued), helpers.TestLogger())
		session, err := svc.Login(context.Background(), "caixa@loja.com.br", testPassword)
		require.NoError(t, err)
		return session.Token
	}

	tests := []struct {
		name  string
		token func(t *testing.T) string
		at    time.Time
		ok    bool
	}{
		{
			name:  "valid_within_ttl",
			token: func(t *testing.T) string { return login(t, authConfig()) },
			at:    issued.Add(59 * time.Minute),
			ok:    true,
		},
		{
			name:  "expired",
			token: func(t *testing.T) string { return login(t, authConfig()) },
			at:    issued.Add(2 * time.Hour),
		},
		{
			name: "signed_with_other_secret",
			token: func(t *testing.T) string {
				cfg := authConfig()
				cfg.Secret = []byte("another-secret-another-secret-another")
				return login(t, cfg)
			},
			at: issued.Add(time.Minute),
		},
		{
			name:  "garbage",
			token: func(*testing.T) string { return "not.a.token" },
			at:    issued,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := tt.token(t)
			svc := services.NewAuthService(mocks.NewMockUserRepository(gomock.NewController(t)), nil,
				authConfig(), helpers.FixedClock(tt.at), helpers.TestLogger())

			userID, err := svc.Verify(token)

			if tt.ok {
				require.NoError(t, err)
				assert.Equal(t, int64(17), userID)
				return
			}
			assert.ErrorIs(t, err, domain.ErrUnauthorized)
		})
	}
}

func TestAuthService_Register(t *testing.T) {
	t.Run("hashes_password", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		users := mocks.NewMockUserRepository(ctrl)
		users.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, u *domain.User) error {
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(testPassword)))
				u.ID = 3
				return nil
			})

		svc := services.NewAuthService(users, nil, authConfig(), nil, helpers.TestLogger())
		user, err := svc.Register(context.Background(), "Gerente@Loja.com.br", "gerente", testPassword)

		require.NoError(t, err)
		assert.Equal(t, "gerente@loja.com.br", user.Email)
		assert.Equal(t, int64(3), user.ID)
	})

	t.Run("short_password", func(t *testing.T) {
		svc := services.NewAuthService(mocks.NewMockUserRepository(gomock.NewController(t)), nil, authConfig(), nil, helpers.TestLogger())
		_, err := svc.Register(context.Background(), "a@b.com", "A", "short")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}
