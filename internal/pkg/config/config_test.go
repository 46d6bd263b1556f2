package config

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "test")

	cfg, err := Load(discardLogger())
	require.NoError(t, err)

	assert.Equal(t, "pos-inventory", cfg.App.Name)
	assert.Equal(t, "America/Bahia", cfg.Shop.TimeZone)
	assert.Equal(t, time.Hour, cfg.Redis.TTL)
	assert.Equal(t, int32(25), cfg.Database.MaxConnections)
	assert.Equal(t, "0.0.0.0:8080", cfg.GetServerAddress())
	assert.Equal(t, "localhost:6379", cfg.Asynq.RedisAddr)
	assert.Equal(t, map[string]int{"critical": 6, "default": 3, "low": 1}, cfg.Asynq.Queues)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "America/Bahia", loc.String())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("SHOP_TIMEZONE", "America/Sao_Paulo")
	t.Setenv("DB_MAX_CONNECTIONS", "40")
	t.Setenv("REDIS_TTL", "90s")
	t.Setenv("ALLOWED_ORIGINS", "https://pdv.example.com, https://admin.example.com")

	cfg, err := Load(discardLogger())
	require.NoError(t, err)

	assert.Equal(t, "America/Sao_Paulo", cfg.Shop.TimeZone)
	assert.Equal(t, int32(40), cfg.Database.MaxConnections)
	assert.Equal(t, 90*time.Second, cfg.Redis.TTL)
	assert.Equal(t, []string{"https://pdv.example.com", "https://admin.example.com"}, cfg.Security.AllowedOrigins)
}

func TestLoad_RejectsUnknownTimeZone(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("SHOP_TIMEZONE", "Mars/Olympus")

	_, err := Load(discardLogger())
	assert.Error(t, err)
}

func TestLoad_RejectsLocalTimeZone(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("SHOP_TIMEZONE", "Local")

	_, err := Load(discardLogger())
	assert.ErrorContains(t, err, "an IANA name is required")
}

func TestValidate_Production(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	_, err := Load(discardLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SSL")
}

func TestValidate_RequiredFields(t *testing.T) {
	cfg := validConfig(t)
	cfg.Database.Host = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingRequiredConfig))
	assert.Contains(t, err.Error(), "Database.Host")
}

func TestSecurityValidator(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "short_secret",
			mutate:  func(c *Config) { c.Security.JWTSecret = "short" },
			wantErr: "at least 32",
		},
		{
			name:    "weak_bcrypt",
			mutate:  func(c *Config) { c.Security.BcryptCost = 4 },
			wantErr: "bcrypt",
		},
		{
			name:    "wildcard_origin",
			mutate:  func(c *Config) { c.Security.AllowedOrigins = []string{"*"} },
			wantErr: "wildcard",
		},
		{
			name:   "valid",
			mutate: func(c *Config) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			cfg.Security.JWTSecret = "0123456789abcdef0123456789abcdef"
			cfg.Security.AllowedOrigins = []string{"https://pdv.example.com"}
			tt.mutate(cfg)

			err := (&SecurityValidator{}).Validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseQueues(t *testing.T) {
	assert.Equal(t, map[string]int{"critical": 6, "low": 1}, parseQueues("critical:6, low:1, broken, zero:0"))
	assert.Equal(t, map[string]int{"default": 1}, parseQueues(""))
}

type fakeSecretsClient struct {
	calls  int
	secret string
	err    error
}

func (f *fakeSecretsClient) GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &secretsmanager.GetSecretValueOutput{SecretString: aws.String(f.secret)}, nil
}

func TestAWSSecretsManager_CachesSecret(t *testing.T) {
	client := &fakeSecretsClient{secret: `{"DB_PASSWORD":"s3cret","JWT_SECRET":"jwt-from-aws"}`}
	sm := newAWSSecretsManager(client, "pos/test", discardLogger())
	ctx := context.Background()

	secrets, err := sm.GetSecrets(ctx, []string{SecretDatabasePassword, SecretJWT, SecretRedisPassword})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"DB_PASSWORD": "s3cret", "JWT_SECRET": "jwt-from-aws"}, secrets)

	_, err = sm.GetSecrets(ctx, []string{SecretJWT})
	require.NoError(t, err)
	assert.Equal(t, 1, client.calls)
}

func TestAWSSecretsManager_Errors(t *testing.T) {
	ctx := context.Background()

	sm := newAWSSecretsManager(&fakeSecretsClient{err: errors.New("access denied")}, "pos/test", discardLogger())
	_, err := sm.GetSecrets(ctx, []string{SecretJWT})
	assert.ErrorContains(t, err, "access denied")

	sm = newAWSSecretsManager(&fakeSecretsClient{secret: "not json"}, "pos/test", discardLogger())
	_, err = sm.GetSecrets(ctx, []string{SecretJWT})
	assert.ErrorContains(t, err, "parse secret")
}

func TestApplySecrets(t *testing.T) {
	cfg := validConfig(t)
	client := &fakeSecretsClient{secret: `{"DB_PASSWORD":"s3cret","REDIS_PASSWORD":"r3dis"}`}

	err := ApplySecrets(context.Background(), cfg, newAWSSecretsManager(client, "pos/test", discardLogger()))
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.Database.Password)
	assert.Equal(t, "r3dis", cfg.Redis.Password)
	assert.Equal(t, "r3dis", cfg.Asynq.RedisPassword)
	assert.Equal(t, "development-secret-change-in-production", cfg.Security.JWTSecret)
}

func TestEnvSecretsManager(t *testing.T) {
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("DB_PASSWORD", "")

	secrets, err := NewEnvSecretsManager().GetSecrets(context.Background(), []string{SecretJWT, SecretDatabasePassword})
	require.NoError(t, err)
	assert.Equal(t, "from-env", secrets[SecretJWT])
	_, ok := secrets[SecretDatabasePassword]
	assert.False(t, ok)
}

func validConfig(t *testing.T) *Config {
	t.Helper()
	t.Setenv("APP_ENV", "test")
	cfg, err := Load(discardLogger())
	require.NoError(t, err)
	return cfg
}
