// internal/adapters/db/user_repository.go
package db

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/ammerola/pos-inventory/internal/core/domain"
	"github.com/ammerola/pos-inventory/internal/core/ports"
)

type userRepository struct {
	db     *Database
	logger *slog.Logger
}

var _ ports.UserRepository = (*userRepository)(nil)

// NewUserRepository creates a new user repository
func NewUserRepository(db *Database, logger *slog.Logger) ports.UserRepository {
	return &userRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "user")),
	}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO users (email, name, password_hash) VALUES ($1, $2, $3) RETURNING user_id, created_at`,
		user.Email, user.Name, user.PasswordHash).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return mapError("create user", err)
	}
	return nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `
		SELECT user_id, email, name, password_hash, created_at
		FROM users
		WHERE email = $1`

	user, err := ScanOne(r.db.QueryRow(ctx, query, email), func(row pgx.Row) (*domain.User, error) {
		var u domain.User
		if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt); err != nil {
			return nil, err
		}
		return &u, nil
	})
	if err != nil {
		return nil, mapError("find user", err)
	}
	return user, nil
}
