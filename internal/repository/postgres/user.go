package postgres

import (
	"context"
	"database/sql"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/logger"
	"carrental-backend/internal/repository"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

// GetByID never loads the password hash
func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	u := &domain.User{}
	query := `SELECT id, name, email, phone, role, image, created_at FROM users WHERE id = $1`
	logger.DatabaseCall("users.GetByID", query, "id", id)
	err := r.db.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.Role, &u.Image, &u.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u := &domain.User{}
	query := `SELECT id, name, email, phone, password_hash, role, image, created_at FROM users WHERE LOWER(email) = LOWER($1)`
	logger.DatabaseCall("users.GetByEmail", query)
	err := r.db.QueryRowContext(ctx, query, email).Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.PasswordHash, &u.Role, &u.Image, &u.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return u, nil
}
