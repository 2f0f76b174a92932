package db

import (
	"context"

	"github.com/google/uuid"

	"procurement/models"
)

const userColumns = `id, name, email, password_hash, role, created_at, updated_at`

func (s *Storage) CreateUser(ctx context.Context, u *models.User) error {
	u.ID = uuid.NewString()
	query := `
        INSERT INTO users (id, name, email, password_hash, role)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING created_at, updated_at`
	return s.insert(ctx, query, []any{u.ID, u.Name, u.Email, u.PasswordHash, u.Role},
		&u.CreatedAt, &u.UpdatedAt)
}

func (s *Storage) GetUser(ctx context.Context, id string) (*models.User, error) {
	return getOne[models.User](ctx, s, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return getOne[models.User](ctx, s, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}
