package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/DanielPopoola/gymfit-backoffice/internal/application"
	"github.com/jackc/pgx/v5"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository struct {
	q Executor
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{q: db.Pool}
}

// FindRecipient returns the buyer's mail contact.
func (r *UserRepository) FindRecipient(ctx context.Context, userID int64) (*application.Recipient, error) {
	query := `SELECT id, email, full_name FROM users WHERE id = $1`

	var rec application.Recipient
	err := r.q.QueryRow(ctx, query, userID).Scan(&rec.UserID, &rec.Email, &rec.FullName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user %d: %w", userID, err)
	}
	return &rec, nil
}
