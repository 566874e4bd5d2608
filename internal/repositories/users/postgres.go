// Package users reads and writes rows of the Hub's profiles.users table.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/cozy-creator/hubuser/internal/common"
	"github.com/cozy-creator/hubuser/internal/dbx"
	"github.com/cozy-creator/hubuser/internal/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// FindIDByEmail returns the id of the user registered with email, or
// common.ErrorNotFound.
func (r *PostgresRepository) FindIDByEmail(ctx context.Context, email string) (string, error) {
	return r.findID(ctx, `SELECT id FROM profiles.users WHERE email = $1`, email)
}

// FindIDByUsername returns the id of the user holding username, or
// common.ErrorNotFound.
func (r *PostgresRepository) FindIDByUsername(ctx context.Context, username string) (string, error) {
	return r.findID(ctx, `SELECT id FROM profiles.users WHERE username = $1`, username)
}

func (r *PostgresRepository) findID(ctx context.Context, query string, arg string) (string, error) {
	var id string
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("db error: %w", err)
	}
	return id, nil
}

// Create inserts user. A unique violation on email or username comes back
// as a duplicate *common.ProvisionError.
func (r *PostgresRepository) Create(ctx context.Context, user *models.User) error {
	query :=
		`INSERT INTO profiles.users (id, email, username, email_verified, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 `

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Email, user.Username, user.EmailVerified, user.CreatedAt, user.UpdatedAt)

	if err != nil {
		if constraint, ok := dbx.UniqueViolation(err); ok {
			return duplicateFromConstraint(constraint, err)
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func duplicateFromConstraint(constraint string, err error) error {
	c := strings.ToLower(constraint)
	switch {
	case strings.Contains(c, "email"):
		return common.NewDuplicateError(common.FieldIdentifier, "email already registered", err)
	case strings.Contains(c, "username"):
		return common.NewDuplicateError(common.FieldUsername, "username already taken", err)
	default:
		return common.NewDuplicateError("", "user already exists", err)
	}
}
