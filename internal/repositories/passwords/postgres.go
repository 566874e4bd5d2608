// Package passwords writes rows of the Hub's profiles.user_passwords table.
package passwords

import (
	"context"
	"fmt"

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

// Create stores the credential of rec.UserID. Must run in the same
// transaction as the users insert.
func (r *PostgresRepository) Create(ctx context.Context, rec *models.PasswordRecord) error {
	query :=
		`INSERT INTO profiles.user_passwords (user_id, password_hash, hash_algo, password_updated_at)
		 VALUES ($1, $2, $3, $4)
		 `

	_, err := r.db.ExecContext(ctx, query, rec.UserID, rec.PasswordHash, rec.HashAlgo, rec.UpdatedAt)
	if err != nil {
		if _, ok := dbx.UniqueViolation(err); ok {
			return common.NewDuplicateError("", "password already set for user", err)
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
