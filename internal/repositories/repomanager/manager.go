package repomanager

import (
	"context"
	"database/sql"

	"github.com/cozy-creator/hubuser/internal/dbx"
	"github.com/cozy-creator/hubuser/internal/repositories/passwords"
	"github.com/cozy-creator/hubuser/internal/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so the same code runs
// against a *sql.DB or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Passwords(db dbx.DBTX) passwords.Repository
}
