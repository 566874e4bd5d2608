package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cozy-creator/hubuser/internal/common"
	"github.com/cozy-creator/hubuser/internal/cryptox"
	"github.com/cozy-creator/hubuser/internal/dbx"
	"github.com/cozy-creator/hubuser/internal/logging"
	"github.com/cozy-creator/hubuser/internal/models"
	"github.com/cozy-creator/hubuser/internal/repositories/repomanager"
	"github.com/cozy-creator/hubuser/internal/validation"
)

// Hasher produces the stored form of a password.
type Hasher interface {
	Hash(password string) (string, error)
	Algorithm() string
}

// Opener returns a database handle owned by the caller.
type Opener func(ctx context.Context, dsn string) (*sql.DB, error)

func openPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	return dbx.Open(ctx, repomanager.DriverName, dsn)
}

// DirectProvisioner writes a user and its password straight into the Hub's
// store. Development use only: it bypasses email verification and marks the
// user verified.
type DirectProvisioner struct {
	dsn         string
	repomanager repomanager.RepositoryManager
	open        Opener
	hasher      Hasher
	newID       func() string
	now         func() time.Time
	migrate     bool
	log         logging.Logger
}

// DirectOption customizes a DirectProvisioner.
type DirectOption func(*DirectProvisioner)

func WithOpener(o Opener) DirectOption { return func(p *DirectProvisioner) { p.open = o } }

func WithHasher(h Hasher) DirectOption { return func(p *DirectProvisioner) { p.hasher = h } }

func WithIDGenerator(fn func() string) DirectOption { return func(p *DirectProvisioner) { p.newID = fn } }

func WithClock(fn func() time.Time) DirectOption { return func(p *DirectProvisioner) { p.now = fn } }

// WithMigrations makes Provision create the profiles schema before writing.
func WithMigrations(enabled bool) DirectOption { return func(p *DirectProvisioner) { p.migrate = enabled } }

func WithLogger(l logging.Logger) DirectOption { return func(p *DirectProvisioner) { p.log = l } }

func NewDirectProvisioner(dsn string, m repomanager.RepositoryManager, opts ...DirectOption) *DirectProvisioner {
	p := &DirectProvisioner{
		dsn:         dsn,
		repomanager: m,
		open:        openPostgres,
		hasher:      cryptox.Argon2idHasher{},
		newID:       uuid.NewString,
		now:         func() time.Time { return time.Now().UTC() },
		log:         logging.Discard(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.log = p.log.With("mode", ModeDirect)
	return p
}

// Provision validates req, hashes the password and inserts the user and its
// password record in one transaction. Either both rows are committed or
// neither is. The connection is closed before Provision returns.
func (p *DirectProvisioner) Provision(ctx context.Context, req Request) (*Result, error) {
	if !req.Identifier.IsEmail() {
		return nil, common.NewValidationError(common.FieldIdentifier, "direct provisioning requires an email identifier")
	}
	if err := validation.ValidateRequest(req.Identifier, req.Username, req.Password); err != nil {
		return nil, err
	}

	userID := p.newID()
	hash, err := p.hasher.Hash(req.Password)
	if err != nil {
		return nil, common.NewStorageError("failed to hash password", err)
	}

	db, err := p.open(ctx, p.dsn)
	if err != nil {
		return nil, common.NewStorageError("failed to connect to database", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			p.log.Debug(ctx, "close database", "error", cerr)
		}
	}()

	if p.migrate {
		p.log.Info(ctx, "applying profiles schema migrations")
		if err := p.repomanager.RunMigrations(ctx, db); err != nil {
			return nil, common.NewStorageError("failed to migrate schema", err)
		}
	}

	now := p.now()
	user := &models.User{
		ID:            userID,
		Email:         req.Identifier.Value,
		Username:      req.Username,
		EmailVerified: true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	rec := &models.PasswordRecord{
		UserID:       userID,
		PasswordHash: hash,
		HashAlgo:     p.hasher.Algorithm(),
		UpdatedAt:    now,
	}

	err = dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		users := p.repomanager.Users(tx)

		if err := ensureAbsent(ctx, users.FindIDByEmail, user.Email,
			common.FieldIdentifier, fmt.Sprintf("Email '%s' already exists", user.Email)); err != nil {
			return err
		}
		if err := ensureAbsent(ctx, users.FindIDByUsername, user.Username,
			common.FieldUsername, fmt.Sprintf("Username '%s' already exists", user.Username)); err != nil {
			return err
		}

		if err := users.Create(ctx, user); err != nil {
			return err
		}
		return p.repomanager.Passwords(tx).Create(ctx, rec)
	})
	if err != nil {
		p.log.Debug(ctx, "provisioning rolled back", "username", user.Username, "error", err)
		if _, ok := common.AsProvisionError(err); ok {
			return nil, err
		}
		return nil, common.NewStorageError("database error", err)
	}

	p.log.Info(ctx, "user created", "user_id", user.ID, "username", user.Username)
	return &Result{Mode: ModeDirect, User: user}, nil
}

// ensureAbsent fails with a duplicate error when find locates value.
func ensureAbsent(ctx context.Context, find func(context.Context, string) (string, error), value, field, msg string) error {
	_, err := find(ctx, value)
	switch {
	case err == nil:
		return common.NewDuplicateError(field, msg, nil)
	case errors.Is(err, common.ErrorNotFound):
		return nil
	default:
		return err
	}
}
