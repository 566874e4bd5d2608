package users

import (
	"context"

	"github.com/cozy-creator/hubuser/internal/models"
)

type Repository interface {
	FindIDByEmail(ctx context.Context, email string) (string, error)
	FindIDByUsername(ctx context.Context, username string) (string, error)
	Create(ctx context.Context, user *models.User) error
}
