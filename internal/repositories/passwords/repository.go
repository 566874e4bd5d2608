package passwords

import (
	"context"

	"github.com/cozy-creator/hubuser/internal/models"
)

type Repository interface {
	Create(ctx context.Context, rec *models.PasswordRecord) error
}
