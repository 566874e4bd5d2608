// Package services implements account provisioning against the Hub. Two
// realizations share the same validation rules: RemoteProvisioner calls the
// Hub's registration API and DirectProvisioner writes the Hub's PostgreSQL
// store in a single transaction.
package services

import (
	"context"
	"fmt"

	"github.com/cozy-creator/hubuser/internal/hubclient"
	"github.com/cozy-creator/hubuser/internal/models"
)

// Mode names the provisioning path that produced a Result.
type Mode string

const (
	ModeRemote Mode = "remote"
	ModeDirect Mode = "direct"
)

// Request is one registration attempt. Password lives only for the duration
// of the Provision call.
type Request struct {
	Identifier models.Identifier
	Username   string
	Password   string
}

// String omits the password.
func (r Request) String() string {
	return fmt.Sprintf("%s=%s username=%s", r.Identifier.Kind, r.Identifier.Value, r.Username)
}

// Result describes a created user. Remote results carry the Hub's reply,
// direct results the row that was written.
type Result struct {
	Mode     Mode
	Response *hubclient.RegisterResponse
	User     *models.User
}

// Provisioner creates one user per call. Failures are *common.ProvisionError
// values of kind ErrValidation, ErrDuplicate, ErrTransport or ErrStorage.
type Provisioner interface {
	Provision(ctx context.Context, req Request) (*Result, error)
}
