package services

import (
	"context"

	"github.com/cozy-creator/hubuser/internal/hubclient"
	"github.com/cozy-creator/hubuser/internal/logging"
	"github.com/cozy-creator/hubuser/internal/validation"
)

// Registrar sends a registration to the Hub. *hubclient.Client implements it.
type Registrar interface {
	Register(ctx context.Context, req hubclient.RegisterRequest) (*hubclient.RegisterResponse, error)
}

// RemoteProvisioner registers users through the Hub's public API. The Hub
// owns hashing, uniqueness and persistence; local validation only saves a
// round trip.
type RemoteProvisioner struct {
	client Registrar
	log    logging.Logger
}

func NewRemoteProvisioner(client Registrar, log logging.Logger) *RemoteProvisioner {
	if log == nil {
		log = logging.Discard()
	}
	return &RemoteProvisioner{client: client, log: log.With("mode", ModeRemote)}
}

// Provision validates req and sends exactly one registration request.
func (p *RemoteProvisioner) Provision(ctx context.Context, req Request) (*Result, error) {
	if err := validation.ValidateRequest(req.Identifier, req.Username, req.Password); err != nil {
		return nil, err
	}

	resp, err := p.client.Register(ctx, hubclient.RegisterRequest{
		Identifier: req.Identifier.Value,
		Username:   req.Username,
		Password:   req.Password,
	})
	if err != nil {
		p.log.Debug(ctx, "registration failed", "username", req.Username, "error", err)
		return nil, err
	}

	p.log.Info(ctx, "user registered", "username", req.Username, "status", resp.StatusCode)
	return &Result{Mode: ModeRemote, Response: resp}, nil
}
