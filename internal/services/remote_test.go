package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cozy-creator/hubuser/internal/common"
	"github.com/cozy-creator/hubuser/internal/hubclient"
	"github.com/cozy-creator/hubuser/internal/models"
)

type fakeRegistrar struct {
	resp  *hubclient.RegisterResponse
	err   error
	calls []hubclient.RegisterRequest
}

func (f *fakeRegistrar) Register(_ context.Context, req hubclient.RegisterRequest) (*hubclient.RegisterResponse, error) {
	f.calls = append(f.calls, req)
	return f.resp, f.err
}

func TestRemoteProvision_Success(t *testing.T) {
	reg := &fakeRegistrar{resp: &hubclient.RegisterResponse{StatusCode: 201, Body: map[string]any{"id": "abc"}}}
	p := NewRemoteProvisioner(reg, nil)

	res, err := p.Provision(context.Background(), Request{
		Identifier: models.PhoneIdentifier("+14155551234"),
		Username:   "validuser",
		Password:   "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, ModeRemote, res.Mode)
	assert.Equal(t, "abc", res.Response.Body["id"])

	require.Len(t, reg.calls, 1)
	assert.Equal(t, hubclient.RegisterRequest{
		Identifier: "+14155551234",
		Username:   "validuser",
		Password:   "password123",
	}, reg.calls[0])
}

func TestRemoteProvision_ValidationIsPreflight(t *testing.T) {
	reg := &fakeRegistrar{}
	p := NewRemoteProvisioner(reg, nil)

	_, err := p.Provision(context.Background(), Request{
		Identifier: models.EmailIdentifier("new@example.com"),
		Username:   "abc",
		Password:   "password123",
	})
	require.ErrorIs(t, err, common.ErrValidation)
	assert.Empty(t, reg.calls)
}

func TestRemoteProvision_PropagatesHubError(t *testing.T) {
	hubErr := common.NewDuplicateError(common.FieldUsername, "username taken", nil)
	reg := &fakeRegistrar{err: hubErr}
	p := NewRemoteProvisioner(reg, nil)

	_, err := p.Provision(context.Background(), Request{
		Identifier: models.EmailIdentifier("new@example.com"),
		Username:   "validuser",
		Password:   "password123",
	})
	require.True(t, errors.Is(err, common.ErrDuplicate))
	assert.Len(t, reg.calls, 1)
}

func TestRequest_StringOmitsPassword(t *testing.T) {
	r := Request{Identifier: models.EmailIdentifier("new@example.com"), Username: "validuser", Password: "password123"}
	assert.NotContains(t, r.String(), "password123")
	assert.Contains(t, r.String(), "validuser")
}
