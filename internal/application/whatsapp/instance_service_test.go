package whatsapp

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/lats/backend/internal/domain/whatsapp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestInstanceService_Create(t *testing.T) {
	f := newWAFixture(t)
	ctx := context.Background()
	f.provider.On("GetState", mock.Anything, mock.MatchedBy(func(i *whatsapp.Instance) bool {
		return i.InstanceID == "1101000001"
	})).Return("authorized", nil)
	f.provider.On("GetState", mock.Anything, mock.MatchedBy(func(i *whatsapp.Instance) bool {
		return i.InstanceID == "1101000002"
	})).Return("", errors.New("connection refused"))

	first, err := f.instanceSvc.Create(ctx, f.tenantID, CreateInstanceInput{InstanceID: "1101000001", APIToken: "tok"})
	require.NoError(t, err)
	assert.True(t, first.IsDefault, "first instance becomes the default")
	assert.Equal(t, whatsapp.InstanceConnected, first.Status)
	assert.Equal(t, whatsapp.DefaultHost, first.Host)
	assert.Equal(t, "1101000001", first.Name)

	second, err := f.instanceSvc.Create(ctx, f.tenantID, CreateInstanceInput{
		Name: "Workshop", InstanceID: "1101000002", APIToken: "tok", Host: "https://7103.api.greenapi.com/",
	})
	require.NoError(t, err)
	assert.False(t, second.IsDefault)
	assert.Equal(t, whatsapp.InstanceError, second.Status)
	assert.Equal(t, "https://7103.api.greenapi.com", second.Host)

	_, err = f.instanceSvc.Create(ctx, f.tenantID, CreateInstanceInput{InstanceID: "1101000001", APIToken: "tok"})
	assertCode(t, err, "ALREADY_EXISTS")

	_, err = f.instanceSvc.Create(ctx, f.tenantID, CreateInstanceInput{InstanceID: "1101000003"})
	assertCode(t, err, "INVALID_INSTANCE")
}

func TestInstanceService_ResolveAndSetDefault(t *testing.T) {
	f := newWAFixture(t)
	ctx := context.Background()
	a := f.addInstance(t, "1101000001", "authorized", true)
	b := f.addInstance(t, "1101000002", "authorized", false)

	got, err := f.instanceSvc.Resolve(ctx, f.tenantID, nil)
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)

	got, err = f.instanceSvc.Resolve(ctx, f.tenantID, &b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)

	_, err = f.instanceSvc.SetDefault(ctx, f.tenantID, b.ID)
	require.NoError(t, err)
	got, err = f.instanceSvc.Resolve(ctx, f.tenantID, nil)
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)

	list, err := f.instanceSvc.List(ctx, f.tenantID)
	require.NoError(t, err)
	defaults := 0
	for _, i := range list {
		if i.IsDefault {
			defaults++
		}
	}
	assert.Equal(t, 1, defaults)

	_, err = f.instanceSvc.Resolve(ctx, f.tenantID, ptrUUID(uuid.New()))
	assertCode(t, err, "INSTANCE_NOT_FOUND")
}

func TestInstanceService_RefreshStateAndQR(t *testing.T) {
	f := newWAFixture(t)
	ctx := context.Background()
	inst := f.addInstance(t, "1101000001", "notAuthorized", true)
	f.provider.On("GetState", mock.Anything, mock.Anything).Return("starting", nil).Once()
	f.provider.On("QR", mock.Anything, mock.Anything).Return(&whatsapp.QRCode{Type: "qrCode", Message: "iVBOR"}, nil)

	resp, err := f.instanceSvc.RefreshState(ctx, f.tenantID, inst.ID)
	require.NoError(t, err)
	assert.Equal(t, whatsapp.InstanceConnecting, resp.Status)
	assert.NotNil(t, resp.LastStateCheck)

	qr, err := f.instanceSvc.QR(ctx, f.tenantID, inst.ID)
	require.NoError(t, err)
	assert.Equal(t, "qrCode", qr.Type)

	require.NoError(t, f.instanceSvc.Delete(ctx, f.tenantID, inst.ID))
	assertCode(t, f.instanceSvc.Delete(ctx, f.tenantID, inst.ID), "INSTANCE_NOT_FOUND")
	_, err = f.instanceSvc.Get(ctx, f.tenantID, inst.ID)
	assertCode(t, err, "INSTANCE_NOT_FOUND")
}
