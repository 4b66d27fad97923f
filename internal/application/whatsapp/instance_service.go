package whatsapp

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lats/backend/internal/domain/shared"
	"github.com/lats/backend/internal/domain/whatsapp"
	"github.com/lats/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// InstanceService manages Green API instances and their connection state
type InstanceService struct {
	instances whatsapp.InstanceRepository
	provider  whatsapp.Provider
	host      string
	logger    *zap.Logger
	now       func() time.Time
}

// NewInstanceService creates a new InstanceService. defaultHost is used
// for instances registered without a host.
func NewInstanceService(instances whatsapp.InstanceRepository, provider whatsapp.Provider, defaultHost string, logger *zap.Logger) *InstanceService {
	return &InstanceService{
		instances: instances,
		provider:  provider,
		host:      defaultHost,
		logger:    logger,
		now:       time.Now,
	}
}

// Create registers an instance and checks its state once. The first
// instance of a shop becomes the default.
func (s *InstanceService) Create(ctx context.Context, tenantID uuid.UUID, input CreateInstanceInput) (*InstanceResponse, error) {
	host := input.Host
	if host == "" {
		host = s.host
	}
	inst, err := whatsapp.NewInstance(tenantID, input.Name, input.InstanceID, input.APIToken, input.PhoneNumber, host)
	if err != nil {
		return nil, err
	}
	inst.WebhookToken = strings.TrimSpace(input.WebhookToken)
	existing, err := s.instances.FindAllForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	for _, e := range existing {
		if e.InstanceID == inst.InstanceID {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Instance "+inst.InstanceID+" is already registered")
		}
	}
	inst.IsDefault = input.IsDefault || len(existing) == 0

	s.checkState(ctx, inst)
	if err := s.instances.Save(ctx, inst); err != nil {
		return nil, err
	}
	logger.Ctx(ctx, s.logger).Info("WhatsApp instance registered",
		zap.String("instance_id", inst.InstanceID),
		zap.String("status", string(inst.Status)),
		zap.Bool("is_default", inst.IsDefault),
	)
	resp := ToInstanceResponse(inst)
	return &resp, nil
}

// checkState asks the provider for the state and records it on inst
func (s *InstanceService) checkState(ctx context.Context, inst *whatsapp.Instance) {
	state, err := s.provider.GetState(ctx, inst)
	if err != nil {
		logger.Ctx(ctx, s.logger).Warn("Instance state check failed",
			zap.String("instance_id", inst.InstanceID),
			zap.Error(err),
		)
		inst.MarkError(s.now())
		return
	}
	inst.ApplyState(state, s.now())
}

// List returns the shop's instances
func (s *InstanceService) List(ctx context.Context, tenantID uuid.UUID) ([]InstanceResponse, error) {
	list, err := s.instances.FindAllForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	out := make([]InstanceResponse, len(list))
	for i := range list {
		out[i] = ToInstanceResponse(&list[i])
	}
	return out, nil
}

func (s *InstanceService) load(ctx context.Context, tenantID, id uuid.UUID) (*whatsapp.Instance, error) {
	inst, err := s.instances.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INSTANCE_NOT_FOUND", "WhatsApp instance not found")
		}
		return nil, err
	}
	return inst, nil
}

// Get returns one instance
func (s *InstanceService) Get(ctx context.Context, tenantID, id uuid.UUID) (*InstanceResponse, error) {
	inst, err := s.load(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToInstanceResponse(inst)
	return &resp, nil
}

// RefreshState re-checks an instance with the provider
func (s *InstanceService) RefreshState(ctx context.Context, tenantID, id uuid.UUID) (*InstanceResponse, error) {
	inst, err := s.load(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	s.checkState(ctx, inst)
	if err := s.instances.Save(ctx, inst); err != nil {
		return nil, err
	}
	resp := ToInstanceResponse(inst)
	return &resp, nil
}

// QR fetches the pairing code of an instance that is not yet authorized
func (s *InstanceService) QR(ctx context.Context, tenantID, id uuid.UUID) (*whatsapp.QRCode, error) {
	inst, err := s.load(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return s.provider.QR(ctx, inst)
}

// SetDefault makes an instance the shop's default sender
func (s *InstanceService) SetDefault(ctx context.Context, tenantID, id uuid.UUID) (*InstanceResponse, error) {
	inst, err := s.load(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	inst.IsDefault = true
	inst.Touch()
	if err := s.instances.Save(ctx, inst); err != nil {
		return nil, err
	}
	resp := ToInstanceResponse(inst)
	return &resp, nil
}

// Delete removes an instance
func (s *InstanceService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if err := s.instances.DeleteForTenant(ctx, tenantID, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("INSTANCE_NOT_FOUND", "WhatsApp instance not found")
		}
		return err
	}
	logger.Ctx(ctx, s.logger).Info("WhatsApp instance deleted", zap.String("id", id.String()))
	return nil
}

// Resolve returns the instance with the given ID, or the shop's default
func (s *InstanceService) Resolve(ctx context.Context, tenantID uuid.UUID, id *uuid.UUID) (*whatsapp.Instance, error) {
	if id != nil {
		return s.load(ctx, tenantID, *id)
	}
	inst, err := s.instances.FindDefault(ctx, tenantID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INSTANCE_NOT_FOUND", "No default WhatsApp instance is configured")
		}
		return nil, err
	}
	return inst, nil
}
