package whatsapp

import (
	"crypto/subtle"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lats/backend/internal/domain/shared"
)

// DefaultHost is the Green API base URL used when an instance names none
const DefaultHost = "https://api.green-api.com"

// InstanceStatus is the connection state of a provider account
type InstanceStatus string

const (
	InstanceConnected    InstanceStatus = "connected"
	InstanceDisconnected InstanceStatus = "disconnected"
	InstanceConnecting   InstanceStatus = "connecting"
	InstanceError        InstanceStatus = "error"
)

// StatusFromProviderState maps a Green API stateInstance value
func StatusFromProviderState(state string) InstanceStatus {
	switch state {
	case "authorized":
		return InstanceConnected
	case "notAuthorized":
		return InstanceDisconnected
	case "starting":
		return InstanceConnecting
	}
	return InstanceError
}

// Instance is a connection handle to one provider account
type Instance struct {
	shared.TenantAggregateRoot
	Name           string
	InstanceID     string
	APIToken       string
	WebhookToken   string
	PhoneNumber    string
	Host           string
	Status         InstanceStatus
	IsDefault      bool
	LastStateCheck *time.Time
	LastState      string
}

// NewInstance registers a provider account
func NewInstance(tenantID uuid.UUID, name, instanceID, apiToken, phone, host string) (*Instance, error) {
	instanceID = strings.TrimSpace(instanceID)
	if instanceID == "" {
		return nil, shared.NewDomainError("INVALID_INSTANCE", "Instance ID cannot be empty")
	}
	if strings.TrimSpace(apiToken) == "" {
		return nil, shared.NewDomainError("INVALID_INSTANCE", "API token cannot be empty")
	}
	host = strings.TrimRight(strings.TrimSpace(host), "/")
	if host == "" {
		host = DefaultHost
	}
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		return nil, shared.NewDomainError("INVALID_INSTANCE", "Host must be an http(s) URL")
	}
	if name = strings.TrimSpace(name); name == "" {
		name = instanceID
	}
	return &Instance{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		InstanceID:          instanceID,
		APIToken:            strings.TrimSpace(apiToken),
		PhoneNumber:         strings.TrimSpace(phone),
		Host:                host,
		Status:              InstanceDisconnected,
	}, nil
}

// AcceptsWebhookToken checks the credential sent with a notification for
// this instance. Instances without their own token fall back to the shared
// one; with neither configured every notification is accepted.
func (i *Instance) AcceptsWebhookToken(presented, fallback string) bool {
	expected := i.WebhookToken
	if expected == "" {
		expected = fallback
	}
	if expected == "" {
		return true
	}
	return subtle.ConstantTimeCompare([]byte(presented), []byte(expected)) == 1
}

// ApplyState records a provider state check
func (i *Instance) ApplyState(state string, at time.Time) {
	i.LastState = state
	i.Status = StatusFromProviderState(state)
	i.LastStateCheck = &at
	i.Touch()
}

// MarkError flags the instance after a failed state check
func (i *Instance) MarkError(at time.Time) {
	i.Status = InstanceError
	i.LastStateCheck = &at
	i.Touch()
}

// IsConnected reports whether messages can be sent
func (i *Instance) IsConnected() bool {
	return i.Status == InstanceConnected
}
