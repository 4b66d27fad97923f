package integration

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	whatsappapp "github.com/lats/backend/internal/application/whatsapp"
	"github.com/lats/backend/internal/domain/identity"
	"github.com/lats/backend/internal/domain/whatsapp"
	"github.com/lats/backend/internal/interfaces/http/dto"
	"github.com/lats/backend/internal/interfaces/http/handler"
	"github.com/lats/backend/tests/testutil"
)

func TestWhatsAppSendAndDeliveryFlow(t *testing.T) {
	tdb := NewSharedTestDB(t)
	tdb.CleanTables()
	app := newTestApp(t, tdb)
	green := newFakeGreenAPI(t)

	owner := app.seedStaff(t, uuid.New(), "owner", identity.RoleAdmin)

	inst := testutil.DataAs[whatsappapp.InstanceResponse](t,
		owner.Do(t, http.MethodPost, "/api/v1/whatsapp/instances", map[string]any{
			"name":        "Front desk",
			"instance_id": "1101823456",
			"api_token":   "token-abc",
			"host":        green.URL,
			"is_default":  true,
		}), http.StatusCreated)
	assert.Equal(t, whatsapp.InstanceConnected, inst.Status)

	queued := testutil.DataAs[whatsappapp.MessageResponse](t,
		owner.Do(t, http.MethodPost, "/api/v1/whatsapp/messages", map[string]any{
			"to":   "0712345678",
			"body": "Simu yako iko tayari",
		}), http.StatusAccepted)
	assert.Equal(t, whatsapp.MessagePending, queued.Status)
	assert.Equal(t, "255712345678@c.us", queued.ChatID)

	run := testutil.DataAs[handler.QueueRunResponse](t,
		owner.Do(t, http.MethodPost, "/api/v1/whatsapp/queue/process", nil), http.StatusOK)
	assert.Equal(t, 1, run.Processed)
	assert.EqualValues(t, 1, green.sends.Load())

	messagePath := "/api/v1/whatsapp/messages/" + queued.ID.String()
	sent := testutil.DataAs[whatsappapp.MessageResponse](t, owner.Do(t, http.MethodGet, messagePath, nil), http.StatusOK)
	assert.Equal(t, whatsapp.MessageSent, sent.Status)
	assert.Equal(t, "BAE5-1", sent.ProviderMessageID)

	webhook := []byte(fmt.Sprintf(`{
		"typeWebhook": "outgoingMessageStatus",
		"instanceData": {"idInstance": 1101823456, "wid": "255700000000@c.us", "typeInstance": "whatsapp"},
		"timestamp": %d,
		"idMessage": "BAE5-1",
		"status": "delivered"
	}`, time.Now().Unix()))
	hookPath := "/api/v1/webhooks/whatsapp/1101823456"

	t.Run("rejects notifications without the token", func(t *testing.T) {
		testutil.AssertErrorCode(t, app.Client.Do(t, http.MethodPost, hookPath, webhook),
			http.StatusUnauthorized, dto.ErrCodeUnauthorized)
	})

	t.Run("rejects a notification posted for another instance", func(t *testing.T) {
		hook := app.Client.WithToken(webhookToken)
		testutil.AssertErrorCode(t, hook.Do(t, http.MethodPost, "/api/v1/webhooks/whatsapp/1101999999", webhook),
			http.StatusNotFound, "INSTANCE_NOT_FOUND")
	})

	t.Run("applies a delivery receipt once", func(t *testing.T) {
		hook := app.Client.WithToken(webhookToken)

		first := testutil.DataAs[whatsappapp.WebhookResult](t, hook.Do(t, http.MethodPost, hookPath, webhook), http.StatusOK)
		assert.False(t, first.Duplicate)

		again := testutil.DataAs[whatsappapp.WebhookResult](t, hook.Do(t, http.MethodPost, hookPath, webhook), http.StatusOK)
		assert.True(t, again.Duplicate)

		delivered := testutil.DataAs[whatsappapp.MessageResponse](t, owner.Do(t, http.MethodGet, messagePath, nil), http.StatusOK)
		assert.Equal(t, whatsapp.MessageDelivered, delivered.Status)
	})

	t.Run("empty queue sends nothing", func(t *testing.T) {
		run := testutil.DataAs[handler.QueueRunResponse](t,
			owner.Do(t, http.MethodPost, "/api/v1/whatsapp/queue/process", nil), http.StatusOK)
		assert.Zero(t, run.Processed)
		assert.EqualValues(t, 1, green.sends.Load())
	})
}
