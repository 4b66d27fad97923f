package whatsapp

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFromProviderState(t *testing.T) {
	assert.Equal(t, InstanceConnected, StatusFromProviderState("authorized"))
	assert.Equal(t, InstanceDisconnected, StatusFromProviderState("notAuthorized"))
	assert.Equal(t, InstanceConnecting, StatusFromProviderState("starting"))
	assert.Equal(t, InstanceError, StatusFromProviderState("blocked"))
	assert.Equal(t, InstanceError, StatusFromProviderState("sleepMode"))
}

func TestNewInstance(t *testing.T) {
	inst, err := NewInstance(uuid.New(), "", " 1101000001 ", "tok", "+255712000111", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultHost, inst.Host)
	assert.Equal(t, "1101000001", inst.Name)
	assert.Equal(t, InstanceDisconnected, inst.Status)

	inst.ApplyState("authorized", time.Now())
	assert.True(t, inst.IsConnected())

	_, err = NewInstance(uuid.New(), "", "", "tok", "", "")
	require.Error(t, err)
	_, err = NewInstance(uuid.New(), "", "1", "tok", "", "ftp://x")
	require.Error(t, err)
}

func TestNormalizeChatID(t *testing.T) {
	tests := []struct {
		in, want string
		wantErr  bool
	}{
		{"+255 712-000-111", "255712000111@c.us", false},
		{"0712000111", "255712000111@c.us", false},
		{"255712000111@c.us", "255712000111@c.us", false},
		{"120363000000@g.us", "120363000000@g.us", false},
		{"255712000111-1600000000@g.us", "255712000111-1600000000@g.us", false},
		{"123", "", true},
		{"١٢٣٤٥٦٧٨٩٠", "", true},
		{"0712٠١٢000", "255712000@c.us", false},
		{"@c.us", "", true},
		{"bob@c.us", "", true},
		{"255 712 000 111@c.us", "", true},
		{"٢٥٥712000111@c.us", "", true},
		{"1234@c.us", "", true},
		{"@g.us", "", true},
		{"team-a@g.us", "", true},
		{"120363-@g.us", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeChatID(tt.in, "255")
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMessage_Transition(t *testing.T) {
	msg, err := NewOutboundMessage(uuid.New(), uuid.New(), "255712000111@c.us", "Hello", time.Now())
	require.NoError(t, err)
	assert.Equal(t, MessagePending, msg.Status)

	msg.MarkSent("BAE5F4886AD4A6F1", time.Now())
	assert.Equal(t, MessageSent, msg.Status)
	assert.True(t, msg.Transition(MessageRead, time.Now()))
	assert.NotNil(t, msg.ReadAt)
	assert.False(t, msg.Transition(MessageDelivered, time.Now()), "late delivery callback is ignored")

	_, err = NewOutboundMessage(uuid.New(), uuid.New(), "x@c.us", "   ", time.Now())
	require.Error(t, err)
}

func TestMessage_MarkRetrying(t *testing.T) {
	msg, err := NewOutboundMessage(uuid.New(), uuid.New(), "255712000111@c.us", "Hello", time.Now())
	require.NoError(t, err)
	require.True(t, msg.Transition(MessageSending, time.Now()))

	msg.MarkRetrying("timeout")
	assert.Equal(t, MessagePending, msg.Status)
	assert.Equal(t, "timeout", msg.Error)
	assert.True(t, msg.Transition(MessageSending, time.Now()))
}

func TestQueuedMessage_Fail(t *testing.T) {
	msg, err := NewOutboundMessage(uuid.New(), uuid.New(), "255712000111@c.us", "Hello", time.Now())
	require.NoError(t, err)
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	row := NewQueuedMessage(msg, 0, now)
	assert.True(t, row.IsDue(now))

	assert.False(t, row.Fail("timeout", now))
	assert.Equal(t, now.Add(time.Second), row.ScheduledAt)
	assert.False(t, row.IsDue(now))

	assert.False(t, row.Fail("timeout", now))
	assert.Equal(t, now.Add(2*time.Second), row.ScheduledAt)

	assert.True(t, row.Fail("timeout", now))
	assert.Equal(t, QueueFailed, row.Status)
	assert.Equal(t, 3, row.RetryCount)

	assert.Equal(t, 4*time.Second, Backoff(2))
}

func TestTemplate_Render(t *testing.T) {
	tpl, err := NewTemplate(uuid.New(), "Receipt", "sales", "Hi {{name}}, sale {{ sale_number }} of {{total}}. Thanks {{name}}!")
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "sale_number", "total"}, tpl.Variables)

	out, err := tpl.Render(map[string]string{"name": "Asha", "sale_number": "SALE-1", "total": "10,000 TZS"})
	require.NoError(t, err)
	assert.Equal(t, "Hi Asha, sale SALE-1 of 10,000 TZS. Thanks Asha!", out)

	_, err = tpl.Render(map[string]string{"name": "Asha"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sale_number, total")
}

func TestCampaign_Lifecycle(t *testing.T) {
	c, err := NewCampaign(uuid.New(), uuid.New(), "Promo", "Hi {{name}}", nil)
	require.NoError(t, err)

	_, err = c.Start(time.Now())
	require.Error(t, err, "no recipients")

	require.NoError(t, c.AddRecipient("255712000111", "A", nil))
	require.NoError(t, c.AddRecipient("255712000111", "A again", nil))
	require.NoError(t, c.AddRecipient("255712000222", "B", nil))
	require.Len(t, c.Recipients, 2)

	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	schedule, err := c.Start(now)
	require.NoError(t, err)
	assert.Equal(t, now, schedule[c.Recipients[0].ID])
	assert.Equal(t, now.Add(2*time.Second), schedule[c.Recipients[1].ID])
	assert.Equal(t, CampaignSending, c.Status)

	c.RecordOutcome(c.Recipients[0].ID, true, "", now)
	c.RecordOutcome(c.Recipients[0].ID, false, "dup", now)
	assert.Equal(t, 1, c.SentCount)
	assert.Equal(t, CampaignSending, c.Status)

	c.RecordOutcome(c.Recipients[1].ID, false, "no account", now)
	assert.Equal(t, CampaignCompleted, c.Status)
	assert.Equal(t, 1, c.FailedCount)
	assert.NotNil(t, c.CompletedAt)
}

func TestCampaign_AllFailed(t *testing.T) {
	c, err := NewCampaign(uuid.New(), uuid.New(), "Promo", "Hi", nil)
	require.NoError(t, err)
	require.NoError(t, c.AddRecipient("255712000111", "A", nil))
	_, err = c.Start(time.Now())
	require.NoError(t, err)

	require.NoError(t, c.Pause())
	assert.Equal(t, CampaignPaused, c.Status)
	_, err = c.Start(time.Now())
	require.NoError(t, err)

	c.RecordOutcome(c.Recipients[0].ID, false, "boom", time.Now())
	assert.Equal(t, CampaignFailed, c.Status)
	require.Error(t, c.Pause())
}

func TestWebhookPayload(t *testing.T) {
	raw := `{
		"typeWebhook": "incomingMessageReceived",
		"instanceData": {"idInstance": 1101000001, "wid": "255712000000@c.us", "typeInstance": "whatsapp"},
		"timestamp": 1709287200,
		"idMessage": "F7AEC1B7086ECDC7E6E45923F5EDB825",
		"senderData": {"chatId": "255712000111@c.us", "sender": "255712000111@c.us", "senderName": "Asha"},
		"messageData": {"typeMessage": "textMessage", "textMessageData": {"textMessage": "Is my phone ready?"}}
	}`
	var p WebhookPayload
	require.NoError(t, json.Unmarshal([]byte(raw), &p))
	assert.Equal(t, WebhookIncomingMessage, p.TypeWebhook)
	assert.Equal(t, "1101000001", p.InstanceData.IDInstance.String())
	assert.Equal(t, "Is my phone ready?", p.Text())
	assert.Equal(t, time.Unix(1709287200, 0), p.OccurredAt(time.Now()))
	assert.Equal(t, p.IdempotencyKey("1"), p.IdempotencyKey("1"))
	assert.NotEqual(t, p.IdempotencyKey("1"), p.IdempotencyKey("2"))

	st, ok := StatusFromDelivery("read")
	assert.True(t, ok)
	assert.Equal(t, MessageRead, st)
	_, ok = StatusFromDelivery("weird")
	assert.False(t, ok)
}

func TestCachedChat_IsFresh(t *testing.T) {
	now := time.Now()
	c := &CachedChat{LoadedAt: now.Add(-10 * time.Second)}
	assert.True(t, c.IsFresh(now, ChatCacheTTL))
	c.LoadedAt = now.Add(-31 * time.Second)
	assert.False(t, c.IsFresh(now, ChatCacheTTL))
	var nilChat *CachedChat
	assert.False(t, nilChat.IsFresh(now, ChatCacheTTL))
}
