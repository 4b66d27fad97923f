package whatsapp

import (
	"time"

	"github.com/google/uuid"
)

// Queue tuning
const (
	DefaultMaxRetries = 3
	QueueBatchSize    = 10
	BaseRetryDelay    = time.Second

	// ClaimLease is how long a claimed row may sit in processing before
	// another run takes it back
	ClaimLease = 5 * time.Minute
)

// QueueStatus is the state of a queue row
type QueueStatus string

const (
	QueueQueued     QueueStatus = "queued"
	QueueProcessing QueueStatus = "processing"
	QueueDone       QueueStatus = "done"
	QueueFailed     QueueStatus = "failed"
	QueuePaused     QueueStatus = "paused"
)

// QueuedMessage is a pending provider send
type QueuedMessage struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	MessageID   uuid.UUID
	InstanceID  uuid.UUID
	CampaignID  *uuid.UUID
	RecipientID *uuid.UUID
	ChatID      string
	Body        string
	Priority    int
	RetryCount  int
	MaxRetries  int
	Status      QueueStatus
	ScheduledAt time.Time
	LastError   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewQueuedMessage queues a message for delivery at scheduledAt
func NewQueuedMessage(msg *Message, priority int, scheduledAt time.Time) *QueuedMessage {
	now := time.Now()
	return &QueuedMessage{
		ID:          uuid.New(),
		TenantID:    msg.TenantID,
		MessageID:   msg.ID,
		InstanceID:  msg.InstanceID,
		CampaignID:  msg.CampaignID,
		ChatID:      msg.ChatID,
		Body:        msg.Body,
		Priority:    priority,
		MaxRetries:  DefaultMaxRetries,
		Status:      QueueQueued,
		ScheduledAt: scheduledAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Backoff returns the delay before retry number attempt (0-based)
func Backoff(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	if attempt > 10 {
		attempt = 10
	}
	return BaseRetryDelay << uint(attempt)
}

// Fail records a failed send. It returns true when the row is exhausted.
func (q *QueuedMessage) Fail(reason string, now time.Time) bool {
	q.LastError = reason
	q.UpdatedAt = now
	attempt := q.RetryCount
	q.RetryCount++
	if q.RetryCount >= q.MaxRetries {
		q.Status = QueueFailed
		return true
	}
	q.Status = QueueQueued
	q.ScheduledAt = now.Add(Backoff(attempt))
	return false
}

// Reschedule defers the row without consuming a retry
func (q *QueuedMessage) Reschedule(reason string, at time.Time) {
	q.LastError = reason
	q.Status = QueueQueued
	q.ScheduledAt = at
	q.UpdatedAt = time.Now()
}

// Complete marks the row delivered to the provider
func (q *QueuedMessage) Complete(now time.Time) {
	q.Status = QueueDone
	q.LastError = ""
	q.UpdatedAt = now
}

// IsDue reports whether the row should be sent at now
func (q *QueuedMessage) IsDue(now time.Time) bool {
	return q.Status == QueueQueued && !q.ScheduledAt.After(now)
}
