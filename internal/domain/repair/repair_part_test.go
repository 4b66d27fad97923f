package repair

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPart(t *testing.T) *RepairPart {
	t.Helper()
	p, err := NewRepairPart(uuid.New(), uuid.New(), uuid.New(), 2, decimal.NewFromInt(15000), "")
	require.NoError(t, err)
	return p
}

func TestNewRepairPart(t *testing.T) {
	p := newTestPart(t)
	assert.Equal(t, PartStatusNeeded, p.Status)
	assert.True(t, p.TotalCost.Equal(decimal.NewFromInt(30000)))
	assert.Len(t, p.GetDomainEvents(), 1)

	_, err := NewRepairPart(uuid.New(), uuid.New(), uuid.New(), 0, decimal.Zero, "")
	require.Error(t, err)
	_, err = NewRepairPart(uuid.New(), uuid.Nil, uuid.New(), 1, decimal.Zero, "")
	require.Error(t, err)
	_, err = NewRepairPart(uuid.New(), uuid.New(), uuid.New(), 1, decimal.NewFromInt(-5), "")
	require.Error(t, err)
}

func TestPartStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to PartStatus
		want     bool
	}{
		{PartStatusNeeded, PartStatusOrdered, true},
		{PartStatusNeeded, PartStatusReceived, true},
		{PartStatusOrdered, PartStatusAccepted, true},
		{PartStatusAccepted, PartStatusReceived, true},
		{PartStatusReceived, PartStatusOrdered, false},
		{PartStatusOrdered, PartStatusNeeded, false},
		{PartStatusReceived, PartStatusUsed, false},
		{PartStatusUsed, PartStatusReceived, false},
		{PartStatusNeeded, PartStatus("lost"), false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestRepairPart_Lifecycle(t *testing.T) {
	p := newTestPart(t)

	require.NoError(t, p.ChangeStatus(PartStatusOrdered))
	require.NoError(t, p.ChangeStatus(PartStatusOrdered), "same status is a no-op")
	require.Error(t, p.ChangeStatus(PartStatusNeeded))
	require.Error(t, p.ChangeStatus(PartStatusUsed))
	require.NoError(t, p.ChangeStatus(PartStatusReceived))

	require.NoError(t, p.Update(3, decimal.NewFromInt(10000), "bigger order"))
	assert.True(t, p.TotalCost.Equal(decimal.NewFromInt(30000)))

	require.NoError(t, p.MarkUsed(time.Now()))
	assert.Equal(t, 3, p.QuantityUsed)
	assert.False(t, p.CanDelete())
	require.Error(t, p.MarkUsed(time.Now()))
	require.Error(t, p.Update(1, decimal.Zero, ""))
}

func TestComputeStats(t *testing.T) {
	parts := make([]RepairPart, 0, 3)
	for i := 0; i < 3; i++ {
		parts = append(parts, *newTestPart(t))
	}
	require.NoError(t, parts[0].MarkUsed(time.Now()))
	require.NoError(t, parts[1].ChangeStatus(PartStatusOrdered))

	stats := ComputeStats(parts)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.ByStatus[PartStatusUsed])
	assert.Equal(t, 1, stats.ByStatus[PartStatusOrdered])
	assert.Equal(t, 1, stats.ByStatus[PartStatusNeeded])
	assert.Equal(t, 0, stats.ByStatus[PartStatusAccepted])
	assert.Equal(t, 33, stats.Progress)
	assert.True(t, stats.TotalCost.Equal(decimal.NewFromInt(90000)))

	assert.Equal(t, 0, ComputeStats(nil).Progress)
}
