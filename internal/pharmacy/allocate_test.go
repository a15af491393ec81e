package pharmacy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPlanAllocationFIFOByReceipt(t *testing.T) {
	// The older lot expires later than the newer one; receipt order still
	// wins, expiry only breaks ties.
	batches := []*Batch{
		{ID: "b1", Quantity: 5, CreatedAt: date(2026, time.January, 1), ExpiryDate: date(2026, time.March, 1)},
		{ID: "b2", Quantity: 10, CreatedAt: date(2026, time.January, 2), ExpiryDate: date(2026, time.February, 1)},
	}
	asOf := date(2026, time.January, 15)

	plan, err := planAllocation(batches, 8, asOf)
	require.NoError(t, err)
	require.Len(t, plan, 2)
	assert.Equal(t, Deduction{BatchID: "b1", Quantity: 5}, plan[0])
	assert.Equal(t, Deduction{BatchID: "b2", Quantity: 3}, plan[1])
}

func TestPlanAllocationExpiryBreaksTies(t *testing.T) {
	received := date(2026, time.January, 1)
	batches := []*Batch{
		{ID: "late", Quantity: 4, CreatedAt: received, ExpiryDate: date(2026, time.June, 1)},
		{ID: "soon", Quantity: 4, CreatedAt: received, ExpiryDate: date(2026, time.February, 1)},
	}

	plan, err := planAllocation(batches, 4, date(2026, time.January, 15))
	require.NoError(t, err)
	require.Len(t, plan, 1)
	assert.Equal(t, "soon", plan[0].BatchID)
}

func TestPlanAllocationSkipsExpiredAndEmpty(t *testing.T) {
	batches := []*Batch{
		{ID: "expired", Quantity: 50, CreatedAt: date(2026, time.January, 1), ExpiryDate: date(2026, time.January, 10)},
		{ID: "empty", Quantity: 0, CreatedAt: date(2026, time.January, 2), ExpiryDate: date(2026, time.June, 1)},
		{ID: "good", Quantity: 6, CreatedAt: date(2026, time.January, 3), ExpiryDate: date(2026, time.June, 1)},
	}
	asOf := date(2026, time.January, 15)

	plan, err := planAllocation(batches, 6, asOf)
	require.NoError(t, err)
	require.Len(t, plan, 1)
	assert.Equal(t, "good", plan[0].BatchID)

	// Expired stock does not count toward the total.
	_, err = planAllocation(batches, 7, asOf)
	assert.ErrorIs(t, err, ErrInsufficientInventory)
}

func TestPlanAllocationExpiryBoundary(t *testing.T) {
	// A batch expiring exactly at asOf is already unusable.
	batches := []*Batch{
		{ID: "b1", Quantity: 5, CreatedAt: date(2026, time.January, 1), ExpiryDate: date(2026, time.January, 15)},
	}
	_, err := planAllocation(batches, 1, date(2026, time.January, 15))
	assert.ErrorIs(t, err, ErrInsufficientInventory)
}

func TestPlanAllocationInvalidQuantity(t *testing.T) {
	_, err := planAllocation(nil, 0, time.Now())
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}
