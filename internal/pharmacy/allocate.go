package pharmacy

import (
	"sort"
	"time"
)

// Deduction is one planned draw against a batch.
type Deduction struct {
	BatchID  string
	Quantity int
}

// planAllocation walks the eligible batches oldest-received first (ties
// broken by soonest expiry) and plans deductions until the need is met.
// If the eligible total cannot cover the need it fails without planning
// anything; partial dispenses are never allowed.
func planAllocation(batches []*Batch, need int, asOf time.Time) ([]Deduction, error) {
	if need < 1 {
		return nil, ErrInvalidQuantity
	}

	eligible := make([]*Batch, 0, len(batches))
	total := 0
	for _, b := range batches {
		if b.Quantity > 0 && !b.Expired(asOf) {
			eligible = append(eligible, b)
			total += b.Quantity
		}
	}
	if total < need {
		return nil, ErrInsufficientInventory
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		if !eligible[i].CreatedAt.Equal(eligible[j].CreatedAt) {
			return eligible[i].CreatedAt.Before(eligible[j].CreatedAt)
		}
		return eligible[i].ExpiryDate.Before(eligible[j].ExpiryDate)
	})

	var plan []Deduction
	remaining := need
	for _, b := range eligible {
		take := b.Quantity
		if take > remaining {
			take = remaining
		}
		plan = append(plan, Deduction{BatchID: b.ID, Quantity: take})
		remaining -= take
		if remaining == 0 {
			break
		}
	}
	return plan, nil
}
