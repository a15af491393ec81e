package pharmacy

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/grandoak/hospital-backend/internal/patient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepo applies the same plan the SQL implementation does, all or
// nothing.
type fakeRepo struct {
	drugs     map[string]*Drug
	batches   map[string]*Batch
	dispenses map[string]*Dispense
	nextID    int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		drugs:     make(map[string]*Drug),
		batches:   make(map[string]*Batch),
		dispenses: make(map[string]*Dispense),
	}
}

func (r *fakeRepo) CreateDrug(ctx context.Context, d *Drug) error {
	r.nextID++
	d.ID = fmt.Sprintf("drug-%d", r.nextID)
	d.IsActive = true
	cp := *d
	r.drugs[d.ID] = &cp
	return nil
}

func (r *fakeRepo) GetDrug(ctx context.Context, id string) (*Drug, error) {
	d, ok := r.drugs[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (r *fakeRepo) ListDrugs(ctx context.Context, keyword string, page, pageSize int) ([]*Drug, int, error) {
	var out []*Drug
	for _, d := range r.drugs {
		cp := *d
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (r *fakeRepo) UpdateDrug(ctx context.Context, d *Drug) error {
	if _, ok := r.drugs[d.ID]; !ok {
		return ErrNotFound
	}
	cp := *d
	r.drugs[d.ID] = &cp
	return nil
}

func (r *fakeRepo) CreateBatch(ctx context.Context, b *Batch) error {
	r.nextID++
	b.ID = fmt.Sprintf("batch-%d", r.nextID)
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now()
	}
	cp := *b
	r.batches[b.ID] = &cp
	return nil
}

func (r *fakeRepo) ListBatches(ctx context.Context, drugID string) ([]*Batch, error) {
	var out []*Batch
	for _, b := range r.batches {
		if b.DrugID == drugID {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeRepo) Allocate(ctx context.Context, d *Dispense, asOf time.Time) error {
	var eligible []*Batch
	for _, b := range r.batches {
		if b.DrugID == d.DrugID {
			eligible = append(eligible, b)
		}
	}

	plan, err := planAllocation(eligible, d.Quantity, asOf)
	if err != nil {
		return err
	}

	for _, ded := range plan {
		r.batches[ded.BatchID].Quantity -= ded.Quantity
	}

	r.nextID++
	d.ID = fmt.Sprintf("disp-%d", r.nextID)
	d.CreatedAt = time.Now()
	for _, ded := range plan {
		d.Lines = append(d.Lines, DispenseLine{DispenseID: d.ID, BatchID: ded.BatchID, Quantity: ded.Quantity})
	}
	cp := *d
	r.dispenses[d.ID] = &cp
	return nil
}

func (r *fakeRepo) GetDispense(ctx context.Context, id string) (*Dispense, error) {
	d, ok := r.dispenses[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (r *fakeRepo) ListDispenses(ctx context.Context, drugID string, page, pageSize int) ([]*Dispense, int, error) {
	var out []*Dispense
	for _, d := range r.dispenses {
		cp := *d
		out = append(out, &cp)
	}
	return out, len(out), nil
}

type stubPatients struct {
	patient.Service
	active map[string]bool
}

func (s *stubPatients) Exists(ctx context.Context, id string) (bool, error) {
	return s.active[id], nil
}

func newFixture(t *testing.T) (Service, *fakeRepo, *Drug) {
	t.Helper()

	repo := newFakeRepo()
	svc := NewService(repo, &stubPatients{active: map[string]bool{"patient-1": true}})

	d, err := svc.CreateDrug(context.Background(), CreateDrugRequest{
		Name: "Amoxicillin", GenericName: "amoxicillin", Form: "capsule", Unit: "500mg",
	})
	require.NoError(t, err)
	return svc, repo, d
}

func futureExpiry(months int) time.Time {
	return time.Now().UTC().AddDate(0, months, 0)
}

func TestAllocateAcrossBatches(t *testing.T) {
	svc, repo, d := newFixture(t)
	ctx := context.Background()

	b1, err := svc.AddBatch(ctx, AddBatchRequest{DrugID: d.ID, BatchNumber: "L1", Quantity: 5, ExpiryDate: futureExpiry(3)})
	require.NoError(t, err)
	b2, err := svc.AddBatch(ctx, AddBatchRequest{DrugID: d.ID, BatchNumber: "L2", Quantity: 10, ExpiryDate: futureExpiry(1)})
	require.NoError(t, err)

	// Receipt order decides, not expiry.
	repo.batches[b1.ID].CreatedAt = date(2026, time.January, 1)
	repo.batches[b2.ID].CreatedAt = date(2026, time.January, 2)

	disp, err := svc.Allocate(ctx, AllocateRequest{
		DrugID: d.ID, PatientID: "patient-1", Quantity: 8, DispensedBy: "pharmacist-1",
	})
	require.NoError(t, err)
	require.Len(t, disp.Lines, 2)
	assert.Equal(t, b1.ID, disp.Lines[0].BatchID)
	assert.Equal(t, 5, disp.Lines[0].Quantity)
	assert.Equal(t, b2.ID, disp.Lines[1].BatchID)
	assert.Equal(t, 3, disp.Lines[1].Quantity)

	assert.Equal(t, 0, repo.batches[b1.ID].Quantity)
	assert.Equal(t, 7, repo.batches[b2.ID].Quantity)
}

func TestAllocateInsufficientLeavesStockUntouched(t *testing.T) {
	svc, repo, d := newFixture(t)
	ctx := context.Background()

	b1, err := svc.AddBatch(ctx, AddBatchRequest{DrugID: d.ID, BatchNumber: "L1", Quantity: 5, ExpiryDate: futureExpiry(3)})
	require.NoError(t, err)
	b2, err := svc.AddBatch(ctx, AddBatchRequest{DrugID: d.ID, BatchNumber: "L2", Quantity: 10, ExpiryDate: futureExpiry(1)})
	require.NoError(t, err)

	_, err = svc.Allocate(ctx, AllocateRequest{DrugID: d.ID, Quantity: 20})
	assert.ErrorIs(t, err, ErrInsufficientInventory)

	assert.Equal(t, 5, repo.batches[b1.ID].Quantity)
	assert.Equal(t, 10, repo.batches[b2.ID].Quantity)
	assert.Empty(t, repo.dispenses)
}

func TestAllocateValidation(t *testing.T) {
	svc, _, d := newFixture(t)
	ctx := context.Background()

	_, err := svc.Allocate(ctx, AllocateRequest{DrugID: d.ID, Quantity: 0})
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.Allocate(ctx, AllocateRequest{DrugID: "ghost", Quantity: 1})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Allocate(ctx, AllocateRequest{DrugID: d.ID, PatientID: "ghost", Quantity: 1})
	assert.ErrorIs(t, err, ErrPatientNotFound)
}

func TestAllocateDeactivatedDrug(t *testing.T) {
	svc, _, d := newFixture(t)
	ctx := context.Background()

	_, err := svc.AddBatch(ctx, AddBatchRequest{DrugID: d.ID, BatchNumber: "L1", Quantity: 5, ExpiryDate: futureExpiry(3)})
	require.NoError(t, err)

	require.NoError(t, svc.DeactivateDrug(ctx, d.ID))

	_, err = svc.Allocate(ctx, AllocateRequest{DrugID: d.ID, Quantity: 1})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.AddBatch(ctx, AddBatchRequest{DrugID: d.ID, BatchNumber: "L2", Quantity: 5, ExpiryDate: futureExpiry(3)})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddBatchValidation(t *testing.T) {
	svc, _, d := newFixture(t)
	ctx := context.Background()

	_, err := svc.AddBatch(ctx, AddBatchRequest{DrugID: d.ID, BatchNumber: "L1", Quantity: 0, ExpiryDate: futureExpiry(1)})
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}
