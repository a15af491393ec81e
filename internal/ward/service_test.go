package ward

import (
	"context"
	"fmt"
	"testing"

	"github.com/grandoak/hospital-backend/internal/resource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRegistry struct {
	statuses map[string]resource.Status
}

func (r *fakeRegistry) GetStatus(ctx context.Context, kind resource.Kind, id string) (resource.Status, error) {
	s, ok := r.statuses[id]
	if !ok {
		return "", resource.ErrNotFound
	}
	return s, nil
}

func (r *fakeRegistry) Transition(ctx context.Context, kind resource.Kind, id string, from, to resource.Status) error {
	if r.statuses[id] != from || !resource.CanTransition(kind, from, to) {
		return resource.ErrInvalidTransition
	}
	r.statuses[id] = to
	return nil
}

func (r *fakeRegistry) TransitionTx(ctx context.Context, q resource.Querier, kind resource.Kind, id string, from, to resource.Status) error {
	return r.Transition(ctx, kind, id, from, to)
}

type fakeRepo struct {
	registry *fakeRegistry
	wards    map[string]*Ward
	beds     map[string]*Bed
	nextID   int
}

func newFakeRepo(reg *fakeRegistry) *fakeRepo {
	return &fakeRepo{registry: reg, wards: make(map[string]*Ward), beds: make(map[string]*Bed)}
}

func (r *fakeRepo) CreateWard(ctx context.Context, w *Ward) error {
	r.nextID++
	w.ID = fmt.Sprintf("ward-%d", r.nextID)
	w.IsActive = true
	cp := *w
	r.wards[w.ID] = &cp
	return nil
}

func (r *fakeRepo) GetWard(ctx context.Context, id string) (*Ward, error) {
	w, ok := r.wards[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *w
	return &cp, nil
}

func (r *fakeRepo) ListWards(ctx context.Context, page, pageSize int) ([]*Ward, int, error) {
	var out []*Ward
	for _, w := range r.wards {
		cp := *w
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (r *fakeRepo) UpdateWard(ctx context.Context, w *Ward) error {
	if _, ok := r.wards[w.ID]; !ok {
		return ErrNotFound
	}
	cp := *w
	r.wards[w.ID] = &cp
	return nil
}

func (r *fakeRepo) CreateBed(ctx context.Context, b *Bed) error {
	r.nextID++
	b.ID = fmt.Sprintf("bed-%d", r.nextID)
	b.Status = resource.StatusAvailable
	b.IsActive = true
	cp := *b
	r.beds[b.ID] = &cp
	r.registry.statuses[b.ID] = resource.StatusAvailable
	return nil
}

func (r *fakeRepo) GetBed(ctx context.Context, id string) (*Bed, error) {
	b, ok := r.beds[id]
	if !ok {
		return nil, ErrBedNotFound
	}
	cp := *b
	cp.Status = r.registry.statuses[id]
	return &cp, nil
}

func (r *fakeRepo) ListBeds(ctx context.Context, wardID string) ([]*Bed, error) {
	var out []*Bed
	for _, b := range r.beds {
		if b.WardID == wardID {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeRepo) UpdateBed(ctx context.Context, b *Bed) error {
	if _, ok := r.beds[b.ID]; !ok {
		return ErrBedNotFound
	}
	cp := *b
	r.beds[b.ID] = &cp
	return nil
}

func (r *fakeRepo) ActiveBedCount(ctx context.Context, wardID string) (int, error) {
	count := 0
	for _, b := range r.beds {
		if b.WardID == wardID && b.IsActive {
			count++
		}
	}
	return count, nil
}

func (r *fakeRepo) AdjustOccupancy(ctx context.Context, q resource.Querier, wardID string, delta int) (int, error) {
	w, ok := r.wards[wardID]
	if !ok {
		return 0, ErrNotFound
	}
	w.CurrentOccupancy += delta
	return w.CurrentOccupancy, nil
}

func (r *fakeRepo) OccupiedBedCount(ctx context.Context, q resource.Querier, wardID string) (int, error) {
	count := 0
	for _, b := range r.beds {
		if b.WardID == wardID && b.IsActive && r.registry.statuses[b.ID] == resource.StatusOccupied {
			count++
		}
	}
	return count, nil
}

func newService(t *testing.T) (Service, *fakeRepo, *fakeRegistry) {
	t.Helper()
	registry := &fakeRegistry{statuses: make(map[string]resource.Status)}
	repo := newFakeRepo(registry)
	return NewService(repo, registry), repo, registry
}

func TestCreateWardValidation(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	_, err := svc.CreateWard(ctx, CreateWardRequest{Name: "  ", Capacity: 10})
	assert.ErrorIs(t, err, ErrEmptyName)

	_, err = svc.CreateWard(ctx, CreateWardRequest{Name: "North Wing", Capacity: 0})
	assert.ErrorIs(t, err, ErrInvalidCapacity)

	w, err := svc.CreateWard(ctx, CreateWardRequest{Name: "North Wing", Capacity: 10})
	require.NoError(t, err)
	assert.Equal(t, 0, w.CurrentOccupancy)
	assert.True(t, w.IsActive)
}

func TestAddBedCapacityLimit(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	w, err := svc.CreateWard(ctx, CreateWardRequest{Name: "North Wing", Capacity: 2})
	require.NoError(t, err)

	_, err = svc.AddBed(ctx, CreateBedRequest{WardID: w.ID, Label: "N-1"})
	require.NoError(t, err)
	_, err = svc.AddBed(ctx, CreateBedRequest{WardID: w.ID, Label: "N-2"})
	require.NoError(t, err)

	_, err = svc.AddBed(ctx, CreateBedRequest{WardID: w.ID, Label: "N-3"})
	assert.ErrorIs(t, err, ErrCapacityExceeded)

	_, err = svc.AddBed(ctx, CreateBedRequest{WardID: "ghost", Label: "X-1"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeactivateBed(t *testing.T) {
	svc, _, registry := newService(t)
	ctx := context.Background()

	w, err := svc.CreateWard(ctx, CreateWardRequest{Name: "North Wing", Capacity: 2})
	require.NoError(t, err)
	b, err := svc.AddBed(ctx, CreateBedRequest{WardID: w.ID, Label: "N-1"})
	require.NoError(t, err)

	// Occupied beds cannot be retired.
	registry.statuses[b.ID] = resource.StatusOccupied
	assert.ErrorIs(t, svc.DeactivateBed(ctx, b.ID), ErrBedOccupied)

	registry.statuses[b.ID] = resource.StatusAvailable
	require.NoError(t, svc.DeactivateBed(ctx, b.ID))

	got, err := svc.GetBed(ctx, b.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}

func TestUpdateWardCapacityFloor(t *testing.T) {
	svc, repo, _ := newService(t)
	ctx := context.Background()

	w, err := svc.CreateWard(ctx, CreateWardRequest{Name: "North Wing", Capacity: 4})
	require.NoError(t, err)

	repo.wards[w.ID].CurrentOccupancy = 3

	smaller := 2
	_, err = svc.UpdateWard(ctx, w.ID, UpdateWardRequest{Capacity: &smaller})
	assert.ErrorIs(t, err, ErrInvalidCapacity)

	larger := 6
	updated, err := svc.UpdateWard(ctx, w.ID, UpdateWardRequest{Capacity: &larger})
	require.NoError(t, err)
	assert.Equal(t, 6, updated.Capacity)
}

func TestDeactivateWardWithPatients(t *testing.T) {
	svc, repo, _ := newService(t)
	ctx := context.Background()

	w, err := svc.CreateWard(ctx, CreateWardRequest{Name: "North Wing", Capacity: 4})
	require.NoError(t, err)

	repo.wards[w.ID].CurrentOccupancy = 1
	assert.ErrorIs(t, svc.DeactivateWard(ctx, w.ID), ErrBedOccupied)

	repo.wards[w.ID].CurrentOccupancy = 0
	require.NoError(t, svc.DeactivateWard(ctx, w.ID))
}
