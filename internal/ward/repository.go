package ward

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/grandoak/hospital-backend/internal/resource"
)

type Repository interface {
	CreateWard(ctx context.Context, w *Ward) error
	GetWard(ctx context.Context, id string) (*Ward, error)
	ListWards(ctx context.Context, page, pageSize int) ([]*Ward, int, error)
	UpdateWard(ctx context.Context, w *Ward) error

	CreateBed(ctx context.Context, b *Bed) error
	GetBed(ctx context.Context, id string) (*Bed, error)
	ListBeds(ctx context.Context, wardID string) ([]*Bed, error)
	UpdateBed(ctx context.Context, b *Bed) error
	ActiveBedCount(ctx context.Context, wardID string) (int, error)

	// The admission allocator calls these inside its own transaction,
	// passing the tx as the querier.
	AdjustOccupancy(ctx context.Context, q resource.Querier, wardID string, delta int) (int, error)
	OccupiedBedCount(ctx context.Context, q resource.Querier, wardID string) (int, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) CreateWard(ctx context.Context, w *Ward) error {
	const query = `
		INSERT INTO public.wards (name, capacity, current_occupancy, is_active)
		VALUES ($1, $2, 0, true)
		RETURNING id, created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query, w.Name, w.Capacity).
		Scan(&w.ID, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create ward failed: %w", err)
	}
	w.CurrentOccupancy = 0
	w.IsActive = true
	return nil
}

func (r *pgxRepository) GetWard(ctx context.Context, id string) (*Ward, error) {
	const query = `
		SELECT id, name, capacity, current_occupancy, is_active, created_at, updated_at
		FROM public.wards
		WHERE id = $1
	`
	var w Ward
	err := r.pool.QueryRow(ctx, query, id).
		Scan(&w.ID, &w.Name, &w.Capacity, &w.CurrentOccupancy, &w.IsActive, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get ward failed: %w", err)
	}
	return &w, nil
}

func (r *pgxRepository) ListWards(ctx context.Context, page, pageSize int) ([]*Ward, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	const query = `
		SELECT id, name, capacity, current_occupancy, is_active, created_at, updated_at,
		       count(*) OVER() as total_count
		FROM public.wards
		ORDER BY name
		LIMIT $1 OFFSET $2
	`
	rows, err := r.pool.Query(ctx, query, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("list wards failed: %w", err)
	}
	defer rows.Close()

	var wards []*Ward
	var total int
	for rows.Next() {
		var w Ward
		if err := rows.Scan(&w.ID, &w.Name, &w.Capacity, &w.CurrentOccupancy, &w.IsActive, &w.CreatedAt, &w.UpdatedAt, &total); err != nil {
			return nil, 0, fmt.Errorf("scan ward failed: %w", err)
		}
		wards = append(wards, &w)
	}
	return wards, total, nil
}

func (r *pgxRepository) UpdateWard(ctx context.Context, w *Ward) error {
	const query = `
		UPDATE public.wards
		SET name = $1, capacity = $2, is_active = $3, updated_at = now()
		WHERE id = $4
	`
	ct, err := r.pool.Exec(ctx, query, w.Name, w.Capacity, w.IsActive, w.ID)
	if err != nil {
		return fmt.Errorf("update ward failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) CreateBed(ctx context.Context, b *Bed) error {
	const query = `
		INSERT INTO public.beds (ward_id, label, status, is_active)
		VALUES ($1, $2, $3, true)
		RETURNING id, created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query, b.WardID, b.Label, resource.StatusAvailable).
		Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create bed failed: %w", err)
	}
	b.Status = resource.StatusAvailable
	b.IsActive = true
	return nil
}

func (r *pgxRepository) GetBed(ctx context.Context, id string) (*Bed, error) {
	const query = `
		SELECT id, ward_id, label, status, is_active, created_at, updated_at
		FROM public.beds
		WHERE id = $1
	`
	var b Bed
	err := r.pool.QueryRow(ctx, query, id).
		Scan(&b.ID, &b.WardID, &b.Label, &b.Status, &b.IsActive, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBedNotFound
		}
		return nil, fmt.Errorf("get bed failed: %w", err)
	}
	return &b, nil
}

func (r *pgxRepository) ListBeds(ctx context.Context, wardID string) ([]*Bed, error) {
	const query = `
		SELECT id, ward_id, label, status, is_active, created_at, updated_at
		FROM public.beds
		WHERE ward_id = $1
		ORDER BY label
	`
	rows, err := r.pool.Query(ctx, query, wardID)
	if err != nil {
		return nil, fmt.Errorf("list beds failed: %w", err)
	}
	defer rows.Close()

	var beds []*Bed
	for rows.Next() {
		var b Bed
		if err := rows.Scan(&b.ID, &b.WardID, &b.Label, &b.Status, &b.IsActive, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan bed failed: %w", err)
		}
		beds = append(beds, &b)
	}
	return beds, nil
}

func (r *pgxRepository) UpdateBed(ctx context.Context, b *Bed) error {
	const query = `
		UPDATE public.beds
		SET label = $1, is_active = $2, updated_at = now()
		WHERE id = $3
	`
	ct, err := r.pool.Exec(ctx, query, b.Label, b.IsActive, b.ID)
	if err != nil {
		return fmt.Errorf("update bed failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrBedNotFound
	}
	return nil
}

func (r *pgxRepository) ActiveBedCount(ctx context.Context, wardID string) (int, error) {
	const query = `SELECT count(*) FROM public.beds WHERE ward_id = $1 AND is_active`

	var count int
	if err := r.pool.QueryRow(ctx, query, wardID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count beds failed: %w", err)
	}
	return count, nil
}

func (r *pgxRepository) AdjustOccupancy(ctx context.Context, q resource.Querier, wardID string, delta int) (int, error) {
	const query = `
		UPDATE public.wards
		SET current_occupancy = current_occupancy + $1, updated_at = now()
		WHERE id = $2
		RETURNING current_occupancy
	`
	var occupancy int
	err := q.QueryRow(ctx, query, delta, wardID).Scan(&occupancy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("adjust ward occupancy failed: %w", err)
	}
	return occupancy, nil
}

func (r *pgxRepository) OccupiedBedCount(ctx context.Context, q resource.Querier, wardID string) (int, error) {
	const query = `
		SELECT count(*) FROM public.beds
		WHERE ward_id = $1 AND is_active AND status = $2
	`
	var count int
	if err := q.QueryRow(ctx, query, wardID, resource.StatusOccupied).Scan(&count); err != nil {
		return 0, fmt.Errorf("count occupied beds failed: %w", err)
	}
	return count, nil
}
