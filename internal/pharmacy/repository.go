package pharmacy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	CreateDrug(ctx context.Context, d *Drug) error
	GetDrug(ctx context.Context, id string) (*Drug, error)
	ListDrugs(ctx context.Context, keyword string, page, pageSize int) ([]*Drug, int, error)
	UpdateDrug(ctx context.Context, d *Drug) error

	CreateBatch(ctx context.Context, b *Batch) error
	ListBatches(ctx context.Context, drugID string) ([]*Batch, error)

	// Allocate locks the drug's eligible batches, plans the FIFO draw,
	// applies every deduction, and records the dispense in one
	// transaction.
	Allocate(ctx context.Context, d *Dispense, asOf time.Time) error

	GetDispense(ctx context.Context, id string) (*Dispense, error)
	ListDispenses(ctx context.Context, drugID string, page, pageSize int) ([]*Dispense, int, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) CreateDrug(ctx context.Context, d *Drug) error {
	const query = `
		INSERT INTO public.drugs (name, generic_name, form, unit, is_active)
		VALUES ($1, $2, $3, $4, true)
		RETURNING id, created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query, d.Name, d.GenericName, d.Form, d.Unit).
		Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create drug failed: %w", err)
	}
	d.IsActive = true
	return nil
}

func (r *pgxRepository) GetDrug(ctx context.Context, id string) (*Drug, error) {
	const query = `
		SELECT id, name, generic_name, form, unit, is_active, created_at, updated_at
		FROM public.drugs
		WHERE id = $1
	`
	var d Drug
	err := r.pool.QueryRow(ctx, query, id).
		Scan(&d.ID, &d.Name, &d.GenericName, &d.Form, &d.Unit, &d.IsActive, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get drug failed: %w", err)
	}
	return &d, nil
}

func (r *pgxRepository) ListDrugs(ctx context.Context, keyword string, page, pageSize int) ([]*Drug, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	const query = `
		SELECT id, name, generic_name, form, unit, is_active, created_at, updated_at,
		       count(*) OVER() as total_count
		FROM public.drugs
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%' OR generic_name ILIKE '%' || $1 || '%')
		ORDER BY name
		LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, keyword, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("list drugs failed: %w", err)
	}
	defer rows.Close()

	var drugs []*Drug
	var total int
	for rows.Next() {
		var d Drug
		if err := rows.Scan(&d.ID, &d.Name, &d.GenericName, &d.Form, &d.Unit, &d.IsActive, &d.CreatedAt, &d.UpdatedAt, &total); err != nil {
			return nil, 0, fmt.Errorf("scan drug failed: %w", err)
		}
		drugs = append(drugs, &d)
	}
	return drugs, total, nil
}

func (r *pgxRepository) UpdateDrug(ctx context.Context, d *Drug) error {
	const query = `
		UPDATE public.drugs
		SET name = $1, generic_name = $2, form = $3, unit = $4, is_active = $5, updated_at = now()
		WHERE id = $6
	`
	ct, err := r.pool.Exec(ctx, query, d.Name, d.GenericName, d.Form, d.Unit, d.IsActive, d.ID)
	if err != nil {
		return fmt.Errorf("update drug failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) CreateBatch(ctx context.Context, b *Batch) error {
	const query = `
		INSERT INTO public.inventory_batches (drug_id, batch_number, quantity, expiry_date)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query, b.DrugID, b.BatchNumber, b.Quantity, b.ExpiryDate).
		Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create batch failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) ListBatches(ctx context.Context, drugID string) ([]*Batch, error) {
	const query = `
		SELECT id, drug_id, batch_number, quantity, expiry_date, created_at, updated_at
		FROM public.inventory_batches
		WHERE drug_id = $1
		ORDER BY created_at, expiry_date
	`
	rows, err := r.pool.Query(ctx, query, drugID)
	if err != nil {
		return nil, fmt.Errorf("list batches failed: %w", err)
	}
	defer rows.Close()

	return scanBatches(rows)
}

func scanBatches(rows pgx.Rows) ([]*Batch, error) {
	var batches []*Batch
	for rows.Next() {
		var b Batch
		if err := rows.Scan(&b.ID, &b.DrugID, &b.BatchNumber, &b.Quantity, &b.ExpiryDate, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan batch failed: %w", err)
		}
		batches = append(batches, &b)
	}
	return batches, nil
}

func (r *pgxRepository) Allocate(ctx context.Context, d *Dispense, asOf time.Time) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin allocate tx failed: %w", err)
	}
	defer tx.Rollback(ctx)

	// Row locks serialize concurrent dispenses of the same drug; the
	// lock order matches the draw order.
	const lock = `
		SELECT id, drug_id, batch_number, quantity, expiry_date, created_at, updated_at
		FROM public.inventory_batches
		WHERE drug_id = $1 AND quantity > 0 AND expiry_date > $2
		ORDER BY created_at, expiry_date
		FOR UPDATE
	`
	rows, err := tx.Query(ctx, lock, d.DrugID, asOf)
	if err != nil {
		return fmt.Errorf("lock batches failed: %w", err)
	}
	batches, err := scanBatches(rows)
	rows.Close()
	if err != nil {
		return err
	}

	plan, err := planAllocation(batches, d.Quantity, asOf)
	if err != nil {
		return err
	}

	for _, ded := range plan {
		const deduct = `
			UPDATE public.inventory_batches
			SET quantity = quantity - $1, updated_at = now()
			WHERE id = $2 AND quantity >= $1
		`
		ct, err := tx.Exec(ctx, deduct, ded.Quantity, ded.BatchID)
		if err != nil {
			return fmt.Errorf("deduct batch failed: %w", err)
		}
		if ct.RowsAffected() == 0 {
			return ErrInsufficientInventory
		}
	}

	const insert = `
		INSERT INTO public.dispenses (drug_id, patient_id, quantity, dispensed_by)
		VALUES ($1, NULLIF($2, ''), $3, $4)
		RETURNING id, created_at
	`
	err = tx.QueryRow(ctx, insert, d.DrugID, d.PatientID, d.Quantity, d.DispensedBy).
		Scan(&d.ID, &d.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert dispense failed: %w", err)
	}

	d.Lines = d.Lines[:0]
	for _, ded := range plan {
		const line = `
			INSERT INTO public.dispense_lines (dispense_id, batch_id, quantity)
			VALUES ($1, $2, $3)
			RETURNING id
		`
		l := DispenseLine{DispenseID: d.ID, BatchID: ded.BatchID, Quantity: ded.Quantity}
		if err := tx.QueryRow(ctx, line, d.ID, ded.BatchID, ded.Quantity).Scan(&l.ID); err != nil {
			return fmt.Errorf("insert dispense line failed: %w", err)
		}
		d.Lines = append(d.Lines, l)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit allocate tx failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetDispense(ctx context.Context, id string) (*Dispense, error) {
	const query = `
		SELECT id, drug_id, COALESCE(patient_id::text, ''), quantity, dispensed_by, created_at
		FROM public.dispenses
		WHERE id = $1
	`
	var d Dispense
	err := r.pool.QueryRow(ctx, query, id).
		Scan(&d.ID, &d.DrugID, &d.PatientID, &d.Quantity, &d.DispensedBy, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get dispense failed: %w", err)
	}

	const lines = `
		SELECT id, dispense_id, batch_id, quantity
		FROM public.dispense_lines
		WHERE dispense_id = $1
		ORDER BY id
	`
	rows, err := r.pool.Query(ctx, lines, id)
	if err != nil {
		return nil, fmt.Errorf("list dispense lines failed: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var l DispenseLine
		if err := rows.Scan(&l.ID, &l.DispenseID, &l.BatchID, &l.Quantity); err != nil {
			return nil, fmt.Errorf("scan dispense line failed: %w", err)
		}
		d.Lines = append(d.Lines, l)
	}
	return &d, nil
}

func (r *pgxRepository) ListDispenses(ctx context.Context, drugID string, page, pageSize int) ([]*Dispense, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	const query = `
		SELECT id, drug_id, COALESCE(patient_id::text, ''), quantity, dispensed_by, created_at,
		       count(*) OVER() as total_count
		FROM public.dispenses
		WHERE ($1 = '' OR drug_id::text = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, drugID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("list dispenses failed: %w", err)
	}
	defer rows.Close()

	var dispenses []*Dispense
	var total int
	for rows.Next() {
		var d Dispense
		if err := rows.Scan(&d.ID, &d.DrugID, &d.PatientID, &d.Quantity, &d.DispensedBy, &d.CreatedAt, &total); err != nil {
			return nil, 0, fmt.Errorf("scan dispense failed: %w", err)
		}
		dispenses = append(dispenses, &d)
	}
	return dispenses, total, nil
}
