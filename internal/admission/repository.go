package admission

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/grandoak/hospital-backend/internal/resource"
	"github.com/grandoak/hospital-backend/internal/ward"
)

type Repository interface {
	// Admit inserts the admission, occupies the bed, and bumps the ward
	// occupancy in one transaction.
	Admit(ctx context.Context, a *Admission) error

	// Discharge closes the admission, frees the bed, and drops the ward
	// occupancy in one transaction.
	Discharge(ctx context.Context, a *Admission) error

	GetByID(ctx context.Context, id string) (*Admission, error)
	List(ctx context.Context, filter Filter) ([]*Admission, int, error)

	CreateNote(ctx context.Context, n *NursingNote) error
	ListNotes(ctx context.Context, admissionID string) ([]*NursingNote, error)
}

type pgxRepository struct {
	pool     *pgxpool.Pool
	registry resource.Registry
	wards    ward.Repository
	logger   zerolog.Logger
}

func NewPgxRepository(pool *pgxpool.Pool, registry resource.Registry, wards ward.Repository, logger zerolog.Logger) Repository {
	return &pgxRepository{pool: pool, registry: registry, wards: wards, logger: logger}
}

// verifyOccupancy cross-checks the ward counter against the occupied bed
// rows inside the same transaction. A mismatch means a bug, not a race,
// and aborts the whole operation.
func (r *pgxRepository) verifyOccupancy(ctx context.Context, tx pgx.Tx, wardID string, occupancy int) error {
	occupied, err := r.wards.OccupiedBedCount(ctx, tx, wardID)
	if err != nil {
		return err
	}
	if occupied != occupancy {
		r.logger.Error().
			Str("ward_id", wardID).
			Int("occupancy", occupancy).
			Int("occupied_beds", occupied).
			Msg("ward occupancy counter diverged from occupied beds, rolling back")
		return ErrInternalConsistency
	}
	return nil
}

func (r *pgxRepository) Admit(ctx context.Context, a *Admission) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin admit tx failed: %w", err)
	}
	defer tx.Rollback(ctx)

	const insert = `
		INSERT INTO public.admissions (patient_id, bed_id, ward_id, doctor_id, reason, type, status, admitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`
	err = tx.QueryRow(ctx, insert, a.PatientID, a.BedID, a.WardID, a.DoctorID, a.Reason, a.Type, StatusAdmitted, a.AdmittedAt).
		Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrAlreadyAdmitted
		}
		return fmt.Errorf("insert admission failed: %w", err)
	}
	a.Status = StatusAdmitted

	err = r.registry.TransitionTx(ctx, tx, resource.KindBed, a.BedID, resource.StatusAvailable, resource.StatusOccupied)
	if err != nil {
		if errors.Is(err, resource.ErrInvalidTransition) {
			return ErrBedUnavailable
		}
		return err
	}

	occupancy, err := r.wards.AdjustOccupancy(ctx, tx, a.WardID, +1)
	if err != nil {
		return err
	}
	if err := r.verifyOccupancy(ctx, tx, a.WardID, occupancy); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit admit tx failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) Discharge(ctx context.Context, a *Admission) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin discharge tx failed: %w", err)
	}
	defer tx.Rollback(ctx)

	const update = `
		UPDATE public.admissions
		SET status = $1, outcome = $2, discharged_at = $3, discharge_summary = $4, updated_at = now()
		WHERE id = $5 AND status = $6
		RETURNING updated_at
	`
	err = tx.QueryRow(ctx, update, StatusDischarged, a.Outcome, a.DischargedAt, a.DischargeSummary, a.ID, StatusAdmitted).
		Scan(&a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrInvalidState
		}
		return fmt.Errorf("update admission failed: %w", err)
	}
	a.Status = StatusDischarged

	err = r.registry.TransitionTx(ctx, tx, resource.KindBed, a.BedID, resource.StatusOccupied, resource.StatusAvailable)
	if err != nil {
		if errors.Is(err, resource.ErrInvalidTransition) {
			return ErrInternalConsistency
		}
		return err
	}

	occupancy, err := r.wards.AdjustOccupancy(ctx, tx, a.WardID, -1)
	if err != nil {
		return err
	}
	if err := r.verifyOccupancy(ctx, tx, a.WardID, occupancy); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit discharge tx failed: %w", err)
	}
	return nil
}

func scanAdmission(row pgx.Row, a *Admission) error {
	return row.Scan(
		&a.ID, &a.PatientID, &a.BedID, &a.WardID, &a.DoctorID, &a.Reason,
		&a.Type, &a.Status, &a.AdmittedAt, &a.DischargedAt, &a.Outcome,
		&a.DischargeSummary, &a.CreatedAt, &a.UpdatedAt,
	)
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Admission, error) {
	const query = `
		SELECT id, patient_id, bed_id, ward_id, doctor_id, reason,
		       type, status, admitted_at, discharged_at, outcome,
		       discharge_summary, created_at, updated_at
		FROM public.admissions
		WHERE id = $1
	`
	var a Admission
	if err := scanAdmission(r.pool.QueryRow(ctx, query, id), &a); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get admission failed: %w", err)
	}
	return &a, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Admission, int, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}

	builder := sq.Select(
		"id", "patient_id", "bed_id", "ward_id", "doctor_id", "reason",
		"type", "status", "admitted_at", "discharged_at", "outcome",
		"discharge_summary", "created_at", "updated_at", "count(*) OVER() as total_count",
	).
		From("public.admissions").
		PlaceholderFormat(sq.Dollar)

	if filter.PatientID != "" {
		builder = builder.Where(sq.Eq{"patient_id": filter.PatientID})
	}
	if filter.WardID != "" {
		builder = builder.Where(sq.Eq{"ward_id": filter.WardID})
	}
	if filter.Status != "" {
		builder = builder.Where(sq.Eq{"status": filter.Status})
	}

	builder = builder.
		OrderBy("admitted_at DESC").
		Limit(uint64(filter.PageSize)).
		Offset(uint64((filter.Page - 1) * filter.PageSize))

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list admissions query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list admissions failed: %w", err)
	}
	defer rows.Close()

	var admissions []*Admission
	var total int
	for rows.Next() {
		var a Admission
		err := rows.Scan(
			&a.ID, &a.PatientID, &a.BedID, &a.WardID, &a.DoctorID, &a.Reason,
			&a.Type, &a.Status, &a.AdmittedAt, &a.DischargedAt, &a.Outcome,
			&a.DischargeSummary, &a.CreatedAt, &a.UpdatedAt, &total,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan admission failed: %w", err)
		}
		admissions = append(admissions, &a)
	}
	return admissions, total, nil
}

func (r *pgxRepository) CreateNote(ctx context.Context, n *NursingNote) error {
	const query = `
		INSERT INTO public.nursing_notes (admission_id, staff_id, note)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err := r.pool.QueryRow(ctx, query, n.AdmissionID, n.StaffID, n.Note).
		Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert nursing note failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) ListNotes(ctx context.Context, admissionID string) ([]*NursingNote, error) {
	const query = `
		SELECT id, admission_id, staff_id, note, created_at
		FROM public.nursing_notes
		WHERE admission_id = $1
		ORDER BY created_at
	`
	rows, err := r.pool.Query(ctx, query, admissionID)
	if err != nil {
		return nil, fmt.Errorf("list nursing notes failed: %w", err)
	}
	defer rows.Close()

	var notes []*NursingNote
	for rows.Next() {
		var n NursingNote
		if err := rows.Scan(&n.ID, &n.AdmissionID, &n.StaffID, &n.Note, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan nursing note failed: %w", err)
		}
		notes = append(notes, &n)
	}
	return notes, nil
}
