package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/grandoak/hospital-backend/internal/pkg/interval"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id string) (*Appointment, error)
	List(ctx context.Context, filter Filter) ([]*Appointment, int, error)
	Update(ctx context.Context, a *Appointment) error

	// HasOverlap checks whether any live appointment for the staff member on
	// the date overlaps the window. excludeID ignores the appointment itself
	// during reschedules.
	HasOverlap(ctx context.Context, staffID string, date time.Time, win interval.Interval, excludeID string) (bool, error)

	// ListLiveByStaffDate returns the live appointments for slot enumeration.
	ListLiveByStaffDate(ctx context.Context, staffID string, date time.Time) ([]*Appointment, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

// translateWriteError maps the appointments table's exclusion constraint
// (staff, date, live window) onto the domain conflict error. The constraint
// is the correctness backstop for the check-then-act race between the
// in-process overlap check and the write.
func translateWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ExclusionViolation {
		return ErrTimeConflict
	}
	return err
}

func (r *pgxRepository) Create(ctx context.Context, a *Appointment) error {
	const query = `
		INSERT INTO public.appointments (patient_id, staff_id, date, start_min, end_min, type, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		a.PatientID, a.StaffID, a.Date, int(a.Start), int(a.End), a.Type, a.Status, a.Notes,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if terr := translateWriteError(err); terr != err {
			return terr
		}
		return fmt.Errorf("create appointment failed: %w", err)
	}
	return nil
}

const appointmentColumns = `id, patient_id, staff_id, date, start_min, end_min, type, status, notes, cancel_reason, cancelled_at, created_at, updated_at`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	var startMin, endMin int
	var cancelReason *string

	err := row.Scan(
		&a.ID, &a.PatientID, &a.StaffID, &a.Date, &startMin, &endMin,
		&a.Type, &a.Status, &a.Notes, &cancelReason, &a.CancelledAt,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.Start = interval.TimeOfDay(startMin)
	a.End = interval.TimeOfDay(endMin)
	if cancelReason != nil {
		a.CancelReason = *cancelReason
	}
	return &a, nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Appointment, error) {
	query := fmt.Sprintf(`SELECT %s FROM public.appointments WHERE id = $1`, appointmentColumns)

	a, err := scanAppointment(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get appointment failed: %w", err)
	}
	return a, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Appointment, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"id", "patient_id", "staff_id", "date", "start_min", "end_min",
		"type", "status", "notes", "cancel_reason", "cancelled_at",
		"created_at", "updated_at",
		"count(*) OVER() as total_count",
	).From("public.appointments")

	if filter.PatientID != "" {
		query = query.Where(squirrel.Eq{"patient_id": filter.PatientID})
	}
	if filter.StaffID != "" {
		query = query.Where(squirrel.Eq{"staff_id": filter.StaffID})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"status": filter.Status})
	}
	if filter.DateFrom != nil {
		query = query.Where(squirrel.GtOrEq{"date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		query = query.Where(squirrel.LtOrEq{"date": *filter.DateTo})
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	query = query.OrderBy("date DESC, start_min ASC").
		Limit(uint64(filter.PageSize)).
		Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list appointments query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list appointments failed: %w", err)
	}
	defer rows.Close()

	var appointments []*Appointment
	var total int

	for rows.Next() {
		var a Appointment
		var startMin, endMin int
		var cancelReason *string

		if err := rows.Scan(
			&a.ID, &a.PatientID, &a.StaffID, &a.Date, &startMin, &endMin,
			&a.Type, &a.Status, &a.Notes, &cancelReason, &a.CancelledAt,
			&a.CreatedAt, &a.UpdatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan appointment failed: %w", err)
		}

		a.Start = interval.TimeOfDay(startMin)
		a.End = interval.TimeOfDay(endMin)
		if cancelReason != nil {
			a.CancelReason = *cancelReason
		}
		appointments = append(appointments, &a)
	}

	return appointments, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, a *Appointment) error {
	const query = `
		UPDATE public.appointments
		SET date = $1, start_min = $2, end_min = $3, status = $4, notes = $5,
		    cancel_reason = $6, cancelled_at = $7, updated_at = now()
		WHERE id = $8
	`
	ct, err := r.pool.Exec(ctx, query,
		a.Date, int(a.Start), int(a.End), a.Status, a.Notes,
		nullIfEmpty(a.CancelReason), a.CancelledAt, a.ID,
	)
	if err != nil {
		if terr := translateWriteError(err); terr != err {
			return terr
		}
		return fmt.Errorf("update appointment failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) HasOverlap(ctx context.Context, staffID string, date time.Time, win interval.Interval, excludeID string) (bool, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	subQuery := psql.Select("1").
		From("public.appointments").
		Where(squirrel.Eq{"staff_id": staffID}).
		Where(squirrel.Eq{"date": date}).
		Where(squirrel.Eq{"status": []string{string(StatusScheduled), string(StatusConfirmed)}}).
		Where(squirrel.Lt{"start_min": int(win.End)}).
		Where(squirrel.Gt{"end_min": int(win.Start)})

	if excludeID != "" {
		subQuery = subQuery.Where(squirrel.NotEq{"id": excludeID})
	}

	sql, args, err := subQuery.ToSql()
	if err != nil {
		return false, fmt.Errorf("build check overlap query failed: %w", err)
	}

	query := "SELECT EXISTS (" + sql + ")"

	var exists bool
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check overlap failed: %w", err)
	}
	return exists, nil
}

func (r *pgxRepository) ListLiveByStaffDate(ctx context.Context, staffID string, date time.Time) ([]*Appointment, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM public.appointments
		WHERE staff_id = $1 AND date = $2 AND status IN ($3, $4)
		ORDER BY start_min
	`, appointmentColumns)

	rows, err := r.pool.Query(ctx, query, staffID, date, StatusScheduled, StatusConfirmed)
	if err != nil {
		return nil, fmt.Errorf("list live appointments failed: %w", err)
	}
	defer rows.Close()

	var appointments []*Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan appointment failed: %w", err)
		}
		appointments = append(appointments, a)
	}
	return appointments, rows.Err()
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
