package theatre

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/grandoak/hospital-backend/internal/pkg/interval"
	"github.com/grandoak/hospital-backend/internal/resource"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	CreateTheatre(ctx context.Context, t *Theatre) error
	GetTheatre(ctx context.Context, id string) (*Theatre, error)
	ListTheatres(ctx context.Context, page, pageSize int) ([]*Theatre, int, error)
	UpdateTheatre(ctx context.Context, t *Theatre) error

	// CreateSchedule inserts the schedule and, when reserveTheatre is set,
	// claims the theatre (available -> occupied) in the same transaction.
	CreateSchedule(ctx context.Context, s *Schedule, reserveTheatre bool) error
	GetSchedule(ctx context.Context, id string) (*Schedule, error)
	ListSchedules(ctx context.Context, filter ScheduleFilter) ([]*Schedule, int, error)
	UpdateSchedule(ctx context.Context, s *Schedule) error
	HasOverlap(ctx context.Context, theatreID string, date time.Time, win interval.Interval, excludeID string) (bool, error)
	HasInProgress(ctx context.Context, theatreID string) (bool, error)

	AddTeamMember(ctx context.Context, m *TeamMember) error
	ListTeam(ctx context.Context, scheduleID string) ([]*TeamMember, error)
	AddConsumable(ctx context.Context, cons *Consumable) error
	ListConsumables(ctx context.Context, scheduleID string) ([]*Consumable, error)
}

type pgxRepository struct {
	pool     *pgxpool.Pool
	registry resource.Registry
}

func NewPgxRepository(pool *pgxpool.Pool, registry resource.Registry) Repository {
	return &pgxRepository{pool: pool, registry: registry}
}

func (r *pgxRepository) CreateTheatre(ctx context.Context, t *Theatre) error {
	const query = `
		INSERT INTO public.theatres (name, floor, status, is_active)
		VALUES ($1, $2, $3, true)
		RETURNING id, created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query, t.Name, t.Floor, resource.StatusAvailable).
		Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create theatre failed: %w", err)
	}
	t.Status = resource.StatusAvailable
	t.IsActive = true
	return nil
}

func (r *pgxRepository) GetTheatre(ctx context.Context, id string) (*Theatre, error) {
	const query = `
		SELECT id, name, floor, status, is_active, created_at, updated_at
		FROM public.theatres
		WHERE id = $1
	`
	var t Theatre
	err := r.pool.QueryRow(ctx, query, id).
		Scan(&t.ID, &t.Name, &t.Floor, &t.Status, &t.IsActive, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get theatre failed: %w", err)
	}
	return &t, nil
}

func (r *pgxRepository) ListTheatres(ctx context.Context, page, pageSize int) ([]*Theatre, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	const query = `
		SELECT id, name, floor, status, is_active, created_at, updated_at,
		       count(*) OVER() as total_count
		FROM public.theatres
		ORDER BY name
		LIMIT $1 OFFSET $2
	`
	rows, err := r.pool.Query(ctx, query, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("list theatres failed: %w", err)
	}
	defer rows.Close()

	var theatres []*Theatre
	var total int
	for rows.Next() {
		var t Theatre
		if err := rows.Scan(&t.ID, &t.Name, &t.Floor, &t.Status, &t.IsActive, &t.CreatedAt, &t.UpdatedAt, &total); err != nil {
			return nil, 0, fmt.Errorf("scan theatre failed: %w", err)
		}
		theatres = append(theatres, &t)
	}
	return theatres, total, nil
}

func (r *pgxRepository) UpdateTheatre(ctx context.Context, t *Theatre) error {
	const query = `
		UPDATE public.theatres
		SET name = $1, floor = $2, is_active = $3, updated_at = now()
		WHERE id = $4
	`
	ct, err := r.pool.Exec(ctx, query, t.Name, t.Floor, t.IsActive, t.ID)
	if err != nil {
		return fmt.Errorf("update theatre failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func translateScheduleWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ExclusionViolation {
		return ErrTimeConflict
	}
	return err
}

func (r *pgxRepository) CreateSchedule(ctx context.Context, s *Schedule, reserveTheatre bool) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin create schedule tx failed: %w", err)
	}
	defer tx.Rollback(ctx)

	const query = `
		INSERT INTO public.theatre_schedules (theatre_id, patient_id, procedure_id, surgeon_id, date, start_min, end_min, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`
	err = tx.QueryRow(ctx, query,
		s.TheatreID, s.PatientID, s.ProcedureID, s.SurgeonID, s.Date, int(s.Start), int(s.End), s.Status,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if terr := translateScheduleWriteError(err); terr != err {
			return terr
		}
		return fmt.Errorf("create schedule failed: %w", err)
	}

	// Same-day bookings pessimistically claim the room; the CAS transition
	// fails the whole transaction if a concurrent writer got there first.
	if reserveTheatre {
		if err := r.registry.TransitionTx(ctx, tx, resource.KindTheatre, s.TheatreID,
			resource.StatusAvailable, resource.StatusOccupied); err != nil {
			if errors.Is(err, resource.ErrInvalidTransition) {
				return ErrUnavailable
			}
			return err
		}
	}

	return tx.Commit(ctx)
}

const scheduleColumns = `id, theatre_id, patient_id, procedure_id, surgeon_id, date, start_min, end_min, status, post_op_notes, created_at, updated_at`

func scanSchedule(row pgx.Row) (*Schedule, error) {
	var s Schedule
	var startMin, endMin int
	var notes *string

	err := row.Scan(
		&s.ID, &s.TheatreID, &s.PatientID, &s.ProcedureID, &s.SurgeonID,
		&s.Date, &startMin, &endMin, &s.Status, &notes, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.Start = interval.TimeOfDay(startMin)
	s.End = interval.TimeOfDay(endMin)
	if notes != nil {
		s.PostOpNotes = *notes
	}
	return &s, nil
}

func (r *pgxRepository) GetSchedule(ctx context.Context, id string) (*Schedule, error) {
	query := fmt.Sprintf(`SELECT %s FROM public.theatre_schedules WHERE id = $1`, scheduleColumns)

	s, err := scanSchedule(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrScheduleNotFound
		}
		return nil, fmt.Errorf("get schedule failed: %w", err)
	}
	return s, nil
}

func (r *pgxRepository) ListSchedules(ctx context.Context, filter ScheduleFilter) ([]*Schedule, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"id", "theatre_id", "patient_id", "procedure_id", "surgeon_id",
		"date", "start_min", "end_min", "status", "post_op_notes",
		"created_at", "updated_at",
		"count(*) OVER() as total_count",
	).From("public.theatre_schedules")

	if filter.TheatreID != "" {
		query = query.Where(squirrel.Eq{"theatre_id": filter.TheatreID})
	}
	if filter.PatientID != "" {
		query = query.Where(squirrel.Eq{"patient_id": filter.PatientID})
	}
	if filter.SurgeonID != "" {
		query = query.Where(squirrel.Eq{"surgeon_id": filter.SurgeonID})
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

	query = query.OrderBy("date DESC, start_min ASC").
		Limit(uint64(filter.PageSize)).
		Offset(uint64((filter.Page - 1) * filter.PageSize))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list schedules query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list schedules failed: %w", err)
	}
	defer rows.Close()

	var schedules []*Schedule
	var total int

	for rows.Next() {
		var s Schedule
		var startMin, endMin int
		var notes *string

		if err := rows.Scan(
			&s.ID, &s.TheatreID, &s.PatientID, &s.ProcedureID, &s.SurgeonID,
			&s.Date, &startMin, &endMin, &s.Status, &notes, &s.CreatedAt, &s.UpdatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan schedule failed: %w", err)
		}

		s.Start = interval.TimeOfDay(startMin)
		s.End = interval.TimeOfDay(endMin)
		if notes != nil {
			s.PostOpNotes = *notes
		}
		schedules = append(schedules, &s)
	}

	return schedules, total, nil
}

func (r *pgxRepository) UpdateSchedule(ctx context.Context, s *Schedule) error {
	const query = `
		UPDATE public.theatre_schedules
		SET status = $1, post_op_notes = $2, updated_at = now()
		WHERE id = $3
	`
	ct, err := r.pool.Exec(ctx, query, s.Status, s.PostOpNotes, s.ID)
	if err != nil {
		return fmt.Errorf("update schedule failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrScheduleNotFound
	}
	return nil
}

func (r *pgxRepository) HasOverlap(ctx context.Context, theatreID string, date time.Time, win interval.Interval, excludeID string) (bool, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	subQuery := psql.Select("1").
		From("public.theatre_schedules").
		Where(squirrel.Eq{"theatre_id": theatreID}).
		Where(squirrel.Eq{"date": date}).
		Where(squirrel.Eq{"status": []string{string(StatusScheduled), string(StatusInProgress)}}).
		Where(squirrel.Lt{"start_min": int(win.End)}).
		Where(squirrel.Gt{"end_min": int(win.Start)})

	if excludeID != "" {
		subQuery = subQuery.Where(squirrel.NotEq{"id": excludeID})
	}

	sql, args, err := subQuery.ToSql()
	if err != nil {
		return false, fmt.Errorf("build check overlap query failed: %w", err)
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, "SELECT EXISTS ("+sql+")", args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check overlap failed: %w", err)
	}
	return exists, nil
}

func (r *pgxRepository) HasInProgress(ctx context.Context, theatreID string) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM public.theatre_schedules
			WHERE theatre_id = $1 AND status = $2
		)
	`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, theatreID, StatusInProgress).Scan(&exists); err != nil {
		return false, fmt.Errorf("check in-progress failed: %w", err)
	}
	return exists, nil
}

func (r *pgxRepository) AddTeamMember(ctx context.Context, m *TeamMember) error {
	const query = `
		INSERT INTO public.theatre_teams (schedule_id, staff_id, role)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	if err := r.pool.QueryRow(ctx, query, m.ScheduleID, m.StaffID, m.Role).Scan(&m.ID, &m.CreatedAt); err != nil {
		return fmt.Errorf("add team member failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) ListTeam(ctx context.Context, scheduleID string) ([]*TeamMember, error) {
	const query = `
		SELECT id, schedule_id, staff_id, role, created_at
		FROM public.theatre_teams
		WHERE schedule_id = $1
		ORDER BY created_at
	`
	rows, err := r.pool.Query(ctx, query, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("list team failed: %w", err)
	}
	defer rows.Close()

	var team []*TeamMember
	for rows.Next() {
		var m TeamMember
		if err := rows.Scan(&m.ID, &m.ScheduleID, &m.StaffID, &m.Role, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan team member failed: %w", err)
		}
		team = append(team, &m)
	}
	return team, rows.Err()
}

func (r *pgxRepository) AddConsumable(ctx context.Context, cons *Consumable) error {
	const query = `
		INSERT INTO public.theatre_consumables (schedule_id, name, quantity, unit_cost_cents, total_cost_cents)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err := r.pool.QueryRow(ctx, query, cons.ScheduleID, cons.Name, cons.Quantity, cons.UnitCostCents, cons.TotalCostCents).
		Scan(&cons.ID, &cons.CreatedAt)
	if err != nil {
		return fmt.Errorf("add consumable failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) ListConsumables(ctx context.Context, scheduleID string) ([]*Consumable, error) {
	const query = `
		SELECT id, schedule_id, name, quantity, unit_cost_cents, total_cost_cents, created_at
		FROM public.theatre_consumables
		WHERE schedule_id = $1
		ORDER BY created_at
	`
	rows, err := r.pool.Query(ctx, query, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("list consumables failed: %w", err)
	}
	defer rows.Close()

	var consumables []*Consumable
	for rows.Next() {
		var c Consumable
		if err := rows.Scan(&c.ID, &c.ScheduleID, &c.Name, &c.Quantity, &c.UnitCostCents, &c.TotalCostCents, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan consumable failed: %w", err)
		}
		consumables = append(consumables, &c)
	}
	return consumables, rows.Err()
}
