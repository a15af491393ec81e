package staff

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, s *Staff) error
	GetByID(ctx context.Context, id string) (*Staff, error)
	GetByEmail(ctx context.Context, email string) (*Staff, error)
	List(ctx context.Context, filter Filter) ([]*Staff, int, error)
	Update(ctx context.Context, s *Staff) error
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
	ExistsActive(ctx context.Context, id string) (bool, error)

	// ReplaceSchedule swaps the staff member's whole weekly schedule.
	ReplaceSchedule(ctx context.Context, staffID string, entries []DaySchedule) error
	GetDaySchedule(ctx context.Context, staffID string, weekday time.Weekday) (*DaySchedule, error)
	ListSchedule(ctx context.Context, staffID string) ([]DaySchedule, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

const staffColumns = `id, email, password_hash, first_name, last_name, role, specialty, is_active, created_at, updated_at, last_login_at`

func scanStaff(row pgx.Row) (*Staff, error) {
	var s Staff
	err := row.Scan(
		&s.ID, &s.Email, &s.PasswordHash, &s.FirstName, &s.LastName,
		&s.Role, &s.Specialty, &s.IsActive, &s.CreatedAt, &s.UpdatedAt, &s.LastLoginAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan staff failed: %w", err)
	}
	return &s, nil
}

func (r *pgxRepository) Create(ctx context.Context, s *Staff) error {
	const query = `
		INSERT INTO public.staff (email, password_hash, first_name, last_name, role, specialty, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, true)
		RETURNING id, created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query, s.Email, s.PasswordHash, s.FirstName, s.LastName, s.Role, s.Specialty).
		Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrEmailAlreadyUsed
		}
		return fmt.Errorf("create staff failed: %w", err)
	}
	s.IsActive = true
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Staff, error) {
	query := fmt.Sprintf(`SELECT %s FROM public.staff WHERE id = $1`, staffColumns)
	return scanStaff(r.pool.QueryRow(ctx, query, id))
}

func (r *pgxRepository) GetByEmail(ctx context.Context, email string) (*Staff, error) {
	query := fmt.Sprintf(`SELECT %s FROM public.staff WHERE email = $1`, staffColumns)
	return scanStaff(r.pool.QueryRow(ctx, query, email))
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Staff, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"id", "email", "password_hash", "first_name", "last_name", "role",
		"specialty", "is_active", "created_at", "updated_at", "last_login_at",
		"count(*) OVER() as total_count",
	).From("public.staff")

	if filter.Role != "" {
		query = query.Where(squirrel.Eq{"role": filter.Role})
	}
	if filter.Keyword != "" {
		like := "%" + filter.Keyword + "%"
		query = query.Where(squirrel.Or{
			squirrel.ILike{"first_name": like},
			squirrel.ILike{"last_name": like},
			squirrel.ILike{"email": like},
		})
	}
	if filter.IsActive != nil {
		query = query.Where(squirrel.Eq{"is_active": *filter.IsActive})
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	query = query.OrderBy("last_name ASC, first_name ASC").
		Limit(uint64(filter.PageSize)).
		Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list staff query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list staff failed: %w", err)
	}
	defer rows.Close()

	var members []*Staff
	var total int

	for rows.Next() {
		var s Staff
		if err := rows.Scan(
			&s.ID, &s.Email, &s.PasswordHash, &s.FirstName, &s.LastName, &s.Role,
			&s.Specialty, &s.IsActive, &s.CreatedAt, &s.UpdatedAt, &s.LastLoginAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan staff failed: %w", err)
		}
		members = append(members, &s)
	}

	return members, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, s *Staff) error {
	const query = `
		UPDATE public.staff
		SET first_name = $1, last_name = $2, role = $3, specialty = $4, is_active = $5, updated_at = now()
		WHERE id = $6
	`
	ct, err := r.pool.Exec(ctx, query, s.FirstName, s.LastName, s.Role, s.Specialty, s.IsActive, s.ID)
	if err != nil {
		return fmt.Errorf("update staff failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	const query = `UPDATE public.staff SET last_login_at = $1 WHERE id = $2`
	if _, err := r.pool.Exec(ctx, query, at, id); err != nil {
		return fmt.Errorf("touch last login failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) ExistsActive(ctx context.Context, id string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM public.staff WHERE id = $1 AND is_active)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("check staff existence failed: %w", err)
	}
	return exists, nil
}

func (r *pgxRepository) ReplaceSchedule(ctx context.Context, staffID string, entries []DaySchedule) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin replace schedule tx failed: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM public.staff_schedules WHERE staff_id = $1`, staffID); err != nil {
		return fmt.Errorf("clear schedule failed: %w", err)
	}

	const insert = `
		INSERT INTO public.staff_schedules (staff_id, weekday, work_start, work_end, break_start, break_end)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for _, e := range entries {
		if _, err := tx.Exec(ctx, insert, staffID, int(e.Weekday), int(e.WorkStart), int(e.WorkEnd), minutesOrNil(e.BreakStart), minutesOrNil(e.BreakEnd)); err != nil {
			return fmt.Errorf("insert schedule entry failed: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (r *pgxRepository) GetDaySchedule(ctx context.Context, staffID string, weekday time.Weekday) (*DaySchedule, error) {
	const query = `
		SELECT staff_id, weekday, work_start, work_end, break_start, break_end
		FROM public.staff_schedules
		WHERE staff_id = $1 AND weekday = $2
	`
	d, err := scanDaySchedule(r.pool.QueryRow(ctx, query, staffID, int(weekday)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotWorking
		}
		return nil, err
	}
	return d, nil
}

func (r *pgxRepository) ListSchedule(ctx context.Context, staffID string) ([]DaySchedule, error) {
	const query = `
		SELECT staff_id, weekday, work_start, work_end, break_start, break_end
		FROM public.staff_schedules
		WHERE staff_id = $1
		ORDER BY weekday
	`
	rows, err := r.pool.Query(ctx, query, staffID)
	if err != nil {
		return nil, fmt.Errorf("list schedule failed: %w", err)
	}
	defer rows.Close()

	var entries []DaySchedule
	for rows.Next() {
		d, err := scanDaySchedule(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *d)
	}
	return entries, rows.Err()
}

func scanDaySchedule(row pgx.Row) (*DaySchedule, error) {
	var d DaySchedule
	var weekday, workStart, workEnd int
	var breakStart, breakEnd *int

	if err := row.Scan(&d.StaffID, &weekday, &workStart, &workEnd, &breakStart, &breakEnd); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, pgx.ErrNoRows
		}
		return nil, fmt.Errorf("scan day schedule failed: %w", err)
	}

	d.Weekday = time.Weekday(weekday)
	d.WorkStart = minutes(workStart)
	d.WorkEnd = minutes(workEnd)
	d.BreakStart = minutesPtr(breakStart)
	d.BreakEnd = minutesPtr(breakEnd)
	return &d, nil
}
