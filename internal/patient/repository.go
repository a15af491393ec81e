package patient

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id string) (*Patient, error)
	List(ctx context.Context, filter Filter) ([]*Patient, int, error)
	Update(ctx context.Context, p *Patient) error

	// ExistsActive reports whether an active patient with the given id exists.
	ExistsActive(ctx context.Context, id string) (bool, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, p *Patient) error {
	const query = `
		INSERT INTO public.patients (mrn, first_name, last_name, date_of_birth, phone, is_active)
		VALUES ($1, $2, $3, $4, $5, true)
		RETURNING id, created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query, p.MRN, p.FirstName, p.LastName, p.DateOfBirth, p.Phone).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrMRNAlreadyUsed
		}
		return fmt.Errorf("create patient failed: %w", err)
	}
	p.IsActive = true
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Patient, error) {
	const query = `
		SELECT id, mrn, first_name, last_name, date_of_birth, phone, is_active, created_at, updated_at
		FROM public.patients
		WHERE id = $1
	`
	row := r.pool.QueryRow(ctx, query, id)

	var p Patient
	if err := row.Scan(&p.ID, &p.MRN, &p.FirstName, &p.LastName, &p.DateOfBirth, &p.Phone, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get patient failed: %w", err)
	}
	return &p, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Patient, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"id", "mrn", "first_name", "last_name", "date_of_birth", "phone",
		"is_active", "created_at", "updated_at",
		"count(*) OVER() as total_count",
	).From("public.patients")

	if filter.Keyword != "" {
		like := "%" + filter.Keyword + "%"
		query = query.Where(squirrel.Or{
			squirrel.ILike{"mrn": like},
			squirrel.ILike{"first_name": like},
			squirrel.ILike{"last_name": like},
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
		return nil, 0, fmt.Errorf("build list patients query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list patients failed: %w", err)
	}
	defer rows.Close()

	var patients []*Patient
	var total int

	for rows.Next() {
		var p Patient
		if err := rows.Scan(&p.ID, &p.MRN, &p.FirstName, &p.LastName, &p.DateOfBirth, &p.Phone, &p.IsActive, &p.CreatedAt, &p.UpdatedAt, &total); err != nil {
			return nil, 0, fmt.Errorf("scan patient failed: %w", err)
		}
		patients = append(patients, &p)
	}

	return patients, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, p *Patient) error {
	const query = `
		UPDATE public.patients
		SET first_name = $1, last_name = $2, date_of_birth = $3, phone = $4, is_active = $5, updated_at = now()
		WHERE id = $6
	`
	ct, err := r.pool.Exec(ctx, query, p.FirstName, p.LastName, p.DateOfBirth, p.Phone, p.IsActive, p.ID)
	if err != nil {
		return fmt.Errorf("update patient failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) ExistsActive(ctx context.Context, id string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM public.patients WHERE id = $1 AND is_active)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("check patient existence failed: %w", err)
	}
	return exists, nil
}
