package resource

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is satisfied by both *pgxpool.Pool and pgx.Tx, so transitions can
// run standalone or inside a caller-owned transaction (admit/discharge).
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Registry exposes guarded status reads and transitions for allocatable
// resources.
type Registry interface {
	GetStatus(ctx context.Context, kind Kind, id string) (Status, error)
	Transition(ctx context.Context, kind Kind, id string, from, to Status) error

	// TransitionTx runs the same guarded transition inside an existing
	// transaction.
	TransitionTx(ctx context.Context, q Querier, kind Kind, id string, from, to Status) error
}

type pgxRegistry struct {
	pool *pgxpool.Pool
}

// tableFor maps a resource kind to the table holding its status column.
func tableFor(kind Kind) (string, error) {
	switch kind {
	case KindTheatre:
		return "public.theatres", nil
	case KindBed:
		return "public.beds", nil
	default:
		return "", ErrUnknownKind
	}
}

func NewPgxRegistry(pool *pgxpool.Pool) Registry {
	return &pgxRegistry{pool: pool}
}

func (r *pgxRegistry) GetStatus(ctx context.Context, kind Kind, id string) (Status, error) {
	table, err := tableFor(kind)
	if err != nil {
		return "", err
	}

	query := fmt.Sprintf("SELECT status FROM %s WHERE id = $1 AND is_active", table)

	var status Status
	if err := r.pool.QueryRow(ctx, query, id).Scan(&status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("get %s status failed: %w", kind, err)
	}
	return status, nil
}

func (r *pgxRegistry) Transition(ctx context.Context, kind Kind, id string, from, to Status) error {
	return r.TransitionTx(ctx, r.pool, kind, id, from, to)
}

func (r *pgxRegistry) TransitionTx(ctx context.Context, q Querier, kind Kind, id string, from, to Status) error {
	if !CanTransition(kind, from, to) {
		return ErrInvalidTransition
	}

	table, err := tableFor(kind)
	if err != nil {
		return err
	}

	// Compare-and-swap: the update only lands if the row still holds the
	// expected status, so a concurrent writer fails here instead of
	// silently clobbering.
	query := fmt.Sprintf(
		"UPDATE %s SET status = $1, updated_at = now() WHERE id = $2 AND is_active AND status = $3",
		table,
	)

	ct, err := q.Exec(ctx, query, to, id, from)
	if err != nil {
		return fmt.Errorf("transition %s %s -> %s failed: %w", kind, from, to, err)
	}
	if ct.RowsAffected() == 0 {
		// Distinguish a missing row from a stale expected status.
		existsQuery := fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1 AND is_active)", table)
		var exists bool
		if err := q.QueryRow(ctx, existsQuery, id).Scan(&exists); err != nil {
			return fmt.Errorf("check %s existence failed: %w", kind, err)
		}
		if !exists {
			return ErrNotFound
		}
		return ErrInvalidTransition
	}
	return nil
}
