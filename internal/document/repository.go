package document

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, d *Document) error
	GetByID(ctx context.Context, id string) (*Document, error)
	ListByPatient(ctx context.Context, patientID string) ([]*Document, error)
	Delete(ctx context.Context, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func (r *pgxRepository) Create(ctx context.Context, d *Document) error {
	query, args, err := psql.Insert("public.documents").
		Columns("id", "patient_id", "uploaded_by", "filename", "storage_path", "thumbnail_path", "content_type", "size", "created_at").
		Values(d.ID, d.PatientID, d.UploadedBy, d.Filename, d.StoragePath, d.ThumbnailPath, d.ContentType, d.Size, d.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert document query failed: %w", err)
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert document failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Document, error) {
	query, args, err := psql.Select("id", "patient_id", "uploaded_by", "filename", "storage_path", "thumbnail_path", "content_type", "size", "created_at").
		From("public.documents").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get document query failed: %w", err)
	}

	var d Document
	var thumbnail sql.NullString
	err = r.pool.QueryRow(ctx, query, args...).
		Scan(&d.ID, &d.PatientID, &d.UploadedBy, &d.Filename, &d.StoragePath, &thumbnail, &d.ContentType, &d.Size, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get document failed: %w", err)
	}
	if thumbnail.Valid {
		d.ThumbnailPath = &thumbnail.String
	}
	return &d, nil
}

func (r *pgxRepository) ListByPatient(ctx context.Context, patientID string) ([]*Document, error) {
	query, args, err := psql.Select("id", "patient_id", "uploaded_by", "filename", "storage_path", "thumbnail_path", "content_type", "size", "created_at").
		From("public.documents").
		Where(sq.Eq{"patient_id": patientID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list documents query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list documents failed: %w", err)
	}
	defer rows.Close()

	var docs []*Document
	for rows.Next() {
		var d Document
		var thumbnail sql.NullString
		err := rows.Scan(&d.ID, &d.PatientID, &d.UploadedBy, &d.Filename, &d.StoragePath, &thumbnail, &d.ContentType, &d.Size, &d.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan document failed: %w", err)
		}
		if thumbnail.Valid {
			d.ThumbnailPath = &thumbnail.String
		}
		docs = append(docs, &d)
	}
	return docs, nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	query, args, err := psql.Delete("public.documents").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete document query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete document failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
