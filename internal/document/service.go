package document

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/grandoak/hospital-backend/internal/patient"
	"github.com/grandoak/hospital-backend/internal/pkg/storage"
)

type Service interface {
	Upload(ctx context.Context, header *multipart.FileHeader, patientID, uploadedBy string) (*Document, error)
	Get(ctx context.Context, id string) (*Document, error)
	ListByPatient(ctx context.Context, patientID string) ([]*Document, error)
	Download(ctx context.Context, id string) (io.ReadCloser, *Document, error)
	DownloadThumbnail(ctx context.Context, id string) (io.ReadCloser, *Document, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo           Repository
	storage        storage.Storage
	imgProc        *storage.ImageProcessor
	patientService patient.Service
}

func NewService(repo Repository, store storage.Storage, patientService patient.Service) Service {
	return &service{
		repo:           repo,
		storage:        store,
		imgProc:        storage.NewImageProcessor(),
		patientService: patientService,
	}
}

func (s *service) Upload(ctx context.Context, header *multipart.FileHeader, patientID, uploadedBy string) (*Document, error) {
	ok, err := s.patientService.Exists(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrPatientNotFound
	}

	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open uploaded file failed: %w", err)
	}
	defer src.Close()

	// Buffered so the content can be read twice, once for the original
	// and once for the thumbnail.
	fileBytes, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("read uploaded file failed: %w", err)
	}

	contentType := header.Header.Get("Content-Type")
	ext := strings.ToLower(filepath.Ext(header.Filename))

	docID := uuid.New().String()
	shard := docID[:2]
	storagePath := fmt.Sprintf("documents/%s/%s%s", shard, docID, ext)

	if err := s.storage.Save(ctx, storagePath, bytes.NewReader(fileBytes)); err != nil {
		return nil, fmt.Errorf("save document failed: %w", err)
	}

	// Thumbnail failure never fails the upload.
	var thumbnailPath *string
	if strings.HasPrefix(contentType, "image/") {
		thumbReader, err := s.imgProc.GenerateThumbnail(bytes.NewReader(fileBytes), 200, 200)
		if err == nil {
			tPath := fmt.Sprintf("documents/%s/%s_thumb.jpg", shard, docID)
			if err := s.storage.Save(ctx, tPath, thumbReader); err == nil {
				thumbnailPath = &tPath
			}
		}
	}

	d := &Document{
		ID:            docID,
		PatientID:     patientID,
		UploadedBy:    uploadedBy,
		Filename:      header.Filename,
		StoragePath:   storagePath,
		ThumbnailPath: thumbnailPath,
		ContentType:   contentType,
		Size:          header.Size,
		CreatedAt:     time.Now(),
	}

	if err := s.repo.Create(ctx, d); err != nil {
		_ = s.storage.Delete(ctx, storagePath)
		if thumbnailPath != nil {
			_ = s.storage.Delete(ctx, *thumbnailPath)
		}
		return nil, err
	}
	return d, nil
}

func (s *service) Get(ctx context.Context, id string) (*Document, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListByPatient(ctx context.Context, patientID string) ([]*Document, error) {
	ok, err := s.patientService.Exists(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrPatientNotFound
	}
	return s.repo.ListByPatient(ctx, patientID)
}

func (s *service) Download(ctx context.Context, id string) (io.ReadCloser, *Document, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	stream, err := s.storage.Get(ctx, d.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("retrieve document failed: %w", err)
	}
	return stream, d, nil
}

func (s *service) DownloadThumbnail(ctx context.Context, id string) (io.ReadCloser, *Document, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if d.ThumbnailPath == nil {
		return nil, nil, ErrNoThumbnail
	}

	stream, err := s.storage.Get(ctx, *d.ThumbnailPath)
	if err != nil {
		return nil, nil, fmt.Errorf("retrieve thumbnail failed: %w", err)
	}
	return stream, d, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	// Storage cleanup is best effort; the record is the source of truth.
	_ = s.storage.Delete(ctx, d.StoragePath)
	if d.ThumbnailPath != nil {
		_ = s.storage.Delete(ctx, *d.ThumbnailPath)
	}

	return s.repo.Delete(ctx, id)
}
