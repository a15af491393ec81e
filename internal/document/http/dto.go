package http

import (
	"time"

	"github.com/grandoak/hospital-backend/internal/document"
)

type DocumentResponse struct {
	ID           string    `json:"id"`
	PatientID    string    `json:"patient_id"`
	UploadedBy   string    `json:"uploaded_by"`
	Filename     string    `json:"filename"`
	ContentType  string    `json:"content_type"`
	Size         int64     `json:"size"`
	URL          string    `json:"url"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func NewDocumentResponse(d *document.Document) DocumentResponse {
	resp := DocumentResponse{
		ID:          d.ID,
		PatientID:   d.PatientID,
		UploadedBy:  d.UploadedBy,
		Filename:    d.Filename,
		ContentType: d.ContentType,
		Size:        d.Size,
		URL:         document.DocumentURL(d.ID),
		CreatedAt:   d.CreatedAt,
	}
	if d.ThumbnailPath != nil {
		resp.ThumbnailURL = document.ThumbnailURL(d.ID)
	}
	return resp
}
