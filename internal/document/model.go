package document

import (
	"net/http"
	"time"

	"github.com/grandoak/hospital-backend/internal/pkg/apperror"
)

var (
	ErrNotFound        = apperror.New(http.StatusNotFound, "document not found")
	ErrPatientNotFound = apperror.New(http.StatusNotFound, "patient not found or inactive")
	ErrNoThumbnail     = apperror.New(http.StatusNotFound, "document has no thumbnail")
)

// Document is a file attached to a patient's record (referral letters,
// scans, consent forms).
type Document struct {
	ID            string
	PatientID     string
	UploadedBy    string
	Filename      string
	StoragePath   string
	ThumbnailPath *string
	ContentType   string
	Size          int64
	CreatedAt     time.Time
}

// DocumentURL returns the public URL for downloading a document.
func DocumentURL(id string) string {
	return "/documents/" + id
}

// ThumbnailURL returns the public URL for a document's thumbnail.
func ThumbnailURL(id string) string {
	return "/documents/" + id + "/thumbnail"
}
