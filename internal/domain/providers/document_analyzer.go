package providers

import (
	"context"
	"errors"

	"github.com/umedhealth/umed-backend/internal/domain/entities"
)

// ErrNotMedicalDocument is returned when the analyzer judges the image to
// contain no medical content.
var ErrNotMedicalDocument = errors.New("no medical content detected in document")

// ErrAnalyzerUnauthorized is returned when the analyzer rejects our API key.
var ErrAnalyzerUnauthorized = errors.New("document analyzer rejected credentials")

// DocumentAnalyzer turns a scanned medical document into a structured
// report. The image is raw base64 payload with any data-URL framing
// already stripped; patientContext describes the member the document
// belongs to (name, age).
type DocumentAnalyzer interface {
	AnalyzeDocument(ctx context.Context, imageBase64 string, patientContext string) (*entities.DocumentAnalysis, error)
}
