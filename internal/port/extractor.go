package port

import (
	"context"

	"taxmitra/internal/domain"
)

// Extractor is the OCR collaborator contract: given an invoice image or
// document path it produces the raw key/value mapping the engine consumes.
// Text recognition itself lives outside this module.
type Extractor interface {
	Extract(ctx context.Context, path string) (domain.RawExtractedInvoice, error)
}
