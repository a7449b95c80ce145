package port

import (
	"context"

	"taxmitra/internal/domain"
)

// RenderOptions carries optional branding assets and free-text terms for
// the printable layout.
type RenderOptions struct {
	LogoPath   string
	Terms      string
	OutputPath string
}

// Renderer is the document collaborator contract: it consumes a normalized
// invoice and produces a paginated printable document, failing only on
// unrecoverable asset errors. Layout and styling live outside this module.
type Renderer interface {
	Render(ctx context.Context, inv domain.NormalizedInvoice, opts RenderOptions) error
}
