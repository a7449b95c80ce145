// Package report wires the normalization, classification, aggregation, and
// filing stages into one report generation pass over a raw invoice batch.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"taxmitra/internal/aggregate"
	"taxmitra/internal/domain"
	"taxmitra/internal/filing"
	"taxmitra/internal/normalize"
	"taxmitra/internal/tax"
)

// Generator produces filing reports from raw extracted invoice batches.
// Each call is a pure function over its inputs plus the configured options;
// no state is shared across invocations.
type Generator struct {
	opts filing.Options
}

// NewGenerator creates a Generator with the given filing options.
func NewGenerator(opts filing.Options) *Generator {
	return &Generator{opts: opts}
}

// Options returns the generator's filing options.
func (g *Generator) Options() filing.Options {
	return g.opts
}

// Generate runs the full pipeline: normalize each record, compute its tax
// breakup, aggregate by period, and derive filing recommendations. It never
// fails: malformed records degrade per-field, not per-batch.
func (g *Generator) Generate(extracted []domain.RawExtractedInvoice) *domain.FilingReport {
	normalized := make([]domain.NormalizedInvoice, 0, len(extracted))
	for _, raw := range extracted {
		inv := normalize.Normalize(raw)
		inv = tax.ComputeBreakup(inv)
		normalized = append(normalized, inv)
	}

	summaries, breakdown := aggregate.Aggregate(normalized)
	assistant := filing.Assist(summaries, breakdown, normalized, g.opts)

	return &domain.FilingReport{
		ID:            uuid.New(),
		GeneratedAt:   time.Now().UTC(),
		Summary:       summaries,
		RateBreakdown: breakdown,
		Assistant:     assistant,
		Normalized:    normalized,
	}
}

// DecodeBatch reads a JSON document holding either a single raw invoice
// object or an array of them; a single object is treated as a one-element
// batch. Malformed input is the only hard failure in the pipeline.
func DecodeBatch(r io.Reader) ([]domain.RawExtractedInvoice, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInputRead, err)
	}

	var root any
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInputMalformed, err)
	}

	switch v := root.(type) {
	case map[string]any:
		return []domain.RawExtractedInvoice{v}, nil
	case []any:
		batch := make([]domain.RawExtractedInvoice, 0, len(v))
		for i, e := range v {
			m, ok := e.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%w: element %d is not an object", domain.ErrInputMalformed, i)
			}
			batch = append(batch, m)
		}
		return batch, nil
	default:
		return nil, fmt.Errorf("%w: expected an object or array", domain.ErrInputMalformed)
	}
}

// Document is the serialized report shape: summary rows, the per-period
// rate breakdown, and the assistant's per-period entries. Dates serialize
// as RFC3339 text.
type Document struct {
	Summary       []domain.PeriodSummary        `json:"summary"`
	RateBreakdown domain.RateBreakdown          `json:"rate_breakdown"`
	Assistant     map[string]domain.FilingEntry `json:"assistant"`
}

// WriteJSON writes the report document as indented JSON.
func WriteJSON(w io.Writer, rep *domain.FilingReport) error {
	doc := Document{
		Summary:       rep.Summary,
		RateBreakdown: rep.RateBreakdown,
		Assistant:     rep.Assistant,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}
