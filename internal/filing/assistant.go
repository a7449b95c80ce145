// Package filing turns period summaries and normalized invoices into
// human-readable filing recommendations plus a list of data-quality
// anomalies. Anomalies surface problems; they never fail the run and never
// auto-correct the data.
package filing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"taxmitra/internal/domain"
)

// Options carries the assistant's tunable policy constants. The defaults
// are heuristics tuned to one OCR engine's noise patterns; override them
// with domain input rather than guessing better values.
type Options struct {
	// PayThreshold is the tax amount above which the recommendation
	// becomes a payment message instead of a generic "file".
	PayThreshold decimal.Decimal
	// MismatchTolerance bounds the accepted difference between the sum of
	// item line totals and the invoice's stated taxable total.
	MismatchTolerance decimal.Decimal
	// NoiseMarkers are description substrings identifying OCR noise rows
	// (stray header fragments) to exclude from the missing-HSN check.
	NoiseMarkers []string
}

// DefaultOptions returns the assistant's default policy constants.
func DefaultOptions() Options {
	return Options{
		PayThreshold:      decimal.Zero,
		MismatchTolerance: decimal.RequireFromString("0.5"),
		NoiseMarkers:      []string{"rate", "total"},
	}
}

// Assist produces exactly one FilingEntry per period appearing in either
// the summaries or an invoice's derived period key. Anomaly order follows
// invoice iteration order, then check order within each invoice.
func Assist(summaries []domain.PeriodSummary, breakdown domain.RateBreakdown, invs []domain.NormalizedInvoice, opts Options) map[string]domain.FilingEntry {
	entries := make(map[string]*domain.FilingEntry)
	seed := func(period string) *domain.FilingEntry {
		if e, ok := entries[period]; ok {
			return e
		}
		e := &domain.FilingEntry{Anomalies: []domain.Anomaly{}}
		entries[period] = e
		return e
	}

	if len(summaries) == 0 {
		seed(domain.PeriodUnknown)
	}
	for _, s := range summaries {
		e := seed(s.Period)
		e.TotalTaxableValue = s.TotalTaxableValue
		e.TotalTax = s.TotalTax
		e.TotalInvoiceValue = s.TotalInvoiceValue
		e.InvoiceCount = s.InvoiceCount
		e.TaxToPay = s.TotalTax
	}

	for i := range invs {
		inv := &invs[i]
		e := seed(inv.PeriodKey())
		flag := func(issue string) {
			e.Anomalies = append(e.Anomalies, domain.Anomaly{InvoiceID: inv.InvoiceID, Issue: issue})
		}

		if inv.SupplierGSTIN == "" {
			flag("Missing supplier GSTIN")
		}
		if inv.CustomerGSTIN == "" {
			flag("Missing customer GSTIN")
		}
		for _, it := range inv.Items {
			if it.HSN != "" || isNoise(it.Description, opts.NoiseMarkers) {
				continue
			}
			flag(fmt.Sprintf("Missing HSN for item '%s'", it.Description))
		}
		if len(inv.Items) > 0 && inv.TaxableTotal.Valid && !inv.TaxableTotal.Decimal.IsZero() {
			sumLines := decimal.Zero
			for _, it := range inv.Items {
				sumLines = sumLines.Add(it.TaxableValue())
			}
			sumLines = sumLines.Round(2)
			stated := inv.TaxableTotal.Decimal.Round(2)
			if sumLines.Sub(stated).Abs().GreaterThan(opts.MismatchTolerance) {
				flag(fmt.Sprintf("Taxable mismatch: sum(items)=%s vs taxable_total=%s",
					sumLines.StringFixed(2), stated.StringFixed(2)))
			}
		}
		if inv.Classification == domain.ClassificationUnknown {
			flag("Inter/intra classification unknown (missing GSTIN or place of supply). Please review.")
		}
	}

	out := make(map[string]domain.FilingEntry, len(entries))
	for period, e := range entries {
		rec := "No filing required (nil)."
		if e.InvoiceCount > 0 || e.TotalTax.IsPositive() {
			rec = "File return for this period."
		}
		if e.TaxToPay.IsPositive() && e.TaxToPay.GreaterThan(opts.PayThreshold) {
			rec = fmt.Sprintf("File return and pay ₹%s for period %s.", e.TaxToPay.StringFixed(2), period)
		}
		e.Recommendation = rec

		rates := breakdown[period]
		if rates == nil {
			rates = map[string]decimal.Decimal{}
		}
		e.RateBreakdown = rates
		e.SummaryText = fmt.Sprintf("Period %s: %d invoices, taxable ₹%s, tax ₹%s.",
			period, e.InvoiceCount, e.TotalTaxableValue.StringFixed(2), e.TotalTax.StringFixed(2))

		out[period] = *e
	}
	return out
}

func isNoise(description string, markers []string) bool {
	d := strings.ToLower(description)
	for _, m := range markers {
		if m != "" && strings.Contains(d, m) {
			return true
		}
	}
	return false
}
