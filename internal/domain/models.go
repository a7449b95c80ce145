package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RawExtractedInvoice is the untyped key/value mapping produced by the OCR
// extractor. Field labels arrive with inconsistent casing and spacing
// ("Invoice Number", "invoice_no", "Vendor GSTIN "). It is read-only input
// to normalization and is never mutated.
type RawExtractedInvoice map[string]any

// RawItems returns the raw line-item mappings under the "Items" key.
// Entries that are not objects are skipped.
func (r RawExtractedInvoice) RawItems() []map[string]any {
	list, ok := r["Items"].([]any)
	if !ok {
		return nil
	}
	items := make([]map[string]any, 0, len(list))
	for _, e := range list {
		if m, ok := e.(map[string]any); ok {
			items = append(items, m)
		}
	}
	return items
}

// LineItem is a normalized invoice line.
// When LineTotal is unset it is reconstructible as Qty * UnitPrice.
type LineItem struct {
	Description string              `json:"description"`
	HSN         string              `json:"hsn,omitempty"`
	Qty         decimal.Decimal     `json:"qty"`
	UnitPrice   decimal.Decimal     `json:"unit_price"`
	LineTotal   decimal.NullDecimal `json:"line_total"`
	GSTRate     decimal.NullDecimal `json:"gst_rate"`
	GSTAmount   decimal.NullDecimal `json:"gst_amount"`
}

// TaxableValue returns the item's taxable contribution: the explicit line
// total when present, otherwise Qty * UnitPrice.
func (it LineItem) TaxableValue() decimal.Decimal {
	if it.LineTotal.Valid {
		return it.LineTotal.Decimal
	}
	return it.Qty.Mul(it.UnitPrice)
}

// NormalizedInvoice is the canonical invoice shape. Monetary fields use
// nullable decimals so an unknown amount stays distinguishable from zero
// until the tax breakup backfills it. Created once by normalize.Normalize,
// enriched by tax.ComputeBreakup, immutable afterwards.
type NormalizedInvoice struct {
	InvoiceID            string              `json:"invoice_id,omitempty"`
	RawInvoiceID         string              `json:"raw_invoice_id,omitempty"`
	InvoiceDate          *time.Time          `json:"invoice_date,omitempty"`
	SupplierGSTIN        string              `json:"supplier_gstin,omitempty"`
	CustomerGSTIN        string              `json:"customer_gstin,omitempty"`
	PlaceOfSupply        string              `json:"place_of_supply,omitempty"`
	Items                []LineItem          `json:"items"`
	TaxableTotal         decimal.NullDecimal `json:"taxable_total"`
	CGST                 decimal.NullDecimal `json:"cgst"`
	SGST                 decimal.NullDecimal `json:"sgst"`
	IGST                 decimal.NullDecimal `json:"igst"`
	TotalTax             decimal.NullDecimal `json:"total_tax"`
	GrandTotal           decimal.NullDecimal `json:"grand_total"`
	Classification       Classification      `json:"classification_inter_state"`
	ClassificationReason string              `json:"classification_reason,omitempty"`
	RawExtracted         RawExtractedInvoice `json:"raw_extracted,omitempty"`
}

// PeriodUnknown is the sentinel period key for invoices without a usable date.
const PeriodUnknown = "unknown"

// RateUnknown is the sentinel rate-breakdown key for items without a GST rate.
const RateUnknown = "unknown"

// PeriodKey returns the invoice's filing period as YYYY-MM, or
// PeriodUnknown when no date could be determined.
func (n *NormalizedInvoice) PeriodKey() string {
	if n.InvoiceDate == nil {
		return PeriodUnknown
	}
	return n.InvoiceDate.Format("2006-01")
}

// PeriodSummary is one aggregation row per filing period.
// Monetary fields are rounded to 2 decimal places.
type PeriodSummary struct {
	Period            string          `json:"period"`
	InvoiceCount      int             `json:"invoice_count"`
	TotalTaxableValue decimal.Decimal `json:"total_taxable_value"`
	TotalIGST         decimal.Decimal `json:"total_igst"`
	TotalCGST         decimal.Decimal `json:"total_cgst"`
	TotalSGST         decimal.Decimal `json:"total_sgst"`
	TotalTax          decimal.Decimal `json:"total_tax"`
	TotalInvoiceValue decimal.Decimal `json:"total_invoice_value"`
}

// RateBreakdown maps period -> GST rate label -> summed taxable value.
// Rate labels are the decimal percentage ("5", "12.5") or RateUnknown.
type RateBreakdown map[string]map[string]decimal.Decimal

// Anomaly is a single data-quality finding on one invoice.
type Anomaly struct {
	InvoiceID string `json:"invoice_id"`
	Issue     string `json:"issue"`
}

// FilingEntry is the per-period filing recommendation.
type FilingEntry struct {
	TotalTaxableValue decimal.Decimal            `json:"total_taxable_value"`
	TotalTax          decimal.Decimal            `json:"total_tax"`
	TotalInvoiceValue decimal.Decimal            `json:"total_invoice_value"`
	InvoiceCount      int                        `json:"invoice_count"`
	TaxToPay          decimal.Decimal            `json:"tax_to_pay"`
	Recommendation    string                     `json:"recommendation"`
	Anomalies         []Anomaly                  `json:"anomalies"`
	RateBreakdown     map[string]decimal.Decimal `json:"rate_breakdown"`
	SummaryText       string                     `json:"summary_text"`
}

// FilingReport is the full output of one report generation run.
// Normalized is retained for traceability but excluded from the report
// document; the serialized shape is {summary, rate_breakdown, assistant}.
type FilingReport struct {
	ID            uuid.UUID              `json:"id"`
	GeneratedAt   time.Time              `json:"generated_at"`
	Summary       []PeriodSummary        `json:"summary"`
	RateBreakdown RateBreakdown          `json:"rate_breakdown"`
	Assistant     map[string]FilingEntry `json:"assistant"`
	Normalized    []NormalizedInvoice    `json:"-"`
}

// Amount wraps a decimal in a valid NullDecimal.
func Amount(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// AmountFromFloat wraps a float in a valid NullDecimal.
func AmountFromFloat(v float64) decimal.NullDecimal {
	return Amount(decimal.NewFromFloat(v))
}

// OrZero collapses an unset amount to zero.
func OrZero(a decimal.NullDecimal) decimal.Decimal {
	if !a.Valid {
		return decimal.Zero
	}
	return a.Decimal
}
