// Package normalize maps raw OCR-extracted invoice records into the
// canonical NormalizedInvoice shape. Field labels are resolved through
// ordered alias lists so the inconsistent labels different OCR engines emit
// stay data, not scattered literals. Normalization never fails: every field
// degrades to null, zero, or empty instead of raising.
package normalize

import (
	"strings"

	"github.com/shopspring/decimal"

	"taxmitra/internal/domain"
	"taxmitra/internal/scalar"
)

// Accepted field-label aliases per logical attribute, in resolution order.
var (
	invoiceIDAliases     = []string{"Invoice Number", "invoice_no", "Invoice No"}
	invoiceDateAliases   = []string{"Invoice Date", "invoice_date", "Date"}
	supplierGSTINAliases = []string{"Vendor GSTIN", "Supplier GSTIN", "Seller GSTIN"}
	customerGSTINAliases = []string{"Customer GSTIN", "Buyer GSTIN"}
	placeOfSupplyAliases = []string{"Place of Supply", "Vendor Address", "Customer Address"}
	rawTextAliases       = []string{"raw_text", "Raw Text"}

	taxableAliases    = []string{"Taxable Amount", "Taxable", "Taxable Value"}
	cgstAliases       = []string{"CGST Amount", "CGST"}
	sgstAliases       = []string{"SGST Amount", "SGST"}
	igstAliases       = []string{"IGST Amount", "IGST"}
	totalTaxAliases   = []string{"Total Tax"}
	grandTotalAliases = []string{"Total Amount", "Grand Total"}

	itemDescAliases   = []string{"Item Name", "Item", "Description", "description"}
	itemHSNAliases    = []string{"HSN/SAC Code", "HSN", "SAC"}
	itemQtyAliases    = []string{"Quantity", "Qty"}
	itemPriceAliases  = []string{"Unit Price", "Rate"}
	itemTotalAliases  = []string{"Line Total", "Amount"}
	itemGSTRateAlias  = []string{"GST Rate"}
	itemGSTAmtAliases = []string{"GST Amount", "Tax Amount"}
)

// Normalize converts one raw extracted record into a NormalizedInvoice.
// Classification fields are left at their defaults; filling them is the tax
// classifier's job.
func Normalize(raw domain.RawExtractedInvoice) domain.NormalizedInvoice {
	inv := domain.NormalizedInvoice{
		Classification: domain.ClassificationUnknown,
		RawExtracted:   raw,
	}

	if v, ok := lookup(raw, invoiceIDAliases); ok {
		inv.InvoiceID = asString(v)
	}
	// The pre-normalization value of the primary label is kept verbatim.
	if v, ok := raw[invoiceIDAliases[0]]; ok && v != nil {
		inv.RawInvoiceID = rawString(v)
	}

	if v, ok := lookup(raw, invoiceDateAliases); ok {
		inv.InvoiceDate = scalar.ParseDate(v)
	}
	if inv.InvoiceDate == nil {
		if v, ok := lookup(raw, rawTextAliases); ok {
			inv.InvoiceDate = scalar.FindDate(asString(v))
		}
	}

	if v, ok := lookup(raw, supplierGSTINAliases); ok {
		inv.SupplierGSTIN = asString(v)
	}
	if v, ok := lookup(raw, customerGSTINAliases); ok {
		inv.CustomerGSTIN = asString(v)
	}
	if v, ok := lookup(raw, placeOfSupplyAliases); ok {
		inv.PlaceOfSupply = asString(v)
	}

	rawItems := raw.RawItems()
	inv.Items = make([]domain.LineItem, 0, len(rawItems))
	for _, ri := range rawItems {
		// Items without a usable description are still emitted; dropping
		// noisy rows is the filing stage's policy, not normalization's.
		inv.Items = append(inv.Items, normalizeItem(ri))
	}

	inv.TaxableTotal = amountField(raw, taxableAliases)
	inv.CGST = amountField(raw, cgstAliases)
	inv.SGST = amountField(raw, sgstAliases)
	inv.IGST = amountField(raw, igstAliases)
	inv.TotalTax = amountField(raw, totalTaxAliases)
	inv.GrandTotal = amountField(raw, grandTotalAliases)

	if !inv.TaxableTotal.Valid && len(inv.Items) > 0 {
		sum := decimal.Zero
		for _, it := range inv.Items {
			sum = sum.Add(it.TaxableValue())
		}
		inv.TaxableTotal = domain.Amount(sum.Round(2))
	}

	return inv
}

func normalizeItem(ri map[string]any) domain.LineItem {
	it := domain.LineItem{}

	if v, ok := lookup(ri, itemDescAliases); ok {
		it.Description = asString(v)
	}
	if v, ok := lookup(ri, itemHSNAliases); ok {
		it.HSN = asString(v)
	}

	// Quantity defaults to 1 and unit price to 0 when absent or unparsable.
	it.Qty = decimal.NewFromInt(1)
	if v, ok := lookup(ri, itemQtyAliases); ok {
		if q := scalar.ParseAmount(v); q.Valid {
			it.Qty = q.Decimal
		}
	}
	it.UnitPrice = decimal.Zero
	if v, ok := lookup(ri, itemPriceAliases); ok {
		if p := scalar.ParseAmount(v); p.Valid {
			it.UnitPrice = p.Decimal
		}
	}

	it.LineTotal = decimal.NullDecimal{}
	if v, ok := lookup(ri, itemTotalAliases); ok {
		it.LineTotal = scalar.ParseAmount(v)
	}
	if !it.LineTotal.Valid {
		it.LineTotal = domain.Amount(it.Qty.Mul(it.UnitPrice))
	}

	if v, ok := lookup(ri, itemGSTRateAlias); ok {
		it.GSTRate = parseRate(v)
	}
	if v, ok := lookup(ri, itemGSTAmtAliases); ok {
		it.GSTAmount = scalar.ParseAmount(v)
	}
	return it
}

// parseRate parses a GST percentage, stripping a trailing percent sign.
// Unlike ParseAmount it does not scavenge digit runs: a rate that is not a
// plain number stays null rather than becoming zero.
func parseRate(v any) decimal.NullDecimal {
	switch val := v.(type) {
	case float64:
		return domain.Amount(decimal.NewFromFloat(val))
	case int:
		return domain.Amount(decimal.NewFromInt(int64(val)))
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(val, "%", ""))
		if d, err := decimal.NewFromString(s); err == nil {
			return domain.Amount(d)
		}
	}
	return decimal.NullDecimal{}
}

func amountField(raw map[string]any, aliases []string) decimal.NullDecimal {
	if v, ok := lookup(raw, aliases); ok {
		return scalar.ParseAmount(v)
	}
	return decimal.NullDecimal{}
}
