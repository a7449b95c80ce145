// Package tax classifies invoices as inter- or intra-state supplies and
// fills the IGST/CGST/SGST split consistently with that classification.
//
// The split encodes the destination-based GST regime: inter-state supply is
// wholly IGST, intra-state supply splits evenly into CGST and SGST. Totals
// already present on the source document are never overridden, only gaps
// are filled.
package tax

import (
	"regexp"

	"github.com/shopspring/decimal"

	"taxmitra/internal/domain"
	"taxmitra/internal/scalar"
)

var (
	hundred = decimal.NewFromInt(100)
	two     = decimal.NewFromInt(2)
)

// posCode matches a 1-2 digit state code embedded in parentheses within
// place-of-supply text, e.g. "Mumbai, Maharashtra (27)".
var posCode = regexp.MustCompile(`\((\d{1,2})\)`)

// ClassifyInterState determines the supply classification and a
// human-readable reason. GSTIN state-code comparison wins when both parties
// resolve; otherwise the place-of-supply code is compared against the
// supplier's. When neither works the result is Unknown, never a guess.
func ClassifyInterState(inv domain.NormalizedInvoice) (domain.Classification, string) {
	sup := scalar.StateCode(inv.SupplierGSTIN)
	cus := scalar.StateCode(inv.CustomerGSTIN)
	if sup != "" && cus != "" {
		return compare(sup, cus)
	}
	if inv.PlaceOfSupply != "" && sup != "" {
		if m := posCode.FindStringSubmatch(inv.PlaceOfSupply); m != nil {
			pos := m[1]
			if len(pos) == 1 {
				pos = "0" + pos
			}
			return compare(sup, pos)
		}
	}
	return domain.ClassificationUnknown, domain.ReasonUnknown
}

func compare(supplier, other string) (domain.Classification, string) {
	reason := supplier + " vs " + other
	if supplier != other {
		return domain.ClassificationInterState, reason
	}
	return domain.ClassificationIntraState, reason
}

// ComputeBreakup returns a copy of the invoice with classification stored
// and the tax breakup filled in. Applying it twice yields the same result
// as applying it once: no populated field is overwritten.
func ComputeBreakup(inv domain.NormalizedInvoice) domain.NormalizedInvoice {
	out := inv

	// Derive total tax from item-level amounts when the document did not
	// state one: explicit GST amounts first, else gst_rate * line_total.
	if len(out.Items) > 0 && !out.TotalTax.Valid {
		total := decimal.Zero
		for _, it := range out.Items {
			switch {
			case it.GSTAmount.Valid:
				total = total.Add(it.GSTAmount.Decimal)
			case it.GSTRate.Valid && it.LineTotal.Valid:
				total = total.Add(it.LineTotal.Decimal.Mul(it.GSTRate.Decimal).Div(hundred))
			}
		}
		if total.IsPositive() {
			out.TotalTax = domain.Amount(total.Round(2))
		}
	}

	out.Classification, out.ClassificationReason = ClassifyInterState(out)

	taxResolved := out.TotalTax.Valid
	tt := domain.OrZero(out.TotalTax)

	// Split only when all three components are unset; a document that
	// states any of them keeps its own breakup.
	if !tt.IsZero() && !out.IGST.Valid && !out.CGST.Valid && !out.SGST.Valid {
		switch out.Classification {
		case domain.ClassificationInterState:
			out.IGST = domain.Amount(tt.Round(2))
			out.CGST = domain.Amount(decimal.Zero)
			out.SGST = domain.Amount(decimal.Zero)
		case domain.ClassificationIntraState:
			half := tt.Div(two).Round(2)
			out.CGST = domain.Amount(half)
			out.SGST = domain.Amount(half)
			out.IGST = domain.Amount(decimal.Zero)
		case domain.ClassificationUnknown:
			// Leave all three at zero rather than guessing a split.
		}
	}

	if !out.TaxableTotal.Valid {
		out.TaxableTotal = domain.Amount(decimal.Zero)
	}
	if !out.IGST.Valid {
		out.IGST = domain.Amount(decimal.Zero)
	}
	if !out.CGST.Valid {
		out.CGST = domain.Amount(decimal.Zero)
	}
	if !out.SGST.Valid {
		out.SGST = domain.Amount(decimal.Zero)
	}
	if !taxResolved {
		out.TotalTax = domain.Amount(out.IGST.Decimal.Add(out.CGST.Decimal).Add(out.SGST.Decimal))
	}
	return out
}
