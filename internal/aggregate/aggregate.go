// Package aggregate rolls normalized invoices into per-period filing
// summaries. Aggregation is a pure fold with commutative reductions (count
// and sum), so the result is independent of invoice order.
package aggregate

import (
	"sort"

	"github.com/shopspring/decimal"

	"taxmitra/internal/domain"
)

// Aggregate groups invoices by YYYY-MM period (or the unknown sentinel) and
// reduces each group to counts and 2-decimal sums. It also accumulates the
// per-period taxable value by GST rate. Empty input yields empty outputs.
func Aggregate(invs []domain.NormalizedInvoice) ([]domain.PeriodSummary, domain.RateBreakdown) {
	sums := make(map[string]*domain.PeriodSummary)
	breakdown := make(domain.RateBreakdown)

	for i := range invs {
		inv := &invs[i]
		period := inv.PeriodKey()

		s, ok := sums[period]
		if !ok {
			s = &domain.PeriodSummary{Period: period}
			sums[period] = s
		}

		taxable := domain.OrZero(inv.TaxableTotal)
		totalTax := domain.OrZero(inv.TotalTax)
		invoiceValue := taxable.Add(totalTax)
		if inv.GrandTotal.Valid {
			invoiceValue = inv.GrandTotal.Decimal
		}

		s.InvoiceCount++
		s.TotalTaxableValue = s.TotalTaxableValue.Add(taxable)
		s.TotalIGST = s.TotalIGST.Add(domain.OrZero(inv.IGST))
		s.TotalCGST = s.TotalCGST.Add(domain.OrZero(inv.CGST))
		s.TotalSGST = s.TotalSGST.Add(domain.OrZero(inv.SGST))
		s.TotalTax = s.TotalTax.Add(totalTax)
		s.TotalInvoiceValue = s.TotalInvoiceValue.Add(invoiceValue)

		for _, it := range inv.Items {
			label := domain.RateUnknown
			if it.GSTRate.Valid {
				label = it.GSTRate.Decimal.String()
			}
			rates := breakdown[period]
			if rates == nil {
				rates = make(map[string]decimal.Decimal)
				breakdown[period] = rates
			}
			rates[label] = rates[label].Add(it.TaxableValue())
		}
	}

	rows := make([]domain.PeriodSummary, 0, len(sums))
	for _, s := range sums {
		s.TotalTaxableValue = s.TotalTaxableValue.Round(2)
		s.TotalIGST = s.TotalIGST.Round(2)
		s.TotalCGST = s.TotalCGST.Round(2)
		s.TotalSGST = s.TotalSGST.Round(2)
		s.TotalTax = s.TotalTax.Round(2)
		s.TotalInvoiceValue = s.TotalInvoiceValue.Round(2)
		rows = append(rows, *s)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Period < rows[j].Period })
	return rows, breakdown
}
