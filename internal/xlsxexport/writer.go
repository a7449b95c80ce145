// Package xlsxexport writes filing reports as Excel workbooks: one Summary
// sheet mirroring the period-summary CSV, plus a Rate Breakdown sheet.
package xlsxexport

import (
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"taxmitra/internal/domain"
)

const (
	summarySheet   = "Summary"
	breakdownSheet = "Rate Breakdown"
)

var summaryHeader = []any{
	"Period", "Invoice Count", "Total Taxable Value",
	"Total IGST", "Total CGST", "Total SGST", "Total Tax", "Total Invoice Value",
}

var breakdownHeader = []any{"Period", "GST Rate", "Taxable Value"}

// Build constructs the workbook in memory.
func Build(rep *domain.FilingReport) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, fmt.Errorf("rename summary sheet: %w", err)
	}
	if err := f.SetSheetRow(summarySheet, "A1", &summaryHeader); err != nil {
		return nil, fmt.Errorf("write summary header: %w", err)
	}
	for i := range rep.Summary {
		s := &rep.Summary[i]
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []any{
			s.Period,
			s.InvoiceCount,
			s.TotalTaxableValue.InexactFloat64(),
			s.TotalIGST.InexactFloat64(),
			s.TotalCGST.InexactFloat64(),
			s.TotalSGST.InexactFloat64(),
			s.TotalTax.InexactFloat64(),
			s.TotalInvoiceValue.InexactFloat64(),
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write summary row %d: %w", i, err)
		}
	}

	if _, err := f.NewSheet(breakdownSheet); err != nil {
		return nil, fmt.Errorf("create breakdown sheet: %w", err)
	}
	if err := f.SetSheetRow(breakdownSheet, "A1", &breakdownHeader); err != nil {
		return nil, fmt.Errorf("write breakdown header: %w", err)
	}
	rowIdx := 2
	for _, period := range sortedKeys(rep.RateBreakdown) {
		rates := rep.RateBreakdown[period]
		labels := make([]string, 0, len(rates))
		for label := range rates {
			labels = append(labels, label)
		}
		sort.Strings(labels)
		for _, label := range labels {
			cell, err := excelize.CoordinatesToCellName(1, rowIdx)
			if err != nil {
				return nil, err
			}
			row := []any{period, label, rates[label].InexactFloat64()}
			if err := f.SetSheetRow(breakdownSheet, cell, &row); err != nil {
				return nil, fmt.Errorf("write breakdown row %d: %w", rowIdx, err)
			}
			rowIdx++
		}
	}
	return f, nil
}

// Save writes the workbook to path.
func Save(rep *domain.FilingReport, path string) error {
	f, err := Build(rep)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrExportFailed, err)
	}
	return nil
}

func sortedKeys(b domain.RateBreakdown) []string {
	keys := make([]string, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
