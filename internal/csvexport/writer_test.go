package csvexport

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxmitra/internal/domain"
)

func TestWriteSummary(t *testing.T) {
	rows := []domain.PeriodSummary{
		{
			Period:            "2024-03",
			InvoiceCount:      2,
			TotalTaxableValue: decimal.RequireFromString("1500"),
			TotalIGST:         decimal.RequireFromString("180"),
			TotalCGST:         decimal.RequireFromString("30"),
			TotalSGST:         decimal.RequireFromString("30"),
			TotalTax:          decimal.RequireFromString("240"),
			TotalInvoiceValue: decimal.RequireFromString("1740"),
		},
		{
			Period:       domain.PeriodUnknown,
			InvoiceCount: 1,
		},
	}

	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.WriteSummary(rows))
	w.Flush()
	require.NoError(t, w.Error())

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{
		"period", "invoice_count", "total_taxable_value",
		"total_igst", "total_cgst", "total_sgst", "total_tax", "total_invoice_value",
	}, records[0])
	assert.Equal(t, []string{"2024-03", "2", "1500.00", "180.00", "30.00", "30.00", "240.00", "1740.00"}, records[1])
	assert.Equal(t, []string{"unknown", "1", "0.00", "0.00", "0.00", "0.00", "0.00", "0.00"}, records[2])
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple name", "filing_summary", "filing_summary"},
		{"spaces and specials", "Q4 filing / summary!", "Q4_filing_summary"},
		{"consecutive underscores collapse", "a__b___c", "a_b_c"},
		{"trims edge underscores", "  report  ", "report"},
		{"truncates long names", strings.Repeat("a", 150), strings.Repeat("a", 100)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeFilename(tt.input))
		})
	}
}

func TestBuildFilename(t *testing.T) {
	got := BuildFilename("filing summary")
	date := time.Now().Format("2006-01-02")
	assert.Equal(t, "filing_summary_"+date+".csv", got)
}
