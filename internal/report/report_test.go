package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxmitra/internal/domain"
	"taxmitra/internal/filing"
)

func TestDecodeBatch(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantLen int
		wantErr error
	}{
		{"single object", `{"Invoice Number": "INV-1"}`, 1, nil},
		{"array", `[{"Invoice Number": "INV-1"}, {"Invoice Number": "INV-2"}]`, 2, nil},
		{"empty array", `[]`, 0, nil},
		{"truncated json", `{"Invoice Number": `, 0, domain.ErrInputMalformed},
		{"scalar root", `42`, 0, domain.ErrInputMalformed},
		{"array with scalar element", `[{"a": 1}, 7]`, 0, domain.ErrInputMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			batch, err := DecodeBatch(strings.NewReader(tt.input))
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, batch, tt.wantLen)
		})
	}
}

func TestGenerateEndToEnd(t *testing.T) {
	input := `[
		{
			"Invoice Number": "INV-001",
			"Invoice Date": "15/03/2024",
			"Vendor GSTIN": "24ABCDE1234F1Z5",
			"Customer GSTIN": "27XXXXX0000X1Z1",
			"Items": [
				{"Item Name": "Consulting", "HSN/SAC Code": "9983", "Quantity": 1, "Unit Price": 1000, "GST Rate": "18%"}
			],
			"Taxable Amount": "1000",
			"Total Tax": "180",
			"Total Amount": "1180"
		},
		{
			"invoice_no": "INV-002",
			"Invoice Date": "20/03/2024",
			"Vendor GSTIN": "24ABCDE1234F1Z5",
			"Customer GSTIN": "24PQRST5678G1Z9",
			"Taxable Amount": "500",
			"Total Tax": "60"
		}
	]`

	batch, err := DecodeBatch(strings.NewReader(input))
	require.NoError(t, err)

	rep := NewGenerator(filing.DefaultOptions()).Generate(batch)

	require.Len(t, rep.Normalized, 2)
	assert.Equal(t, domain.ClassificationInterState, rep.Normalized[0].Classification)
	assert.Equal(t, "180.00", rep.Normalized[0].IGST.Decimal.StringFixed(2))
	assert.Equal(t, domain.ClassificationIntraState, rep.Normalized[1].Classification)
	assert.Equal(t, "30.00", rep.Normalized[1].CGST.Decimal.StringFixed(2))

	require.Len(t, rep.Summary, 1)
	s := rep.Summary[0]
	assert.Equal(t, "2024-03", s.Period)
	assert.Equal(t, 2, s.InvoiceCount)
	assert.Equal(t, "1500.00", s.TotalTaxableValue.StringFixed(2))
	assert.Equal(t, "240.00", s.TotalTax.StringFixed(2))
	assert.Equal(t, "1740.00", s.TotalInvoiceValue.StringFixed(2))

	require.Contains(t, rep.Assistant, "2024-03")
	e := rep.Assistant["2024-03"]
	assert.Equal(t, "File return and pay ₹240.00 for period 2024-03.", e.Recommendation)
	assert.Empty(t, e.Anomalies)
	assert.Contains(t, e.RateBreakdown, "18")

	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", rep.ID.String())
	assert.False(t, rep.GeneratedAt.IsZero())
}

func TestGenerateEmptyBatch(t *testing.T) {
	rep := NewGenerator(filing.DefaultOptions()).Generate(nil)

	assert.Empty(t, rep.Summary)
	assert.Empty(t, rep.RateBreakdown)
	require.Contains(t, rep.Assistant, domain.PeriodUnknown)
	assert.Equal(t, "No filing required (nil).", rep.Assistant[domain.PeriodUnknown].Recommendation)
}

func TestWriteJSON(t *testing.T) {
	rep := NewGenerator(filing.DefaultOptions()).Generate([]domain.RawExtractedInvoice{
		{"Invoice Number": "INV-1", "Invoice Date": "15/03/2024", "Taxable Amount": "100"},
	})

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, rep))

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Contains(t, doc, "summary")
	assert.Contains(t, doc, "rate_breakdown")
	assert.Contains(t, doc, "assistant")
	assert.NotContains(t, doc, "normalized")
}
