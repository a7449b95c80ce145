package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxmitra/internal/filing"
)

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewReportHandler(filing.DefaultOptions())
	r.POST("/api/v1/reports/filing", h.Filing)
	r.POST("/api/v1/reports/filing/export", h.FilingExport)
	return r
}

const sampleBatch = `[
	{
		"Invoice Number": "INV-001",
		"Invoice Date": "15/03/2024",
		"Vendor GSTIN": "24ABCDE1234F1Z5",
		"Customer GSTIN": "27XXXXX0000X1Z1",
		"Taxable Amount": "1000",
		"Total Tax": "180"
	}
]`

func TestFiling(t *testing.T) {
	r := setupTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports/filing", strings.NewReader(sampleBatch))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Summary []struct {
				Period       string `json:"period"`
				InvoiceCount int    `json:"invoice_count"`
			} `json:"summary"`
			Assistant map[string]struct {
				Recommendation string `json:"recommendation"`
			} `json:"assistant"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.Len(t, resp.Data.Summary, 1)
	assert.Equal(t, "2024-03", resp.Data.Summary[0].Period)
	assert.Equal(t, 1, resp.Data.Summary[0].InvoiceCount)
	require.Contains(t, resp.Data.Assistant, "2024-03")
	assert.Equal(t, "File return and pay ₹180.00 for period 2024-03.", resp.Data.Assistant["2024-03"].Recommendation)
}

func TestFilingMalformedBody(t *testing.T) {
	r := setupTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports/filing", strings.NewReader(`not json`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INPUT_MALFORMED", resp.Error.Code)
}

func TestFilingInvalidPayThreshold(t *testing.T) {
	r := setupTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports/filing?pay_threshold=abc", strings.NewReader(sampleBatch))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_PAY_THRESHOLD", resp.Error.Code)
}

func TestFilingPayThresholdOverride(t *testing.T) {
	r := setupTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports/filing?pay_threshold=500", strings.NewReader(sampleBatch))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			Assistant map[string]struct {
				Recommendation string `json:"recommendation"`
			} `json:"assistant"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Contains(t, resp.Data.Assistant, "2024-03")
	assert.Equal(t, "File return for this period.", resp.Data.Assistant["2024-03"].Recommendation)
}

func TestFilingExport(t *testing.T) {
	r := setupTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports/filing/export", strings.NewReader(sampleBatch))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "filing_summary_")

	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, "\xEF\xBB\xBF"))
	assert.Contains(t, body, "period,invoice_count,total_taxable_value")
	assert.Contains(t, body, "2024-03,1,1000.00,180.00,0.00,0.00,180.00,1180.00")
}

func TestMapDomainError(t *testing.T) {
	status, code, _ := MapDomainError(assert.AnError)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "INTERNAL_ERROR", code)
}
