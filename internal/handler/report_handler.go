package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"taxmitra/internal/csvexport"
	"taxmitra/internal/filing"
	"taxmitra/internal/report"
)

// ReportHandler serves filing-report generation endpoints.
type ReportHandler struct {
	defaults filing.Options
}

// NewReportHandler creates a ReportHandler with the given default filing options.
func NewReportHandler(defaults filing.Options) *ReportHandler {
	return &ReportHandler{defaults: defaults}
}

// requestOptions applies per-request query overrides to the default options.
func (h *ReportHandler) requestOptions(c *gin.Context) (filing.Options, error) {
	opts := h.defaults
	if raw := c.Query("pay_threshold"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return opts, err
		}
		opts.PayThreshold = decimal.NewFromFloat(v)
	}
	return opts, nil
}

// Filing handles POST /api/v1/reports/filing. The request body is a raw
// extracted invoice batch (single object or array); the response is the
// generated filing report.
func (h *ReportHandler) Filing(c *gin.Context) {
	opts, err := h.requestOptions(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_PAY_THRESHOLD", "pay_threshold must be a number")
		return
	}

	batch, err := report.DecodeBatch(c.Request.Body)
	if err != nil {
		HandleError(c, err)
		return
	}

	rep := report.NewGenerator(opts).Generate(batch)
	RespondOK(c, rep)
}

// FilingExport handles POST /api/v1/reports/filing/export. It generates the
// report and streams the period summary as a CSV download.
func (h *ReportHandler) FilingExport(c *gin.Context) {
	opts, err := h.requestOptions(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_PAY_THRESHOLD", "pay_threshold must be a number")
		return
	}

	batch, err := report.DecodeBatch(c.Request.Body)
	if err != nil {
		HandleError(c, err)
		return
	}

	rep := report.NewGenerator(opts).Generate(batch)

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+csvexport.BuildFilename("filing_summary")+`"`)
	c.Status(http.StatusOK)

	if _, err := c.Writer.Write(csvexport.BOM); err != nil {
		return
	}
	w := csvexport.NewWriter(c.Writer)
	if err := w.WriteHeader(); err != nil {
		return
	}
	if err := w.WriteSummary(rep.Summary); err != nil {
		return
	}
	w.Flush()
}
