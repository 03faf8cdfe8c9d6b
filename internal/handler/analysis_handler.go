package handler

import (
	"bytes"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"claimassist/internal/domain"
	"claimassist/internal/export"
	"claimassist/internal/port"
	"claimassist/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AnalysisHandler handles claim document analysis endpoints.
type AnalysisHandler struct {
	analysisService service.AnalysisService
}

// NewAnalysisHandler creates a new AnalysisHandler.
func NewAnalysisHandler(analysisService service.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{analysisService: analysisService}
}

// Create handles POST /api/v1/analyses
// @Summary Analyze a claim document
// @Description Upload a claim document and run the intake pipeline on it
// @Tags analyses
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Claim document (PNG, JPG, JPEG, PDF or WEBP)"
// @Param insurance_type formData string true "health, life, vehicle, travel or property"
// @Param document_type formData string false "Document type, e.g. Hospital Bill"
// @Param claim_reference formData string false "Existing claim reference"
// @Success 201 {object} Response{data=domain.ClaimAnalysis} "Analysis completed"
// @Failure 400 {object} ErrorResponseBody "Missing file, unsupported type or insurance type"
// @Failure 413 {object} ErrorResponseBody "File too large"
// @Failure 500 {object} ErrorResponseBody "Upload failed"
// @Router /api/v1/analyses [post]
func (h *AnalysisHandler) Create(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	insuranceType := c.PostForm("insurance_type")
	if insuranceType == "" {
		RespondError(c, http.StatusBadRequest, "MISSING_INSURANCE_TYPE", "insurance_type field is required")
		return
	}

	analysis, err := h.analysisService.Analyze(c.Request.Context(), service.AnalyzeInput{
		FileName:       header.Filename,
		Size:           header.Size,
		Body:           file,
		InsuranceType:  insuranceType,
		DocumentType:   c.PostForm("document_type"),
		ClaimReference: c.PostForm("claim_reference"),
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, analysis)
}

// List handles GET /api/v1/analyses
// @Summary List analyses
// @Description List analyses, newest first, optionally filtered
// @Tags analyses
// @Produce json
// @Param insurance_type query string false "Filter by insurance type"
// @Param status query string false "Filter by status (approved, pending, under_review)"
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} Response{data=[]domain.ClaimAnalysis,meta=PagMeta} "List of analyses"
// @Failure 400 {object} ErrorResponseBody "Invalid filter"
// @Router /api/v1/analyses [get]
func (h *AnalysisHandler) List(c *gin.Context) {
	filter, ok := parseFilter(c)
	if !ok {
		return
	}

	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	analyses, total, err := h.analysisService.List(c.Request.Context(), filter, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, analyses, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/analyses/:id
// @Summary Get analysis by ID
// @Description Get a stored analysis and a presigned link to the original document
// @Tags analyses
// @Produce json
// @Param id path string true "Analysis ID (UUID)"
// @Success 200 {object} Response{data=AnalysisWithDownloadURL} "Analysis"
// @Failure 400 {object} ErrorResponseBody "Invalid ID"
// @Failure 404 {object} ErrorResponseBody "Not found"
// @Router /api/v1/analyses/{id} [get]
func (h *AnalysisHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid analysis ID")
		return
	}

	analysis, err := h.analysisService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	url, err := h.analysisService.GetDownloadURL(c.Request.Context(), analysis)
	if err != nil {
		log.Printf("analysisHandler.GetByID: download URL for %s unavailable: %v", id, err)
	}

	RespondOK(c, AnalysisWithDownloadURL{Analysis: *analysis, DownloadURL: url})
}

// Reanalyze handles POST /api/v1/analyses/:id/reanalyze
// @Summary Re-run the pipeline on a stored document
// @Description Analyze the stored original document again and record the result as a new analysis
// @Tags analyses
// @Produce json
// @Param id path string true "Analysis ID (UUID)"
// @Success 201 {object} Response{data=domain.ClaimAnalysis} "New analysis"
// @Failure 400 {object} ErrorResponseBody "Invalid ID"
// @Failure 404 {object} ErrorResponseBody "Analysis or stored document not found"
// @Router /api/v1/analyses/{id}/reanalyze [post]
func (h *AnalysisHandler) Reanalyze(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid analysis ID")
		return
	}

	analysis, err := h.analysisService.Reanalyze(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, analysis)
}

// Stats handles GET /api/v1/analyses/stats
// @Summary Claim dashboard statistics
// @Tags analyses
// @Produce json
// @Success 200 {object} Response{data=domain.AnalysisStats} "Stats"
// @Router /api/v1/analyses/stats [get]
func (h *AnalysisHandler) Stats(c *gin.Context) {
	stats, err := h.analysisService.Stats(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, stats)
}

// ExportXLSX handles GET /api/v1/analyses/export.xlsx
// @Summary Export analyses as XLSX
// @Tags analyses
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param insurance_type query string false "Filter by insurance type"
// @Param status query string false "Filter by status"
// @Success 200 {file} file "XLSX workbook"
// @Router /api/v1/analyses/export.xlsx [get]
func (h *AnalysisHandler) ExportXLSX(c *gin.Context) {
	filter, ok := parseFilter(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.analysisService.ExportXLSX(c.Request.Context(), &buf, filter); err != nil {
		HandleError(c, err)
		return
	}

	filename := export.BuildFilename("claim_analyses", "xlsx", time.Now())
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// ExportCSV handles GET /api/v1/analyses/export.csv
// @Summary Export analyses as CSV
// @Tags analyses
// @Produce text/csv
// @Param insurance_type query string false "Filter by insurance type"
// @Param status query string false "Filter by status"
// @Success 200 {file} file "CSV file"
// @Router /api/v1/analyses/export.csv [get]
func (h *AnalysisHandler) ExportCSV(c *gin.Context) {
	filter, ok := parseFilter(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.analysisService.ExportCSV(c.Request.Context(), &buf, filter); err != nil {
		HandleError(c, err)
		return
	}

	filename := export.BuildFilename("claim_analyses", "csv", time.Now())
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// parseFilter reads listing filters from the query string. It writes a 400
// response and returns false for unknown values.
func parseFilter(c *gin.Context) (port.AnalysisFilter, bool) {
	var filter port.AnalysisFilter
	if raw := c.Query("insurance_type"); raw != "" {
		t, err := domain.ParseInsuranceType(raw)
		if err != nil {
			HandleError(c, err)
			return filter, false
		}
		filter.InsuranceType = t
	}
	if raw := c.Query("status"); raw != "" {
		status := domain.ClaimStatus(raw)
		switch status {
		case domain.ClaimStatusApproved, domain.ClaimStatusPending, domain.ClaimStatusUnderReview:
			filter.Status = status
		default:
			RespondError(c, http.StatusBadRequest, "INVALID_STATUS", "status must be approved, pending or under_review")
			return filter, false
		}
	}
	return filter, true
}
