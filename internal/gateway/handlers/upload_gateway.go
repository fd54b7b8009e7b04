package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"xcelbot-system/internal/analytics"
	ingest "xcelbot-system/internal/services/ingest/handler"
)

type UploadHTTPHandler struct {
	svc *ingest.IngestHandler
}

func NewUploadHTTPHandler(svc *ingest.IngestHandler) *UploadHTTPHandler {
	return &UploadHTTPHandler{svc: svc}
}

// Upload receives one workbook as multipart form data and runs the
// ingestion pipeline for the dashboard named in the path.
func (h *UploadHTTPHandler) Upload(c *gin.Context) {
	dashboard := c.Param("dashboard")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Workbook file required"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Failed to open uploaded file"))
		return
	}
	defer file.Close()

	summary, err := h.svc.Upload(c.Request.Context(), c.GetInt64("company_id"), dashboard, fileHeader.Filename, file)
	if err != nil {
		status, msg := uploadErrorStatus(err)
		c.JSON(status, errorResponse(msg))
		return
	}

	c.JSON(http.StatusOK, successResponse("Upload processed successfully", summary))
}

func uploadErrorStatus(err error) (int, string) {
	var sheetErr *ingest.MissingSheetError
	var colErr *ingest.MissingColumnError
	var dateErr *analytics.DateFormatError
	switch {
	case errors.Is(err, ingest.ErrUnknownDashboard):
		return http.StatusBadRequest, err.Error()
	case errors.As(err, &sheetErr), errors.As(err, &colErr), errors.As(err, &dateErr):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, ingest.ErrDedupeUnavailable):
		return http.StatusUnprocessableEntity, err.Error()
	default:
		return http.StatusInternalServerError, "Upload failed"
	}
}
