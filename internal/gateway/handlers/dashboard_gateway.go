package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"xcelbot-system/internal/analytics"
	dashboard "xcelbot-system/internal/services/dashboard/handler"
	ingest "xcelbot-system/internal/services/ingest/handler"
)

type DashboardHTTPHandler struct {
	svc *dashboard.DashboardHandler
}

func NewDashboardHTTPHandler(svc *dashboard.DashboardHandler) *DashboardHTTPHandler {
	return &DashboardHTTPHandler{svc: svc}
}

// parseMatch turns repeated query values into a filter match. Absent
// parameters and the literal "All" both mean no filtering.
func parseMatch(c *gin.Context, name string) analytics.Match {
	values := c.QueryArray(name)
	filtered := values[:0]
	for _, v := range values {
		if v != "" && v != "All" {
			filtered = append(filtered, v)
		}
	}
	switch len(filtered) {
	case 0:
		return analytics.Any()
	case 1:
		return analytics.Equals(filtered[0])
	default:
		return analytics.OneOf(filtered...)
	}
}

func parseDateParam(c *gin.Context, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	d, err := analytics.ParseDate(raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func parseParams(c *gin.Context) (dashboard.Params, error) {
	p := dashboard.Params{
		CompanyID: c.GetInt64("company_id"),
		Location:  parseMatch(c, "location"),
		Category:  parseMatch(c, "category"),
		Server:    parseMatch(c, "server"),
		Year:      parseMatch(c, "year"),
		Quarter:   parseMatch(c, "quarter"),
	}
	var err error
	if p.StartDate, err = parseDateParam(c, "startDate"); err != nil {
		return p, err
	}
	if p.EndDate, err = parseDateParam(c, "endDate"); err != nil {
		return p, err
	}
	return p, nil
}

func (h *DashboardHTTPHandler) serve(c *gin.Context, build func(dashboard.Params) (dashboard.Response, error)) {
	params, err := parseParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	resp, err := build(params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to build dashboard"))
		return
	}

	c.JSON(http.StatusOK, successResponse("Dashboard retrieved successfully", resp))
}

func (h *DashboardHTTPHandler) Sales(c *gin.Context) {
	h.serve(c, func(p dashboard.Params) (dashboard.Response, error) {
		return h.svc.Sales(c.Request.Context(), p)
	})
}

func (h *DashboardHTTPHandler) Pmix(c *gin.Context) {
	h.serve(c, func(p dashboard.Params) (dashboard.Response, error) {
		return h.svc.Pmix(c.Request.Context(), p)
	})
}

func (h *DashboardHTTPHandler) Financials(c *gin.Context) {
	h.serve(c, func(p dashboard.Params) (dashboard.Response, error) {
		return h.svc.Financials(c.Request.Context(), p)
	})
}

func (h *DashboardHTTPHandler) Companywide(c *gin.Context) {
	h.serve(c, func(p dashboard.Params) (dashboard.Response, error) {
		return h.svc.Companywide(c.Request.Context(), p)
	})
}

func (h *DashboardHTTPHandler) Filters(c *gin.Context) {
	resp, err := h.svc.FilterOptions(c.Request.Context(), c.GetInt64("company_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to load filter options"))
		return
	}
	c.JSON(http.StatusOK, successResponse("Filter options retrieved successfully", resp))
}

// ExportFinancials streams the filtered actuals back as a workbook.
func (h *DashboardHTTPHandler) ExportFinancials(c *gin.Context) {
	params, err := parseParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	t, err := h.svc.FinancialsExport(c.Request.Context(), params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to build export"))
		return
	}

	f, err := ingest.BuildWorkbook("Actuals", t)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to build workbook"))
		return
	}
	defer f.Close()

	fileName := fmt.Sprintf("financials_%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", url.QueryEscape(fileName)))

	if err := f.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to write workbook"))
	}
}
