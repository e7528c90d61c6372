package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	portssvc "github.com/ledgerkeep/ledgerkeep/internal/core/ports/services"
	"github.com/ledgerkeep/ledgerkeep/internal/dto"
	"github.com/ledgerkeep/ledgerkeep/internal/middleware"
)

// fiscalPeriodHandler handles fiscal period lifecycle requests within a company.
type fiscalPeriodHandler struct {
	periodService portssvc.FiscalPeriodSvcFacade
}

func newFiscalPeriodHandler(periodService portssvc.FiscalPeriodSvcFacade) *fiscalPeriodHandler {
	return &fiscalPeriodHandler{periodService: periodService}
}

func registerFiscalPeriodRoutes(companyGroup *gin.RouterGroup, periodService portssvc.FiscalPeriodSvcFacade) {
	h := newFiscalPeriodHandler(periodService)

	periods := companyGroup.Group("/fiscal-periods")
	{
		periods.POST("", h.createPeriod)
		periods.GET("", h.listPeriods)
		periods.GET("/:year/:period", h.getPeriod)
		periods.POST("/:year/:period/transition", h.transitionPeriod)
	}
}

// createPeriod godoc
// @Summary Create a fiscal period
// @Description Creates a fiscal period in Future status.
// @Tags fiscal-periods
// @Accept json
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param company_id path string true "Company ID"
// @Param period body dto.CreateFiscalPeriodRequest true "Period details"
// @Success 201 {object} dto.FiscalPeriodResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Period already exists"
// @Security BearerAuth
// @Router /organizations/{organization_id}/companies/{company_id}/fiscal-periods [post]
func (h *fiscalPeriodHandler) createPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	var req dto.CreateFiscalPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	period, err := h.periodService.CreatePeriod(c.Request.Context(), c.Param("company_id"), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create fiscal period")
		return
	}

	c.JSON(http.StatusCreated, dto.ToFiscalPeriodResponse(period))
}

// listPeriods godoc
// @Summary List fiscal periods
// @Tags fiscal-periods
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param company_id path string true "Company ID"
// @Param year query int false "Filter by fiscal year"
// @Success 200 {array} dto.FiscalPeriodResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/companies/{company_id}/fiscal-periods [get]
func (h *fiscalPeriodHandler) listPeriods(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	var year *int
	if raw := c.Query("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid year parameter"})
			return
		}
		year = &parsed
	}

	periods, err := h.periodService.ListPeriods(c.Request.Context(), c.Param("company_id"), year, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list fiscal periods")
		return
	}

	c.JSON(http.StatusOK, dto.ToFiscalPeriodResponses(periods))
}

// getPeriod godoc
// @Summary Get a fiscal period by year and period number
// @Tags fiscal-periods
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param company_id path string true "Company ID"
// @Param year path int true "Fiscal year"
// @Param period path int true "Period number"
// @Success 200 {object} dto.FiscalPeriodResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/companies/{company_id}/fiscal-periods/{year}/{period} [get]
func (h *fiscalPeriodHandler) getPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	if _, ok := requireUserID(c, logger); !ok {
		return
	}

	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid year"})
		return
	}
	periodNum, err := strconv.Atoi(c.Param("period"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid period"})
		return
	}

	period, err := h.periodService.GetPeriod(c.Request.Context(), c.Param("company_id"), domain.FiscalPeriodRef{Year: year, Period: periodNum})
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve fiscal period")
		return
	}

	c.JSON(http.StatusOK, dto.ToFiscalPeriodResponse(period))
}

// transitionPeriod godoc
// @Summary Transition a fiscal period
// @Description Moves a period through its lifecycle: open, soft close, close, lock, or reopen.
// @Tags fiscal-periods
// @Accept json
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param company_id path string true "Company ID"
// @Param year path int true "Fiscal year"
// @Param period path int true "Period number"
// @Param transition body dto.TransitionPeriodRequest true "Target status"
// @Success 200 {object} dto.FiscalPeriodResponse
// @Failure 422 {object} ErrorResponse "Invalid lifecycle transition"
// @Security BearerAuth
// @Router /organizations/{organization_id}/companies/{company_id}/fiscal-periods/{year}/{period}/transition [post]
func (h *fiscalPeriodHandler) transitionPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid year"})
		return
	}
	periodNum, err := strconv.Atoi(c.Param("period"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid period"})
		return
	}

	var req dto.TransitionPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	companyID := c.Param("company_id")
	period, err := h.periodService.GetPeriod(c.Request.Context(), companyID, domain.FiscalPeriodRef{Year: year, Period: periodNum})
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve fiscal period")
		return
	}

	period, err = h.periodService.TransitionPeriod(c.Request.Context(), companyID, period.FiscalPeriodID, req.Status, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to transition fiscal period")
		return
	}

	c.JSON(http.StatusOK, dto.ToFiscalPeriodResponse(period))
}
