package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	portssvc "github.com/ledgerkeep/ledgerkeep/internal/core/ports/services"
	"github.com/ledgerkeep/ledgerkeep/internal/dto"
	"github.com/ledgerkeep/ledgerkeep/internal/middleware"
)

// reportingHandler serves the financial reports of a single company.
type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
}

func newReportingHandler(reportingService portssvc.ReportingSvcFacade) *reportingHandler {
	return &reportingHandler{reportingService: reportingService}
}

func registerReportingRoutes(companyGroup *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade) {
	h := newReportingHandler(reportingService)

	reports := companyGroup.Group("/reports")
	{
		reports.GET("/trial-balance", h.trialBalance)
		reports.GET("/income-statement", h.incomeStatement)
		reports.GET("/balance-sheet", h.balanceSheet)
	}
}

// trialBalance godoc
// @Summary Trial balance
// @Description Lists per-account debit and credit balances from posted entries through the given period.
// @Tags reports
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param company_id path string true "Company ID"
// @Param year query int true "Fiscal year"
// @Param period query int true "Period number"
// @Success 200 {object} dto.TrialBalanceResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/companies/{company_id}/reports/trial-balance [get]
func (h *reportingHandler) trialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	var params dto.ReportPeriodParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid report parameters: " + err.Error()})
		return
	}

	through := domain.FiscalPeriodRef{Year: params.Year, Period: params.Period}
	rows, err := h.reportingService.TrialBalance(c.Request.Context(), c.Param("company_id"), through, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to generate trial balance")
		return
	}

	c.JSON(http.StatusOK, dto.NewTrialBalanceResponse(rows))
}

// incomeStatement godoc
// @Summary Income statement
// @Description Nets revenue and expense activity over a period range. The range
// defaults to the start of the requested fiscal year when fromYear and
// fromPeriod are omitted.
// @Tags reports
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param company_id path string true "Company ID"
// @Param year query int true "Fiscal year of the range end"
// @Param period query int true "Period number of the range end"
// @Param fromYear query int false "Fiscal year of the range start"
// @Param fromPeriod query int false "Period number of the range start"
// @Success 200 {object} domain.IncomeStatementReport
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/companies/{company_id}/reports/income-statement [get]
func (h *reportingHandler) incomeStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	var params dto.ReportPeriodParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid report parameters: " + err.Error()})
		return
	}

	to := domain.FiscalPeriodRef{Year: params.Year, Period: params.Period}
	from := domain.FiscalPeriodRef{Year: params.Year, Period: 1}
	if params.FromYear != nil {
		from.Year = *params.FromYear
	}
	if params.FromPeriod != nil {
		from.Period = *params.FromPeriod
	}

	report, err := h.reportingService.IncomeStatement(c.Request.Context(), c.Param("company_id"), from, to, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to generate income statement")
		return
	}

	c.JSON(http.StatusOK, report)
}

// balanceSheet godoc
// @Summary Balance sheet
// @Description Reports asset, liability, and equity positions from posted entries through the given period.
// @Tags reports
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param company_id path string true "Company ID"
// @Param year query int true "Fiscal year"
// @Param period query int true "Period number"
// @Success 200 {object} domain.BalanceSheetReport
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/companies/{company_id}/reports/balance-sheet [get]
func (h *reportingHandler) balanceSheet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	var params dto.ReportPeriodParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid report parameters: " + err.Error()})
		return
	}

	through := domain.FiscalPeriodRef{Year: params.Year, Period: params.Period}
	report, err := h.reportingService.BalanceSheet(c.Request.Context(), c.Param("company_id"), through, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to generate balance sheet")
		return
	}

	c.JSON(http.StatusOK, report)
}
