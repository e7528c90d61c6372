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

// consolidationHandler handles consolidation group requests within an organization.
type consolidationHandler struct {
	consolidationService portssvc.ConsolidationSvcFacade
	reportingService     portssvc.ReportingSvcFacade
}

func newConsolidationHandler(consolidationService portssvc.ConsolidationSvcFacade, reportingService portssvc.ReportingSvcFacade) *consolidationHandler {
	return &consolidationHandler{consolidationService: consolidationService, reportingService: reportingService}
}

func registerConsolidationRoutes(orgGroup *gin.RouterGroup, consolidationService portssvc.ConsolidationSvcFacade, reportingService portssvc.ReportingSvcFacade) {
	h := newConsolidationHandler(consolidationService, reportingService)

	groups := orgGroup.Group("/consolidation-groups")
	{
		groups.POST("", h.createGroup)
		groups.GET("", h.listGroups)
		groups.GET("/:group_id", h.getGroup)
		groups.PUT("/:group_id", h.updateGroup)
		groups.DELETE("/:group_id", h.deleteGroup)
		groups.GET("/:group_id/trial-balance", h.consolidatedTrialBalance)
	}
}

// createGroup godoc
// @Summary Create a consolidation group
// @Description Creates a group of member companies reporting in one presentation currency.
// @Tags consolidation
// @Accept json
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param group body dto.CreateConsolidationGroupRequest true "Group details"
// @Success 201 {object} dto.ConsolidationGroupResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/consolidation-groups [post]
func (h *consolidationHandler) createGroup(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	var req dto.CreateConsolidationGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	group, err := h.consolidationService.CreateGroup(c.Request.Context(), c.Param("organization_id"), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create consolidation group")
		return
	}

	c.JSON(http.StatusCreated, dto.ToConsolidationGroupResponse(group))
}

// listGroups godoc
// @Summary List consolidation groups
// @Tags consolidation
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Success 200 {array} dto.ConsolidationGroupResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/consolidation-groups [get]
func (h *consolidationHandler) listGroups(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	groups, err := h.consolidationService.ListGroups(c.Request.Context(), c.Param("organization_id"), userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list consolidation groups")
		return
	}

	responses := make([]dto.ConsolidationGroupResponse, len(groups))
	for i := range groups {
		responses[i] = dto.ToConsolidationGroupResponse(&groups[i])
	}
	c.JSON(http.StatusOK, responses)
}

// getGroup godoc
// @Summary Get a consolidation group
// @Tags consolidation
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param group_id path string true "Group ID"
// @Success 200 {object} dto.ConsolidationGroupResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/consolidation-groups/{group_id} [get]
func (h *consolidationHandler) getGroup(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	group, err := h.consolidationService.GetGroupByID(c.Request.Context(), c.Param("organization_id"), c.Param("group_id"), userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve consolidation group")
		return
	}

	c.JSON(http.StatusOK, dto.ToConsolidationGroupResponse(group))
}

// updateGroup godoc
// @Summary Update a consolidation group
// @Description Updates group details and replaces its membership when members are sent.
// @Tags consolidation
// @Accept json
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param group_id path string true "Group ID"
// @Param group body dto.UpdateConsolidationGroupRequest true "Changes"
// @Success 200 {object} dto.ConsolidationGroupResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/consolidation-groups/{group_id} [put]
func (h *consolidationHandler) updateGroup(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	var req dto.UpdateConsolidationGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	group, err := h.consolidationService.UpdateGroup(c.Request.Context(), c.Param("organization_id"), c.Param("group_id"), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update consolidation group")
		return
	}

	c.JSON(http.StatusOK, dto.ToConsolidationGroupResponse(group))
}

// deleteGroup godoc
// @Summary Delete a consolidation group
// @Tags consolidation
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param group_id path string true "Group ID"
// @Success 204 "No content"
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/consolidation-groups/{group_id} [delete]
func (h *consolidationHandler) deleteGroup(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	if err := h.consolidationService.DeleteGroup(c.Request.Context(), c.Param("organization_id"), c.Param("group_id"), userID); err != nil {
		respondServiceError(c, logger, err, "Failed to delete consolidation group")
		return
	}

	c.Status(http.StatusNoContent)
}

// consolidatedTrialBalance godoc
// @Summary Consolidated trial balance
// @Description Aggregates member-company trial balances translated into the group's presentation currency.
// @Tags consolidation
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param group_id path string true "Group ID"
// @Param year query int true "Fiscal year"
// @Param period query int true "Period number"
// @Success 200 {object} dto.TrialBalanceResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/consolidation-groups/{group_id}/trial-balance [get]
func (h *consolidationHandler) consolidatedTrialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid year parameter"})
		return
	}
	period, err := strconv.Atoi(c.Query("period"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid period parameter"})
		return
	}

	rows, err := h.reportingService.ConsolidatedTrialBalance(
		c.Request.Context(),
		c.Param("organization_id"),
		c.Param("group_id"),
		domain.FiscalPeriodRef{Year: year, Period: period},
		userID,
	)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to generate consolidated trial balance")
		return
	}

	c.JSON(http.StatusOK, dto.NewTrialBalanceResponse(rows))
}
