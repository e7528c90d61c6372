package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/ledgerkeep/ledgerkeep/internal/core/ports/services"
	"github.com/ledgerkeep/ledgerkeep/internal/dto"
	"github.com/ledgerkeep/ledgerkeep/internal/middleware"
)

// journalHandler handles journal entry lifecycle requests within a company.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

func newJournalHandler(journalService portssvc.JournalSvcFacade) *journalHandler {
	return &journalHandler{journalService: journalService}
}

func registerJournalRoutes(companyGroup *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	h := newJournalHandler(journalService)

	entries := companyGroup.Group("/journal-entries")
	{
		entries.POST("", h.createEntry)
		entries.GET("", h.listEntries)
		entries.GET("/:entry_id", h.getEntry)
		entries.PUT("/:entry_id", h.updateEntry)
		entries.DELETE("/:entry_id", h.deleteEntry)
		entries.POST("/:entry_id/submit", h.submitEntry)
		entries.POST("/:entry_id/approve", h.approveEntry)
		entries.POST("/:entry_id/reject", h.rejectEntry)
		entries.POST("/:entry_id/post", h.postEntry)
		entries.POST("/:entry_id/reverse", h.reverseEntry)
	}
}

// createEntry godoc
// @Summary Create a draft journal entry
// @Description Validates lines, resolves exchange rates, and persists a balanced draft entry.
// @Tags journal-entries
// @Accept json
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param company_id path string true "Company ID"
// @Param entry body dto.CreateJournalEntryRequest true "Entry with lines"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse "Unbalanced entry or other rule violation"
// @Security BearerAuth
// @Router /organizations/{organization_id}/companies/{company_id}/journal-entries [post]
func (h *journalHandler) createEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	var req dto.CreateJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	entry, err := h.journalService.CreateEntry(c.Request.Context(), c.Param("company_id"), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create journal entry")
		return
	}

	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry))
}

// listEntries godoc
// @Summary List journal entries
// @Tags journal-entries
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param company_id path string true "Company ID"
// @Param limit query int false "Page size"
// @Param nextToken query string false "Pagination token"
// @Param includeReversals query bool false "Include reversal entries"
// @Param includeLines query bool false "Embed lines in each entry"
// @Success 200 {object} dto.ListEntriesResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/companies/{company_id}/journal-entries [get]
func (h *journalHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	var params dto.ListEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.journalService.ListEntries(c.Request.Context(), c.Param("company_id"), userID, params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list journal entries")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getEntry godoc
// @Summary Get a journal entry with its lines
// @Tags journal-entries
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param company_id path string true "Company ID"
// @Param entry_id path string true "Entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/companies/{company_id}/journal-entries/{entry_id} [get]
func (h *journalHandler) getEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	entry, err := h.journalService.GetEntryByID(c.Request.Context(), c.Param("company_id"), c.Param("entry_id"), userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve journal entry")
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// updateEntry godoc
// @Summary Update a draft journal entry
// @Description Updates header fields; a lines array replaces the entire line set.
// @Tags journal-entries
// @Accept json
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param company_id path string true "Company ID"
// @Param entry_id path string true "Entry ID"
// @Param entry body dto.UpdateJournalEntryRequest true "Changes"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 409 {object} ErrorResponse "Entry is not a draft"
// @Failure 422 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/companies/{company_id}/journal-entries/{entry_id} [put]
func (h *journalHandler) updateEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	var req dto.UpdateJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	entry, err := h.journalService.UpdateEntry(c.Request.Context(), c.Param("company_id"), c.Param("entry_id"), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update journal entry")
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// deleteEntry godoc
// @Summary Delete a draft journal entry
// @Tags journal-entries
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param company_id path string true "Company ID"
// @Param entry_id path string true "Entry ID"
// @Success 204 "No content"
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Entry is not a draft"
// @Security BearerAuth
// @Router /organizations/{organization_id}/companies/{company_id}/journal-entries/{entry_id} [delete]
func (h *journalHandler) deleteEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	if err := h.journalService.DeleteEntry(c.Request.Context(), c.Param("company_id"), c.Param("entry_id"), userID); err != nil {
		respondServiceError(c, logger, err, "Failed to delete journal entry")
		return
	}

	c.Status(http.StatusNoContent)
}

// submitEntry godoc
// @Summary Submit a draft entry for approval
// @Tags journal-entries
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param company_id path string true "Company ID"
// @Param entry_id path string true "Entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 422 {object} ErrorResponse "Invalid status transition"
// @Security BearerAuth
// @Router /organizations/{organization_id}/companies/{company_id}/journal-entries/{entry_id}/submit [post]
func (h *journalHandler) submitEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	entry, err := h.journalService.SubmitEntry(c.Request.Context(), c.Param("company_id"), c.Param("entry_id"), userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to submit journal entry")
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// approveEntry godoc
// @Summary Approve a pending entry
// @Tags journal-entries
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param company_id path string true "Company ID"
// @Param entry_id path string true "Entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 403 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse "Invalid status transition"
// @Security BearerAuth
// @Router /organizations/{organization_id}/companies/{company_id}/journal-entries/{entry_id}/approve [post]
func (h *journalHandler) approveEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	entry, err := h.journalService.ApproveEntry(c.Request.Context(), c.Param("company_id"), c.Param("entry_id"), userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to approve journal entry")
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// rejectEntry godoc
// @Summary Reject a pending entry
// @Description Sends a pending entry back to draft, recording the reason.
// @Tags journal-entries
// @Accept json
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param company_id path string true "Company ID"
// @Param entry_id path string true "Entry ID"
// @Param rejection body dto.RejectEntryRequest false "Rejection reason"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 422 {object} ErrorResponse "Invalid status transition"
// @Security BearerAuth
// @Router /organizations/{organization_id}/companies/{company_id}/journal-entries/{entry_id}/reject [post]
func (h *journalHandler) rejectEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	var req dto.RejectEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	entry, err := h.journalService.RejectEntry(c.Request.Context(), c.Param("company_id"), c.Param("entry_id"), req.Reason, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to reject journal entry")
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// postEntry godoc
// @Summary Post an approved entry
// @Description Posts the entry to the ledger after re-checking that its fiscal period is open.
// @Tags journal-entries
// @Accept json
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param company_id path string true "Company ID"
// @Param entry_id path string true "Entry ID"
// @Param posting body dto.PostEntryRequest false "Posting date override"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 422 {object} ErrorResponse "Period not open or entry not approved"
// @Security BearerAuth
// @Router /organizations/{organization_id}/companies/{company_id}/journal-entries/{entry_id}/post [post]
func (h *journalHandler) postEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	req := dto.PostEntryRequest{}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
			return
		}
	}

	entry, err := h.journalService.PostEntry(c.Request.Context(), c.Param("company_id"), c.Param("entry_id"), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to post journal entry")
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// reverseEntry godoc
// @Summary Reverse a posted entry
// @Description Creates and posts a mirror-image reversal entry linked to the original.
// @Tags journal-entries
// @Accept json
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param company_id path string true "Company ID"
// @Param entry_id path string true "Entry ID"
// @Param reversal body dto.ReverseEntryRequest false "Reversal details"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 422 {object} ErrorResponse "Entry not posted or already reversed"
// @Security BearerAuth
// @Router /organizations/{organization_id}/companies/{company_id}/journal-entries/{entry_id}/reverse [post]
func (h *journalHandler) reverseEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	req := dto.ReverseEntryRequest{}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
			return
		}
	}

	reversal, err := h.journalService.ReverseEntry(c.Request.Context(), c.Param("company_id"), c.Param("entry_id"), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to reverse journal entry")
		return
	}

	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(reversal))
}
