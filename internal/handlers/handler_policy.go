package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ledgerkeep/ledgerkeep/internal/apperrors"
	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	portssvc "github.com/ledgerkeep/ledgerkeep/internal/core/ports/services"
	"github.com/ledgerkeep/ledgerkeep/internal/dto"
	"github.com/ledgerkeep/ledgerkeep/internal/middleware"
)

// policyHandler handles authorization policy requests within an organization.
type policyHandler struct {
	policyService portssvc.PolicySvcFacade
	authzService  portssvc.AuthorizationSvc
	orgService    portssvc.OrganizationSvcFacade
	userService   portssvc.UserSvcFacade
}

func newPolicyHandler(services *portssvc.ServiceContainer) *policyHandler {
	return &policyHandler{
		policyService: services.Policy,
		authzService:  services.Authorization,
		orgService:    services.Organization,
		userService:   services.User,
	}
}

func registerPolicyRoutes(orgGroup *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newPolicyHandler(services)

	policies := orgGroup.Group("/policies")
	{
		policies.POST("", h.createPolicy)
		policies.GET("", h.listPolicies)
		policies.POST("/evaluate", h.evaluate)
		policies.GET("/:policy_id", h.getPolicy)
		policies.PUT("/:policy_id", h.updatePolicy)
		policies.DELETE("/:policy_id", h.deletePolicy)
	}
}

// createPolicy godoc
// @Summary Create an authorization policy
// @Description Creates a user policy. Priorities in the system band are rejected.
// @Tags policies
// @Accept json
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param policy body dto.CreatePolicyRequest true "Policy details"
// @Success 201 {object} dto.PolicyResponse
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse "Priority out of range"
// @Security BearerAuth
// @Router /organizations/{organization_id}/policies [post]
func (h *policyHandler) createPolicy(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	var req dto.CreatePolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	policy, err := h.policyService.CreatePolicy(c.Request.Context(), c.Param("organization_id"), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create policy")
		return
	}

	c.JSON(http.StatusCreated, dto.ToPolicyResponse(policy))
}

// listPolicies godoc
// @Summary List authorization policies
// @Tags policies
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Success 200 {array} dto.PolicyResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/policies [get]
func (h *policyHandler) listPolicies(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	policies, err := h.policyService.ListPolicies(c.Request.Context(), c.Param("organization_id"), userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list policies")
		return
	}

	c.JSON(http.StatusOK, dto.ToPolicyResponses(policies))
}

// getPolicy godoc
// @Summary Get a policy
// @Tags policies
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param policy_id path string true "Policy ID"
// @Success 200 {object} dto.PolicyResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/policies/{policy_id} [get]
func (h *policyHandler) getPolicy(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	policy, err := h.policyService.GetPolicyByID(c.Request.Context(), c.Param("organization_id"), c.Param("policy_id"), userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve policy")
		return
	}

	c.JSON(http.StatusOK, dto.ToPolicyResponse(policy))
}

// updatePolicy godoc
// @Summary Update a policy
// @Description Updates a user policy. System policies cannot be modified.
// @Tags policies
// @Accept json
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param policy_id path string true "Policy ID"
// @Param policy body dto.UpdatePolicyRequest true "Changes"
// @Success 200 {object} dto.PolicyResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse "System policy or priority violation"
// @Security BearerAuth
// @Router /organizations/{organization_id}/policies/{policy_id} [put]
func (h *policyHandler) updatePolicy(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	var req dto.UpdatePolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	policy, err := h.policyService.UpdatePolicy(c.Request.Context(), c.Param("organization_id"), c.Param("policy_id"), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update policy")
		return
	}

	c.JSON(http.StatusOK, dto.ToPolicyResponse(policy))
}

// deletePolicy godoc
// @Summary Delete a policy
// @Description Deletes a user policy. System policies cannot be deleted.
// @Tags policies
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param policy_id path string true "Policy ID"
// @Success 204 "No content"
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse "System policy"
// @Security BearerAuth
// @Router /organizations/{organization_id}/policies/{policy_id} [delete]
func (h *policyHandler) deletePolicy(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	if err := h.policyService.DeletePolicy(c.Request.Context(), c.Param("organization_id"), c.Param("policy_id"), userID); err != nil {
		respondServiceError(c, logger, err, "Failed to delete policy")
		return
	}

	c.Status(http.StatusNoContent)
}

// evaluate godoc
// @Summary Dry-run the policy engine
// @Description Evaluates the organization's policy set against an explicit subject, resource, and action without side effects. Admin only.
// @Tags policies
// @Accept json
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param evaluation body dto.EvaluateRequest true "Evaluation context"
// @Success 200 {object} domain.Decision
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/policies/evaluate [post]
func (h *policyHandler) evaluate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}
	organizationID := c.Param("organization_id")

	// Only organization admins may probe the policy engine.
	membership, err := h.orgService.GetMembership(c.Request.Context(), userID, organizationID)
	if err != nil || membership.Role != domain.RoleAdmin {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "only organization admins may evaluate policies"})
		return
	}

	var req dto.EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	subject, err := h.buildSubject(c, organizationID, req.UserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to resolve subject")
		return
	}

	decision, err := h.authzService.Evaluate(c.Request.Context(), organizationID, domain.EvaluationContext{
		Subject:     subject,
		Resource:    req.Resource,
		Action:      req.Action,
		Environment: req.Environment,
	})
	if err != nil {
		respondServiceError(c, logger, err, "Failed to evaluate policies")
		return
	}

	c.JSON(http.StatusOK, decision)
}

// buildSubject resolves the evaluation target's membership and platform-admin
// flag, mirroring what the engine sees on a live request.
func (h *policyHandler) buildSubject(c *gin.Context, organizationID, targetUserID string) (domain.Subject, error) {
	user, err := h.userService.GetUserByID(c.Request.Context(), targetUserID)
	if err != nil {
		return domain.Subject{}, err
	}

	subject := domain.Subject{UserID: targetUserID, IsPlatformAdmin: user.IsPlatformAdmin}

	membership, err := h.orgService.GetMembership(c.Request.Context(), targetUserID, organizationID)
	switch {
	case err == nil:
		subject.Role = membership.Role
		subject.FunctionalRoles = membership.FunctionalRoles
	case errors.Is(err, apperrors.ErrNotFound):
		// Non-members evaluate with an empty role.
	default:
		return domain.Subject{}, err
	}
	return subject, nil
}
