package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mpopescu/atelier-api/internal/application/service"
	"github.com/mpopescu/atelier-api/internal/domain/entity"
	"github.com/mpopescu/atelier-api/internal/presentation/http/dto/response"
	"github.com/mpopescu/atelier-api/internal/presentation/http/middleware"
)

// OrganizationHandler handles organization-related HTTP requests
type OrganizationHandler struct {
	orgService *service.OrganizationService
}

// NewOrganizationHandler creates a new organization handler
func NewOrganizationHandler(orgService *service.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{orgService: orgService}
}

// currentOrgID resolves the organization picked by the middleware; replies
// with 403 and returns nil when the user has none.
func currentOrgID(c *gin.Context) *uuid.UUID {
	orgID := middleware.GetOrganizationID(c)
	if orgID == uuid.Nil {
		response.Forbidden(c, "No organization membership")
		return nil
	}
	return &orgID
}

// Create handles creating an organization; the creator becomes its owner
func (h *OrganizationHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req struct {
		Name string `json:"name" binding:"required"`
		Slug string `json:"slug"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	org, err := h.orgService.CreateOrganization(c.Request.Context(), &service.CreateOrganizationInput{
		Name:    req.Name,
		Slug:    req.Slug,
		OwnerID: *userID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Organization created successfully", org)
}

// ListMine handles listing the organizations the caller belongs to
func (h *OrganizationHandler) ListMine(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	result, err := h.orgService.GetUserOrganizations(c.Request.Context(), &service.GetUserOrganizationsInput{
		UserID:  *userID,
		Page:    page,
		PerPage: perPage,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Organizations retrieved successfully", result)
}

// GetCurrent handles fetching the current organization
func (h *OrganizationHandler) GetCurrent(c *gin.Context) {
	orgID := currentOrgID(c)
	if orgID == nil {
		return
	}

	org, err := h.orgService.GetOrganization(c.Request.Context(), *orgID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Organization retrieved successfully", org)
}

// UpdateCurrent handles renaming / re-slugging the current organization
func (h *OrganizationHandler) UpdateCurrent(c *gin.Context) {
	orgID := currentOrgID(c)
	if orgID == nil {
		return
	}

	var req struct {
		Name *string `json:"name"`
		Slug *string `json:"slug"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	org, err := h.orgService.UpdateOrganization(c.Request.Context(), &service.UpdateOrganizationInput{
		OrgID: *orgID,
		Name:  req.Name,
		Slug:  req.Slug,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Organization updated successfully", org)
}

// UpdateSettings handles partial updates of the organization settings,
// including the labor rate every open deviz re-prices against.
func (h *OrganizationHandler) UpdateSettings(c *gin.Context) {
	orgID := currentOrgID(c)
	if orgID == nil {
		return
	}

	var req struct {
		LogoURL            *string             `json:"logo_url"`
		PrimaryColor       *string             `json:"primary_color"`
		Currency           *string             `json:"currency"`
		Timezone           *string             `json:"timezone"`
		Locale             *string             `json:"locale"`
		DateFormat         *string             `json:"date_format"`
		LaborRatePerHour   *float64            `json:"labor_rate_per_hour"`
		JobNumberPrefix    *string             `json:"job_number_prefix"`
		Address            *string             `json:"address"`
		Phone              *string             `json:"phone"`
		Email              *string             `json:"email"`
		EmailNotifications *bool               `json:"email_notifications"`
		Features           *entity.OrgFeatures `json:"features"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	org, err := h.orgService.UpdateSettings(c.Request.Context(), &service.UpdateSettingsInput{
		OrgID:              *orgID,
		LogoURL:            req.LogoURL,
		PrimaryColor:       req.PrimaryColor,
		Currency:           req.Currency,
		Timezone:           req.Timezone,
		Locale:             req.Locale,
		DateFormat:         req.DateFormat,
		LaborRatePerHour:   sanitizeFloatPtr(req.LaborRatePerHour),
		JobNumberPrefix:    req.JobNumberPrefix,
		Address:            req.Address,
		Phone:              req.Phone,
		Email:              req.Email,
		EmailNotifications: req.EmailNotifications,
		Features:           req.Features,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Settings updated successfully", org)
}

// ListMembers handles listing organization members
func (h *OrganizationHandler) ListMembers(c *gin.Context) {
	orgID := currentOrgID(c)
	if orgID == nil {
		return
	}

	members, err := h.orgService.GetMembers(c.Request.Context(), *orgID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Members retrieved successfully", members)
}

// InviteMember handles adding an existing user to the organization
func (h *OrganizationHandler) InviteMember(c *gin.Context) {
	orgID := currentOrgID(c)
	if orgID == nil {
		return
	}

	var req struct {
		Email string `json:"email" binding:"required,email"`
		Role  string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	membership, err := h.orgService.InviteMember(c.Request.Context(), &service.InviteMemberInput{
		OrgID: *orgID,
		Email: req.Email,
		Role:  req.Role,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Member added successfully", membership)
}

// UpdateMemberRole handles changing a member's role
func (h *OrganizationHandler) UpdateMemberRole(c *gin.Context) {
	orgID := currentOrgID(c)
	if orgID == nil {
		return
	}

	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		response.BadRequest(c, "Invalid user ID")
		return
	}

	var req struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.orgService.UpdateMemberRole(c.Request.Context(), &service.UpdateMemberRoleInput{
		OrgID:  *orgID,
		UserID: userID,
		Role:   req.Role,
	}); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Member role updated successfully", nil)
}

// RemoveMember handles removing a member from the organization
func (h *OrganizationHandler) RemoveMember(c *gin.Context) {
	orgID := currentOrgID(c)
	if orgID == nil {
		return
	}

	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		response.BadRequest(c, "Invalid user ID")
		return
	}

	if err := h.orgService.RemoveMember(c.Request.Context(), *orgID, userID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Member removed successfully", nil)
}

// DeleteCurrent handles deleting the organization; only the owner may
func (h *OrganizationHandler) DeleteCurrent(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	orgID := currentOrgID(c)
	if orgID == nil {
		return
	}

	if err := h.orgService.DeleteOrganization(c.Request.Context(), *orgID, *userID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Organization deleted successfully", nil)
}
