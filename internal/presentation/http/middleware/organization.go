package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mpopescu/atelier-api/internal/domain/repository"
	infraRepo "github.com/mpopescu/atelier-api/internal/infrastructure/repository"
	"github.com/mpopescu/atelier-api/internal/presentation/http/dto/response"
	"github.com/mpopescu/atelier-api/pkg/pagination"
)

// OrganizationHeader selects between a user's workshops when they belong to
// more than one.
const OrganizationHeader = "X-Organization-ID"

// OrganizationMiddleware resolves which organization the request operates on
// and stores it in both the gin context and the request context, where the
// repository layer's org scope picks it up. The header wins when present and
// must name an organization the user is a member of; otherwise the user's
// first membership is used.
func OrganizationMiddleware(orgRepo repository.OrganizationRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.Next()
			return
		}
		userID, ok := userIDVal.(uuid.UUID)
		if !ok || userID == uuid.Nil {
			c.Next()
			return
		}

		var orgID uuid.UUID
		if header := c.GetHeader(OrganizationHeader); header != "" {
			id, err := uuid.Parse(header)
			if err != nil {
				response.BadRequest(c, "Invalid organization ID")
				c.Abort()
				return
			}
			membership, err := orgRepo.GetMembership(c.Request.Context(), id, userID)
			if err != nil || membership == nil {
				response.Forbidden(c, "You are not a member of this organization")
				c.Abort()
				return
			}
			orgID = id
		} else {
			orgs, _, err := orgRepo.GetUserOrganizations(c.Request.Context(), userID, &pagination.PaginationParams{Page: 1, PerPage: 1})
			if err != nil || len(orgs) == 0 {
				// Freshly registered users have no workshop yet; org-scoped
				// services reject their requests on their own.
				c.Next()
				return
			}
			orgID = orgs[0].ID
		}

		c.Set("organization_id", orgID)
		ctx := infraRepo.WithOrganization(c.Request.Context(), orgID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetOrganizationID retrieves the resolved organization ID from gin context,
// uuid.Nil when none was resolved.
func GetOrganizationID(c *gin.Context) uuid.UUID {
	orgIDVal, exists := c.Get("organization_id")
	if !exists {
		return uuid.Nil
	}
	id, ok := orgIDVal.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return id
}
