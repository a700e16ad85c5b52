package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ctxKey string

const (
	// OrganizationIDKey is the context key for the active organization ID
	OrganizationIDKey ctxKey = "organization_id"
	// SkipOrgScopeKey is the context key for skipping org scope (super admin)
	SkipOrgScopeKey ctxKey = "skip_org_scope"
)

// OrgScope returns a GORM scope that filters by organization
// This should be applied to all queries for org-scoped entities
// If SkipOrgScopeKey is true in context (super admin), returns all records
func OrgScope(ctx context.Context) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		// Check if org scope should be skipped (super admin)
		if skipScope, ok := ctx.Value(SkipOrgScopeKey).(bool); ok && skipScope {
			return db // Return unfiltered query for super admins
		}

		orgID, ok := ctx.Value(OrganizationIDKey).(uuid.UUID)
		if !ok {
			// Fail-safe: return no results if org context missing
			// This prevents accidental cross-organization data access
			return db.Where("1 = 0")
		}
		return db.Where("organization_id = ?", orgID)
	}
}

// WithSkipOrgScope adds skip org scope flag to context (for super admins)
func WithSkipOrgScope(ctx context.Context, skip bool) context.Context {
	return context.WithValue(ctx, SkipOrgScopeKey, skip)
}

// WithOrganization adds organization ID to context
func WithOrganization(ctx context.Context, orgID uuid.UUID) context.Context {
	return context.WithValue(ctx, OrganizationIDKey, orgID)
}

// GetOrganizationID extracts organization ID from context
func GetOrganizationID(ctx context.Context) (uuid.UUID, bool) {
	orgID, ok := ctx.Value(OrganizationIDKey).(uuid.UUID)
	return orgID, ok
}
