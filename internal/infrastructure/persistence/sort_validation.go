package persistence

import (
	"strings"

	"github.com/lats/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// ValidateSortOrder normalizes the sort order to ASC or DESC, defaulting to DESC
func ValidateSortOrder(orderDir string) string {
	if strings.ToUpper(strings.TrimSpace(orderDir)) == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField returns sortField when it is whitelisted, otherwise defaultField
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed != "" && allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// ProductSortFields contains allowed sort fields for products and spare parts
var ProductSortFields = map[string]bool{
	"created_at":    true,
	"updated_at":    true,
	"name":          true,
	"sku":           true,
	"part_number":   true,
	"category":      true,
	"quantity":      true,
	"selling_price": true,
}

// CustomerSortFields contains allowed sort fields for customers
var CustomerSortFields = map[string]bool{
	"created_at":     true,
	"name":           true,
	"total_spent":    true,
	"total_orders":   true,
	"loyalty_points": true,
	"last_visit":     true,
}

// SaleSortFields contains allowed sort fields for sales
var SaleSortFields = map[string]bool{
	"created_at":   true,
	"sold_at":      true,
	"sale_number":  true,
	"total_amount": true,
	"status":       true,
}

// MessageSortFields contains allowed sort fields for WhatsApp messages
var MessageSortFields = map[string]bool{
	"created_at": true,
	"sent_at":    true,
	"status":     true,
}

// CampaignSortFields contains allowed sort fields for campaigns
var CampaignSortFields = map[string]bool{
	"created_at": true,
	"name":       true,
	"status":     true,
}

// applySearch adds a case-insensitive OR match of term over columns
func applySearch(query *gorm.DB, term string, columns ...string) *gorm.DB {
	term = strings.TrimSpace(term)
	if term == "" || len(columns) == 0 {
		return query
	}
	like := "%" + strings.ToLower(term) + "%"
	conds := make([]string, len(columns))
	args := make([]any, len(columns))
	for i, c := range columns {
		conds[i] = "LOWER(" + c + ") LIKE ?"
		args[i] = like
	}
	return query.Where("("+strings.Join(conds, " OR ")+")", args...)
}

// applyPage orders and paginates with a whitelisted sort column
func applyPage(query *gorm.DB, filter shared.Filter, allowed map[string]bool) *gorm.DB {
	f := filter.Normalize()
	orderBy := ValidateSortField(f.OrderBy, allowed, "created_at")
	return query.
		Order(orderBy + " " + ValidateSortOrder(f.OrderDir)).
		Offset(f.Offset()).
		Limit(f.PageSize)
}
