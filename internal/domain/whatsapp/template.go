package whatsapp

import (
	"regexp"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/lats/backend/internal/domain/shared"
)

var placeholderPattern = regexp.MustCompile(`\{\{\s*([a-zA-Z0-9_]+)\s*\}\}`)

// CategoryGeneral is used when a template is saved without a category
const CategoryGeneral = "general"

// Template is a reusable message body with {{var}} placeholders
type Template struct {
	shared.TenantAggregateRoot
	Name      string
	Category  string
	Body      string
	Variables []string
	IsActive  bool
}

// NewTemplate creates a template and extracts its variables
func NewTemplate(tenantID uuid.UUID, name, category, body string) (*Template, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_TEMPLATE", "Template name cannot be empty")
	}
	if strings.TrimSpace(body) == "" {
		return nil, shared.NewDomainError("INVALID_TEMPLATE", "Template body cannot be empty")
	}
	if category == "" {
		category = CategoryGeneral
	}
	return &Template{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Category:            category,
		Body:                body,
		Variables:           ExtractVariables(body),
		IsActive:            true,
	}, nil
}

// ExtractVariables returns the distinct placeholder names in order of first use
func ExtractVariables(body string) []string {
	seen := make(map[string]bool)
	vars := make([]string, 0)
	for _, m := range placeholderPattern.FindAllStringSubmatch(body, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			vars = append(vars, m[1])
		}
	}
	return vars
}

// Render fills the template body; every variable must be supplied
func (t *Template) Render(values map[string]string) (string, error) {
	return RenderBody(t.Body, values)
}

// RenderBody fills {{var}} placeholders in body
func RenderBody(body string, values map[string]string) (string, error) {
	missing := make([]string, 0)
	for _, v := range ExtractVariables(body) {
		if _, ok := values[v]; !ok {
			missing = append(missing, v)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return "", shared.NewDomainError("MISSING_VARIABLES", "Missing template variables: "+strings.Join(missing, ", "))
	}
	return placeholderPattern.ReplaceAllStringFunc(body, func(ph string) string {
		name := placeholderPattern.FindStringSubmatch(ph)[1]
		return values[name]
	}), nil
}
