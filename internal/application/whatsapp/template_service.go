package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/lats/backend/internal/domain/shared"
	"github.com/lats/backend/internal/domain/whatsapp"
	"github.com/lats/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// TemplateService manages message templates
type TemplateService struct {
	templates whatsapp.TemplateRepository
	logger    *zap.Logger
}

// NewTemplateService creates a new TemplateService
func NewTemplateService(templates whatsapp.TemplateRepository, logger *zap.Logger) *TemplateService {
	return &TemplateService{templates: templates, logger: logger}
}

// Create adds a template; names are unique per shop
func (s *TemplateService) Create(ctx context.Context, tenantID uuid.UUID, input TemplateInput) (*TemplateResponse, error) {
	if _, err := s.templates.FindByName(ctx, tenantID, input.Name); err == nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A template named "+input.Name+" already exists")
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	tpl, err := whatsapp.NewTemplate(tenantID, input.Name, input.Category, input.Body)
	if err != nil {
		return nil, err
	}
	if input.IsActive != nil {
		tpl.IsActive = *input.IsActive
	}
	if err := s.templates.Save(ctx, tpl); err != nil {
		return nil, err
	}
	resp := ToTemplateResponse(tpl)
	return &resp, nil
}

// Update replaces a template's body, category and active flag
func (s *TemplateService) Update(ctx context.Context, tenantID, id uuid.UUID, input TemplateInput) (*TemplateResponse, error) {
	tpl, err := s.load(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	updated, err := whatsapp.NewTemplate(tenantID, input.Name, input.Category, input.Body)
	if err != nil {
		return nil, err
	}
	tpl.Name = updated.Name
	tpl.Category = updated.Category
	tpl.Body = updated.Body
	tpl.Variables = updated.Variables
	if input.IsActive != nil {
		tpl.IsActive = *input.IsActive
	}
	tpl.Touch()
	tpl.IncrementVersion()
	if err := s.templates.Save(ctx, tpl); err != nil {
		return nil, err
	}
	resp := ToTemplateResponse(tpl)
	return &resp, nil
}

func (s *TemplateService) load(ctx context.Context, tenantID, id uuid.UUID) (*whatsapp.Template, error) {
	tpl, err := s.templates.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("TEMPLATE_NOT_FOUND", "Template not found")
		}
		return nil, err
	}
	return tpl, nil
}

// Get returns one template
func (s *TemplateService) Get(ctx context.Context, tenantID, id uuid.UUID) (*TemplateResponse, error) {
	tpl, err := s.load(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToTemplateResponse(tpl)
	return &resp, nil
}

// List returns templates, optionally of one category
func (s *TemplateService) List(ctx context.Context, tenantID uuid.UUID, category string) ([]TemplateResponse, error) {
	list, err := s.templates.FindAllForTenant(ctx, tenantID, category)
	if err != nil {
		return nil, err
	}
	out := make([]TemplateResponse, len(list))
	for i := range list {
		out[i] = ToTemplateResponse(&list[i])
	}
	return out, nil
}

// Delete removes a template
func (s *TemplateService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if err := s.templates.DeleteForTenant(ctx, tenantID, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("TEMPLATE_NOT_FOUND", "Template not found")
		}
		return err
	}
	return nil
}

// Render fills a template by name
func (s *TemplateService) Render(ctx context.Context, tenantID uuid.UUID, name string, values map[string]string) (string, error) {
	tpl, err := s.templates.FindByName(ctx, tenantID, name)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return "", shared.NewDomainError("TEMPLATE_NOT_FOUND", "Template "+name+" not found")
		}
		return "", err
	}
	if !tpl.IsActive {
		return "", shared.NewDomainError("INVALID_STATE", "Template "+name+" is inactive")
	}
	return tpl.Render(values)
}

// DefaultTemplate is one entry of the seed file
type DefaultTemplate struct {
	Name     string `yaml:"name"`
	Category string `yaml:"category"`
	Body     string `yaml:"body"`
}

type templateFile struct {
	Templates []DefaultTemplate `yaml:"templates"`
}

// LoadDefaultTemplates reads the seed file
func LoadDefaultTemplates(path string) ([]DefaultTemplate, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open templates file: %w", err)
	}
	defer f.Close()
	return ParseDefaultTemplates(f)
}

// ParseDefaultTemplates decodes a seed document
func ParseDefaultTemplates(r io.Reader) ([]DefaultTemplate, error) {
	var doc templateFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse templates file: %w", err)
	}
	return doc.Templates, nil
}

// SeedDefaults creates the default templates a shop does not have yet and
// returns how many were added
func (s *TemplateService) SeedDefaults(ctx context.Context, tenantID uuid.UUID, defaults []DefaultTemplate) (int, error) {
	added := 0
	for _, d := range defaults {
		_, err := s.templates.FindByName(ctx, tenantID, d.Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return added, err
		}
		tpl, err := whatsapp.NewTemplate(tenantID, d.Name, d.Category, d.Body)
		if err != nil {
			return added, fmt.Errorf("template %q: %w", d.Name, err)
		}
		if err := s.templates.Save(ctx, tpl); err != nil {
			return added, err
		}
		added++
	}
	if added > 0 {
		logger.Ctx(ctx, s.logger).Info("Default templates seeded",
			zap.String("tenant_id", tenantID.String()),
			zap.Int("count", added),
		)
	}
	return added, nil
}
