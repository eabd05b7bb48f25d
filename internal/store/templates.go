package store

import (
	"context"

	"github.com/pmclarity/clarity/internal/apiclient"
)

// Templates returns the loaded template list.
func (s *Store) Templates() []apiclient.Template {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.templates
}

// SelectedTemplate returns the template chosen for generation, or nil.
func (s *Store) SelectedTemplate() *apiclient.Template {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedTemplate
}

// SetSelectedTemplate chooses a template for generation.
func (s *Store) SetSelectedTemplate(template *apiclient.Template) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedTemplate = template
}

// FetchTemplates loads all templates. Failures degrade to an empty list.
func (s *Store) FetchTemplates(ctx context.Context) []apiclient.Template {
	templates, err := s.api.ListTemplates(ctx)
	if err != nil {
		s.logger.Error("failed to fetch templates", "error", err)
		templates = nil
	}

	s.mu.Lock()
	s.templates = templates
	s.mu.Unlock()
	return templates
}

// GetTemplate fetches a single template.
func (s *Store) GetTemplate(ctx context.Context, templateID string) (*apiclient.Template, error) {
	template, err := s.api.GetTemplate(ctx, templateID)
	if err != nil {
		s.logger.Error("failed to get template", "error", err)
		return nil, err
	}
	return template, nil
}

// CreateTemplate creates a template and reloads the list.
func (s *Store) CreateTemplate(ctx context.Context, input apiclient.TemplateInput) (*apiclient.Template, error) {
	template, err := s.api.CreateTemplate(ctx, input)
	if err != nil {
		s.failure(err, "Failed to create template")
		return nil, err
	}

	s.FetchTemplates(ctx)
	s.ShowToast("Template created successfully", ToastSuccess)
	return template, nil
}

// CloneTemplate copies a template under a new name and reloads the list.
func (s *Store) CloneTemplate(ctx context.Context, templateID, name string) (*apiclient.Template, error) {
	template, err := s.api.CloneTemplate(ctx, templateID, name)
	if err != nil {
		s.failure(err, "Failed to clone template")
		return nil, err
	}

	s.FetchTemplates(ctx)
	s.ShowToast("Template cloned successfully", ToastSuccess)
	return template, nil
}
