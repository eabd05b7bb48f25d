package apiclient

import (
	"context"
	"net/http"
)

// Template is a reusable PRD section layout, independent of any project.
type Template struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Sections []TemplateSection `json:"sections"`
}

// TemplateSection is one ordered section of a template.
type TemplateSection struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Order int    `json:"order"`
}

// TemplateInput carries the writable fields of a template.
type TemplateInput struct {
	Name     string            `json:"name"`
	Sections []TemplateSection `json:"sections"`
}

// ListTemplates returns all templates.
func (c *Client) ListTemplates(ctx context.Context) ([]Template, error) {
	var templates []Template
	if err := c.do(ctx, http.MethodGet, "/templates", nil, &templates); err != nil {
		return nil, err
	}
	return templates, nil
}

// GetTemplate fetches one template by ID.
func (c *Client) GetTemplate(ctx context.Context, id string) (*Template, error) {
	var template Template
	if err := c.do(ctx, http.MethodGet, "/templates/"+id, nil, &template); err != nil {
		return nil, err
	}
	return &template, nil
}

// CreateTemplate creates a template.
func (c *Client) CreateTemplate(ctx context.Context, input TemplateInput) (*Template, error) {
	var template Template
	if err := c.do(ctx, http.MethodPost, "/templates", input, &template); err != nil {
		return nil, err
	}
	return &template, nil
}

// UpdateTemplate replaces a template's name and sections.
func (c *Client) UpdateTemplate(ctx context.Context, id string, input TemplateInput) (*Template, error) {
	var template Template
	if err := c.do(ctx, http.MethodPut, "/templates/"+id, input, &template); err != nil {
		return nil, err
	}
	return &template, nil
}

// DeleteTemplate removes a template.
func (c *Client) DeleteTemplate(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/templates/"+id, nil, nil)
}

// CloneTemplate copies a template under a new name.
func (c *Client) CloneTemplate(ctx context.Context, id, name string) (*Template, error) {
	var template Template
	body := map[string]string{"name": name}
	if err := c.do(ctx, http.MethodPost, "/templates/"+id+"/clone", body, &template); err != nil {
		return nil, err
	}
	return &template, nil
}

// GetTemplateSections returns just the ordered sections of a template.
func (c *Client) GetTemplateSections(ctx context.Context, id string) ([]TemplateSection, error) {
	var sections []TemplateSection
	if err := c.do(ctx, http.MethodGet, "/templates/"+id+"/sections", nil, &sections); err != nil {
		return nil, err
	}
	return sections, nil
}
