package apiclient

import (
	"context"
	"net/http"
)

// Feature is a product feature, either selected for the PRD or parked.
type Feature struct {
	ID          string `json:"id"`
	ProjectID   string `json:"project_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsSelected  bool   `json:"is_selected"`
}

// FeatureInput carries the writable fields of a feature.
type FeatureInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ListFeatures returns a project's features.
func (c *Client) ListFeatures(ctx context.Context, projectID string) ([]Feature, error) {
	var features []Feature
	if err := c.do(ctx, http.MethodGet, "/features/"+projectID, nil, &features); err != nil {
		return nil, err
	}
	return features, nil
}

// CreateFeature adds a feature to a project.
func (c *Client) CreateFeature(ctx context.Context, projectID string, input FeatureInput) (*Feature, error) {
	var feature Feature
	if err := c.do(ctx, http.MethodPost, "/features/"+projectID, input, &feature); err != nil {
		return nil, err
	}
	return &feature, nil
}

// UpdateFeature updates a feature's name or description.
func (c *Client) UpdateFeature(ctx context.Context, featureID string, input FeatureInput) (*Feature, error) {
	var feature Feature
	if err := c.do(ctx, http.MethodPut, "/features/item/"+featureID, input, &feature); err != nil {
		return nil, err
	}
	return &feature, nil
}

// SelectFeature toggles a feature between active and parking lot.
func (c *Client) SelectFeature(ctx context.Context, featureID string, isSelected bool) (*Feature, error) {
	var feature Feature
	body := map[string]bool{"is_selected": isSelected}
	if err := c.do(ctx, http.MethodPut, "/features/select/"+featureID, body, &feature); err != nil {
		return nil, err
	}
	return &feature, nil
}

// DeleteFeature removes a feature.
func (c *Client) DeleteFeature(ctx context.Context, featureID string) error {
	return c.do(ctx, http.MethodDelete, "/features/item/"+featureID, nil, nil)
}

// ExtractFeatures asks the server to mine features from the project context.
// Returns the number of features extracted.
func (c *Client) ExtractFeatures(ctx context.Context, projectID string) (int, error) {
	genCtx, cancel := c.generateContext(ctx)
	defer cancel()

	var out struct {
		Count int `json:"count"`
	}
	if err := c.do(genCtx, http.MethodPost, "/features/extract/"+projectID, nil, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}
