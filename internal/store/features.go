package store

import (
	"context"
	"fmt"

	"github.com/pmclarity/clarity/internal/apiclient"
)

// Features returns the current project's features.
func (s *Store) Features() []apiclient.Feature {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.features
}

// ActiveFeatures returns the features selected for the PRD.
func (s *Store) ActiveFeatures() []apiclient.Feature {
	return s.filterFeatures(true)
}

// ParkingLotFeatures returns the deselected features.
func (s *Store) ParkingLotFeatures() []apiclient.Feature {
	return s.filterFeatures(false)
}

func (s *Store) filterFeatures(selected bool) []apiclient.Feature {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []apiclient.Feature
	for _, f := range s.features {
		if f.IsSelected == selected {
			out = append(out, f)
		}
	}
	return out
}

// ActiveFeatureCount counts the selected features.
func (s *Store) ActiveFeatureCount() int {
	return len(s.ActiveFeatures())
}

// HasFeatures reports whether any features exist.
func (s *Store) HasFeatures() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.features) > 0
}

// FetchFeatures loads the current project's features. Failures degrade to an
// empty list and are logged.
func (s *Store) FetchFeatures(ctx context.Context) []apiclient.Feature {
	projectID := s.currentProjectID()
	if projectID == "" {
		return nil
	}

	features, err := s.api.ListFeatures(ctx, projectID)
	if err != nil {
		s.logger.Error("failed to fetch features", "error", err)
		features = nil
	}

	s.mu.Lock()
	s.features = features
	s.mu.Unlock()
	return features
}

// ExtractFeatures asks the server to mine features from context, then
// reloads the feature list.
func (s *Store) ExtractFeatures(ctx context.Context) (int, error) {
	projectID, err := s.requireProject()
	if err != nil {
		return 0, err
	}

	s.setLoading(true, "extractFeatures")
	defer s.setLoading(false, "")

	count, err := s.api.ExtractFeatures(ctx, projectID)
	if err != nil {
		s.logger.Error("failed to extract features", "error", err)
		message := apiclient.UserMessage(err, "Failed to extract features")
		s.ShowToastFor(message, ToastError, longToastDuration)
		return 0, err
	}

	s.FetchFeatures(ctx)
	s.ShowToast(fmt.Sprintf("Extracted %d features from context", count), ToastSuccess)
	return count, nil
}

// CreateFeature adds a feature to the current project.
func (s *Store) CreateFeature(ctx context.Context, name, description string) (*apiclient.Feature, error) {
	projectID, err := s.requireProject()
	if err != nil {
		return nil, err
	}

	feature, err := s.api.CreateFeature(ctx, projectID, apiclient.FeatureInput{
		Name:        name,
		Description: description,
	})
	if err != nil {
		s.failure(err, "Failed to create feature")
		return nil, err
	}

	s.mu.Lock()
	s.features = append(s.features, *feature)
	s.mu.Unlock()

	s.ShowToast("Feature added", ToastSuccess)
	return feature, nil
}

// UpdateFeature updates a feature's name or description, replacing the local
// entry with the server's copy.
func (s *Store) UpdateFeature(ctx context.Context, featureID string, input apiclient.FeatureInput) (*apiclient.Feature, error) {
	feature, err := s.api.UpdateFeature(ctx, featureID, input)
	if err != nil {
		s.failure(err, "Failed to update feature")
		return nil, err
	}

	s.replaceFeature(*feature)
	return feature, nil
}

// ToggleFeatureSelection moves a feature between active and parking lot.
func (s *Store) ToggleFeatureSelection(ctx context.Context, featureID string, isSelected bool) (*apiclient.Feature, error) {
	feature, err := s.api.SelectFeature(ctx, featureID, isSelected)
	if err != nil {
		s.failure(err, "Failed to update feature")
		return nil, err
	}

	s.replaceFeature(*feature)
	return feature, nil
}

func (s *Store) replaceFeature(feature apiclient.Feature) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.features {
		if s.features[i].ID == feature.ID {
			s.features[i] = feature
			return
		}
	}
}

// DeleteFeature removes a feature.
func (s *Store) DeleteFeature(ctx context.Context, featureID string) error {
	if err := s.api.DeleteFeature(ctx, featureID); err != nil {
		s.failure(err, "Failed to delete feature")
		return err
	}

	s.mu.Lock()
	kept := s.features[:0:0]
	for _, f := range s.features {
		if f.ID != featureID {
			kept = append(kept, f)
		}
	}
	s.features = kept
	s.mu.Unlock()

	s.ShowToast("Feature deleted", ToastSuccess)
	return nil
}
