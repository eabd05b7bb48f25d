package store

import (
	"context"
	"fmt"
	"time"

	"github.com/pmclarity/clarity/internal/apiclient"
)

// PRD returns the current PRD markdown and whether one exists.
func (s *Store) PRD() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prd, s.hasPRD
}

// PRDHTML returns the rendered PRD preview, if loaded.
func (s *Store) PRDHTML() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prdHTML
}

// PRDHistory returns the loaded version history.
func (s *Store) PRDHistory() []apiclient.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prdHistory
}

// PRDMetadata returns the manual-edit metadata, or nil.
func (s *Store) PRDMetadata() *apiclient.PRDMetadata {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prdMetadata
}

// GeneratePRD generates the PRD from confirmed responses and context.
func (s *Store) GeneratePRD(ctx context.Context) (string, error) {
	projectID, err := s.requireProject()
	if err != nil {
		return "", err
	}

	s.setLoading(true, "generatePRD")
	defer s.setLoading(false, "")

	return s.generate(ctx, projectID)
}

// GeneratePRDQuiet generates without touching the global loading flag, for
// callers that manage their own progress indication.
func (s *Store) GeneratePRDQuiet(ctx context.Context) (string, error) {
	projectID, err := s.requireProject()
	if err != nil {
		return "", err
	}
	return s.generate(ctx, projectID)
}

func (s *Store) generate(ctx context.Context, projectID string) (string, error) {
	content, err := s.api.GeneratePRD(ctx, projectID)
	if err != nil {
		s.logger.Error("failed to generate PRD", "error", err)
		message := apiclient.UserMessage(err, "Failed to generate PRD")
		if apiErr, ok := apiclient.AsError(err); ok && apiErr.Hint != "" {
			message += ". " + apiErr.Hint
		}
		s.ShowToastFor(message, ToastError, longToastDuration)
		return "", err
	}

	s.mu.Lock()
	s.prd = content
	s.hasPRD = true
	s.mu.Unlock()

	s.ShowToast("PRD generated successfully", ToastSuccess)
	return content, nil
}

// FetchPRD loads the current PRD. A 404 means no PRD exists yet and is not
// an error; other failures are logged but never surfaced as toasts.
func (s *Store) FetchPRD(ctx context.Context) (string, bool) {
	projectID := s.currentProjectID()
	if projectID == "" {
		return "", false
	}

	content, err := s.api.GetPRD(ctx, projectID)
	if err != nil {
		if !apiclient.IsNotFound(err) {
			s.logger.Error("failed to fetch PRD", "error", err)
		}
		s.mu.Lock()
		s.prd = ""
		s.hasPRD = false
		s.mu.Unlock()
		return "", false
	}

	s.mu.Lock()
	s.prd = content
	s.hasPRD = true
	s.mu.Unlock()
	return content, true
}

// FetchPRDPreview loads the PRD as markdown plus rendered HTML. A 404 means
// no PRD exists yet.
func (s *Store) FetchPRDPreview(ctx context.Context) (*apiclient.PRD, bool) {
	projectID := s.currentProjectID()
	if projectID == "" {
		return nil, false
	}

	preview, err := s.api.GetPRDPreview(ctx, projectID)
	if err != nil {
		if !apiclient.IsNotFound(err) {
			s.logger.Error("failed to fetch PRD preview", "error", err)
		}
		s.mu.Lock()
		s.prd = ""
		s.hasPRD = false
		s.prdHTML = ""
		s.mu.Unlock()
		return nil, false
	}

	s.mu.Lock()
	s.prd = preview.ContentMD
	s.hasPRD = true
	s.prdHTML = preview.HTML
	s.mu.Unlock()
	return preview, true
}

// EditPRD persists manually edited content, optimistically updating the
// local content and edit metadata.
func (s *Store) EditPRD(ctx context.Context, content string) error {
	projectID, err := s.requireProject()
	if err != nil {
		return err
	}

	if err := s.api.EditPRD(ctx, projectID, content); err != nil {
		s.failure(err, "Failed to save PRD")
		return err
	}

	s.mu.Lock()
	s.prd = content
	s.hasPRD = true
	s.prdMetadata = &apiclient.PRDMetadata{
		LastEditedAt:     time.Now().UTC(),
		IsManuallyEdited: true,
	}
	s.mu.Unlock()
	return nil
}

// FetchPRDHistory loads the version history, hydrating edit metadata when
// the server envelope carries it. Failures degrade to an empty list.
func (s *Store) FetchPRDHistory(ctx context.Context) []apiclient.Snapshot {
	projectID := s.currentProjectID()
	if projectID == "" {
		return nil
	}

	history, err := s.api.GetPRDHistory(ctx, projectID)
	if err != nil {
		s.logger.Error("failed to fetch PRD history", "error", err)
		s.mu.Lock()
		s.prdHistory = nil
		s.mu.Unlock()
		return nil
	}

	s.mu.Lock()
	s.prdHistory = history.Snapshots
	if history.Metadata != nil {
		s.prdMetadata = history.Metadata
	}
	s.mu.Unlock()
	return history.Snapshots
}

// RestorePRDVersion replaces current content with a snapshot's content, then
// refreshes history.
func (s *Store) RestorePRDVersion(ctx context.Context, snapshotID string) error {
	projectID, err := s.requireProject()
	if err != nil {
		return err
	}

	s.setLoading(true, "restorePRD")
	defer s.setLoading(false, "")

	content, err := s.api.RestorePRD(ctx, projectID, snapshotID)
	if err != nil {
		s.failure(err, "Failed to restore version")
		return err
	}

	s.mu.Lock()
	if content != "" {
		s.prd = content
		s.hasPRD = true
	}
	s.mu.Unlock()

	s.ShowToast("PRD version restored", ToastSuccess)
	s.FetchPRDHistory(ctx)
	return nil
}

// SavePRDVersion saves the current content as a named snapshot, then
// refreshes history.
func (s *Store) SavePRDVersion(ctx context.Context, versionName, changeSummary string) error {
	projectID, err := s.requireProject()
	if err != nil {
		return err
	}

	if _, err := s.api.SavePRDVersion(ctx, projectID, versionName, changeSummary); err != nil {
		s.failure(err, "Failed to save version")
		return err
	}

	s.ShowToast(fmt.Sprintf("Version %q saved", versionName), ToastSuccess)
	s.FetchPRDHistory(ctx)
	return nil
}

// RegeneratePRDSection regenerates one named section, replacing the current
// content with the server's result.
func (s *Store) RegeneratePRDSection(ctx context.Context, sectionName string) error {
	projectID, err := s.requireProject()
	if err != nil {
		return err
	}

	s.setLoading(true, "regenerateSection")
	defer s.setLoading(false, "")

	content, err := s.api.RegeneratePRDSection(ctx, projectID, sectionName)
	if err != nil {
		s.failure(err, "Failed to regenerate section")
		return err
	}

	s.mu.Lock()
	if content != "" {
		s.prd = content
		s.hasPRD = true
	}
	s.mu.Unlock()

	s.ShowToast(fmt.Sprintf("Section %q regenerated", sectionName), ToastSuccess)
	return nil
}

// ComparePRDVersions diffs two versions; either ID may be "current".
func (s *Store) ComparePRDVersions(ctx context.Context, version1ID, version2ID string) (*apiclient.VersionDiff, error) {
	projectID, err := s.requireProject()
	if err != nil {
		return nil, err
	}

	diff, err := s.api.ComparePRDVersions(ctx, projectID, version1ID, version2ID)
	if err != nil {
		s.failure(err, "Failed to compare versions")
		return nil, err
	}
	return diff, nil
}

// PRDChangelog returns a human-readable changelog for the current project.
func (s *Store) PRDChangelog(ctx context.Context) (string, error) {
	projectID, err := s.requireProject()
	if err != nil {
		return "", err
	}

	changelog, err := s.api.PRDChangelog(ctx, projectID)
	if err != nil {
		s.failure(err, "Failed to load changelog")
		return "", err
	}
	return changelog, nil
}
