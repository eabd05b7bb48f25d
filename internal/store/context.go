package store

import (
	"context"
	"fmt"

	"github.com/pmclarity/clarity/internal/apiclient"
)

// ContextFiles returns the current project's uploaded files.
func (s *Store) ContextFiles() []apiclient.ContextFile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.contextFiles
}

// AggregatedContext returns the combined context text.
func (s *Store) AggregatedContext() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.aggregatedContext
}

// UploadFiles uploads files to the current project and refetches the file
// list (the server is the source of truth). The toast reflects the per-file
// outcome: mixed results warn, total failure errors, full success confirms.
func (s *Store) UploadFiles(ctx context.Context, files map[string][]byte) (*apiclient.UploadResult, error) {
	projectID, err := s.requireProject()
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		s.ShowToast("No files selected", ToastError)
		return nil, ErrNoFiles
	}

	s.setLoading(true, "uploadFiles")
	defer s.setLoading(false, "")

	result, err := s.api.UploadContextFiles(ctx, projectID, files)
	if err != nil {
		s.failure(err, "Failed to upload files")
		return nil, err
	}

	s.FetchContextFiles(ctx)

	uploaded, failed := len(result.Uploaded), len(result.Errors)
	switch {
	case failed > 0 && uploaded > 0:
		message := fmt.Sprintf("%d files uploaded, %d failed", uploaded, failed)
		s.ShowToastFor(message, ToastWarning, longToastDuration)
	case failed > 0:
		s.ShowToastFor("All uploads failed. Check file types and sizes.", ToastError, longToastDuration)
	case uploaded > 0:
		plural := ""
		if uploaded > 1 {
			plural = "s"
		}
		s.ShowToast(fmt.Sprintf("%d file%s uploaded successfully", uploaded, plural), ToastSuccess)
	}
	return result, nil
}

// FetchContextFiles loads the current project's file list. Failures degrade
// to an empty list and are logged.
func (s *Store) FetchContextFiles(ctx context.Context) []apiclient.ContextFile {
	projectID := s.currentProjectID()
	if projectID == "" {
		return nil
	}

	files, err := s.api.ListContextFiles(ctx, projectID)
	if err != nil {
		s.logger.Error("failed to fetch context files", "error", err)
		files = nil
	}

	s.mu.Lock()
	s.contextFiles = files
	s.mu.Unlock()
	return files
}

// DeleteContextFile removes one uploaded file and drops it locally.
func (s *Store) DeleteContextFile(ctx context.Context, fileID string) error {
	if fileID == "" {
		s.ShowToast("Invalid file ID", ToastError)
		return ErrInvalidID
	}

	if err := s.api.DeleteContextFile(ctx, fileID); err != nil {
		s.failure(err, "Failed to delete file")
		return err
	}

	s.mu.Lock()
	kept := s.contextFiles[:0:0]
	for _, f := range s.contextFiles {
		if f.ID != fileID {
			kept = append(kept, f)
		}
	}
	s.contextFiles = kept
	s.mu.Unlock()

	s.ShowToast("File deleted", ToastSuccess)
	return nil
}

// FetchAggregatedContext loads the combined context text. Failures degrade
// to an empty string and are logged.
func (s *Store) FetchAggregatedContext(ctx context.Context) string {
	projectID := s.currentProjectID()
	if projectID == "" {
		return ""
	}

	text, err := s.api.AggregatedContext(ctx, projectID)
	if err != nil {
		s.logger.Error("failed to fetch context text", "error", err)
		text = ""
	}

	s.mu.Lock()
	s.aggregatedContext = text
	s.mu.Unlock()
	return text
}

// AnalyzeContext asks the server to analyze the current project's context.
func (s *Store) AnalyzeContext(ctx context.Context) (*apiclient.ContextAnalysis, error) {
	projectID, err := s.requireProject()
	if err != nil {
		return nil, err
	}

	s.setLoading(true, "analyzeContext")
	defer s.setLoading(false, "")

	analysis, err := s.api.AnalyzeContext(ctx, projectID)
	if err != nil {
		s.failure(err, "Failed to analyze context")
		return nil, err
	}
	return analysis, nil
}
