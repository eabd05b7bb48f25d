package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// sanitizeFileName strips every character outside letters, digits, space,
// hyphen, and underscore, then trims. Falls back to "PRD" when nothing
// survives.
func sanitizeFileName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	safe := strings.TrimSpace(b.String())
	if safe == "" {
		return "PRD"
	}
	return safe
}

// ExportPRD downloads the PRD in the given format ("md" or "docx") and
// writes it to dir under a name synthesized from the sanitized project name.
// Returns the written file path.
func (s *Store) ExportPRD(ctx context.Context, format, dir string) (string, error) {
	projectID, err := s.requireProject()
	if err != nil {
		return "", err
	}
	if format != "md" && format != "docx" {
		s.ShowToast("Invalid export format", ToastError)
		return "", ErrInvalidFormat
	}

	s.setLoading(true, "exportPRD")
	defer s.setLoading(false, "")

	payload, err := s.api.ExportPRD(ctx, projectID, format)
	if err != nil {
		s.failure(err, "Failed to export PRD")
		return "", err
	}

	s.mu.Lock()
	projectName := ""
	if s.current != nil {
		projectName = s.current.Name
	}
	s.mu.Unlock()

	filename := fmt.Sprintf("PRD_%s.%s", sanitizeFileName(projectName), format)
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		err = fmt.Errorf("writing export file: %w", err)
		s.failure(err, "Failed to export PRD")
		return "", err
	}

	s.ShowToast(fmt.Sprintf("PRD exported as %s", strings.ToUpper(format)), ToastSuccess)
	return path, nil
}

// ExportFileName returns the filename an export would use for a project
// name and format.
func ExportFileName(projectName, format string) string {
	return fmt.Sprintf("PRD_%s.%s", sanitizeFileName(projectName), format)
}
