package store

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"My Project", "My Project"},
		{"My/Proj:2*", "MyProj2"},
		{"  padded  ", "padded"},
		{"///***", "PRD"},
		{"", "PRD"},
		{"snake_case-name", "snake_case-name"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, sanitizeFileName(tt.in), "input %q", tt.in)
	}
}

func TestExportFileName(t *testing.T) {
	require.Equal(t, "PRD_MyProj2.md", ExportFileName("My/Proj:2*", "md"))
	require.Equal(t, "PRD_PRD.docx", ExportFileName("???", "docx"))
}

func TestStore_ExportPRDWritesFile(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /prd/export/md/p1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("# Exported PRD"))
	})
	s := newTestStore(t, mux)
	selectTestProject(s, "p1", "My/Proj:2*")

	dir := t.TempDir()
	path, err := s.ExportPRD(context.Background(), "md", dir)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "PRD_MyProj2.md"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "# Exported PRD", string(data))
	requireToast(t, s, ToastSuccess, "PRD exported as MD")
}

func TestStore_ExportPRDRejectsUnknownFormat(t *testing.T) {
	s := newTestStore(t, http.NotFoundHandler())
	selectTestProject(s, "p1", "Proj")

	_, err := s.ExportPRD(context.Background(), "pdf", t.TempDir())
	require.ErrorIs(t, err, ErrInvalidFormat)
	requireToast(t, s, ToastError, "Invalid export format")
}
