package store

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStore_FetchPRDNotFoundIsSilent(t *testing.T) {
	s := newTestStore(t, http.NotFoundHandler())
	selectTestProject(s, "p1", "Proj")

	content, ok := s.FetchPRD(context.Background())
	require.False(t, ok)
	require.Empty(t, content)
	require.Nil(t, s.Toast())
}

func TestStore_FetchPRDServerErrorIsSilent(t *testing.T) {
	s := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	selectTestProject(s, "p1", "Proj")
	s.mu.Lock()
	s.prd = "# stale"
	s.hasPRD = true
	s.mu.Unlock()

	_, ok := s.FetchPRD(context.Background())
	require.False(t, ok)
	require.Nil(t, s.Toast())

	_, hasPRD := s.PRD()
	require.False(t, hasPRD)
}

func TestStore_GeneratePRD(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /prd/generate/p1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"content":"# Generated PRD"}`))
	})
	s := newTestStore(t, mux)
	selectTestProject(s, "p1", "Proj")

	content, err := s.GeneratePRD(context.Background())
	require.NoError(t, err)
	require.Equal(t, "# Generated PRD", content)

	stored, ok := s.PRD()
	require.True(t, ok)
	require.Equal(t, "# Generated PRD", stored)
	requireToast(t, s, ToastSuccess, "PRD generated successfully")
}

func TestStore_GeneratePRDFailureAppendsHint(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /prd/generate/p1", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"No confirmed responses","hint":"Confirm at least one answer"}`))
	})
	s := newTestStore(t, mux)
	selectTestProject(s, "p1", "Proj")

	_, err := s.GeneratePRD(context.Background())
	require.Error(t, err)
	requireToast(t, s, ToastError, "No confirmed responses. Confirm at least one answer")
}

func TestStore_EditPRDMarksManuallyEdited(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /prd/edit/p1", func(w http.ResponseWriter, r *http.Request) {})
	s := newTestStore(t, mux)
	selectTestProject(s, "p1", "Proj")

	err := s.EditPRD(context.Background(), "# Edited")
	require.NoError(t, err)

	content, ok := s.PRD()
	require.True(t, ok)
	require.Equal(t, "# Edited", content)

	metadata := s.PRDMetadata()
	require.NotNil(t, metadata)
	require.True(t, metadata.IsManuallyEdited)
	require.False(t, metadata.LastEditedAt.IsZero())
}

func TestStore_FetchPRDHistoryHydratesMetadata(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /prd/history/p1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"snapshots":[{"id":"s1","version_name":"v1"}],
			"is_manually_edited":true,
			"last_edited_at":"2026-08-01T10:00:00Z"
		}`))
	})
	s := newTestStore(t, mux)
	selectTestProject(s, "p1", "Proj")

	snapshots := s.FetchPRDHistory(context.Background())
	require.Len(t, snapshots, 1)
	require.NotNil(t, s.PRDMetadata())
	require.True(t, s.PRDMetadata().IsManuallyEdited)
}

func TestStore_RestorePRDVersion(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /prd/restore/p1/s1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"content":"# Restored"}`))
	})
	mux.HandleFunc("GET /prd/history/p1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":"s1"},{"id":"s2"}]`))
	})
	s := newTestStore(t, mux)
	selectTestProject(s, "p1", "Proj")

	err := s.RestorePRDVersion(context.Background(), "s1")
	require.NoError(t, err)

	content, ok := s.PRD()
	require.True(t, ok)
	require.Equal(t, "# Restored", content)
	require.Len(t, s.PRDHistory(), 2)
}

func TestStore_SavePRDVersionToast(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /prd/save-version/p1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"s3","version_name":"Milestone"}`))
	})
	mux.HandleFunc("GET /prd/history/p1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":"s3"}]`))
	})
	s := newTestStore(t, mux)
	selectTestProject(s, "p1", "Proj")

	err := s.SavePRDVersion(context.Background(), "Milestone", "first cut")
	require.NoError(t, err)
	requireToast(t, s, ToastSuccess, `Version "Milestone" saved`)
}
