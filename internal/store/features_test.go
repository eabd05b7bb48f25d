package store

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pmclarity/clarity/internal/apiclient"
)

func seedFeatures(s *Store) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.features = []apiclient.Feature{
		{ID: "ft1", Name: "Search", IsSelected: true},
		{ID: "ft2", Name: "Export", IsSelected: false},
		{ID: "ft3", Name: "Sharing", IsSelected: true},
	}
}

func TestStore_FeatureFilters(t *testing.T) {
	s := newTestStore(t, http.NotFoundHandler())
	seedFeatures(s)

	active := s.ActiveFeatures()
	require.Len(t, active, 2)
	require.Equal(t, "Search", active[0].Name)

	parked := s.ParkingLotFeatures()
	require.Len(t, parked, 1)
	require.Equal(t, "Export", parked[0].Name)

	require.Equal(t, 2, s.ActiveFeatureCount())
	require.True(t, s.HasFeatures())
}

func TestStore_ExtractFeaturesToast(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /features/extract/p1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"count":4}`))
	})
	mux.HandleFunc("GET /features/p1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":"ft1"},{"id":"ft2"},{"id":"ft3"},{"id":"ft4"}]`))
	})
	s := newTestStore(t, mux)
	selectTestProject(s, "p1", "Proj")

	count, err := s.ExtractFeatures(context.Background())
	require.NoError(t, err)
	require.Equal(t, 4, count)
	require.Len(t, s.Features(), 4)
	requireToast(t, s, ToastSuccess, "Extracted 4 features from context")
}

func TestStore_ToggleFeatureSelectionReplacesInPlace(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /features/select/ft2", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"ft2","name":"Export","is_selected":true}`))
	})
	s := newTestStore(t, mux)
	selectTestProject(s, "p1", "Proj")
	seedFeatures(s)

	feature, err := s.ToggleFeatureSelection(context.Background(), "ft2", true)
	require.NoError(t, err)
	require.True(t, feature.IsSelected)

	require.Len(t, s.Features(), 3)
	require.Len(t, s.ActiveFeatures(), 3)
	require.Empty(t, s.ParkingLotFeatures())
}

func TestStore_DeleteFeature(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /features/item/ft1", func(w http.ResponseWriter, r *http.Request) {})
	s := newTestStore(t, mux)
	selectTestProject(s, "p1", "Proj")
	seedFeatures(s)

	err := s.DeleteFeature(context.Background(), "ft1")
	require.NoError(t, err)
	require.Len(t, s.Features(), 2)
	for _, f := range s.Features() {
		require.NotEqual(t, "ft1", f.ID)
	}
}
