package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeHistory_BareArray(t *testing.T) {
	raw := json.RawMessage(`[
		{"id":"s1","version_name":"v1"},
		{"id":"s2","version_name":"v2"}
	]`)

	history, err := normalizeHistory(raw)
	require.NoError(t, err)
	require.Len(t, history.Snapshots, 2)
	require.Equal(t, "s1", history.Snapshots[0].ID)
	require.Nil(t, history.Metadata)
}

func TestNormalizeHistory_Envelope(t *testing.T) {
	raw := json.RawMessage(`{
		"snapshots": [{"id":"s1"}],
		"is_manually_edited": true,
		"last_edited_at": "2026-08-01T10:00:00Z"
	}`)

	history, err := normalizeHistory(raw)
	require.NoError(t, err)
	require.Len(t, history.Snapshots, 1)
	require.NotNil(t, history.Metadata)
	require.True(t, history.Metadata.IsManuallyEdited)
	require.Equal(t, 2026, history.Metadata.LastEditedAt.Year())
}

func TestNormalizeHistory_EnvelopeWithoutMetadata(t *testing.T) {
	raw := json.RawMessage(`{"snapshots": []}`)

	history, err := normalizeHistory(raw)
	require.NoError(t, err)
	require.Empty(t, history.Snapshots)
	require.Nil(t, history.Metadata)
}

func TestGetPRD_ContentShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"generate shape", `{"content":"# PRD"}`, "# PRD"},
		{"fetch shape", `{"content_md":"# Doc"}`, "# Doc"},
		{"content wins when both present", `{"content":"new","content_md":"old"}`, "new"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			})
			content, err := client.GetPRD(context.Background(), "p1")
			require.NoError(t, err)
			require.Equal(t, tt.want, content)
		})
	}
}
