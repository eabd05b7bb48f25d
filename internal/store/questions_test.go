package store

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pmclarity/clarity/internal/apiclient"
)

func TestStore_CompletionPercentage(t *testing.T) {
	s := newTestStore(t, http.NotFoundHandler())
	require.Zero(t, s.CompletionPercentage())

	s.mu.Lock()
	s.stats = apiclient.Stats{TotalQuestions: 4, Confirmed: 2}
	s.mu.Unlock()
	require.Equal(t, 50, s.CompletionPercentage())

	s.mu.Lock()
	s.stats = apiclient.Stats{TotalQuestions: 3, Confirmed: 1}
	s.mu.Unlock()
	require.Equal(t, 33, s.CompletionPercentage())
}

func TestStore_FetchQuestionsActivatesFirstSection(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /questions", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"sections":[
			{"id":"sec-overview","title":"Overview","subsections":[
				{"id":"sub-1","title":"Basics","questions":[{"id":"q1","text":"What?"},{"id":"q2","text":"Why?"}]}
			]},
			{"id":"sec-users","title":"Users","subsections":[
				{"id":"sub-2","title":"Personas","questions":[{"id":"q3","text":"Who?"}]}
			]}
		]}`))
	})
	s := newTestStore(t, mux)

	catalog := s.FetchQuestions(context.Background())
	require.Len(t, catalog.Sections, 2)
	require.Equal(t, "sec-overview", s.ActiveSection())
	require.Equal(t, 3, s.TotalQuestions())
}

func TestStore_FetchResponsesKeysByQuestionID(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /questions/responses/p1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"question_id":"q1","response":"answer one","confirmed":true},
			{"question_id":"q2","response":"answer two","ai_suggested":true},
			{"response":"orphan without question id"}
		]`))
	})
	s := newTestStore(t, mux)
	selectTestProject(s, "p1", "Proj")

	responses := s.FetchResponses(context.Background())
	require.Len(t, responses, 2)
	require.True(t, responses["q1"].Confirmed)
	require.True(t, responses["q2"].AISuggested)
	require.Equal(t, 1, s.ConfirmedCount())
}

func TestStore_SaveResponsePreservesAISuggested(t *testing.T) {
	var saved map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /questions/response/p1/q1", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&saved))
	})
	mux.HandleFunc("GET /questions/stats/p1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"total_questions":10,"confirmed":5}`))
	})
	s := newTestStore(t, mux)
	selectTestProject(s, "p1", "Proj")
	s.mu.Lock()
	s.responses["q1"] = apiclient.Response{QuestionID: "q1", Response: "draft", AISuggested: true}
	s.mu.Unlock()

	err := s.SaveResponse(context.Background(), "q1", "final answer", true)
	require.NoError(t, err)

	require.Equal(t, true, saved["ai_suggested"])
	resp := s.ResponseByQuestionID("q1")
	require.NotNil(t, resp)
	require.Equal(t, "final answer", resp.Response)
	require.True(t, resp.Confirmed)
	require.True(t, resp.AISuggested)

	// Stats are authoritative after the refresh.
	require.Equal(t, 5, s.Stats().Confirmed)
	require.Equal(t, 50, s.CompletionPercentage())
}

func TestStore_ConfirmResponsePatchesLocally(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /questions/confirm/p1/q1", func(w http.ResponseWriter, r *http.Request) {})
	mux.HandleFunc("GET /questions/stats/p1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"total_questions":1,"confirmed":1}`))
	})
	s := newTestStore(t, mux)
	selectTestProject(s, "p1", "Proj")
	s.mu.Lock()
	s.responses["q1"] = apiclient.Response{QuestionID: "q1", Response: "answer"}
	s.mu.Unlock()

	err := s.ConfirmResponse(context.Background(), "q1", true)
	require.NoError(t, err)
	require.True(t, s.ResponseByQuestionID("q1").Confirmed)
}

func TestStore_PrefillFailureShowsHint(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /questions/prefill/p1", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"No context available","hint":"Upload context files first"}`))
	})
	s := newTestStore(t, mux)
	selectTestProject(s, "p1", "Proj")

	_, err := s.PrefillQuestions(context.Background())
	require.Error(t, err)
	requireToast(t, s, ToastError, "No context available. Upload context files first")
}

func TestStore_FetchStatsKeepsPreviousOnFailure(t *testing.T) {
	s := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	selectTestProject(s, "p1", "Proj")
	s.mu.Lock()
	s.stats = apiclient.Stats{TotalQuestions: 8, Confirmed: 3}
	s.mu.Unlock()

	stats := s.FetchStats(context.Background())
	require.Equal(t, 8, stats.TotalQuestions)
	require.Equal(t, 3, stats.Confirmed)
}
