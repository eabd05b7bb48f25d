package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateShare_PasswordProtected(t *testing.T) {
	var body map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/share/create/p1", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Write([]byte(`{"id":"sh1","share_token":"tok-abc","access_type":"comment","password_protected":true}`))
	})

	share, err := client.CreateShare(context.Background(), "p1", ShareInput{
		AccessType: "comment",
		Password:   "secret",
		ExpiresIn:  7,
	})
	require.NoError(t, err)
	require.Equal(t, "tok-abc", share.ShareToken)
	require.True(t, share.PasswordProtected)

	require.Equal(t, "comment", body["access_type"])
	require.Equal(t, "secret", body["password"])
	require.Equal(t, float64(7), body["expires_in"])
}

func TestGetSharedPRD_PasswordInQuery(t *testing.T) {
	var query string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/share/tok-abc", r.URL.Path)
		query = r.URL.Query().Get("password")
		w.Write([]byte(`{
			"prd":{"id":"prd1","project_name":"Proj","content_md":"# PRD"},
			"access_type":"view",
			"comments":[{"id":"c1","comment_text":"Looks good"}]
		}`))
	})

	shared, err := client.GetSharedPRD(context.Background(), "tok-abc", "secret")
	require.NoError(t, err)
	require.Equal(t, "secret", query)
	require.Equal(t, "# PRD", shared.PRD.ContentMD)
	require.Len(t, shared.Comments, 1)
}

func TestGetSharedPRD_NoPasswordOmitsQuery(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Empty(t, r.URL.RawQuery)
		w.Write([]byte(`{"prd":{"id":"prd1"},"access_type":"view"}`))
	})

	_, err := client.GetSharedPRD(context.Background(), "tok-abc", "")
	require.NoError(t, err)
}

func TestReplyToComment_ThreadsUnderParent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/comments/reply/c1", r.URL.Path)
		w.Write([]byte(`{"id":"c2","parent_comment_id":"c1","comment_text":"Agreed"}`))
	})

	comment, err := client.ReplyToComment(context.Background(), "c1", CommentInput{
		AuthorName:  "Dana",
		CommentText: "Agreed",
	})
	require.NoError(t, err)
	require.Equal(t, "c1", comment.ParentCommentID)
}

func TestFeedbackStats(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/feedback/stats/p1", r.URL.Path)
		w.Write([]byte(`{"count":3,"average_rating":4.5,"by_rating":[0,0,0,1,2]}`))
	})

	stats, err := client.FeedbackStats(context.Background(), "p1")
	require.NoError(t, err)
	require.Equal(t, 3, stats.Count)
	require.InDelta(t, 4.5, stats.AverageRating, 0.001)
}

func TestAnalyticsEndpoints(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/analytics/overview":
			w.Write([]byte(`{"total_projects":2,"total_prds":1}`))
		case "/analytics/project/p1":
			w.Write([]byte(`{"project_id":"p1","file_count":3,"has_prd":true}`))
		case "/analytics/timeline/p1":
			w.Write([]byte(`{"timeline":[{"event":"prd_generated"},{"event":"file_uploaded"}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	overview, err := client.AnalyticsOverview(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, overview.TotalProjects)

	analytics, err := client.ProjectAnalytics(context.Background(), "p1")
	require.NoError(t, err)
	require.True(t, analytics.HasPRD)

	timeline, err := client.ProjectTimeline(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, timeline, 2)
}
