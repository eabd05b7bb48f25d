package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// Share is an outstanding share link for a project's PRD.
type Share struct {
	ID                string    `json:"id"`
	ShareToken        string    `json:"share_token"`
	AccessType        string    `json:"access_type"`
	ExpiresAt         time.Time `json:"expires_at"`
	ViewCount         int       `json:"view_count"`
	PasswordProtected bool      `json:"password_protected"`
	CreatedAt         time.Time `json:"created_at"`
}

// ShareInput configures a new share link.
type ShareInput struct {
	AccessType string `json:"access_type"`
	Password   string `json:"password,omitempty"`
	// ExpiresIn is a lifetime in days; zero means no expiry.
	ExpiresIn int `json:"expires_in,omitempty"`
}

// SharedPRD is the stakeholder-visible view behind a share token.
type SharedPRD struct {
	PRD struct {
		ID          string    `json:"id"`
		ProjectID   string    `json:"project_id"`
		ProjectName string    `json:"project_name"`
		ContentMD   string    `json:"content_md"`
		Status      string    `json:"status"`
		CreatedAt   time.Time `json:"created_at"`
	} `json:"prd"`
	AccessType string    `json:"access_type"`
	Comments   []Comment `json:"comments"`
}

// Comment is feedback attached to a PRD, optionally threaded.
type Comment struct {
	ID              string    `json:"id"`
	PRDID           string    `json:"prd_id"`
	AuthorName      string    `json:"author_name"`
	AuthorEmail     string    `json:"author_email,omitempty"`
	CommentText     string    `json:"comment_text"`
	SectionID       string    `json:"section_id,omitempty"`
	ParentCommentID string    `json:"parent_comment_id,omitempty"`
	Resolved        bool      `json:"resolved"`
	CreatedAt       time.Time `json:"created_at"`
}

// CommentInput carries the writable fields of a comment.
type CommentInput struct {
	AuthorName  string `json:"author_name"`
	AuthorEmail string `json:"author_email,omitempty"`
	CommentText string `json:"comment_text"`
	SectionID   string `json:"section_id,omitempty"`
}

// StakeholderProfile describes a role-specific PRD view.
type StakeholderProfile struct {
	Role        string `json:"role"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

// StakeholderView is a PRD filtered for one stakeholder role.
type StakeholderView struct {
	Role      string `json:"role"`
	ContentMD string `json:"content_md"`
	Summary   string `json:"summary,omitempty"`
}

// FeedbackInput is a rating of the generated PRD or one question's answer.
type FeedbackInput struct {
	Rating               int    `json:"rating"`
	FeedbackText         string `json:"feedback_text,omitempty"`
	SectionName          string `json:"section_name,omitempty"`
	WasHelpful           *bool  `json:"was_helpful,omitempty"`
	SuggestedImprovement string `json:"suggested_improvement,omitempty"`
}

// FeedbackStats summarizes collected feedback for a project.
type FeedbackStats struct {
	Count         int     `json:"count"`
	AverageRating float64 `json:"average_rating"`
	ByRating      []int   `json:"by_rating"`
}

// AnalyticsOverview is the cross-project usage summary.
type AnalyticsOverview struct {
	TotalProjects  int `json:"total_projects"`
	TotalPRDs      int `json:"total_prds"`
	TotalFiles     int `json:"total_files"`
	TotalResponses int `json:"total_responses"`
}

// ProjectAnalytics is the per-project usage summary.
type ProjectAnalytics struct {
	ProjectID     string  `json:"project_id"`
	FileCount     int     `json:"file_count"`
	FeatureCount  int     `json:"feature_count"`
	ResponseCount int     `json:"response_count"`
	HasPRD        bool    `json:"has_prd"`
	SnapshotCount int     `json:"snapshot_count"`
	AverageRating float64 `json:"average_rating"`
}

// TimelineEvent is one entry in a project's activity timeline.
type TimelineEvent struct {
	Event     string    `json:"event"`
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// CreateShare creates a share link for a project's latest PRD.
func (c *Client) CreateShare(ctx context.Context, projectID string, input ShareInput) (*Share, error) {
	var share Share
	if err := c.do(ctx, http.MethodPost, "/share/create/"+projectID, input, &share); err != nil {
		return nil, err
	}
	return &share, nil
}

// ListShares returns all share links for a project's PRD.
func (c *Client) ListShares(ctx context.Context, projectID string) ([]Share, error) {
	var out struct {
		Shares []Share `json:"shares"`
	}
	if err := c.do(ctx, http.MethodGet, "/share/list/"+projectID, nil, &out); err != nil {
		return nil, err
	}
	return out.Shares, nil
}

// GetSharedPRD resolves a share token to its PRD view. Password is required
// only for password-protected shares.
func (c *Client) GetSharedPRD(ctx context.Context, shareToken, password string) (*SharedPRD, error) {
	path := "/share/" + shareToken
	if password != "" {
		path += "?password=" + url.QueryEscape(password)
	}
	var shared SharedPRD
	if err := c.do(ctx, http.MethodGet, path, nil, &shared); err != nil {
		return nil, err
	}
	return &shared, nil
}

// RevokeShare deletes a share link.
func (c *Client) RevokeShare(ctx context.Context, shareID string) error {
	return c.do(ctx, http.MethodDelete, "/share/revoke/"+shareID, nil, nil)
}

// ListComments returns all comments on a PRD.
func (c *Client) ListComments(ctx context.Context, prdID string) ([]Comment, error) {
	var out struct {
		Comments []Comment `json:"comments"`
	}
	if err := c.do(ctx, http.MethodGet, "/comments/"+prdID, nil, &out); err != nil {
		return nil, err
	}
	return out.Comments, nil
}

// AddComment attaches a comment to a PRD.
func (c *Client) AddComment(ctx context.Context, prdID string, input CommentInput) (*Comment, error) {
	var comment Comment
	if err := c.do(ctx, http.MethodPost, "/comments/"+prdID+"/add", input, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// ReplyToComment adds a threaded reply under a parent comment.
func (c *Client) ReplyToComment(ctx context.Context, parentCommentID string, input CommentInput) (*Comment, error) {
	var comment Comment
	if err := c.do(ctx, http.MethodPost, "/comments/reply/"+parentCommentID, input, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// ResolveComment marks a comment as resolved.
func (c *Client) ResolveComment(ctx context.Context, commentID string) error {
	return c.do(ctx, http.MethodPost, "/comments/resolve/"+commentID, nil, nil)
}

// DeleteComment removes a comment.
func (c *Client) DeleteComment(ctx context.Context, commentID string) error {
	return c.do(ctx, http.MethodDelete, "/comments/delete/"+commentID, nil, nil)
}

// StakeholderProfiles lists the available role-specific views.
func (c *Client) StakeholderProfiles(ctx context.Context) ([]StakeholderProfile, error) {
	var out struct {
		Profiles []StakeholderProfile `json:"profiles"`
	}
	if err := c.do(ctx, http.MethodGet, "/stakeholder/profiles", nil, &out); err != nil {
		return nil, err
	}
	return out.Profiles, nil
}

// StakeholderView returns the PRD filtered for one role.
func (c *Client) StakeholderView(ctx context.Context, projectID, role string) (*StakeholderView, error) {
	var view StakeholderView
	if err := c.do(ctx, http.MethodGet, "/stakeholder/view/"+projectID+"/"+role, nil, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// StakeholderSummary returns a role-targeted executive summary of the PRD.
func (c *Client) StakeholderSummary(ctx context.Context, projectID, role string) (*StakeholderView, error) {
	var view StakeholderView
	if err := c.do(ctx, http.MethodGet, "/stakeholder/summary/"+projectID+"/"+role, nil, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// RatePRD records a rating of the generated PRD.
func (c *Client) RatePRD(ctx context.Context, projectID string, input FeedbackInput) error {
	return c.do(ctx, http.MethodPost, "/feedback/rate/"+projectID, input, nil)
}

// RateQuestion records feedback on one prefilled answer.
func (c *Client) RateQuestion(ctx context.Context, projectID, questionID string, input FeedbackInput) error {
	return c.do(ctx, http.MethodPost, "/feedback/question/"+projectID+"/"+questionID, input, nil)
}

// FeedbackStats returns the feedback summary for a project.
func (c *Client) FeedbackStats(ctx context.Context, projectID string) (*FeedbackStats, error) {
	var stats FeedbackStats
	if err := c.do(ctx, http.MethodGet, "/feedback/stats/"+projectID, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// FeedbackSuggestions returns improvement suggestions derived from feedback.
func (c *Client) FeedbackSuggestions(ctx context.Context, projectID string) ([]string, error) {
	var suggestions []string
	if err := c.do(ctx, http.MethodGet, "/feedback/suggestions/"+projectID, nil, &suggestions); err != nil {
		return nil, err
	}
	return suggestions, nil
}

// ImprovePRD asks the server to revise the PRD based on collected feedback
// and returns the improved markdown. Uses the extended generation timeout.
func (c *Client) ImprovePRD(ctx context.Context, projectID string) (string, error) {
	genCtx, cancel := c.generateContext(ctx)
	defer cancel()

	var out prdContent
	if err := c.do(genCtx, http.MethodPost, "/feedback/improve/"+projectID, nil, &out); err != nil {
		return "", err
	}
	return out.markdown(), nil
}

// AnalyticsOverview returns the cross-project usage summary.
func (c *Client) AnalyticsOverview(ctx context.Context) (*AnalyticsOverview, error) {
	var overview AnalyticsOverview
	if err := c.do(ctx, http.MethodGet, "/analytics/overview", nil, &overview); err != nil {
		return nil, err
	}
	return &overview, nil
}

// ProjectAnalytics returns the usage summary for one project.
func (c *Client) ProjectAnalytics(ctx context.Context, projectID string) (*ProjectAnalytics, error) {
	var analytics ProjectAnalytics
	if err := c.do(ctx, http.MethodGet, "/analytics/project/"+projectID, nil, &analytics); err != nil {
		return nil, err
	}
	return &analytics, nil
}

// ProjectTimeline returns the activity timeline for one project.
func (c *Client) ProjectTimeline(ctx context.Context, projectID string) ([]TimelineEvent, error) {
	var out struct {
		Timeline []TimelineEvent `json:"timeline"`
	}
	if err := c.do(ctx, http.MethodGet, "/analytics/timeline/"+projectID, nil, &out); err != nil {
		return nil, err
	}
	return out.Timeline, nil
}
