package apiclient

import (
	"context"
	"net/http"
)

// Catalog is the static question catalog, global across projects.
type Catalog struct {
	Sections []Section `json:"sections"`
}

// Section groups subsections of related questions.
type Section struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Subsections []Subsection `json:"subsections"`
}

// Subsection groups questions within a section.
type Subsection struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

// Question is a single catalog question.
type Question struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Help string `json:"help,omitempty"`
}

// Response is a user's (or AI-prefilled) answer to one question.
type Response struct {
	QuestionID  string `json:"question_id"`
	Response    string `json:"response"`
	Confirmed   bool   `json:"confirmed"`
	AISuggested bool   `json:"ai_suggested"`
}

// Stats is the server-computed answer completion summary for a project.
type Stats struct {
	TotalQuestions       int `json:"total_questions"`
	Answered             int `json:"answered"`
	Confirmed            int `json:"confirmed"`
	CompletionPercentage int `json:"completion_percentage"`
}

// PrefillResult reports the outcome of server-side question prefilling.
type PrefillResult struct {
	Message   string `json:"message"`
	Prefilled int    `json:"prefilled"`
}

// GetQuestions returns the global question catalog.
func (c *Client) GetQuestions(ctx context.Context) (*Catalog, error) {
	var catalog Catalog
	if err := c.do(ctx, http.MethodGet, "/questions", nil, &catalog); err != nil {
		return nil, err
	}
	return &catalog, nil
}

// PrefillQuestions asks the server to auto-answer questions from context.
func (c *Client) PrefillQuestions(ctx context.Context, projectID string) (*PrefillResult, error) {
	genCtx, cancel := c.generateContext(ctx)
	defer cancel()

	var result PrefillResult
	if err := c.do(genCtx, http.MethodPost, "/questions/prefill/"+projectID, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetResponses returns all saved responses for a project.
func (c *Client) GetResponses(ctx context.Context, projectID string) ([]Response, error) {
	var responses []Response
	if err := c.do(ctx, http.MethodGet, "/questions/responses/"+projectID, nil, &responses); err != nil {
		return nil, err
	}
	return responses, nil
}

// SaveResponses replaces the full response set for a project.
func (c *Client) SaveResponses(ctx context.Context, projectID string, responses []Response) error {
	body := map[string][]Response{"responses": responses}
	return c.do(ctx, http.MethodPut, "/questions/responses/"+projectID, body, nil)
}

// UpdateResponse saves a single response.
func (c *Client) UpdateResponse(ctx context.Context, projectID, questionID string, resp Response) error {
	body := map[string]any{
		"response":     resp.Response,
		"confirmed":    resp.Confirmed,
		"ai_suggested": resp.AISuggested,
	}
	return c.do(ctx, http.MethodPut, "/questions/response/"+projectID+"/"+questionID, body, nil)
}

// ConfirmResponse marks a response as confirmed (or unconfirmed).
func (c *Client) ConfirmResponse(ctx context.Context, projectID, questionID string, confirmed bool) error {
	body := map[string]bool{"confirmed": confirmed}
	return c.do(ctx, http.MethodPost, "/questions/confirm/"+projectID+"/"+questionID, body, nil)
}

// GetStats returns the completion summary for a project.
func (c *Client) GetStats(ctx context.Context, projectID string) (*Stats, error) {
	var stats Stats
	if err := c.do(ctx, http.MethodGet, "/questions/stats/"+projectID, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// FollowUpQuestions asks the server for adaptive follow-ups to an answer.
func (c *Client) FollowUpQuestions(ctx context.Context, projectID, questionID, response string) ([]Question, error) {
	body := map[string]string{
		"question_id": questionID,
		"response":    response,
	}
	var out struct {
		Questions []Question `json:"questions"`
	}
	if err := c.do(ctx, http.MethodPost, "/questions/followups/"+projectID, body, &out); err != nil {
		return nil, err
	}
	return out.Questions, nil
}
