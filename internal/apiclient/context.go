package apiclient

import (
	"context"
	"net/http"
	"time"
)

// ContextFile is an uploaded document used as input to PRD generation.
type ContextFile struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	FileName  string    `json:"file_name"`
	FileType  string    `json:"file_type"`
	FileSize  int64     `json:"file_size"`
	CreatedAt time.Time `json:"created_at"`
}

// UploadResult reports the per-file outcome of a multi-file upload.
type UploadResult struct {
	Uploaded []ContextFile `json:"uploaded"`
	Errors   []UploadError `json:"errors"`
	Summary  string        `json:"summary"`
}

// UploadError describes one file the server rejected.
type UploadError struct {
	FileName string `json:"file_name"`
	Error    string `json:"error"`
}

// ContextAnalysis is the server's assessment of the uploaded context.
type ContextAnalysis struct {
	Coverage    map[string]any `json:"coverage"`
	Gaps        []string       `json:"gaps"`
	Suggestions []string       `json:"suggestions"`
}

// UploadContextFiles uploads a set of files to a project. Partial failure is
// reported in the result rather than as an error.
func (c *Client) UploadContextFiles(ctx context.Context, projectID string, files map[string][]byte) (*UploadResult, error) {
	var result UploadResult
	if err := c.doUpload(ctx, "/context/upload/"+projectID, files, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListContextFiles returns a project's uploaded files.
func (c *Client) ListContextFiles(ctx context.Context, projectID string) ([]ContextFile, error) {
	var files []ContextFile
	if err := c.do(ctx, http.MethodGet, "/context/"+projectID, nil, &files); err != nil {
		return nil, err
	}
	return files, nil
}

// DeleteContextFile removes one uploaded file by ID.
func (c *Client) DeleteContextFile(ctx context.Context, fileID string) error {
	return c.do(ctx, http.MethodDelete, "/context/file/"+fileID, nil, nil)
}

// AggregatedContext returns the combined extracted text of all context files.
func (c *Client) AggregatedContext(ctx context.Context, projectID string) (string, error) {
	var out struct {
		Text string `json:"text"`
	}
	if err := c.do(ctx, http.MethodGet, "/context/text/"+projectID, nil, &out); err != nil {
		return "", err
	}
	return out.Text, nil
}

// GetContextAnalysis returns the stored analysis of a project's context.
func (c *Client) GetContextAnalysis(ctx context.Context, projectID string) (*ContextAnalysis, error) {
	var analysis ContextAnalysis
	if err := c.do(ctx, http.MethodGet, "/context/analyze/"+projectID, nil, &analysis); err != nil {
		return nil, err
	}
	return &analysis, nil
}

// AnalyzeContext asks the server to (re)analyze a project's context.
func (c *Client) AnalyzeContext(ctx context.Context, projectID string) (*ContextAnalysis, error) {
	var analysis ContextAnalysis
	if err := c.do(ctx, http.MethodPost, "/context/analyze/"+projectID, nil, &analysis); err != nil {
		return nil, err
	}
	return &analysis, nil
}

// SummarizeContextFile returns a server-generated summary of one file.
func (c *Client) SummarizeContextFile(ctx context.Context, fileID string) (string, error) {
	var out struct {
		Summary string `json:"summary"`
	}
	if err := c.do(ctx, http.MethodGet, "/context/summarize/"+fileID, nil, &out); err != nil {
		return "", err
	}
	return out.Summary, nil
}
