package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// PRD is the generated Product Requirements Document for a project.
type PRD struct {
	ContentMD string `json:"content_md"`
	HTML      string `json:"html,omitempty"`
}

// PRDMetadata records manual-edit state for a PRD.
type PRDMetadata struct {
	LastEditedAt     time.Time `json:"last_edited_at"`
	IsManuallyEdited bool      `json:"is_manually_edited"`
}

// Snapshot is a saved historical version of a PRD's content.
type Snapshot struct {
	ID            string    `json:"id"`
	PRDID         string    `json:"prd_id"`
	ContentMD     string    `json:"content_md"`
	VersionName   string    `json:"version_name"`
	ChangeSummary string    `json:"change_summary"`
	CreatedAt     time.Time `json:"created_at"`
}

// History is the normalized PRD version history.
type History struct {
	Snapshots []Snapshot
	// Metadata is non-nil when the server envelope included edit metadata.
	Metadata *PRDMetadata
}

// VersionDiff is the result of comparing two PRD versions.
type VersionDiff struct {
	AddedLines       int      `json:"added_lines"`
	RemovedLines     int      `json:"removed_lines"`
	AddedSections    []string `json:"added_sections"`
	ModifiedSections []string `json:"modified_sections"`
	RemovedSections  []string `json:"removed_sections"`
}

// prdContent covers the two response shapes the backend uses for content:
// generate/restore/regenerate return {content}, fetch returns {content_md}.
type prdContent struct {
	Content   string `json:"content"`
	ContentMD string `json:"content_md"`
}

func (p prdContent) markdown() string {
	if p.Content != "" {
		return p.Content
	}
	return p.ContentMD
}

// GeneratePRD generates the PRD from confirmed responses and context. Uses
// the extended generation timeout.
func (c *Client) GeneratePRD(ctx context.Context, projectID string) (string, error) {
	genCtx, cancel := c.generateContext(ctx)
	defer cancel()

	var out prdContent
	if err := c.do(genCtx, http.MethodPost, "/prd/generate/"+projectID, nil, &out); err != nil {
		return "", err
	}
	return out.markdown(), nil
}

// GetPRD fetches the current PRD markdown. Callers treat a 404 as "no PRD
// yet", not as an error.
func (c *Client) GetPRD(ctx context.Context, projectID string) (string, error) {
	var out prdContent
	if err := c.do(ctx, http.MethodGet, "/prd/"+projectID, nil, &out); err != nil {
		return "", err
	}
	return out.markdown(), nil
}

// GetPRDPreview fetches the PRD as both markdown and rendered HTML.
func (c *Client) GetPRDPreview(ctx context.Context, projectID string) (*PRD, error) {
	var out struct {
		Markdown string `json:"markdown"`
		HTML     string `json:"html"`
	}
	if err := c.do(ctx, http.MethodGet, "/prd/preview/"+projectID, nil, &out); err != nil {
		return nil, err
	}
	return &PRD{ContentMD: out.Markdown, HTML: out.HTML}, nil
}

// ExportPRD downloads the PRD as a binary payload. Format is "md" or "docx".
func (c *Client) ExportPRD(ctx context.Context, projectID, format string) ([]byte, error) {
	return c.doRaw(ctx, http.MethodGet, "/prd/export/"+format+"/"+projectID, nil)
}

// EditPRD persists manually edited PRD content.
func (c *Client) EditPRD(ctx context.Context, projectID, contentMD string) error {
	body := map[string]string{"content_md": contentMD}
	return c.do(ctx, http.MethodPut, "/prd/edit/"+projectID, body, nil)
}

// GetPRDHistory returns the PRD version history. The server may respond with
// either a bare snapshot list or an envelope {snapshots, is_manually_edited,
// last_edited_at}; both normalize to the same History shape.
func (c *Client) GetPRDHistory(ctx context.Context, projectID string) (*History, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/prd/history/"+projectID, nil, &raw); err != nil {
		return nil, err
	}
	return normalizeHistory(raw)
}

func normalizeHistory(raw json.RawMessage) (*History, error) {
	var snapshots []Snapshot
	if err := json.Unmarshal(raw, &snapshots); err == nil {
		return &History{Snapshots: snapshots}, nil
	}

	var envelope struct {
		Snapshots        []Snapshot `json:"snapshots"`
		IsManuallyEdited *bool      `json:"is_manually_edited"`
		LastEditedAt     time.Time  `json:"last_edited_at"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("decoding history response: %w", err)
	}

	history := &History{Snapshots: envelope.Snapshots}
	if envelope.IsManuallyEdited != nil {
		history.Metadata = &PRDMetadata{
			IsManuallyEdited: *envelope.IsManuallyEdited,
			LastEditedAt:     envelope.LastEditedAt,
		}
	}
	return history, nil
}

// RestorePRD replaces the current PRD content with a snapshot's content and
// returns the restored markdown.
func (c *Client) RestorePRD(ctx context.Context, projectID, snapshotID string) (string, error) {
	var out prdContent
	if err := c.do(ctx, http.MethodPost, "/prd/restore/"+projectID+"/"+snapshotID, nil, &out); err != nil {
		return "", err
	}
	return out.markdown(), nil
}

// SavePRDVersion saves the current PRD content as a named snapshot.
func (c *Client) SavePRDVersion(ctx context.Context, projectID, versionName, changeSummary string) (*Snapshot, error) {
	body := map[string]string{
		"version_name":   versionName,
		"change_summary": changeSummary,
	}
	var snapshot Snapshot
	if err := c.do(ctx, http.MethodPost, "/prd/save-version/"+projectID, body, &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// RegeneratePRDSection regenerates a single named section and returns the
// full updated markdown. Uses the extended generation timeout.
func (c *Client) RegeneratePRDSection(ctx context.Context, projectID, sectionName string) (string, error) {
	genCtx, cancel := c.generateContext(ctx)
	defer cancel()

	body := map[string]string{"section_name": sectionName}
	var out prdContent
	if err := c.do(genCtx, http.MethodPost, "/prd/regenerate-section/"+projectID, body, &out); err != nil {
		return "", err
	}
	return out.markdown(), nil
}

// ComparePRDVersions diffs two versions. Either ID may be "current".
func (c *Client) ComparePRDVersions(ctx context.Context, projectID, version1ID, version2ID string) (*VersionDiff, error) {
	body := map[string]string{
		"version1_id": version1ID,
		"version2_id": version2ID,
	}
	var diff VersionDiff
	if err := c.do(ctx, http.MethodPost, "/prd/compare/"+projectID, body, &diff); err != nil {
		return nil, err
	}
	return &diff, nil
}

// PRDChangelog returns a human-readable changelog between the latest snapshot
// and the current content.
func (c *Client) PRDChangelog(ctx context.Context, projectID string) (string, error) {
	var out struct {
		Changelog string `json:"changelog"`
	}
	if err := c.do(ctx, http.MethodGet, "/prd/changelog/"+projectID, nil, &out); err != nil {
		return "", err
	}
	return out.Changelog, nil
}

// GetSnapshot fetches one snapshot's full content.
func (c *Client) GetSnapshot(ctx context.Context, snapshotID string) (*Snapshot, error) {
	var snapshot Snapshot
	if err := c.do(ctx, http.MethodGet, "/prd/snapshot/"+snapshotID, nil, &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}
