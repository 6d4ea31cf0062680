package api

import (
	"github.com/starford/centrallog/internal/models"
)

// SaveRecordRequest is the request body for creating or updating a record.
// ExistingPath, when set, names the JSON file being updated so its base name
// is reused.
type SaveRecordRequest struct {
	Type             string   `json:"type" example:"idea"`
	Title            string   `json:"title" example:"Ship the MVP"`
	CreatedAt        string   `json:"created_at,omitempty" example:"2026-02-06T12:30:00"`
	SourceText       string   `json:"source_text"`
	FinalBody        string   `json:"final_body"`
	Tags             []string `json:"tags"`
	Date             string   `json:"date,omitempty" example:"2026-02-06"`
	NotionPageID     string   `json:"notion_page_id,omitempty"`
	NotionURL        string   `json:"notion_url,omitempty"`
	NotionSyncStatus string   `json:"notion_sync_status,omitempty" example:"SUCCESS"`
	NotionError      string   `json:"notion_error,omitempty"`
	ExistingPath     string   `json:"existing_path,omitempty"`
}

// Record converts the request into a domain record.
func (r *SaveRecordRequest) Record() *models.Record {
	status := r.NotionSyncStatus
	if status == "" {
		status = "SUCCESS"
	}
	return &models.Record{
		Type:             models.NormalizeType(r.Type),
		Title:            r.Title,
		CreatedAt:        r.CreatedAt,
		SourceText:       r.SourceText,
		FinalBody:        r.FinalBody,
		Tags:             r.Tags,
		Date:             r.Date,
		NotionPageID:     r.NotionPageID,
		NotionURL:        r.NotionURL,
		NotionSyncStatus: status,
		NotionError:      r.NotionError,
	}
}

// RecordListResponse wraps record listings.
type RecordListResponse struct {
	Records []*models.Record `json:"records" validate:"required"`
	Total   int              `json:"total" example:"42" validate:"required"`
}

// LogListResponse wraps log listings.
type LogListResponse struct {
	Logs  []*models.LogEntry `json:"logs" validate:"required"`
	Total int                `json:"total" example:"7" validate:"required"`
}

// DigestResponse carries the bounded context digest.
type DigestResponse struct {
	Digest string `json:"digest" validate:"required"`
}

// AnalyzeRequest is the request body for the analyze endpoint.
type AnalyzeRequest struct {
	Prompt string `json:"prompt" example:"What moved this week?"`
	Local  bool   `json:"local" example:"false"`
}

// AnalyzeResponse carries the analysis text.
type AnalyzeResponse struct {
	Content string `json:"content" validate:"required"`
}
