// Package models defines the domain types for the central log.
package models

import (
	"encoding/json"
	"strings"
	"time"
)

// Record types.
const (
	TypeDecision = "decision"
	TypeWorklog  = "worklog"
	TypeIdea     = "idea"
	TypeBacklog  = "backlog"
	TypeNote     = "note"
)

// SubdirByType maps a record type to its subdirectory under records/.
var SubdirByType = map[string]string{
	TypeDecision: "decisions",
	TypeWorklog:  "worklogs",
	TypeIdea:     "ideas",
	TypeBacklog:  "backlogs",
	TypeNote:     "other",
}

// TypeBySubdir is the inverse of SubdirByType.
var TypeBySubdir = func() map[string]string {
	m := make(map[string]string, len(SubdirByType))
	for t, d := range SubdirByType {
		m[d] = t
	}
	return m
}()

// NormalizeType lowercases and trims a record type, falling back to "note"
// for anything outside the fixed set.
func NormalizeType(recordType string) string {
	t := strings.ToLower(strings.TrimSpace(recordType))
	if _, ok := SubdirByType[t]; ok {
		return t
	}
	return TypeNote
}

// TimestampLayout is the canonical zero-padded format for created_at values.
// All timestamps this module produces use it, so lexical order equals
// chronological order.
const TimestampLayout = "2006-01-02T15:04:05"

// TimestampNow returns the current local time in the canonical layout.
func TimestampNow() string {
	return time.Now().Format(TimestampLayout)
}

// Record is a single typed note entry. JSONPath and MDPath are set by the
// repository once the record is persisted and are empty for an unsaved record.
type Record struct {
	Type             string   `json:"type"`
	Title            string   `json:"title"`
	CreatedAt        string   `json:"created_at"`
	NotionPageID     string   `json:"notion_page_id,omitempty"`
	NotionURL        string   `json:"notion_url,omitempty"`
	SourceText       string   `json:"source_text"`
	FinalBody        string   `json:"final_body"`
	Tags             []string `json:"tags"`
	Date             string   `json:"date,omitempty"`
	NotionSyncStatus string   `json:"notion_sync_status"`
	NotionError      string   `json:"notion_error,omitempty"`

	JSONPath string `json:"json_path,omitempty"`
	MDPath   string `json:"md_path,omitempty"`
}

// DecodeRecord parses a stored record document. Every field is coerced
// individually so a partially malformed document still yields a usable
// record; only non-JSON input fails.
func DecodeRecord(data []byte) (*Record, error) {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return RecordFromDoc(doc), nil
}

// RecordFromDoc builds a Record from a decoded JSON document, applying
// field-level defaults for missing or malformed values.
func RecordFromDoc(doc map[string]any) *Record {
	return &Record{
		Type:             NormalizeType(stringField(doc, "type", TypeNote)),
		Title:            stringField(doc, "title", "Untitled"),
		CreatedAt:        stringField(doc, "created_at", ""),
		NotionPageID:     stringField(doc, "notion_page_id", ""),
		NotionURL:        stringField(doc, "notion_url", ""),
		SourceText:       stringField(doc, "source_text", ""),
		FinalBody:        stringField(doc, "final_body", ""),
		Tags:             stringListField(doc, "tags"),
		Date:             stringField(doc, "date", ""),
		NotionSyncStatus: stringField(doc, "notion_sync_status", "SUCCESS"),
		NotionError:      stringField(doc, "notion_error", ""),
	}
}

// StorageBytes returns the indented JSON document written to disk.
// Storage paths are never part of the document.
func (r *Record) StorageBytes() ([]byte, error) {
	clone := *r
	clone.JSONPath = ""
	clone.MDPath = ""
	if clone.Tags == nil {
		clone.Tags = []string{}
	}
	return json.MarshalIndent(&clone, "", "  ")
}

func stringField(doc map[string]any, key, fallback string) string {
	v, ok := doc[key]
	if !ok || v == nil {
		return fallback
	}
	s, ok := v.(string)
	if !ok {
		return fallback
	}
	if s == "" {
		return fallback
	}
	return s
}

func stringListField(doc map[string]any, key string) []string {
	raw, ok := doc[key].([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
