package models

import "encoding/json"

// LogEntry is an activity event written by an external producer into the
// logs directory. Entries are read-only to this module; Raw keeps the full
// decoded document for lossless display.
type LogEntry struct {
	Timestamp  string         `json:"timestamp"`
	EventID    string         `json:"event_id"`
	TaskIntent string         `json:"task_intent"`
	Status     string         `json:"status"`
	Title      string         `json:"title"`
	Data       map[string]any `json:"data"`
	Raw        map[string]any `json:"raw"`

	JSONPath string `json:"json_path,omitempty"`
}

// DecodeLogEntry parses a stored log document. The meta/task/data envelopes
// are each optional; anything missing decodes to its zero value.
func DecodeLogEntry(data []byte) (*LogEntry, error) {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return LogEntryFromDoc(doc), nil
}

// LogEntryFromDoc builds a LogEntry from a decoded JSON document.
func LogEntryFromDoc(doc map[string]any) *LogEntry {
	meta := mapField(doc, "meta")
	task := mapField(doc, "task")
	payload := mapField(doc, "data")

	return &LogEntry{
		Timestamp:  stringField(meta, "timestamp", ""),
		EventID:    stringField(meta, "event_id", ""),
		TaskIntent: stringField(task, "intent", ""),
		Status:     stringField(task, "status", ""),
		Title:      stringField(payload, "title", ""),
		Data:       payload,
		Raw:        doc,
	}
}

func mapField(doc map[string]any, key string) map[string]any {
	if m, ok := doc[key].(map[string]any); ok {
		return m
	}
	return map[string]any{}
}
