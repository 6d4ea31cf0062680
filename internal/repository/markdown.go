package repository

import (
	"strings"

	"github.com/starford/centrallog/internal/models"
)

// typeGlyph prefixes the title heading of the generated Markdown rendering.
var typeGlyph = map[string]string{
	models.TypeDecision: "⚖️",
	models.TypeWorklog:  "📝",
	models.TypeIdea:     "💡",
	models.TypeBacklog:  "📋",
	models.TypeNote:     "📄",
}

// RecordMarkdown renders the deterministic Markdown sibling of a record:
// glyph-prefixed title, metadata lines, the final body, and the quoted
// original input.
func RecordMarkdown(record *models.Record) string {
	glyph, ok := typeGlyph[record.Type]
	if !ok {
		glyph = typeGlyph[models.TypeNote]
	}

	lines := []string{
		"# " + glyph + " " + record.Title,
		"",
		"**Type:** " + strings.ToUpper(record.Type),
		"**Created:** " + record.CreatedAt,
	}

	if record.Date != "" {
		lines = append(lines, "**Date:** "+record.Date)
	}
	if len(record.Tags) > 0 {
		lines = append(lines, "**Tags:** "+strings.Join(record.Tags, ", "))
	}
	if record.NotionURL != "" {
		lines = append(lines, "**Notion:** "+record.NotionURL)
	}

	lines = append(lines,
		"",
		"---",
		"",
		record.FinalBody,
		"",
		"---",
		"",
		"## Original Input",
		"",
		"> "+record.SourceText,
	)
	return strings.Join(lines, "\n")
}
