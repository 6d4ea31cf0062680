package repository

import (
	"strings"
	"testing"

	"github.com/starford/centrallog/internal/models"
)

func TestRecordMarkdown(t *testing.T) {
	record := &models.Record{
		Type:       models.TypeIdea,
		Title:      "Ship the MVP",
		CreatedAt:  "2026-02-06T12:30:00",
		Date:       "2026-02-06",
		SourceText: "raw input",
		FinalBody:  "polished body",
		Tags:       []string{"mvp", "desktop"},
		NotionURL:  "https://notion.so/x",
	}

	md := RecordMarkdown(record)

	if !strings.HasPrefix(md, "# 💡 Ship the MVP\n") {
		t.Errorf("heading wrong:\n%s", md)
	}
	for _, want := range []string{
		"**Type:** IDEA",
		"**Created:** 2026-02-06T12:30:00",
		"**Date:** 2026-02-06",
		"**Tags:** mvp, desktop",
		"**Notion:** https://notion.so/x",
		"polished body",
		"## Original Input",
		"> raw input",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("missing %q", want)
		}
	}
	if strings.Index(md, "polished body") > strings.Index(md, "## Original Input") {
		t.Error("final body must precede the original input section")
	}
}

func TestRecordMarkdownOmitsEmptyMetadata(t *testing.T) {
	md := RecordMarkdown(&models.Record{
		Type:      models.TypeNote,
		Title:     "bare",
		CreatedAt: "2026-02-06T12:30:00",
	})
	for _, absent := range []string{"**Date:**", "**Tags:**", "**Notion:**"} {
		if strings.Contains(md, absent) {
			t.Errorf("unexpected %q in minimal rendering", absent)
		}
	}
	if !strings.HasPrefix(md, "# 📄 bare\n") {
		t.Errorf("heading wrong:\n%s", md)
	}
}

func TestRecordMarkdownUnknownTypeFallsBack(t *testing.T) {
	md := RecordMarkdown(&models.Record{Type: "mystery", Title: "x"})
	if !strings.HasPrefix(md, "# 📄 x") {
		t.Errorf("unknown type should render the note glyph:\n%s", md)
	}
}
