// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes the central log to agents via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/centrallog/internal/ai"
	"github.com/starford/centrallog/internal/analytics"
	"github.com/starford/centrallog/internal/models"
	"github.com/starford/centrallog/internal/repository"
)

// Server wraps the MCP server with central log tools.
type Server struct {
	mcp  *server.MCPServer
	repo *repository.Repository
}

// New creates a new MCP server with all central log tools registered.
func New(repo *repository.Repository) *Server {
	s := &Server{repo: repo}

	s.mcp = server.NewMCPServer(
		"CentralLog",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_records",
		mcp.WithDescription("List all records, newest first, optionally filtered by type."),
		mcp.WithString("type", mcp.Description("Optional record type filter (decision, worklog, idea, backlog, note)")),
	), s.listRecords)

	s.mcp.AddTool(mcp.NewTool("save_record",
		mcp.WithDescription("Create or update a record. Records are persisted as a JSON/Markdown "+
			"pair under the type's subdirectory; pass existing_path to update in place. "+
			"Read the record contract first via the get_record_contract tool or the "+
			"centrallog://record-format resource."),
		mcp.WithString("type", mcp.Required(), mcp.Description("Record type (decision, worklog, idea, backlog, note)")),
		mcp.WithString("title", mcp.Required(), mcp.Description("Record title")),
		mcp.WithString("source_text", mcp.Description("Original input text")),
		mcp.WithString("final_body", mcp.Description("Polished body text")),
		mcp.WithString("tags", mcp.Description("Comma-separated tags")),
		mcp.WithString("date", mcp.Description("Optional calendar date (YYYY-MM-DD)")),
		mcp.WithString("existing_path", mcp.Description("JSON path of the record being updated")),
	), s.saveRecord)

	s.mcp.AddTool(mcp.NewTool("delete_record",
		mcp.WithDescription("Delete a record's JSON/Markdown pair."),
		mcp.WithString("path", mcp.Required(), mcp.Description("JSON path of the record to delete")),
	), s.deleteRecord)

	s.mcp.AddTool(mcp.NewTool("list_logs",
		mcp.WithDescription("List activity log entries, newest first."),
	), s.listLogs)

	s.mcp.AddTool(mcp.NewTool("get_dashboard_stats",
		mcp.WithDescription("Compute dashboard statistics: totals, per-type counts, top tags, "+
			"7-day activity, pending sync count."),
	), s.getDashboardStats)

	s.mcp.AddTool(mcp.NewTool("build_context_digest",
		mcp.WithDescription("Build the bounded textual digest of recent records and logs."),
		mcp.WithString("limit", mcp.Description("Max items per section (default 20)")),
	), s.buildContextDigest)

	s.mcp.AddTool(mcp.NewTool("local_analysis",
		mcp.WithDescription("Render the offline Markdown analysis report over current stats."),
		mcp.WithString("prompt", mcp.Description("Optional focus prompt echoed into the report")),
	), s.localAnalysis)

	s.mcp.AddTool(mcp.NewTool("get_record_contract",
		mcp.WithDescription("Returns the canonical record format contract. "+
			"Call this before creating or updating records to ensure correct structure."),
	), s.getRecordContract)

	// Resource: record format contract.
	s.mcp.AddResource(
		mcp.NewResource("centrallog://record-format", "Record Format Contract",
			mcp.WithResourceDescription("Canonical record document format that all records follow."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readRecordFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) listRecords(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	typeFilter := ""
	if t, err := req.RequireString("type"); err == nil {
		typeFilter = models.NormalizeType(t)
	}

	records := s.repo.ListRecords()
	if typeFilter != "" {
		filtered := records[:0]
		for _, record := range records {
			if record.Type == typeFilter {
				filtered = append(filtered, record)
			}
		}
		records = filtered
	}

	out, _ := json.MarshalIndent(records, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) saveRecord(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	recordType, err := req.RequireString("type")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	record := &models.Record{
		Type:             models.NormalizeType(recordType),
		Title:            title,
		NotionSyncStatus: "SUCCESS",
	}
	if v, err := req.RequireString("source_text"); err == nil {
		record.SourceText = v
	}
	if v, err := req.RequireString("final_body"); err == nil {
		record.FinalBody = v
	}
	if v, err := req.RequireString("date"); err == nil {
		record.Date = v
	}
	if v, err := req.RequireString("tags"); err == nil {
		for _, tag := range strings.Split(v, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				record.Tags = append(record.Tags, tag)
			}
		}
	}

	existingPath := ""
	if v, err := req.RequireString("existing_path"); err == nil {
		existingPath = v
	}

	saved, err := s.repo.SaveRecord(record, existingPath)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("saved: %s", saved.JSONPath)), nil
}

func (s *Server) deleteRecord(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	for _, record := range s.repo.ListRecords() {
		if record.JSONPath == path {
			if err := s.repo.DeleteRecord(record); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return mcp.NewToolResultText(fmt.Sprintf("deleted: %s", path)), nil
		}
	}
	return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
}

func (s *Server) listLogs(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logs := s.repo.ListLogs()
	var lines []string
	for _, entry := range logs {
		lines = append(lines, fmt.Sprintf("[%s] %s / %s / %s", entry.Timestamp, entry.TaskIntent, entry.Status, entry.Title))
	}
	if len(lines) == 0 {
		return mcp.NewToolResultText("no log entries"), nil
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) getDashboardStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats := analytics.ComputeDashboardStats(s.repo.ListRecords(), s.repo.ListLogs(), time.Now())
	out, _ := json.MarshalIndent(stats, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) buildContextDigest(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := 20
	if v, err := req.RequireString("limit"); err == nil {
		if n, convErr := strconv.Atoi(v); convErr == nil && n > 0 {
			limit = n
		}
	}
	digest := analytics.BuildContextDigest(s.repo.ListRecords(), s.repo.ListLogs(), limit)
	return mcp.NewToolResultText(digest), nil
}

func (s *Server) localAnalysis(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	prompt := ""
	if v, err := req.RequireString("prompt"); err == nil {
		prompt = v
	}
	stats := analytics.ComputeDashboardStats(s.repo.ListRecords(), s.repo.ListLogs(), time.Now())
	return mcp.NewToolResultText(ai.LocalAnalysis(stats, prompt)), nil
}

func (s *Server) getRecordContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(RecordFormatContract), nil
}

func (s *Server) readRecordFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "centrallog://record-format",
			MIMEType: "text/markdown",
			Text:     RecordFormatContract,
		},
	}, nil
}
