package mcpserver

// RecordFormatContract is the canonical record document format exposed to
// agents as both a tool result and an MCP resource.
const RecordFormatContract = `# Central Log Record Format

Every record is persisted as a JSON/Markdown sibling pair sharing one base
name, under the subdirectory mapped from its type:

    <home>/records/decisions/   type "decision"
    <home>/records/worklogs/    type "worklog"
    <home>/records/ideas/       type "idea"
    <home>/records/backlogs/    type "backlog"
    <home>/records/other/       type "note"

Unrecognized types normalize to "note". Base names follow
` + "`<YYYYMMDD_HHMMSS>_<type>_<slug>`" + ` where the slug is a lowercase,
dash-normalized derivation of the title capped at 48 characters.

## JSON document

All fields are optional strings unless noted:

- ` + "`type`" + ` — one of decision, worklog, idea, backlog, note
- ` + "`title`" + ` — defaults to "Untitled"
- ` + "`created_at`" + ` — zero-padded ISO-8601 (` + "`2026-02-06T12:30:00`" + `); synthesized when blank
- ` + "`source_text`" + ` — the original input
- ` + "`final_body`" + ` — the polished body
- ` + "`tags`" + ` — array of strings, order preserved, duplicates allowed
- ` + "`date`" + ` — optional calendar date (YYYY-MM-DD)
- ` + "`notion_page_id`" + `, ` + "`notion_url`" + `, ` + "`notion_sync_status`" + ` (default SUCCESS), ` + "`notion_error`" + ` — sync metadata

The Markdown sibling is generated, never authoritative; edit records through
the save_record tool so both files stay in step.

## Activity logs

Log entries live under ` + "`<home>/.agentic/logs/*.json`" + ` with
` + "`meta.timestamp`" + `, ` + "`meta.event_id`" + `, ` + "`task.intent`" + `,
` + "`task.status`" + `, and a free-form ` + "`data`" + ` payload. They are
append-only: this server reads them but never writes or deletes them.
`
