// Package analytics computes dashboard statistics and the bounded context
// digest from in-memory record and log collections. Nothing here is
// persisted; stats are recomputed on demand.
package analytics

import (
	"fmt"
	"sort"
	"strings"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/starford/centrallog/internal/models"
)

// topTagLimit caps the tag frequency list.
const topTagLimit = 10

// recentWindowDays is the size of the trailing daily activity window.
const recentWindowDays = 7

// TagCount is one entry of the tag frequency list.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// DailyCount is one day of the trailing activity window, oldest first.
type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// DashboardStats is the derived dashboard view of a home's collections.
type DashboardStats struct {
	TotalRecords      int            `json:"total_records"`
	TotalLogs         int            `json:"total_logs"`
	TypeCounts        map[string]int `json:"type_counts"`
	TopTags           []TagCount     `json:"top_tags"`
	RecentDailyCounts []DailyCount   `json:"recent_daily_counts"`
	PendingSyncCount  int            `json:"pending_sync_count"`
}

// ComputeDashboardStats aggregates counts, tag frequencies, pending-sync
// totals, and a trailing 7-day activity histogram anchored to the local date
// of anchor (today inclusive). Tag frequency ties break by first-seen order.
func ComputeDashboardStats(records []*models.Record, logs []*models.LogEntry, anchor time.Time) *DashboardStats {
	typeCounts := make(map[string]int)
	tagCounts := orderedmap.New[string, int]()
	pendingSync := 0

	for _, record := range records {
		typeCounts[record.Type]++
		for _, tag := range record.Tags {
			clean := strings.TrimSpace(tag)
			if clean == "" {
				continue
			}
			count, _ := tagCounts.Get(clean)
			tagCounts.Set(clean, count+1)
		}
		switch strings.ToUpper(record.NotionSyncStatus) {
		case "PENDING", "FAILED":
			pendingSync++
		}
	}

	window := make([]DailyCount, 0, recentWindowDays)
	index := make(map[string]int, recentWindowDays)
	for offset := recentWindowDays - 1; offset >= 0; offset-- {
		day := anchor.AddDate(0, 0, -offset).Format("2006-01-02")
		index[day] = len(window)
		window = append(window, DailyCount{Date: day})
	}

	for _, record := range records {
		if i, ok := index[isoDate(record.CreatedAt)]; ok {
			window[i].Count++
		}
	}
	for _, entry := range logs {
		if i, ok := index[isoDate(entry.Timestamp)]; ok {
			window[i].Count++
		}
	}

	return &DashboardStats{
		TotalRecords:      len(records),
		TotalLogs:         len(logs),
		TypeCounts:        typeCounts,
		TopTags:           topTags(tagCounts),
		RecentDailyCounts: window,
		PendingSyncCount:  pendingSync,
	}
}

// topTags ranks tags by count descending. The ordered map preserves
// first-seen insertion order, and the stable sort keeps it for ties.
func topTags(counts *orderedmap.OrderedMap[string, int]) []TagCount {
	ranked := make([]TagCount, 0, counts.Len())
	for pair := counts.Oldest(); pair != nil; pair = pair.Next() {
		ranked = append(ranked, TagCount{Tag: pair.Key, Count: pair.Value})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	if len(ranked) > topTagLimit {
		ranked = ranked[:topTagLimit]
	}
	return ranked
}

// isoDate extracts the calendar date from an ISO-8601 timestamp, falling
// back to the first 10 characters when parsing fails, and to "" when even
// that is impossible.
func isoDate(value string) string {
	if value == "" {
		return ""
	}
	normalized := strings.Replace(value, "Z", "+00:00", 1)
	for _, layout := range []string{
		"2006-01-02T15:04:05.999999999-07:00",
		"2006-01-02T15:04:05-07:00",
		"2006-01-02T15:04:05.999999999",
		models.TimestampLayout,
		"2006-01-02",
	} {
		if t, err := time.Parse(layout, normalized); err == nil {
			return t.Format("2006-01-02")
		}
	}
	if len(value) >= 10 {
		return value[:10]
	}
	return ""
}

// BuildContextDigest renders the limit most recent records and log entries
// as one summary line each, under two labeled sections. The result is the
// sole input handed to the external summarization call.
func BuildContextDigest(records []*models.Record, logs []*models.LogEntry, limit int) string {
	sortedRecords := make([]*models.Record, len(records))
	copy(sortedRecords, records)
	sort.SliceStable(sortedRecords, func(i, j int) bool {
		return sortedRecords[i].CreatedAt > sortedRecords[j].CreatedAt
	})
	if len(sortedRecords) > limit {
		sortedRecords = sortedRecords[:limit]
	}

	sortedLogs := make([]*models.LogEntry, len(logs))
	copy(sortedLogs, logs)
	sort.SliceStable(sortedLogs, func(i, j int) bool {
		return sortedLogs[i].Timestamp > sortedLogs[j].Timestamp
	})
	if len(sortedLogs) > limit {
		sortedLogs = sortedLogs[:limit]
	}

	var b strings.Builder
	b.WriteString("# Records")
	for _, record := range sortedRecords {
		tags := "-"
		if len(record.Tags) > 0 {
			tags = strings.Join(record.Tags, ", ")
		}
		fmt.Fprintf(&b, "\n- [%s] (%s) %s | tags: %s", record.CreatedAt, record.Type, record.Title, tags)
	}

	b.WriteString("\n\n# Central Logs")
	for _, entry := range sortedLogs {
		fmt.Fprintf(&b, "\n- [%s] %s / %s / %s", entry.Timestamp, entry.TaskIntent, entry.Status, entry.Title)
	}

	return b.String()
}
