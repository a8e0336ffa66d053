package models

import (
	"fmt"
	"time"
)

// DefaultHistoryLimit caps GetStatsHistory when no limit is given.
const DefaultHistoryLimit = 20

// ArchivedStats is one archived fetch result.
type ArchivedStats struct {
	RunID     string      `json:"run_id"`
	Status    FetchStatus `json:"status"`
	Record    StatsRecord `json:"record"`
	Error     string      `json:"error,omitempty"`
	FetchedAt time.Time   `json:"fetched_at"`
}

// GetStatsHistory returns the newest archived results for a channel,
// including not-found and failed lookups.
func (d *Database) GetStatsHistory(channelID string, limit int) ([]ArchivedStats, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	sql := `SELECT run_id, status, channel_name, total_subscribers, total_views, total_videos, error, fetched_at
			FROM channel_stats
			WHERE channel_id = ?
			ORDER BY fetched_at DESC, id DESC LIMIT ?`

	result, err := d.db.SelectArray(sql, []interface{}{channelID, limit})
	if err != nil {
		return nil, fmt.Errorf("failed to read history for %s: %w", channelID, err)
	}

	rows := result.GetNumberOfRows()
	history := make([]ArchivedStats, 0, rows)
	for row := uint64(0); row < rows; row++ {
		values := make([]string, 8)
		for col := range values {
			v, err := result.GetStringValue(row, uint64(col))
			if err != nil {
				return nil, err
			}
			values[col] = v
		}

		history = append(history, ArchivedStats{
			RunID:  values[0],
			Status: FetchStatus(values[1]),
			Record: StatsRecord{
				ChannelName:      values[2],
				TotalSubscribers: values[3],
				TotalViews:       values[4],
				TotalVideos:      values[5],
			},
			Error:     values[6],
			FetchedAt: parseTimestamp(values[7]),
		})
	}
	return history, nil
}

// parseTimestamp reads SQLite's CURRENT_TIMESTAMP format. Unparseable values
// become the zero time.
func parseTimestamp(value string) time.Time {
	for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
