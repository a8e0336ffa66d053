package enrich

import (
	"errors"
	"fmt"

	"github.com/razstvien01/pbi-top-ph-youtubers-2024/internal/models"
	enricherrors "github.com/razstvien01/pbi-top-ph-youtubers-2024/pkg/errors"
)

var ErrLengthMismatch = errors.New("stats count does not match row count")

// Broadcast expands one result per unique identifier into one record per
// row. Rows sharing an identifier get the same record; rows without an
// identifier, or whose identifier has no result, get the empty record.
func Broadcast(table *models.Table, results []models.FetchResult) ([]models.StatsRecord, error) {
	nameCol := table.ColumnIndex(models.ColumnName)
	if nameCol < 0 {
		return nil, missingNameColumn()
	}

	lookup := make(map[string]models.StatsRecord, len(results))
	for _, r := range results {
		lookup[r.ChannelID] = r.Stats()
	}

	perRow := make([]models.StatsRecord, len(table.Rows))
	for i := range table.Rows {
		if id, ok := ChannelIDFromName(table.Value(i, nameCol)); ok {
			perRow[i] = lookup[id]
		}
	}
	return perRow, nil
}

// Merge appends the stats columns to every row, aligned by position.
// A blank NAME is replaced by the row's channel_name. Stats columns that
// already exist in the input are overwritten in place.
func Merge(table *models.Table, stats []models.StatsRecord) (*models.Table, error) {
	if len(stats) != len(table.Rows) {
		return nil, fmt.Errorf("%w: %d records for %d rows", ErrLengthMismatch, len(stats), len(table.Rows))
	}
	nameCol := table.ColumnIndex(models.ColumnName)
	if nameCol < 0 {
		return nil, missingNameColumn()
	}

	header := append([]string(nil), table.Header...)
	statsCols := make([]int, len(models.StatsColumns))
	for i, col := range models.StatsColumns {
		idx := indexOf(header, col)
		if idx < 0 {
			idx = len(header)
			header = append(header, col)
		}
		statsCols[i] = idx
	}

	rows := make([][]string, len(table.Rows))
	for i, src := range table.Rows {
		row := make([]string, len(header))
		copy(row, src)

		for j, v := range stats[i].Values() {
			row[statsCols[j]] = v
		}
		if models.IsBlank(row[nameCol]) {
			row[nameCol] = stats[i].ChannelName
		}
		rows[i] = row
	}

	return &models.Table{Header: header, Rows: rows}, nil
}

func indexOf(values []string, target string) int {
	for i, v := range values {
		if v == target {
			return i
		}
	}
	return -1
}

func missingNameColumn() error {
	return enricherrors.NewMissingColumnError(models.ColumnName)
}
