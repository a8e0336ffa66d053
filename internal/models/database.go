package models

import (
	"fmt"
	"strings"

	sqlitecloud "github.com/sqlitecloud/sqlitecloud-go"
	"go.uber.org/zap"
)

// Database archives finished runs in SQLite Cloud.
type Database struct {
	db     *sqlitecloud.SQCloud
	logger *zap.Logger
}

// NewDatabase creates a new database connection
func NewDatabase(dbPath string, logger *zap.Logger) (*Database, error) {
	logger.Info("Connecting to SQLite Cloud database",
		zap.String("dsn", maskConnectionString(dbPath)))

	db, err := sqlitecloud.Connect(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SQLite Cloud: %w", err)
	}

	database := &Database{
		db:     db,
		logger: logger,
	}

	if err := database.createTables(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return database, nil
}

// maskConnectionString hides the API key in logs for security
func maskConnectionString(connStr string) string {
	if before, _, found := strings.Cut(connStr, "apikey="); found {
		return before + "apikey=***"
	}
	return connStr
}

func (d *Database) executeSQL(sql string, args ...interface{}) error {
	if len(args) > 0 {
		return d.db.ExecuteArray(sql, args)
	}
	return d.db.Execute(sql)
}

func (d *Database) createTables() error {
	tables := []string{
		`CREATE TABLE IF NOT EXISTS channel_stats (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			channel_id TEXT NOT NULL,
			status TEXT NOT NULL CHECK(status IN ('found', 'not_found', 'failed')),
			channel_name TEXT NOT NULL DEFAULT '',
			total_subscribers TEXT NOT NULL DEFAULT '',
			total_views TEXT NOT NULL DEFAULT '',
			total_videos TEXT NOT NULL DEFAULT '',
			error TEXT NOT NULL DEFAULT '',
			fetched_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_channel_stats_channel_id ON channel_stats(channel_id)`,
	}

	for _, table := range tables {
		if err := d.executeSQL(table); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return nil
}

// StoreRun archives every fetch result of a completed run.
func (d *Database) StoreRun(runID string, results []FetchResult) error {
	sql := `INSERT INTO channel_stats
			(run_id, channel_id, status, channel_name, total_subscribers, total_views, total_videos, error)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	for _, r := range results {
		rec := r.Stats()
		args := []interface{}{
			runID, r.ChannelID, string(r.Status),
			rec.ChannelName, rec.TotalSubscribers, rec.TotalViews, rec.TotalVideos,
			r.ErrorText(),
		}
		if err := d.executeSQL(sql, args...); err != nil {
			return fmt.Errorf("failed to archive channel %s: %w", r.ChannelID, err)
		}
	}

	d.logger.Info("Archived run",
		zap.String("runID", runID),
		zap.Int("channels", len(results)))
	return nil
}

// GetLatestStats returns the most recent successful record archived for a channel.
func (d *Database) GetLatestStats(channelID string) (*StatsRecord, error) {
	sql := `SELECT channel_name, total_subscribers, total_views, total_videos
			FROM channel_stats
			WHERE channel_id = ? AND status = 'found'
			ORDER BY fetched_at DESC, id DESC LIMIT 1`

	result, err := d.db.SelectArray(sql, []interface{}{channelID})
	if err != nil {
		return nil, err
	}

	if result.GetNumberOfRows() == 0 {
		return nil, nil
	}

	values := make([]string, len(StatsColumns))
	for col := range values {
		v, err := result.GetStringValue(0, uint64(col))
		if err != nil {
			return nil, err
		}
		values[col] = v
	}

	return &StatsRecord{
		ChannelName:      values[0],
		TotalSubscribers: values[1],
		TotalViews:       values[2],
		TotalVideos:      values[3],
	}, nil
}

// Close closes the database connection
func (d *Database) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}
