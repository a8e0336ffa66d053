package enrich

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/razstvien01/pbi-top-ph-youtubers-2024/internal/dataset"
	"github.com/razstvien01/pbi-top-ph-youtubers-2024/internal/models"
	"go.uber.org/zap"
)

// Archiver stores the fetch results of a finished run.
type Archiver interface {
	StoreRun(runID string, results []models.FetchResult) error
}

// Pipeline runs extraction, collection and merging for one table.
type Pipeline struct {
	fetcher  Fetcher
	archiver Archiver
	logger   *zap.Logger
}

// NewPipeline creates a pipeline. archiver may be nil.
func NewPipeline(fetcher Fetcher, archiver Archiver, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		fetcher:  fetcher,
		archiver: archiver,
		logger:   logger,
	}
}

// Report is the outcome of one enrichment.
type Report struct {
	RunID   string
	Results []models.FetchResult
	Table   *models.Table
	Summary Summary
}

// Enrich fetches statistics for every distinct channel in table and returns
// the merged table. Only a missing NAME column is an error; per-channel
// failures are carried in Report.Results.
func (p *Pipeline) Enrich(ctx context.Context, table *models.Table) (*Report, error) {
	if table.ColumnIndex(models.ColumnName) < 0 {
		return nil, missingNameColumn()
	}

	ids := ExtractChannelIDs(table.Column(models.ColumnName))
	p.logger.Info("Extracted channel IDs",
		zap.Int("rows", len(table.Rows)),
		zap.Int("unique", len(ids)))

	results := Collect(ctx, p.fetcher, ids, p.logger)

	stats, err := Broadcast(table, results)
	if err != nil {
		return nil, err
	}
	merged, err := Merge(table, stats)
	if err != nil {
		return nil, err
	}

	report := &Report{
		RunID:   uuid.NewString(),
		Results: results,
		Table:   merged,
		Summary: Summarize(results),
	}
	p.logger.Info("Enrichment complete",
		zap.String("runID", report.RunID),
		zap.Int("found", report.Summary.Found),
		zap.Int("notFound", report.Summary.NotFound),
		zap.Int("failed", report.Summary.Failed))
	return report, nil
}

// RunOptions describes one file-to-file run.
type RunOptions struct {
	InputPath   string
	OutputPath  string
	Preview     io.Writer
	PreviewRows int
}

// Run reads the input table, enriches it, writes the output and prints the
// preview. File errors and cancellation abort the run; archive failures are
// logged only, since the output file is already written.
func (p *Pipeline) Run(ctx context.Context, opts RunOptions) (*Report, error) {
	table, err := dataset.ReadCSV(opts.InputPath)
	if err != nil {
		return nil, err
	}

	report, err := p.Enrich(ctx, table)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := dataset.WriteCSV(opts.OutputPath, report.Table); err != nil {
		return nil, err
	}
	p.logger.Info("Wrote enriched table",
		zap.String("path", opts.OutputPath),
		zap.Int("rows", len(report.Table.Rows)))

	if opts.Preview != nil {
		if err := dataset.Preview(opts.Preview, report.Table, opts.PreviewRows); err != nil {
			p.logger.Warn("Failed to print preview", zap.Error(err))
		}
	}

	if p.archiver != nil {
		if err := p.archiver.StoreRun(report.RunID, report.Results); err != nil {
			p.logger.Error("Failed to archive run",
				zap.String("runID", report.RunID),
				zap.Error(err))
		}
	}

	return report, nil
}
