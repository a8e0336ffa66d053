package enrich

import (
	"context"

	"github.com/razstvien01/pbi-top-ph-youtubers-2024/internal/models"
	"go.uber.org/zap"
)

// Fetcher resolves one channel identifier. Implementations must not fail
// outward: every outcome is reported through the returned FetchResult.
type Fetcher interface {
	Fetch(ctx context.Context, channelID string) models.FetchResult
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, channelID string) models.FetchResult

func (f FetcherFunc) Fetch(ctx context.Context, channelID string) models.FetchResult {
	return f(ctx, channelID)
}

// Collect fetches each identifier once, sequentially, and returns one result
// per identifier in input order.
func Collect(ctx context.Context, fetcher Fetcher, ids []string, logger *zap.Logger) []models.FetchResult {
	results := make([]models.FetchResult, 0, len(ids))
	for i, id := range ids {
		logger.Debug("Fetching channel statistics",
			zap.Int("index", i+1),
			zap.Int("total", len(ids)),
			zap.String("id", id))
		result := fetcher.Fetch(ctx, id)
		// Keep the requested id even if a fetcher left it blank.
		result.ChannelID = id
		results = append(results, result)
	}
	return results
}

// Summary counts fetch outcomes by status.
type Summary struct {
	Found    int
	NotFound int
	Failed   int
}

func Summarize(results []models.FetchResult) Summary {
	var s Summary
	for _, r := range results {
		switch r.Status {
		case models.FetchStatusFound:
			s.Found++
		case models.FetchStatusNotFound:
			s.NotFound++
		default:
			s.Failed++
		}
	}
	return s
}
