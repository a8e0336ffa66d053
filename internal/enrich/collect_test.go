package enrich

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/razstvien01/pbi-top-ph-youtubers-2024/internal/models"
	"go.uber.org/zap"
)

// stubFetcher answers from a fixed table and records every call.
type stubFetcher struct {
	records map[string]models.StatsRecord
	failing map[string]bool
	calls   []string
}

func (s *stubFetcher) Fetch(_ context.Context, channelID string) models.FetchResult {
	s.calls = append(s.calls, channelID)
	if s.failing[channelID] {
		return models.FetchResult{ChannelID: channelID, Status: models.FetchStatusFailed, Err: errors.New("boom")}
	}
	if rec, ok := s.records[channelID]; ok {
		return models.FetchResult{ChannelID: channelID, Status: models.FetchStatusFound, Record: rec}
	}
	return models.FetchResult{ChannelID: channelID, Status: models.FetchStatusNotFound}
}

func TestCollectPreservesOrderAndLength(t *testing.T) {
	fetcher := &stubFetcher{
		records: map[string]models.StatsRecord{
			"a": {ChannelName: "A"},
			"c": {ChannelName: "C"},
		},
		failing: map[string]bool{"b": true},
	}
	ids := []string{"c", "b", "a", "missing"}

	results := Collect(context.Background(), fetcher, ids, zap.NewNop())

	if len(results) != len(ids) {
		t.Fatalf("expected %d results, got %d", len(ids), len(results))
	}
	if !reflect.DeepEqual(fetcher.calls, ids) {
		t.Fatalf("expected one call per id in order, got %v", fetcher.calls)
	}
	for i, r := range results {
		if r.ChannelID != ids[i] {
			t.Fatalf("result %d is for %q, want %q", i, r.ChannelID, ids[i])
		}
	}
	if results[0].Record.ChannelName != "C" || results[1].Status != models.FetchStatusFailed ||
		results[3].Status != models.FetchStatusNotFound {
		t.Fatalf("unexpected results %+v", results)
	}

	summary := Summarize(results)
	if summary != (Summary{Found: 2, NotFound: 1, Failed: 1}) {
		t.Fatalf("unexpected summary %+v", summary)
	}
}

func TestCollectAllFailing(t *testing.T) {
	fetcher := FetcherFunc(func(_ context.Context, _ string) models.FetchResult {
		return models.FetchResult{Status: models.FetchStatusFailed, Err: errors.New("offline")}
	})

	results := Collect(context.Background(), fetcher, []string{"x", "y", "z"}, zap.NewNop())
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, r := range results {
		if r.ChannelID == "" || !r.Stats().IsEmpty() {
			t.Fatalf("result %d: unexpected %+v", i, r)
		}
	}
}
