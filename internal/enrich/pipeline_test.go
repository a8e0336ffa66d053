package enrich_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/razstvien01/pbi-top-ph-youtubers-2024/internal/api"
	"github.com/razstvien01/pbi-top-ph-youtubers-2024/internal/dataset"
	"github.com/razstvien01/pbi-top-ph-youtubers-2024/internal/enrich"
	"github.com/razstvien01/pbi-top-ph-youtubers-2024/internal/models"
	enricherrors "github.com/razstvien01/pbi-top-ph-youtubers-2024/pkg/errors"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

type recordingArchiver struct {
	runID   string
	results []models.FetchResult
	err     error
}

func (a *recordingArchiver) StoreRun(runID string, results []models.FetchResult) error {
	a.runID = runID
	a.results = results
	return a.err
}

// newYouTubeStub serves channels.list: "abc123" resolves, everything else is empty.
func newYouTubeStub(t *testing.T) (*api.StatsFetcher, *[]string) {
	t.Helper()
	var ids []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("id")
		ids = append(ids, id)
		w.Header().Set("Content-Type", "application/json")
		if id == "abc123" {
			fmt.Fprint(w, `{"items":[{"id":"abc123","snippet":{"title":"ABC Channel"},`+
				`"statistics":{"subscriberCount":"100","viewCount":"1000","videoCount":"10"}}]}`)
			return
		}
		fmt.Fprint(w, `{"items":[]}`)
	}))
	t.Cleanup(srv.Close)

	client, err := api.NewYouTubeClient(context.Background(), "",
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("NewYouTubeClient error: %v", err)
	}
	return api.NewStatsFetcher(client, zap.NewNop(), api.FetcherOptions{}), &ids
}

func writeInput(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "youtube_data.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunEndToEnd(t *testing.T) {
	fetcher, requested := newYouTubeStub(t)
	archiver := &recordingArchiver{}
	pipeline := enrich.NewPipeline(fetcher, archiver, zap.NewNop())

	in := writeInput(t, "RANK,NAME,CATEGORY\n1,@abc123,Gaming\n2,,Music\n3,@abc123,Gaming\n")
	out := filepath.Join(filepath.Dir(in), "updated_youtube_data.csv")
	var preview bytes.Buffer

	report, err := pipeline.Run(context.Background(), enrich.RunOptions{
		InputPath:   in,
		OutputPath:  out,
		Preview:     &preview,
		PreviewRows: dataset.DefaultPreviewRows,
	})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	// Duplicates are fetched once and the blank row is not fetched at all.
	if !reflect.DeepEqual(*requested, []string{"abc123"}) {
		t.Fatalf("unexpected API calls %v", *requested)
	}
	if len(report.Results) != 1 || report.Summary.Found != 1 {
		t.Fatalf("unexpected report %+v", report.Summary)
	}

	written, err := dataset.ReadCSV(out)
	if err != nil {
		t.Fatalf("ReadCSV error: %v", err)
	}
	wantHeader := []string{"RANK", "NAME", "CATEGORY", "channel_name", "total_subscribers", "total_views", "total_videos"}
	if !reflect.DeepEqual(written.Header, wantHeader) {
		t.Fatalf("unexpected header %q", written.Header)
	}
	wantRows := [][]string{
		{"1", "@abc123", "Gaming", "ABC Channel", "100", "1000", "10"},
		{"2", "", "Music", "", "", "", ""},
		{"3", "@abc123", "Gaming", "ABC Channel", "100", "1000", "10"},
	}
	if !reflect.DeepEqual(written.Rows, wantRows) {
		t.Fatalf("unexpected rows %q", written.Rows)
	}

	if !strings.Contains(preview.String(), "ABC Channel") || !strings.Contains(preview.String(), "[3 rows x 7 columns]") {
		t.Fatalf("unexpected preview:\n%s", preview.String())
	}
	if archiver.runID != report.RunID || len(archiver.results) != 1 {
		t.Fatalf("archive not stored: %+v", archiver)
	}
}

func TestRunArchiveFailureIsNotFatal(t *testing.T) {
	fetcher, _ := newYouTubeStub(t)
	archiver := &recordingArchiver{err: errors.New("db down")}
	pipeline := enrich.NewPipeline(fetcher, archiver, zap.NewNop())

	in := writeInput(t, "NAME\n@abc123\n")
	out := filepath.Join(filepath.Dir(in), "out.csv")

	if _, err := pipeline.Run(context.Background(), enrich.RunOptions{InputPath: in, OutputPath: out}); err != nil {
		t.Fatalf("archive failure should not fail the run: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("output not written: %v", err)
	}
}

func TestRunMissingInputIsFatal(t *testing.T) {
	pipeline := enrich.NewPipeline(enrich.FetcherFunc(func(context.Context, string) models.FetchResult {
		t.Fatal("fetch must not be called")
		return models.FetchResult{}
	}), nil, zap.NewNop())

	dir := t.TempDir()
	_, err := pipeline.Run(context.Background(), enrich.RunOptions{
		InputPath:  filepath.Join(dir, "missing.csv"),
		OutputPath: filepath.Join(dir, "out.csv"),
	})
	if !enricherrors.IsFatal(err) {
		t.Fatalf("expected fatal error, got %v", err)
	}
}

func TestRunMissingNameColumn(t *testing.T) {
	fetcher, requested := newYouTubeStub(t)
	pipeline := enrich.NewPipeline(fetcher, nil, zap.NewNop())

	in := writeInput(t, "TITLE\nfoo\n")
	_, err := pipeline.Run(context.Background(), enrich.RunOptions{
		InputPath:  in,
		OutputPath: filepath.Join(filepath.Dir(in), "out.csv"),
	})
	if !errors.Is(err, enricherrors.ErrMissingColumn) || !enricherrors.IsFatal(err) {
		t.Fatalf("expected fatal missing column error, got %v", err)
	}
	if len(*requested) != 0 {
		t.Fatalf("no API calls expected, got %v", *requested)
	}
}

func TestRunCanceledDoesNotWrite(t *testing.T) {
	fetcher, _ := newYouTubeStub(t)
	pipeline := enrich.NewPipeline(fetcher, nil, zap.NewNop())

	in := writeInput(t, "NAME\n@abc123\n")
	out := filepath.Join(filepath.Dir(in), "out.csv")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := pipeline.Run(ctx, enrich.RunOptions{InputPath: in, OutputPath: out}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Fatalf("output must not be written after cancellation: %v", err)
	}
}
