package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/razstvien01/pbi-top-ph-youtubers-2024/internal/models"
	enricherrors "github.com/razstvien01/pbi-top-ph-youtubers-2024/pkg/errors"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	htransport "google.golang.org/api/transport/http"
	"google.golang.org/api/youtube/v3"
)

// channelParts are the resource parts requested from channels.list.
var channelParts = []string{"snippet", "statistics"}

// YouTubeClient issues channels.list requests and decodes statistics as
// strings. The generated client decodes counts as integers, which turns a
// missing count into 0 and rejects anything non-numeric.
type YouTubeClient struct {
	httpClient  *http.Client
	channelsURL string
}

// NewYouTubeClient builds the single client shared by every fetch.
// Without an API key the client is unauthenticated and every call fails
// per channel instead of at startup.
func NewYouTubeClient(ctx context.Context, apiKey string, opts ...option.ClientOption) (*YouTubeClient, error) {
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	} else {
		opts = append(opts, option.WithoutAuthentication())
	}

	// The generated service resolves the endpoint, including overrides.
	service, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}
	httpClient, _, err := htransport.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube HTTP client: %w", err)
	}

	return &YouTubeClient{
		httpClient:  httpClient,
		channelsURL: googleapi.ResolveRelative(service.BasePath, "youtube/v3/channels"),
	}, nil
}

// listChannels looks up one channel by the given filter ("id" or "forHandle").
func (c *YouTubeClient) listChannels(ctx context.Context, filter, value string) (*models.ChannelListResponse, error) {
	params := url.Values{}
	params.Set("alt", "json")
	params.Set("part", strings.Join(channelParts, ","))
	params.Set(filter, value)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.channelsURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer googleapi.CloseBody(resp)

	if err := googleapi.CheckResponse(resp); err != nil {
		return nil, err
	}

	var response models.ChannelListResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode channels response: %w", err)
	}
	return &response, nil
}

// FetcherOptions tunes a StatsFetcher.
type FetcherOptions struct {
	// ByHandle looks channels up with forHandle instead of id.
	ByHandle bool
	// Timeout bounds each channels.list call. Zero means no limit.
	Timeout time.Duration
}

// StatsFetcher resolves one channel to its statistics record.
type StatsFetcher struct {
	client   *YouTubeClient
	logger   *zap.Logger
	byHandle bool
	timeout  time.Duration
}

// NewStatsFetcher creates a fetcher around an injected YouTube client.
func NewStatsFetcher(client *YouTubeClient, logger *zap.Logger, opts FetcherOptions) *StatsFetcher {
	return &StatsFetcher{
		client:   client,
		logger:   logger,
		byHandle: opts.ByHandle,
		timeout:  opts.Timeout,
	}
}

// Fetch calls channels.list for channelID. It never returns an error: an
// unknown channel yields FetchStatusNotFound and any failure, including a
// panic while reading the response, yields FetchStatusFailed.
func (f *StatsFetcher) Fetch(ctx context.Context, channelID string) (result models.FetchResult) {
	defer func() {
		if r := recover(); r != nil {
			result = f.failed(channelID, fmt.Errorf("panic while reading response: %v", r))
		}
	}()

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	filter := "id"
	if f.byHandle {
		filter = "forHandle"
	}

	response, err := f.client.listChannels(ctx, filter, channelID)
	if err != nil {
		return f.failed(channelID, describeAPIError(err))
	}

	if len(response.Items) == 0 {
		f.logger.Warn("Skipping invalid channel ID", zap.String("channelID", channelID))
		return models.FetchResult{
			ChannelID: channelID,
			Status:    models.FetchStatusNotFound,
			Err:       enricherrors.NewFetchError(channelID, enricherrors.ErrChannelNotFound),
		}
	}

	return models.FetchResult{
		ChannelID: channelID,
		Status:    models.FetchStatusFound,
		Record:    recordFromChannel(response.Items[0]),
	}
}

func (f *StatsFetcher) failed(channelID string, cause error) models.FetchResult {
	f.logger.Error("Error fetching channel data",
		zap.String("channelID", channelID),
		zap.Error(cause))
	return models.FetchResult{
		ChannelID: channelID,
		Status:    models.FetchStatusFailed,
		Err:       enricherrors.NewFetchError(channelID, cause),
	}
}

// recordFromChannel copies the snippet and statistics into a StatsRecord.
// Missing parts and missing counts leave their fields empty.
func recordFromChannel(channel models.ChannelItem) models.StatsRecord {
	var record models.StatsRecord

	if channel.Snippet != nil {
		record.ChannelName = channel.Snippet.Title
	}

	if stats := channel.Statistics; stats != nil {
		record.TotalSubscribers = string(stats.SubscriberCount)
		record.TotalViews = string(stats.ViewCount)
		record.TotalVideos = string(stats.VideoCount)
	}

	return record
}

func describeAPIError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return fmt.Errorf("YouTube API returned status code %d: %w", apiErr.Code, err)
	}
	return fmt.Errorf("YouTube API request failed: %w", err)
}
