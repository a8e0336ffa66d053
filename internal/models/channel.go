package models

import "encoding/json"

// Output columns appended to every merged row, in order.
const (
	ColumnChannelName      = "channel_name"
	ColumnTotalSubscribers = "total_subscribers"
	ColumnTotalViews       = "total_views"
	ColumnTotalVideos      = "total_videos"
)

// StatsColumns lists the stats columns in output order.
var StatsColumns = []string{
	ColumnChannelName,
	ColumnTotalSubscribers,
	ColumnTotalViews,
	ColumnTotalVideos,
}

// StatsRecord is the fixed-shape result of one channel lookup.
// Counts stay strings; the zero value is the all-empty record.
type StatsRecord struct {
	ChannelName      string `json:"channel_name"`
	TotalSubscribers string `json:"total_subscribers"`
	TotalViews       string `json:"total_views"`
	TotalVideos      string `json:"total_videos"`
}

// Values returns the record in StatsColumns order.
func (r StatsRecord) Values() []string {
	return []string{r.ChannelName, r.TotalSubscribers, r.TotalViews, r.TotalVideos}
}

// IsEmpty reports whether every field is blank.
func (r StatsRecord) IsEmpty() bool {
	return r == StatsRecord{}
}

type FetchStatus string

const (
	FetchStatusFound    FetchStatus = "found"
	FetchStatusNotFound FetchStatus = "not_found"
	FetchStatusFailed   FetchStatus = "failed"
)

// FetchResult is the outcome of fetching one channel. Err is set for
// FetchStatusNotFound and FetchStatusFailed.
type FetchResult struct {
	ChannelID string      `json:"channel_id"`
	Status    FetchStatus `json:"status"`
	Record    StatsRecord `json:"record"`
	Err       error       `json:"-"`
}

// Stats collapses the result to the record written to the output table.
func (r FetchResult) Stats() StatsRecord {
	if r.Status != FetchStatusFound {
		return StatsRecord{}
	}
	return r.Record
}

// ErrorText returns the error message, or "" when the fetch succeeded.
func (r FetchResult) ErrorText() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// ChannelListResponse is the part of a channels.list response the fetcher reads.
type ChannelListResponse struct {
	Items []ChannelItem `json:"items"`
}

type ChannelItem struct {
	ID         string             `json:"id"`
	Snippet    *ChannelSnippet    `json:"snippet"`
	Statistics *ChannelStatistics `json:"statistics"`
}

type ChannelSnippet struct {
	Title string `json:"title"`
}

// ChannelStatistics keeps counts exactly as the API sent them.
type ChannelStatistics struct {
	SubscriberCount Count `json:"subscriberCount"`
	ViewCount       Count `json:"viewCount"`
	VideoCount      Count `json:"videoCount"`
}

// Count is an opaque statistics value. The API sends counts as JSON
// strings; any other JSON value is kept as its literal text.
type Count string

func (c *Count) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*c = Count(s)
		return nil
	}
	*c = Count(data)
	return nil
}
