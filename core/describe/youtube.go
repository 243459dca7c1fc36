package describe

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"time"

	"StageFM/model"
)

const videosEndpoint = "https://www.googleapis.com/youtube/v3/videos"

// ErrVideoNotFound is returned when the API knows nothing about the id.
var ErrVideoNotFound = fmt.Errorf("describe: video not found")

// YouTubeClient fetches video metadata from the YouTube Data API.
type YouTubeClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewYouTubeClient creates a client with the given API key.
func NewYouTubeClient(apiKey string) *YouTubeClient {
	return &YouTubeClient{
		apiKey:  apiKey,
		baseURL: videosEndpoint,
		httpClient: &http.Client{
			Timeout: time.Second * 10,
		},
	}
}

// SetBaseURL overrides the API endpoint, used by tests.
func (c *YouTubeClient) SetBaseURL(u string) {
	c.baseURL = u
}

type videosResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title        string `json:"title"`
			Description  string `json:"description"`
			ChannelTitle string `json:"channelTitle"`
			Thumbnails   struct {
				Medium struct {
					URL string `json:"url"`
				} `json:"medium"`
			} `json:"thumbnails"`
		} `json:"snippet"`
		ContentDetails struct {
			Duration string `json:"duration"`
		} `json:"contentDetails"`
	} `json:"items"`
}

// FetchVideo returns the metadata of a single video. A failed fetch is
// returned as an error without retrying; callers surface it directly.
func (c *YouTubeClient) FetchVideo(ctx context.Context, videoID string) (*model.VideoData, string, error) {
	q := url.Values{}
	q.Set("part", "snippet,contentDetails")
	q.Set("id", videoID)
	q.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, "", fmt.Errorf("build videos request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetch video %s: %w", videoID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("fetch video %s: unexpected status %d", videoID, resp.StatusCode)
	}

	var parsed videosResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, "", fmt.Errorf("decode videos response: %w", err)
	}
	if len(parsed.Items) == 0 {
		return nil, "", ErrVideoNotFound
	}

	item := parsed.Items[0]
	video := &model.VideoData{
		VideoID:      item.ID,
		Title:        item.Snippet.Title,
		ChannelTitle: item.Snippet.ChannelTitle,
		Duration:     int(parseISO8601Duration(item.ContentDetails.Duration)),
		ThumbnailURL: item.Snippet.Thumbnails.Medium.URL,
	}
	return video, item.Snippet.Description, nil
}

var iso8601Duration = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// parseISO8601Duration converts the API's PT#H#M#S form to seconds.
// Unparseable input yields 0.
func parseISO8601Duration(s string) float64 {
	match := iso8601Duration.FindStringSubmatch(s)
	if match == nil {
		return 0
	}
	seconds := 0.0
	for _, part := range match[1:] {
		n := 0
		if part != "" {
			n, _ = strconv.Atoi(part)
		}
		seconds = seconds*60 + float64(n)
	}
	return seconds
}
