package model

// SourceData describes how to obtain raw audio for an audio-element backend.
type SourceData struct {
	Src  string `json:"src"`
	Type string `json:"type"` // MIME type, e.g. "audio/mpeg"
}

// TimeStamp is a point of interest extracted from a video description.
type TimeStamp struct {
	Seconds float64 `json:"seconds"`
	Label   string  `json:"label"`
}

// VideoData is the metadata of a YouTube-sourced medium as shown in queues.
type VideoData struct {
	VideoID      string `json:"videoId"`
	Title        string `json:"title"`
	ChannelTitle string `json:"channelTitle"`
	Duration     int    `json:"duration,omitempty"` // seconds; 0 while unknown
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
}
