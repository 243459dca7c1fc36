package server

import (
	"net/url"
	"strconv"
)

// PlayerQuery is the player state persisted into the page URL's query
// string so that a reload restores the session: the selected musical, the
// active video and the queue index.
type PlayerQuery struct {
	MusicalID string
	VideoID   string
	TrackIdx  int
}

const (
	queryKeyMusical = "p"
	queryKeyVideo   = "v"
	queryKeyIndex   = "i"
)

// ParsePlayerQuery extracts the player state from a query string. Missing
// keys yield zero values; a malformed index degrades to 0.
func ParsePlayerQuery(values url.Values) PlayerQuery {
	q := PlayerQuery{
		MusicalID: values.Get(queryKeyMusical),
		VideoID:   values.Get(queryKeyVideo),
	}
	if raw := values.Get(queryKeyIndex); raw != "" {
		if idx, err := strconv.Atoi(raw); err == nil && idx >= 0 {
			q.TrackIdx = idx
		}
	}
	return q
}

// Encode renders the player state back into query values. Zero-value
// fields are omitted so URLs stay minimal.
func (q PlayerQuery) Encode() url.Values {
	values := url.Values{}
	if q.MusicalID != "" {
		values.Set(queryKeyMusical, q.MusicalID)
	}
	if q.VideoID != "" {
		values.Set(queryKeyVideo, q.VideoID)
	}
	if q.TrackIdx > 0 {
		values.Set(queryKeyIndex, strconv.Itoa(q.TrackIdx))
	}
	return values
}
