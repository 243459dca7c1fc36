package model

// Musical is a catalog entry: a musical with its practice songs.
// Catalog entities are read-only after load.
type Musical struct {
	ID    string        `json:"id"`
	Title string        `json:"title"`
	Songs []MusicalSong `json:"songs"`
}

// MusicalBaseData is the reduced musical representation used by overview listings.
type MusicalBaseData struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// MusicalSong is a single song of a musical, with one or more practice tracks.
type MusicalSong struct {
	Title  string             `json:"title"`
	Artist string             `json:"artist,omitempty"`
	Album  string             `json:"album,omitempty"`
	No     string             `json:"no,omitempty"` // ordinal as printed in the score, e.g. "1a"
	Tracks []MusicalSongTrack `json:"tracks"`
}

// MusicalSongTrack is one playable rendition of a song (e.g. instrumental or vocal guide).
type MusicalSongTrack struct {
	Name       string                 `json:"name"`
	URL        string                 `json:"url"` // YouTube watch URL the audio was sourced from
	Segments   []TrackSegment         `json:"segments,omitempty"`
	Timestamps []MusicalSongTimeStamp `json:"timestamps,omitempty"`
}

// TrackSegment is a labelled [start,end] region of a track.
type TrackSegment struct {
	StartTime float64 `json:"startTime"`
	EndTime   float64 `json:"endTime"`
	LabelText string  `json:"labelText"`
}

// MusicalSongTimeStamp is a labelled point in time of a track, as stored in the catalog.
type MusicalSongTimeStamp struct {
	Time      float64 `json:"time"`
	LabelText string  `json:"labelText"`
}
