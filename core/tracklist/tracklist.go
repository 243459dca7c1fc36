// Package tracklist turns a musical's songs into a playable queue,
// optionally filtered down to preferred track renditions.
package tracklist

import (
	"net/url"
	"sort"
	"strings"

	"StageFM/core/playback"
	"StageFM/model"
)

// FilterOptions returns the distinct track names of a musical, sorted.
// These are the values a track filter can be built from.
func FilterOptions(m *model.Musical) []string {
	seen := make(map[string]struct{})
	for _, song := range m.Songs {
		for _, track := range song.Tracks {
			seen[track.Name] = struct{}{}
		}
	}
	options := make([]string, 0, len(seen))
	for name := range seen {
		options = append(options, name)
	}
	sort.Strings(options)
	return options
}

// FilterSongs reduces each song's tracks to those matching any of the
// filters (case-insensitive substring match on the track name). Songs
// left without a matching track are dropped. Empty filters keep
// everything.
func FilterSongs(songs []model.MusicalSong, filters []string) []model.MusicalSong {
	if len(filters) == 0 {
		return songs
	}
	filtered := make([]model.MusicalSong, 0, len(songs))
	for _, song := range songs {
		var tracks []model.MusicalSongTrack
		for _, track := range song.Tracks {
			if trackMatches(track.Name, filters) {
				tracks = append(tracks, track)
			}
		}
		if len(tracks) == 0 {
			continue
		}
		song.Tracks = tracks
		filtered = append(filtered, song)
	}
	return filtered
}

func trackMatches(name string, filters []string) bool {
	lower := strings.ToLower(name)
	for _, f := range filters {
		if strings.Contains(lower, strings.ToLower(f)) {
			return true
		}
	}
	return false
}

// BuildQueue flattens a musical into queue items, one per surviving
// track. Tracks are sourced from video URLs, so the items get the
// embedded-video backend kind; tracks whose URL carries no video id are
// skipped.
func BuildQueue(m *model.Musical, filters []string) []playback.Medium {
	songs := FilterSongs(m.Songs, filters)
	var queue []playback.Medium
	for _, song := range songs {
		for _, track := range song.Tracks {
			videoID := VideoIDFromURL(track.URL)
			if videoID == "" {
				continue
			}
			title := song.Title
			if track.Name != "" {
				title = song.Title + " (" + track.Name + ")"
			}
			queue = append(queue, playback.Medium{
				ID:     videoID,
				Title:  title,
				Artist: song.Artist,
				Kind:   playback.BackendEmbeddedVideo,
			})
		}
	}
	return queue
}

// VideoIDFromURL extracts the video id from a YouTube watch or share
// URL. Returns "" when none is present.
func VideoIDFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	if v := u.Query().Get("v"); v != "" {
		return v
	}
	// Share links carry the id as the path, e.g. youtu.be/<id>.
	if strings.Contains(u.Host, "youtu.be") {
		return strings.Trim(u.Path, "/")
	}
	return ""
}
