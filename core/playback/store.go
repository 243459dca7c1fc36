// Package playback implements the player engine: the playback state store,
// the media backend adapters and the synchronization loop between them.
package playback

import (
	"sync"

	"StageFM/logger"
)

const (
	// DefaultMinPlaybackRate and DefaultMaxPlaybackRate bound the playback
	// rate slider unless the store is configured otherwise.
	DefaultMinPlaybackRate = 0.5
	DefaultMaxPlaybackRate = 1.0

	// previousRestartThreshold is how far into a medium Previous() still
	// switches to the previous queue item instead of restarting the medium.
	previousRestartThreshold = 2.5

	// loopSeedLength is the initial length of a freshly enabled loop region.
	loopSeedLength = 5.0
)

// SessionNotifier receives best-effort notifications about the platform
// media session. Implementations may fail or panic freely; the store
// swallows everything (the session surface is cosmetic, playback must
// never depend on it).
type SessionNotifier interface {
	PlaybackStateChanged(playing bool)
	SessionActivated()
	SessionDeactivated()
}

// Medium is one playable item of the queue.
type Medium struct {
	ID     string      `json:"id"`
	Title  string      `json:"title"`
	Artist string      `json:"artist,omitempty"`
	Kind   BackendKind `json:"kind"`
}

// Snapshot is a consistent read of the whole store state.
type Snapshot struct {
	Playing       bool    `json:"playing"`
	CurrentTime   float64 `json:"currentTime"`
	PlaybackRate  float64 `json:"playbackRate"`
	MinRate       float64 `json:"minPlaybackRate"`
	MaxRate       float64 `json:"maxPlaybackRate"`
	Duration      float64 `json:"duration"`
	DurationKnown bool    `json:"durationKnown"`

	// SeekTime is the last requested seek target; only meaningful while
	// SeekGeneration is greater than what the consumer already applied.
	SeekTime       float64 `json:"seekTime"`
	SeekGeneration uint64  `json:"seekGeneration"`

	LoopActive    bool    `json:"loopActive"`
	LoopStart     float64 `json:"loopStart"`
	LoopEnd       float64 `json:"loopEnd"`
	LoopZoomLevel int     `json:"loopZoomLevel"`
	LoopViewLower float64 `json:"loopViewLower"`
	LoopViewUpper float64 `json:"loopViewUpper"`

	Initialized bool    `json:"initialized"`
	CurrentIdx  int     `json:"currentIdx"`
	QueueLength int     `json:"queueLength"`
	Generation  uint64  `json:"generation"`
	Current     *Medium `json:"current,omitempty"`
}

// Options configures a new Store.
type Options struct {
	MinPlaybackRate float64
	MaxPlaybackRate float64
	Notifier        SessionNotifier
}

// Store is the single source of truth for playback state. All mutation
// goes through named actions; every action is total and never panics
// across its boundary, invalid input degrades to a no-op.
type Store struct {
	mu sync.Mutex

	playing       bool
	currentTime   float64
	playbackRate  float64
	minRate       float64
	maxRate       float64
	duration      float64
	durationKnown bool

	seekTime float64
	seekGen  uint64

	loopActive    bool
	loopStart     float64
	loopEnd       float64
	loopZoomLevel int
	loopViewLower float64
	loopViewUpper float64

	items       []Medium
	currIdx     int
	initialized bool
	generation  uint64

	notifier    SessionNotifier
	subscribers []chan struct{}
}

// NewStore creates a store with initial playback state.
func NewStore(opts Options) *Store {
	minRate := opts.MinPlaybackRate
	if minRate <= 0 {
		minRate = DefaultMinPlaybackRate
	}
	maxRate := opts.MaxPlaybackRate
	if maxRate < minRate {
		maxRate = DefaultMaxPlaybackRate
	}
	return &Store{
		playbackRate: 1,
		minRate:      minRate,
		maxRate:      maxRate,
		currIdx:      -1,
		notifier:     opts.Notifier,
	}
}

// Snapshot returns a consistent copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		Playing:        s.playing,
		CurrentTime:    s.currentTime,
		PlaybackRate:   s.playbackRate,
		MinRate:        s.minRate,
		MaxRate:        s.maxRate,
		Duration:       s.duration,
		DurationKnown:  s.durationKnown,
		SeekTime:       s.seekTime,
		SeekGeneration: s.seekGen,
		LoopActive:     s.loopActive,
		LoopStart:      s.loopStart,
		LoopEnd:        s.loopEnd,
		LoopZoomLevel:  s.loopZoomLevel,
		LoopViewLower:  s.loopViewLower,
		LoopViewUpper:  s.loopViewUpper,
		Initialized:    s.initialized,
		CurrentIdx:     s.currIdx,
		QueueLength:    len(s.items),
		Generation:     s.generation,
	}
	if s.initialized && s.currIdx >= 0 && s.currIdx < len(s.items) {
		m := s.items[s.currIdx]
		snap.Current = &m
	}
	return snap
}

// Generation returns the queue generation. It increments on every medium
// switch; callers resolving data asynchronously must re-check it before
// applying results (stale results are discarded, not cancelled).
func (s *Store) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// Subscribe returns a channel that receives a signal after state changes.
// Signals are coalesced; a slow receiver misses intermediate states but
// never the final one.
func (s *Store) Subscribe() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan struct{}, 1)
	s.subscribers = append(s.subscribers, ch)
	return ch
}

// Unsubscribe removes a channel obtained from Subscribe.
func (s *Store) Unsubscribe(ch <-chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sub := range s.subscribers {
		if sub == ch {
			s.subscribers = append(s.subscribers[:i], s.subscribers[i+1:]...)
			return
		}
	}
}

// notifyChangedLocked signals all subscribers. Caller must hold s.mu.
func (s *Store) notifyChangedLocked() {
	for _, ch := range s.subscribers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// notifySession runs a media-session notification best-effort. Must be
// called without holding s.mu.
func (s *Store) notifySession(fn func(SessionNotifier)) {
	if s.notifier == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Debug("media session notification failed", logger.Any("panic", r))
		}
	}()
	fn(s.notifier)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
