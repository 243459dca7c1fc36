package playback

import (
	"sync"

	"StageFM/logger"
)

// PlayerState is the state enum reported by the embedded video player.
// Values mirror the iframe player API.
type PlayerState int

const (
	StateUnstarted PlayerState = -1
	StateEnded     PlayerState = 0
	StatePlaying   PlayerState = 1
	StatePaused    PlayerState = 2
	StateBuffering PlayerState = 3
	StateVideoCued PlayerState = 5
)

func (s PlayerState) String() string {
	switch s {
	case StateUnstarted:
		return "unstarted"
	case StateEnded:
		return "ended"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateBuffering:
		return "buffering"
	case StateVideoCued:
		return "cued"
	default:
		return "unknown"
	}
}

// VideoPlayer is the contract of the embedded video player collaborator.
// Seek and rate changes are only safe once the state left Unstarted;
// pausing is unsafe in Ended, VideoCued, Unstarted and Paused.
type VideoPlayer interface {
	PlayVideo()
	PauseVideo()
	SeekTo(seconds float64, allowSeekAhead bool)
	SetPlaybackRate(rate float64) error
	GetCurrentTime() float64
	GetDuration() float64
	GetPlayerState() PlayerState
	// AddStateChangeListener registers a listener for player state changes
	// and returns a function that removes it again.
	AddStateChangeListener(func(PlayerState)) (remove func())
}

// deferredCommand is a transport command the player could not accept yet.
type deferredCommand struct {
	play bool
	seek *float64
	rate *float64
}

// EmbeddedVideoAdapter adapts an embedded video player to the Backend
// contract. The player cannot execute most commands until it has left its
// initial cued/unstarted states, so commands issued too early are recorded
// as a deferred intent and re-issued exactly once on the next state change
// that makes them possible.
type EmbeddedVideoAdapter struct {
	mu       sync.Mutex
	player   VideoPlayer
	deferred *deferredCommand
	remove   func()
	closed   bool
}

// NewEmbeddedVideoAdapter wraps a video player and starts listening for
// its state changes.
func NewEmbeddedVideoAdapter(p VideoPlayer) *EmbeddedVideoAdapter {
	a := &EmbeddedVideoAdapter{player: p}
	a.remove = p.AddStateChangeListener(a.onStateChange)
	return a
}

func (a *EmbeddedVideoAdapter) Kind() BackendKind { return BackendEmbeddedVideo }

// onStateChange replays the deferred intent once the player can accept it.
// Replay must never panic out of the player's callback.
func (a *EmbeddedVideoAdapter) onStateChange(state PlayerState) {
	defer func() {
		if r := recover(); r != nil {
			logger.Debug("deferred command replay failed", logger.Any("panic", r))
		}
	}()

	a.mu.Lock()
	cmd := a.deferred
	if a.closed || cmd == nil || state == StateUnstarted {
		a.mu.Unlock()
		return
	}
	// Once the player is playing on its own the pending play intent is
	// satisfied; clear it instead of re-issuing.
	if state == StatePlaying && cmd.seek == nil && cmd.rate == nil {
		a.deferred = nil
		a.mu.Unlock()
		return
	}
	a.deferred = nil
	player := a.player
	a.mu.Unlock()

	if cmd.seek != nil {
		player.SeekTo(*cmd.seek, true)
	}
	if cmd.rate != nil {
		if err := player.SetPlaybackRate(*cmd.rate); err != nil {
			logger.Debug("deferred rate change rejected", logger.ErrorField(err))
		}
	}
	if cmd.play && state != StatePlaying {
		player.PlayVideo()
	}
}

func (a *EmbeddedVideoAdapter) deferLocked() *deferredCommand {
	if a.deferred == nil {
		a.deferred = &deferredCommand{}
	}
	return a.deferred
}

func (a *EmbeddedVideoAdapter) Play() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	if a.player.GetPlayerState() == StateUnstarted {
		a.deferLocked().play = true
		return
	}
	a.player.PlayVideo()
}

func (a *EmbeddedVideoAdapter) Pause() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	// Drop any pending play intent; the latest command wins.
	if a.deferred != nil {
		a.deferred.play = false
	}
	switch a.player.GetPlayerState() {
	case StateUnstarted, StateEnded, StateVideoCued, StatePaused:
		// Pausing in these states errors inside the player.
		return
	}
	a.player.PauseVideo()
}

func (a *EmbeddedVideoAdapter) SeekTo(seconds float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	if a.player.GetPlayerState() == StateUnstarted {
		t := seconds
		a.deferLocked().seek = &t
		return
	}
	a.player.SeekTo(seconds, true)
}

func (a *EmbeddedVideoAdapter) SetRate(rate float64) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil
	}
	state := a.player.GetPlayerState()
	if state == StateUnstarted || state == StateVideoCued {
		r := rate
		a.deferLocked().rate = &r
		return nil
	}
	return a.player.SetPlaybackRate(rate)
}

func (a *EmbeddedVideoAdapter) CurrentTime() (float64, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed || a.player.GetPlayerState() == StateUnstarted {
		return 0, false
	}
	return a.player.GetCurrentTime(), true
}

func (a *EmbeddedVideoAdapter) Duration() (float64, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed || a.player.GetPlayerState() == StateUnstarted {
		return 0, false
	}
	d := a.player.GetDuration()
	return d, d > 0
}

func (a *EmbeddedVideoAdapter) Ready() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return !a.closed && a.player.GetPlayerState() != StateUnstarted
}

func (a *EmbeddedVideoAdapter) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	a.closed = true
	a.deferred = nil
	if a.remove != nil {
		a.remove()
		a.remove = nil
	}
}
