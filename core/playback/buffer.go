package playback

import "sync"

// BufferPlayer is the contract of a Web-Audio playback collaborator that
// plays fully decoded samples. Nothing can happen before the buffer has
// been decoded in memory.
type BufferPlayer interface {
	// Decoded reports whether the audio buffer is available.
	Decoded() bool
	// Start begins playback at the given offset.
	Start(offset float64) error
	Stop()
	Position() float64
	SetRate(rate float64) error
	Duration() float64
}

// DecodedBufferAdapter adapts a decoded-buffer player to the Backend
// contract. Commands arriving before the buffer is decoded are dropped;
// the synchronization loop re-issues intents once readiness flips, so
// nothing needs to be queued here.
type DecodedBufferAdapter struct {
	mu      sync.Mutex
	player  BufferPlayer
	playing bool
	closed  bool

	// Reposition recorded while paused; consumed by the next Start.
	pending    float64
	hasPending bool
}

// NewDecodedBufferAdapter wraps a buffer player.
func NewDecodedBufferAdapter(p BufferPlayer) *DecodedBufferAdapter {
	return &DecodedBufferAdapter{player: p}
}

func (a *DecodedBufferAdapter) Kind() BackendKind { return BackendDecodedBuffer }

func (a *DecodedBufferAdapter) Play() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed || !a.player.Decoded() || a.playing {
		return
	}
	offset := a.player.Position()
	if a.hasPending {
		offset = a.pending
	}
	if err := a.player.Start(offset); err == nil {
		a.playing = true
		a.hasPending = false
	}
}

func (a *DecodedBufferAdapter) Pause() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed || !a.playing {
		return
	}
	a.player.Stop()
	a.playing = false
}

func (a *DecodedBufferAdapter) SeekTo(seconds float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed || !a.player.Decoded() {
		return
	}
	// A buffer source cannot reposition in place; restart at the target
	// when playing. While paused, just remember the offset for the next
	// Start instead of pulsing the player with a start/stop pair.
	if a.playing {
		a.player.Stop()
		if err := a.player.Start(seconds); err != nil {
			a.playing = false
		}
		a.hasPending = false
		return
	}
	a.pending = seconds
	a.hasPending = true
}

func (a *DecodedBufferAdapter) SetRate(rate float64) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed || !a.player.Decoded() {
		return nil
	}
	return a.player.SetRate(rate)
}

func (a *DecodedBufferAdapter) CurrentTime() (float64, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed || !a.player.Decoded() {
		return 0, false
	}
	if a.hasPending && !a.playing {
		return a.pending, true
	}
	return a.player.Position(), true
}

func (a *DecodedBufferAdapter) Duration() (float64, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed || !a.player.Decoded() {
		return 0, false
	}
	d := a.player.Duration()
	return d, d > 0
}

func (a *DecodedBufferAdapter) Ready() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return !a.closed && a.player.Decoded()
}

func (a *DecodedBufferAdapter) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	a.closed = true
	if a.playing {
		a.player.Stop()
		a.playing = false
	}
}
