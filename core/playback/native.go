package playback

import (
	"sync"

	"StageFM/logger"
)

// AudioElement is the contract of the underlying HTML audio element
// collaborator. The element is seek- and rate-capable as soon as its
// metadata has loaded.
type AudioElement interface {
	Play() error
	Pause()
	SetCurrentTime(seconds float64)
	CurrentTime() float64
	SetPlaybackRate(rate float64) error
	Duration() float64
	MetadataLoaded() bool
}

// NativeAudioAdapter adapts an HTML audio element to the Backend contract.
// The thinnest of the adapters: once metadata is loaded the element
// accepts everything.
type NativeAudioAdapter struct {
	mu     sync.Mutex
	el     AudioElement
	closed bool
}

// NewNativeAudioAdapter wraps an audio element.
func NewNativeAudioAdapter(el AudioElement) *NativeAudioAdapter {
	return &NativeAudioAdapter{el: el}
}

func (a *NativeAudioAdapter) Kind() BackendKind { return BackendNativeAudio }

func (a *NativeAudioAdapter) Play() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	if err := a.el.Play(); err != nil {
		logger.Debug("audio element play rejected", logger.ErrorField(err))
	}
}

func (a *NativeAudioAdapter) Pause() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	a.el.Pause()
}

func (a *NativeAudioAdapter) SeekTo(seconds float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed || !a.el.MetadataLoaded() {
		return
	}
	a.el.SetCurrentTime(seconds)
}

func (a *NativeAudioAdapter) SetRate(rate float64) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil
	}
	return a.el.SetPlaybackRate(rate)
}

func (a *NativeAudioAdapter) CurrentTime() (float64, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed || !a.el.MetadataLoaded() {
		return 0, false
	}
	return a.el.CurrentTime(), true
}

func (a *NativeAudioAdapter) Duration() (float64, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed || !a.el.MetadataLoaded() {
		return 0, false
	}
	d := a.el.Duration()
	return d, d > 0
}

func (a *NativeAudioAdapter) Ready() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return !a.closed && a.el.MetadataLoaded()
}

func (a *NativeAudioAdapter) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	a.closed = true
	a.el.Pause()
}
