package server

import (
	"sync"

	"StageFM/core/playback"
)

// The remote backends mirror media elements living in the browser. Every
// command is forwarded over the websocket; observed state flows back in
// through client reports and is cached here for the sync loop to read.

type remoteAudioElement struct {
	send func(controlPayload)

	mu             sync.Mutex
	currentTime    float64
	duration       float64
	metadataLoaded bool
}

var _ playback.AudioElement = (*remoteAudioElement)(nil)

func (e *remoteAudioElement) update(rep reportPayload) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.currentTime = rep.CurrentTime
	e.duration = rep.Duration
	e.metadataLoaded = rep.MetadataLoaded
}

func (e *remoteAudioElement) Play() error {
	e.send(controlPayload{Target: "audio", Op: "play"})
	return nil
}

func (e *remoteAudioElement) Pause() {
	e.send(controlPayload{Target: "audio", Op: "pause"})
}

func (e *remoteAudioElement) SetCurrentTime(seconds float64) {
	e.send(controlPayload{Target: "audio", Op: "seek", Value: seconds})
	e.mu.Lock()
	e.currentTime = seconds
	e.mu.Unlock()
}

func (e *remoteAudioElement) CurrentTime() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.currentTime
}

func (e *remoteAudioElement) SetPlaybackRate(rate float64) error {
	e.send(controlPayload{Target: "audio", Op: "rate", Value: rate})
	return nil
}

func (e *remoteAudioElement) Duration() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.duration
}

func (e *remoteAudioElement) MetadataLoaded() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.metadataLoaded
}

type remoteVideoPlayer struct {
	send func(controlPayload)

	mu          sync.Mutex
	currentTime float64
	duration    float64
	state       playback.PlayerState
	listeners   map[int]func(playback.PlayerState)
	nextID      int
}

var _ playback.VideoPlayer = (*remoteVideoPlayer)(nil)

func (p *remoteVideoPlayer) update(rep reportPayload) {
	p.mu.Lock()
	p.currentTime = rep.CurrentTime
	p.duration = rep.Duration
	newState := playback.PlayerState(rep.PlayerState)
	changed := newState != p.state
	p.state = newState
	var fns []func(playback.PlayerState)
	if changed {
		for _, fn := range p.listeners {
			fns = append(fns, fn)
		}
	}
	p.mu.Unlock()

	for _, fn := range fns {
		fn(newState)
	}
}

func (p *remoteVideoPlayer) PlayVideo() {
	p.send(controlPayload{Target: "video", Op: "play"})
}

func (p *remoteVideoPlayer) PauseVideo() {
	p.send(controlPayload{Target: "video", Op: "pause"})
}

func (p *remoteVideoPlayer) SeekTo(seconds float64, allowSeekAhead bool) {
	p.send(controlPayload{Target: "video", Op: "seek", Value: seconds, Allow: allowSeekAhead})
	p.mu.Lock()
	p.currentTime = seconds
	p.mu.Unlock()
}

func (p *remoteVideoPlayer) SetPlaybackRate(rate float64) error {
	p.send(controlPayload{Target: "video", Op: "rate", Value: rate})
	return nil
}

func (p *remoteVideoPlayer) GetCurrentTime() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.currentTime
}

func (p *remoteVideoPlayer) GetDuration() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.duration
}

func (p *remoteVideoPlayer) GetPlayerState() playback.PlayerState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *remoteVideoPlayer) AddStateChangeListener(fn func(playback.PlayerState)) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.listeners == nil {
		p.listeners = make(map[int]func(playback.PlayerState))
	}
	id := p.nextID
	p.nextID++
	p.listeners[id] = fn
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.listeners, id)
	}
}

type remoteBufferPlayer struct {
	send func(controlPayload)

	mu       sync.Mutex
	position float64
	duration float64
	decoded  bool
}

var _ playback.BufferPlayer = (*remoteBufferPlayer)(nil)

func (p *remoteBufferPlayer) update(rep reportPayload) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.position = rep.CurrentTime
	p.duration = rep.Duration
	p.decoded = rep.Decoded
}

func (p *remoteBufferPlayer) Decoded() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.decoded
}

func (p *remoteBufferPlayer) Start(offset float64) error {
	p.send(controlPayload{Target: "buffer", Op: "start", Value: offset})
	p.mu.Lock()
	p.position = offset
	p.mu.Unlock()
	return nil
}

func (p *remoteBufferPlayer) Stop() {
	p.send(controlPayload{Target: "buffer", Op: "stop"})
}

func (p *remoteBufferPlayer) Position() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.position
}

func (p *remoteBufferPlayer) SetRate(rate float64) error {
	p.send(controlPayload{Target: "buffer", Op: "rate", Value: rate})
	return nil
}

func (p *remoteBufferPlayer) Duration() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.duration
}
