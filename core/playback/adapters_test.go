package playback

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAudioElement struct {
	loaded   bool
	time     float64
	duration float64
	playing  bool
	rate     float64
	playErr  error
}

func (f *fakeAudioElement) Play() error {
	if f.playErr != nil {
		return f.playErr
	}
	f.playing = true
	return nil
}
func (f *fakeAudioElement) Pause()                     { f.playing = false }
func (f *fakeAudioElement) SetCurrentTime(s float64)   { f.time = s }
func (f *fakeAudioElement) CurrentTime() float64       { return f.time }
func (f *fakeAudioElement) SetPlaybackRate(r float64) error {
	f.rate = r
	return nil
}
func (f *fakeAudioElement) Duration() float64    { return f.duration }
func (f *fakeAudioElement) MetadataLoaded() bool { return f.loaded }

func TestNativeAudioAdapterReadinessFollowsMetadata(t *testing.T) {
	el := &fakeAudioElement{duration: 120, time: 5}
	a := NewNativeAudioAdapter(el)

	assert.False(t, a.Ready())
	_, ok := a.CurrentTime()
	assert.False(t, ok)

	a.SeekTo(30)
	assert.Equal(t, 5.0, el.time)

	el.loaded = true
	assert.True(t, a.Ready())
	a.SeekTo(30)
	assert.Equal(t, 30.0, el.time)

	d, ok := a.Duration()
	require.True(t, ok)
	assert.Equal(t, 120.0, d)
}

func TestNativeAudioAdapterSwallowsPlayRejection(t *testing.T) {
	el := &fakeAudioElement{loaded: true, playErr: errors.New("autoplay blocked")}
	a := NewNativeAudioAdapter(el)

	assert.NotPanics(t, a.Play)
	assert.False(t, el.playing)
}

func TestNativeAudioAdapterCloseStopsElement(t *testing.T) {
	el := &fakeAudioElement{loaded: true}
	a := NewNativeAudioAdapter(el)
	a.Play()
	require.True(t, el.playing)

	a.Close()
	assert.False(t, el.playing)

	a.Play()
	assert.False(t, el.playing)
	assert.False(t, a.Ready())
}

type fakeBufferPlayer struct {
	decoded  bool
	playing  bool
	position float64
	duration float64
	rate     float64
	starts   []float64
}

func (f *fakeBufferPlayer) Decoded() bool { return f.decoded }
func (f *fakeBufferPlayer) Start(offset float64) error {
	f.starts = append(f.starts, offset)
	f.position = offset
	f.playing = true
	return nil
}
func (f *fakeBufferPlayer) Stop()             { f.playing = false }
func (f *fakeBufferPlayer) Position() float64 { return f.position }
func (f *fakeBufferPlayer) SetRate(r float64) error {
	f.rate = r
	return nil
}
func (f *fakeBufferPlayer) Duration() float64 { return f.duration }

func TestBufferAdapterDropsCommandsUntilDecoded(t *testing.T) {
	p := &fakeBufferPlayer{duration: 60}
	a := NewDecodedBufferAdapter(p)

	a.Play()
	a.SeekTo(10)
	assert.NoError(t, a.SetRate(0.8))
	assert.Empty(t, p.starts)
	assert.Equal(t, 0.0, p.rate)
	assert.False(t, a.Ready())

	p.decoded = true
	assert.True(t, a.Ready())
	a.Play()
	require.Len(t, p.starts, 1)
	assert.True(t, p.playing)
}

func TestBufferAdapterSeekRestartsWhilePlaying(t *testing.T) {
	p := &fakeBufferPlayer{decoded: true, duration: 60}
	a := NewDecodedBufferAdapter(p)
	a.Play()

	a.SeekTo(25)
	assert.True(t, p.playing)
	assert.Equal(t, 25.0, p.position)

	tme, ok := a.CurrentTime()
	require.True(t, ok)
	assert.Equal(t, 25.0, tme)
}

func TestBufferAdapterSeekWhilePausedDefersToNextStart(t *testing.T) {
	p := &fakeBufferPlayer{decoded: true, duration: 60}
	a := NewDecodedBufferAdapter(p)

	// Repositioning while paused must not pulse the player; the offset is
	// held until playback actually starts.
	a.SeekTo(40)
	a.SeekTo(20)
	assert.Empty(t, p.starts)
	assert.False(t, p.playing)

	tme, ok := a.CurrentTime()
	require.True(t, ok)
	assert.Equal(t, 20.0, tme)

	a.Play()
	assert.Equal(t, []float64{20}, p.starts)
	assert.True(t, p.playing)
}

func TestBufferAdapterPauseAndClose(t *testing.T) {
	p := &fakeBufferPlayer{decoded: true, duration: 60}
	a := NewDecodedBufferAdapter(p)
	a.Play()

	a.Pause()
	assert.False(t, p.playing)

	a.Play()
	a.Close()
	assert.False(t, p.playing)
	assert.False(t, a.Ready())
}
