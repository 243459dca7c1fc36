package playback

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestStore() *Store {
	return NewStore(Options{})
}

func TestSeekIsNoOpWhileDurationUnknown(t *testing.T) {
	s := newTestStore()

	s.SeekTo(42)
	snap := s.Snapshot()
	assert.Equal(t, uint64(0), snap.SeekGeneration)
	assert.Equal(t, 0.0, snap.SeekTime)

	s.SeekForward(5)
	s.SeekBackward(5)
	s.JumpToStart()
	assert.Equal(t, uint64(0), s.Snapshot().SeekGeneration)
}

func TestSeekClampsIntoDuration(t *testing.T) {
	s := newTestStore()
	s.SetDuration(100)

	s.SeekTo(250)
	snap := s.Snapshot()
	assert.Equal(t, 100.0, snap.SeekTime)
	assert.Equal(t, uint64(1), snap.SeekGeneration)

	s.SeekTo(-10)
	snap = s.Snapshot()
	assert.Equal(t, 0.0, snap.SeekTime)
	assert.Equal(t, uint64(2), snap.SeekGeneration)
}

func TestRepeatedSeekToSameTimeBumpsGeneration(t *testing.T) {
	s := newTestStore()
	s.SetDuration(100)

	s.SeekTo(30)
	s.SeekTo(30)
	snap := s.Snapshot()
	assert.Equal(t, 30.0, snap.SeekTime)
	assert.Equal(t, uint64(2), snap.SeekGeneration)
}

func TestSeekForwardBackwardRelativeToCurrentTime(t *testing.T) {
	s := newTestStore()
	s.SetDuration(100)
	s.SetCurrentTime(50)

	s.SeekForward(5)
	assert.Equal(t, 55.0, s.Snapshot().SeekTime)

	s.SeekBackward(60)
	assert.Equal(t, 0.0, s.Snapshot().SeekTime)

	s.SetCurrentTime(98)
	s.SeekForward(5)
	assert.Equal(t, 100.0, s.Snapshot().SeekTime)
}

func TestPlaybackRateClamping(t *testing.T) {
	s := NewStore(Options{MinPlaybackRate: 0.5, MaxPlaybackRate: 1.0})

	s.ChangePlaybackRate(0.75)
	assert.Equal(t, 0.75, s.Snapshot().PlaybackRate)

	s.ChangePlaybackRate(2.0)
	assert.Equal(t, 1.0, s.Snapshot().PlaybackRate)

	s.ChangePlaybackRate(0.1)
	assert.Equal(t, 0.5, s.Snapshot().PlaybackRate)

	s.IncreasePlaybackRate(10)
	assert.Equal(t, 1.0, s.Snapshot().PlaybackRate)

	s.DecreasePlaybackRate(10)
	assert.Equal(t, 0.5, s.Snapshot().PlaybackRate)
}

func TestSetDurationRejectsNonPositive(t *testing.T) {
	s := newTestStore()

	s.SetDuration(0)
	assert.False(t, s.Snapshot().DurationKnown)

	s.SetDuration(-3)
	assert.False(t, s.Snapshot().DurationKnown)

	s.SetDuration(120)
	snap := s.Snapshot()
	assert.True(t, snap.DurationKnown)
	assert.Equal(t, 120.0, snap.Duration)
}

func TestPlayWithActiveLoopSeeksToLoopStart(t *testing.T) {
	s := newTestStore()
	s.SetDuration(100)
	s.SetCurrentTime(40)
	s.EnableLoop()

	before := s.Snapshot().SeekGeneration
	s.Play()
	snap := s.Snapshot()
	assert.True(t, snap.Playing)
	assert.Equal(t, snap.LoopStart, snap.SeekTime)
	assert.Equal(t, before+1, snap.SeekGeneration)
}

func TestTogglePlayPause(t *testing.T) {
	s := newTestStore()

	s.TogglePlayPause()
	assert.True(t, s.Snapshot().Playing)
	s.TogglePlayPause()
	assert.False(t, s.Snapshot().Playing)
}

func TestResetCurrentPlaybackStateIsIdempotent(t *testing.T) {
	s := newTestStore()
	s.SetDuration(100)
	s.SetCurrentTime(33)
	s.Play()
	s.ChangePlaybackRate(0.8)
	s.SeekTo(10)

	s.ResetCurrentPlaybackState()
	first := s.Snapshot()
	s.ResetCurrentPlaybackState()
	second := s.Snapshot()

	assert.False(t, first.Playing)
	assert.Equal(t, 0.0, first.CurrentTime)
	assert.Equal(t, 1.0, first.PlaybackRate)
	assert.False(t, first.DurationKnown)
	assert.Equal(t, uint64(0), first.SeekGeneration)

	// Each reset bumps the generation; everything else is idempotent.
	assert.Greater(t, second.Generation, first.Generation)
	second.Generation = first.Generation
	assert.Equal(t, first, second)
}

func TestSetDurationIfGenerationDiscardsStaleResults(t *testing.T) {
	s := newTestStore()
	s.Initialize([]Medium{{ID: "a"}, {ID: "b"}}, 0)

	gen := s.Generation()
	s.SwitchTo(1)

	// Resolved against the old medium, must be dropped.
	assert.False(t, s.SetDurationIfGeneration(gen, 180))
	assert.False(t, s.Snapshot().DurationKnown)

	assert.True(t, s.SetDurationIfGeneration(s.Generation(), 180))
	assert.True(t, s.Snapshot().DurationKnown)
}

func TestSubscribeSignalsOnChange(t *testing.T) {
	s := newTestStore()
	ch := s.Subscribe()
	defer s.Unsubscribe(ch)

	s.Play()
	select {
	case <-ch:
	default:
		t.Fatal("expected a change signal after Play")
	}
}

type panickyNotifier struct{}

func (panickyNotifier) PlaybackStateChanged(bool) { panic("boom") }
func (panickyNotifier) SessionActivated()         { panic("boom") }
func (panickyNotifier) SessionDeactivated()       { panic("boom") }

func TestNotifierPanicsAreSwallowed(t *testing.T) {
	s := NewStore(Options{Notifier: panickyNotifier{}})

	assert.NotPanics(t, func() {
		s.Play()
		s.Pause()
		s.Initialize([]Medium{{ID: "a"}}, 0)
		s.Reset()
	})
}
