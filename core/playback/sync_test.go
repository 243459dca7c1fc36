package playback

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend is a controllable backend. Seeks are acknowledged by moving
// the reported clock to the target, like a real element does.
type fakeBackend struct {
	mu       sync.Mutex
	ready    bool
	time     float64
	duration float64
	playing  bool
	rate     float64
	seeks    []float64
	closed   bool
}

func (b *fakeBackend) Kind() BackendKind { return BackendNativeAudio }

func (b *fakeBackend) Play() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.playing = true
}

func (b *fakeBackend) Pause() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.playing = false
}

func (b *fakeBackend) SeekTo(seconds float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.seeks = append(b.seeks, seconds)
	b.time = seconds
}

func (b *fakeBackend) SetRate(rate float64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rate = rate
	return nil
}

func (b *fakeBackend) CurrentTime() (float64, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.time, b.ready
}

func (b *fakeBackend) Duration() (float64, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.duration, b.ready && b.duration > 0
}

func (b *fakeBackend) Ready() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ready
}

func (b *fakeBackend) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
}

func (b *fakeBackend) setTime(t float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.time = t
}

func (b *fakeBackend) snapshot() fakeBackend {
	b.mu.Lock()
	defer b.mu.Unlock()
	return fakeBackend{
		ready:    b.ready,
		time:     b.time,
		duration: b.duration,
		playing:  b.playing,
		rate:     b.rate,
		seeks:    append([]float64(nil), b.seeks...),
		closed:   b.closed,
	}
}

const (
	syncTestTick = 2 * time.Millisecond
	waitFor      = time.Second
	pollEvery    = time.Millisecond
)

func startSyncTest(t *testing.T) (*Store, *SyncLoop, *fakeBackend) {
	t.Helper()
	s := newTestStore()
	l := NewSyncLoop(s, syncTestTick)
	b := &fakeBackend{ready: true, duration: 100}
	l.Attach(b)
	t.Cleanup(l.Detach)
	return s, l, b
}

func TestSyncLoopPullsDurationAndTime(t *testing.T) {
	s, _, b := startSyncTest(t)
	b.setTime(12)

	assert.Eventually(t, func() bool {
		snap := s.Snapshot()
		return snap.DurationKnown && snap.Duration == 100 && snap.CurrentTime == 12
	}, waitFor, pollEvery)
}

func TestSyncLoopPushesSeekExactlyOncePerRequest(t *testing.T) {
	s, _, b := startSyncTest(t)

	require.Eventually(t, func() bool {
		return s.Snapshot().DurationKnown
	}, waitFor, pollEvery)

	s.SeekTo(50)
	require.Eventually(t, func() bool {
		return len(b.snapshot().seeks) == 1
	}, waitFor, pollEvery)

	// Let a few reconciliations pass; the same request must not repeat.
	time.Sleep(20 * syncTestTick)
	assert.Equal(t, []float64{50}, b.snapshot().seeks)
	assert.Equal(t, 50.0, s.Snapshot().CurrentTime)
}

func TestSyncLoopPushesPlayPauseAndRate(t *testing.T) {
	s, _, b := startSyncTest(t)

	s.Play()
	assert.Eventually(t, func() bool {
		return b.snapshot().playing
	}, waitFor, pollEvery)

	s.Pause()
	assert.Eventually(t, func() bool {
		return !b.snapshot().playing
	}, waitFor, pollEvery)

	s.ChangePlaybackRate(0.75)
	assert.Eventually(t, func() bool {
		return b.snapshot().rate == 0.75
	}, waitFor, pollEvery)
}

func TestSyncLoopEnforcesLoopRegion(t *testing.T) {
	s, _, b := startSyncTest(t)

	require.Eventually(t, func() bool {
		return s.Snapshot().DurationKnown
	}, waitFor, pollEvery)

	b.setTime(20)
	require.Eventually(t, func() bool {
		return s.Snapshot().CurrentTime == 20
	}, waitFor, pollEvery)

	s.EnableLoop()
	snap := s.Snapshot()
	require.Equal(t, 20.0, snap.LoopStart)
	require.Equal(t, 25.0, snap.LoopEnd)

	// Clock crosses the loop end; the loop must pull it back to the start.
	b.setTime(25.5)
	assert.Eventually(t, func() bool {
		bs := b.snapshot()
		return len(bs.seeks) > 0 && bs.seeks[len(bs.seeks)-1] == 20
	}, waitFor, pollEvery)
	assert.Eventually(t, func() bool {
		return s.Snapshot().CurrentTime <= 20.5
	}, waitFor, pollEvery)
}

func TestSyncLoopPushesSeeksAfterStateReset(t *testing.T) {
	s, _, b := startSyncTest(t)

	require.Eventually(t, func() bool {
		return s.Snapshot().DurationKnown
	}, waitFor, pollEvery)

	s.SeekTo(30)
	require.Eventually(t, func() bool {
		return len(b.snapshot().seeks) == 1
	}, waitFor, pollEvery)

	// A state reset starts the seek counters over; seeks requested after
	// it must still reach the backend.
	s.ResetCurrentPlaybackState()
	require.Eventually(t, func() bool {
		return s.Snapshot().DurationKnown
	}, waitFor, pollEvery)

	s.SeekTo(10)
	assert.Eventually(t, func() bool {
		bs := b.snapshot()
		return len(bs.seeks) == 2 && bs.seeks[1] == 10
	}, waitFor, pollEvery)
}

func TestSyncLoopDetachStopsPushing(t *testing.T) {
	s, l, b := startSyncTest(t)

	require.Eventually(t, func() bool {
		return s.Snapshot().DurationKnown
	}, waitFor, pollEvery)

	l.Detach()
	s.Play()
	s.SeekTo(70)

	time.Sleep(20 * syncTestTick)
	bs := b.snapshot()
	assert.False(t, bs.playing)
	assert.Empty(t, bs.seeks)
}

func TestSyncLoopAttachReplacesBackend(t *testing.T) {
	s, l, b := startSyncTest(t)

	require.Eventually(t, func() bool {
		return s.Snapshot().DurationKnown
	}, waitFor, pollEvery)

	b2 := &fakeBackend{ready: true, duration: 100}
	l.Attach(b2)

	s.Play()
	assert.Eventually(t, func() bool {
		return b2.snapshot().playing
	}, waitFor, pollEvery)
	assert.False(t, b.snapshot().playing)
}

func TestSyncLoopIgnoresUnreadyBackend(t *testing.T) {
	s := newTestStore()
	l := NewSyncLoop(s, syncTestTick)
	b := &fakeBackend{ready: false, duration: 100, time: 50}
	l.Attach(b)
	t.Cleanup(l.Detach)

	time.Sleep(20 * syncTestTick)
	snap := s.Snapshot()
	assert.False(t, snap.DurationKnown)
	assert.Equal(t, 0.0, snap.CurrentTime)
}
