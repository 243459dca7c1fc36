package playback

import (
	"math"
	"sync"
	"time"

	"StageFM/logger"
)

const (
	// DefaultSyncTick is the reconciliation interval. The loop also wakes
	// on store changes, the tick is the upper bound on convergence latency.
	DefaultSyncTick = 50 * time.Millisecond

	// seekAckWindow is how close the backend-reported time has to be to a
	// pending seek target to count as applied.
	seekAckWindow = 0.35

	// seekAckTimeoutTicks gives up waiting for a seek acknowledgement after
	// this many reconciliations and resumes trusting the backend clock.
	seekAckTimeoutTicks = 20
)

// SyncLoop reconciles the store with the active media backend. It runs a
// single goroutine that wakes on a fixed tick and on store changes, pulls
// time and duration from the backend, enforces the loop region, and pushes
// diverging play/pause, seek and rate intents down.
type SyncLoop struct {
	store *Store
	tick  time.Duration

	mu      sync.Mutex
	backend Backend
	stop    chan struct{}
	done    chan struct{}
}

// NewSyncLoop creates a loop for the store. A non-positive tick falls back
// to DefaultSyncTick.
func NewSyncLoop(store *Store, tick time.Duration) *SyncLoop {
	if tick <= 0 {
		tick = DefaultSyncTick
	}
	return &SyncLoop{store: store, tick: tick}
}

// Attach starts reconciling against the given backend, replacing any
// previously attached one. The previous loop goroutine is fully stopped
// before the new one starts; no tick ever sees a stale backend.
func (l *SyncLoop) Attach(b Backend) {
	l.Detach()
	l.mu.Lock()
	defer l.mu.Unlock()
	l.backend = b
	l.stop = make(chan struct{})
	l.done = make(chan struct{})
	go l.run(b, l.stop, l.done)
	logger.Debug("sync loop attached", logger.String("backend", string(b.Kind())))
}

// Detach stops reconciling and waits for the loop goroutine to exit.
// Safe to call when nothing is attached.
func (l *SyncLoop) Detach() {
	l.mu.Lock()
	stop, done := l.stop, l.done
	l.backend = nil
	l.stop = nil
	l.done = nil
	l.mu.Unlock()
	if stop == nil {
		return
	}
	close(stop)
	<-done
}

// applied tracks what the loop has already pushed to the backend, so
// intents are issued once per change rather than every tick.
type applied struct {
	playing     bool
	playingSet  bool
	rate        float64
	rateSet     bool
	seekGen     uint64
	seekTarget  float64
	seekPending bool
	seekTicks   int
	generation  uint64
}

func (l *SyncLoop) run(b Backend, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	changed := l.store.Subscribe()
	defer l.store.Unsubscribe(changed)

	ticker := time.NewTicker(l.tick)
	defer ticker.Stop()

	var ap applied
	ap.generation = l.store.Generation()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		case <-changed:
		}
		l.reconcile(b, &ap)
	}
}

func (l *SyncLoop) reconcile(b Backend, ap *applied) {
	snap := l.store.Snapshot()

	// A medium switch invalidates everything previously pushed.
	if snap.Generation != ap.generation {
		*ap = applied{generation: snap.Generation}
	}

	if !b.Ready() {
		return
	}

	// Pull duration before anything else; most actions are gated on it.
	if !snap.DurationKnown {
		if d, ok := b.Duration(); ok {
			if l.store.SetDurationIfGeneration(snap.Generation, d) {
				snap = l.store.Snapshot()
			}
		}
	}

	// Push a pending seek intent exactly once per generation bump.
	if snap.SeekGeneration > ap.seekGen {
		b.SeekTo(snap.SeekTime)
		ap.seekGen = snap.SeekGeneration
		ap.seekTarget = snap.SeekTime
		ap.seekPending = true
		ap.seekTicks = 0
	}

	// Pull the backend clock. While a seek is in flight the backend still
	// reports the pre-seek position, which must not flow back into the
	// store, so hold off until the target shows up or we time out.
	if t, ok := b.CurrentTime(); ok {
		if ap.seekPending {
			ap.seekTicks++
			if math.Abs(t-ap.seekTarget) <= seekAckWindow || ap.seekTicks > seekAckTimeoutTicks {
				ap.seekPending = false
			}
		}
		if !ap.seekPending {
			l.store.SetCurrentTime(t)
			snap = l.store.Snapshot()
		}
	}

	// Loop enforcement, strictly after the time pull so the decision is
	// based on the freshest observation.
	if snap.LoopActive && snap.DurationKnown && snap.CurrentTime >= snap.LoopEnd {
		l.store.SeekTo(snap.LoopStart)
		snap = l.store.Snapshot()
		if snap.SeekGeneration > ap.seekGen {
			b.SeekTo(snap.SeekTime)
			ap.seekGen = snap.SeekGeneration
			ap.seekTarget = snap.SeekTime
			ap.seekPending = true
			ap.seekTicks = 0
		}
	}

	// Push play/pause on divergence from what was last issued.
	if !ap.playingSet || snap.Playing != ap.playing {
		if snap.Playing {
			b.Play()
		} else {
			b.Pause()
		}
		ap.playing = snap.Playing
		ap.playingSet = true
	}

	// Push rate changes; a rejection is logged and retried on the next
	// divergence, never escalated.
	if !ap.rateSet || snap.PlaybackRate != ap.rate {
		if err := b.SetRate(snap.PlaybackRate); err != nil {
			logger.Debug("backend rejected rate change",
				logger.Float64("rate", snap.PlaybackRate), logger.ErrorField(err))
		}
		ap.rate = snap.PlaybackRate
		ap.rateSet = true
	}
}
