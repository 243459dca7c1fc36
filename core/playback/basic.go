package playback

// Basic transport actions. Each one is a pure state transition on the
// store; the synchronization loop turns the resulting intent into backend
// calls. Actions that cannot apply (e.g. seeking while the duration is
// still unknown) are no-ops.

// Play marks the player as playing. With an active loop region playback
// resumes from the loop start.
func (s *Store) Play() {
	s.mu.Lock()
	if s.loopActive {
		s.requestSeekLocked(s.loopStart)
	}
	s.playing = true
	s.notifyChangedLocked()
	s.mu.Unlock()
	s.notifySession(func(n SessionNotifier) { n.PlaybackStateChanged(true) })
}

// Pause marks the player as paused.
func (s *Store) Pause() {
	s.mu.Lock()
	s.playing = false
	s.notifyChangedLocked()
	s.mu.Unlock()
	s.notifySession(func(n SessionNotifier) { n.PlaybackStateChanged(false) })
}

// TogglePlayPause flips between playing and paused.
func (s *Store) TogglePlayPause() {
	s.mu.Lock()
	playing := s.playing
	s.mu.Unlock()
	if playing {
		s.Pause()
	} else {
		s.Play()
	}
}

// SeekTo requests a seek to the given time, clamped into [0, duration].
// No-op while the duration is unknown.
func (s *Store) SeekTo(t float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.durationKnown {
		return
	}
	s.requestSeekLocked(clamp(t, 0, s.duration))
	s.notifyChangedLocked()
}

// SeekForward requests a seek amount seconds ahead of the current time.
func (s *Store) SeekForward(amount float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.durationKnown {
		return
	}
	s.requestSeekLocked(clamp(s.currentTime+amount, 0, s.duration))
	s.notifyChangedLocked()
}

// SeekBackward requests a seek amount seconds behind the current time.
func (s *Store) SeekBackward(amount float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.durationKnown {
		return
	}
	s.requestSeekLocked(clamp(s.currentTime-amount, 0, s.duration))
	s.notifyChangedLocked()
}

// JumpToStart seeks back to the beginning of the medium.
func (s *Store) JumpToStart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.durationKnown {
		return
	}
	s.requestSeekLocked(0)
	s.notifyChangedLocked()
}

// requestSeekLocked records a seek intent. Every request bumps the seek
// generation so that two seeks to the identical time are still two
// distinct, observable requests. Caller must hold s.mu.
func (s *Store) requestSeekLocked(t float64) {
	s.seekTime = t
	s.seekGen++
}

// ChangePlaybackRate sets the playback rate, clamped into the configured
// rate bounds.
func (s *Store) ChangePlaybackRate(rate float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playbackRate = clamp(rate, s.minRate, s.maxRate)
	s.notifyChangedLocked()
}

// IncreasePlaybackRate raises the rate by amount, up to the maximum.
func (s *Store) IncreasePlaybackRate(amount float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playbackRate = clamp(s.playbackRate+amount, s.minRate, s.maxRate)
	s.notifyChangedLocked()
}

// DecreasePlaybackRate lowers the rate by amount, down to the minimum.
func (s *Store) DecreasePlaybackRate(amount float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playbackRate = clamp(s.playbackRate-amount, s.minRate, s.maxRate)
	s.notifyChangedLocked()
}

// SetDuration records the duration reported by the active backend.
// Write path for the synchronization loop only.
func (s *Store) SetDuration(d float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d <= 0 {
		return
	}
	s.duration = d
	s.durationKnown = true
	s.notifyChangedLocked()
}

// SetCurrentTime records the playback position reported by the active
// backend. Write path for the synchronization loop only; this is the only
// way currentTime advances during playback.
func (s *Store) SetCurrentTime(t float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentTime = t
	s.notifyChangedLocked()
}

// SetDurationIfGeneration records a duration only if the queue generation
// still matches; used to discard results that resolved after a medium
// switch.
func (s *Store) SetDurationIfGeneration(gen uint64, d float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation || d <= 0 {
		return false
	}
	s.duration = d
	s.durationKnown = true
	s.notifyChangedLocked()
	return true
}

// ResetCurrentPlaybackState restores all transient per-medium fields to
// their initial values, like a medium switch does. The queue generation is
// bumped too so that stale async results and intents an attached backend
// already applied are both invalidated; without the bump the sync loop
// would keep comparing against the pre-reset seek generation and drop
// subsequent seek requests.
func (s *Store) ResetCurrentPlaybackState() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.resetCurrentPlaybackStateLocked()
	s.notifyChangedLocked()
}

func (s *Store) resetCurrentPlaybackStateLocked() {
	s.playing = false
	s.currentTime = 0
	s.playbackRate = 1
	s.duration = 0
	s.durationKnown = false
	s.seekTime = 0
	s.seekGen = 0
}
