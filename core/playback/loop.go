package playback

// Loop region actions. The loop region is a first-class player mode: while
// active, the synchronization loop confines playback to [loopStart, loopEnd].

// EnableLoop activates loop mode. A region that was never positioned
// (start == end == 0) is seeded from the current time; a previously used
// region is reactivated unchanged.
func (s *Store) EnableLoop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.durationKnown {
		return
	}
	if s.loopStart == 0 && s.loopEnd == 0 {
		s.loopStart = s.currentTime
		s.loopEnd = clamp(s.currentTime+loopSeedLength, 0, s.duration)
		s.loopZoomLevel = 0
		s.loopViewLower = 0
		s.loopViewUpper = s.duration
	}
	s.loopActive = true
	s.notifyChangedLocked()
}

// DisableLoop deactivates loop mode, keeping the region for reactivation.
func (s *Store) DisableLoop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loopActive = false
	s.notifyChangedLocked()
}

// ToggleLoop flips loop mode.
func (s *Store) ToggleLoop() {
	s.mu.Lock()
	active := s.loopActive
	s.mu.Unlock()
	if active {
		s.DisableLoop()
	} else {
		s.EnableLoop()
	}
}

// ResetLoop deactivates loop mode and forgets the region.
func (s *Store) ResetLoop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLoopLocked()
	s.notifyChangedLocked()
}

func (s *Store) resetLoopLocked() {
	s.loopActive = false
	s.loopStart = 0
	s.loopEnd = 0
	s.loopZoomLevel = 0
	s.loopViewLower = 0
	s.loopViewUpper = 0
}

// MoveLoopStart moves the region start, clamped into [0, loopEnd], and
// seeks there so the change is audible immediately.
func (s *Store) MoveLoopStart(t float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loopStart = clamp(t, 0, s.loopEnd)
	if s.durationKnown {
		s.requestSeekLocked(clamp(s.loopStart, 0, s.duration))
	}
	s.notifyChangedLocked()
}

// MoveLoopEnd moves the region end, clamped into [loopStart, duration].
func (s *Store) MoveLoopEnd(t float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	upper := s.duration
	if !s.durationKnown {
		upper = s.currentTime
	}
	s.loopEnd = clamp(t, s.loopStart, upper)
	s.notifyChangedLocked()
}

// SetLoopStartToCurrent moves the region start to the current time.
func (s *Store) SetLoopStartToCurrent() {
	s.mu.Lock()
	t := s.currentTime
	end := s.loopEnd
	s.mu.Unlock()
	if t > end {
		return
	}
	s.MoveLoopStart(t)
}

// SetLoopEndToCurrent moves the region end to the current time.
func (s *Store) SetLoopEndToCurrent() {
	s.mu.Lock()
	t := s.currentTime
	s.mu.Unlock()
	s.MoveLoopEnd(t)
}

// IncreaseLoopZoom zooms the loop view in around the current time.
func (s *Store) IncreaseLoopZoom() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loopZoomLevel++
	t := s.currentTime
	s.loopViewLower = s.loopViewLower + (t-s.loopViewLower)/2
	s.loopViewUpper = s.loopViewUpper - (s.loopViewUpper-t)/2
	s.notifyChangedLocked()
}

// DecreaseLoopZoom zooms the loop view out around the current time.
// The zoom level never drops below zero.
func (s *Store) DecreaseLoopZoom() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loopZoomLevel == 0 {
		return
	}
	s.loopZoomLevel--
	t := s.currentTime
	upper := s.duration
	if !s.durationKnown {
		upper = s.loopViewUpper
	}
	s.loopViewLower = clamp(t-(t-s.loopViewLower)*2, 0, t)
	s.loopViewUpper = clamp(t+(s.loopViewUpper-t)*2, t, upper)
	s.notifyChangedLocked()
}

// ResetLoopZoom restores the loop view to the whole medium.
func (s *Store) ResetLoopZoom() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loopZoomLevel = 0
	s.loopViewLower = 0
	if s.durationKnown {
		s.loopViewUpper = s.duration
	}
	s.notifyChangedLocked()
}
