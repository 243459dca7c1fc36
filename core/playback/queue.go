package playback

import "StageFM/logger"

// Media queue actions. Switching the active medium always resets the
// transient playback state and the loop region; nothing of the previous
// medium's transport state may leak into the next one.

// Initialize loads the queue and selects the start index. An invalid start
// index is logged and ignored.
func (s *Store) Initialize(items []Medium, startIdx int) {
	s.mu.Lock()
	if len(items) == 0 || startIdx < 0 || startIdx >= len(items) {
		logger.Warn("invalid queue initialization",
			logger.Int("startIdx", startIdx), logger.Int("items", len(items)))
		s.mu.Unlock()
		return
	}
	s.items = append([]Medium(nil), items...)
	s.currIdx = startIdx
	s.initialized = true
	s.generation++
	s.resetCurrentPlaybackStateLocked()
	s.resetLoopLocked()
	s.notifyChangedLocked()
	s.mu.Unlock()
	s.notifySession(func(n SessionNotifier) { n.SessionActivated() })
}

// SwitchTo switches to the medium at idx. No-op for out-of-range indices.
func (s *Store) SwitchTo(idx int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized || idx < 0 || idx >= len(s.items) {
		return
	}
	s.switchToLocked(idx)
}

func (s *Store) switchToLocked(idx int) {
	s.currIdx = idx
	s.generation++
	s.resetCurrentPlaybackStateLocked()
	s.resetLoopLocked()
	s.notifyChangedLocked()
}

// Next switches to the next queue item. No-op at the end of the queue.
func (s *Store) Next() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized || s.currIdx+1 >= len(s.items) {
		return
	}
	s.switchToLocked(s.currIdx + 1)
}

// Previous switches to the previous queue item when pressed close to the
// start of the medium; further in, it restarts the current medium instead.
// Total no-op at the head of the queue, there is nothing to go back to.
func (s *Store) Previous() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized || s.currIdx-1 < 0 {
		return
	}
	if s.currentTime > previousRestartThreshold {
		if !s.durationKnown {
			return
		}
		s.requestSeekLocked(0)
		s.notifyChangedLocked()
		return
	}
	s.switchToLocked(s.currIdx - 1)
}

// Reset clears the queue and all playback state.
func (s *Store) Reset() {
	s.mu.Lock()
	s.items = nil
	s.currIdx = -1
	s.initialized = false
	s.generation++
	s.resetCurrentPlaybackStateLocked()
	s.resetLoopLocked()
	s.notifyChangedLocked()
	s.mu.Unlock()
	s.notifySession(func(n SessionNotifier) { n.SessionDeactivated() })
}

// CurrentMedium returns the active queue item, or false if the queue is
// not initialized.
func (s *Store) CurrentMedium() (Medium, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized || s.currIdx < 0 || s.currIdx >= len(s.items) {
		return Medium{}, false
	}
	return s.items[s.currIdx], true
}
