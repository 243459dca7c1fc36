package playback

// BackendKind tags the technology actually producing audio output.
type BackendKind string

const (
	// BackendNativeAudio plays through an HTML audio element.
	BackendNativeAudio BackendKind = "audio"
	// BackendDecodedBuffer plays fully decoded samples through Web Audio.
	BackendDecodedBuffer BackendKind = "buffer"
	// BackendEmbeddedVideo plays through an embedded video player iframe.
	BackendEmbeddedVideo BackendKind = "video"
)

// Backend is the uniform capability contract every media backend adapter
// exposes to the synchronization loop. Adapters absorb backend-specific
// readiness quirks: commands issued before the backend can accept them are
// either dropped or deferred (see the embedded-video adapter), never
// propagated as panics. Calls against a closed adapter are no-ops.
type Backend interface {
	Kind() BackendKind

	Play()
	Pause()
	SeekTo(seconds float64)
	// SetRate may be rejected by the underlying player in some states;
	// callers tolerate the error and must not abort playback over it.
	SetRate(rate float64) error

	// CurrentTime and Duration report false until the backend is ready.
	CurrentTime() (float64, bool)
	Duration() (float64, bool)

	// Ready reports whether the backend can execute commands immediately.
	Ready() bool

	// Close tears the adapter down. Subsequent calls are no-ops.
	Close()
}
