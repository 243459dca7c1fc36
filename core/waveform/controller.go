// Package waveform manages the lifecycle of the waveform view: creating
// and destroying the underlying renderer, projecting the loop region onto
// it and keeping zoom and layout bookkeeping consistent.
package waveform

import (
	"errors"
	"sync"

	"StageFM/logger"
)

// State is the controller lifecycle state.
type State int

const (
	StateUninitialized State = iota
	StateInitializing
	StateReady
	StateReinitializing
	StateDestroyed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateReinitializing:
		return "reinitializing"
	case StateDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// ErrNoAudioSource is returned when a view is requested without any of the
// possible audio sources.
var ErrNoAudioSource = errors.New("waveform: no audio source provided")

// ErrDestroyed is returned from operations on a destroyed controller.
var ErrDestroyed = errors.New("waveform: controller destroyed")

// Source carries the data the renderer can draw from. Exactly one of the
// three fields is used; when several are set, precomputed waveform data
// wins over a decoded buffer, which wins over a live audio context.
type Source struct {
	// WaveformData is precomputed peak data, typically fetched from
	// object storage.
	WaveformData []byte
	// AudioBuffer is a decoded audio buffer the renderer can scan itself.
	AudioBuffer []float32
	// AudioContext references a live audio graph node by id.
	AudioContext string
}

func (s Source) empty() bool {
	return len(s.WaveformData) == 0 && len(s.AudioBuffer) == 0 && s.AudioContext == ""
}

// SegmentStyle tells the renderer how to draw one time range.
type SegmentStyle int

const (
	// SegmentDimmed renders the range outside the loop region.
	SegmentDimmed SegmentStyle = iota
	// SegmentEmphasized renders the active loop region.
	SegmentEmphasized
)

// Segment is one styled time range projected onto the waveform.
type Segment struct {
	Start float64
	End   float64
	Style SegmentStyle
}

// Renderer is the drawing surface the controller drives. Implementations
// wrap an actual canvas library; tests substitute fakes.
type Renderer interface {
	SetSegments(segments []Segment)
	SetZoom(pixelsPerSecond float64)
	SetHeight(px int)
	Destroy()
}

// RendererFactory creates a renderer for a source. It is called from the
// controller with no locks held; it may block on decoding.
type RendererFactory func(src Source, height int) (Renderer, error)

const (
	baseZoomPPS  = 4.0
	maxZoomLevel = 6
)

// Controller owns at most one live renderer at a time. Switching the
// source always destroys the previous renderer before the replacement is
// created; two renderers never coexist.
type Controller struct {
	mu      sync.Mutex
	factory RendererFactory

	state    State
	renderer Renderer
	source   Source
	height   int
	duration float64

	zoomLevel int

	loopActive bool
	loopStart  float64
	loopEnd    float64
}

// NewController creates an uninitialized controller.
func NewController(factory RendererFactory, height int) *Controller {
	if height <= 0 {
		height = 128
	}
	return &Controller{factory: factory, height: height}
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SetSource initializes the view for a source, or reinitializes it when a
// view already exists. A source with no usable audio data is an error and
// leaves any existing view untouched.
func (c *Controller) SetSource(src Source, duration float64) error {
	c.mu.Lock()
	if c.state == StateDestroyed {
		c.mu.Unlock()
		return ErrDestroyed
	}
	if src.empty() {
		c.mu.Unlock()
		return ErrNoAudioSource
	}

	// Tear the previous renderer down before creating the next one.
	prev := c.renderer
	c.renderer = nil
	if prev != nil {
		c.state = StateReinitializing
	} else {
		c.state = StateInitializing
	}
	c.source = src
	c.duration = duration
	c.zoomLevel = 0
	factory := c.factory
	height := c.height
	c.mu.Unlock()

	if prev != nil {
		prev.Destroy()
	}

	r, err := factory(src, height)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateDestroyed {
		if r != nil {
			r.Destroy()
		}
		return ErrDestroyed
	}
	if err != nil {
		c.state = StateUninitialized
		logger.Warn("waveform renderer creation failed", logger.ErrorField(err))
		return err
	}
	c.renderer = r
	c.state = StateReady
	c.applyLocked()
	return nil
}

// SetLoopRegion projects the loop region onto the waveform. An inactive
// region clears the emphasis.
func (c *Controller) SetLoopRegion(active bool, start, end float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loopActive = active
	c.loopStart = start
	c.loopEnd = end
	if c.state == StateReady {
		c.applyLocked()
	}
}

// CanZoomIn reports whether another zoom step is available.
func (c *Controller) CanZoomIn() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == StateReady && c.zoomLevel < maxZoomLevel
}

// CanZoomOut reports whether the view can zoom back out.
func (c *Controller) CanZoomOut() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == StateReady && c.zoomLevel > 0
}

// ZoomIn doubles the horizontal resolution, up to the maximum level.
func (c *Controller) ZoomIn() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateReady || c.zoomLevel >= maxZoomLevel {
		return
	}
	c.zoomLevel++
	c.renderer.SetZoom(c.zoomPPSLocked())
}

// ZoomOut halves the horizontal resolution, down to level zero.
func (c *Controller) ZoomOut() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateReady || c.zoomLevel <= 0 {
		return
	}
	c.zoomLevel--
	c.renderer.SetZoom(c.zoomPPSLocked())
}

// ZoomLevel returns the current zoom level.
func (c *Controller) ZoomLevel() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.zoomLevel
}

// SetViewHeight re-lays the view out for a new height. No-op without a
// live renderer.
func (c *Controller) SetViewHeight(px int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if px <= 0 || c.state == StateDestroyed {
		return
	}
	c.height = px
	if c.state == StateReady {
		c.renderer.SetHeight(px)
	}
}

// Destroy tears the view down permanently. Idempotent.
func (c *Controller) Destroy() {
	c.mu.Lock()
	if c.state == StateDestroyed {
		c.mu.Unlock()
		return
	}
	r := c.renderer
	c.renderer = nil
	c.state = StateDestroyed
	c.mu.Unlock()
	if r != nil {
		r.Destroy()
	}
}

func (c *Controller) zoomPPSLocked() float64 {
	pps := baseZoomPPS
	for i := 0; i < c.zoomLevel; i++ {
		pps *= 2
	}
	return pps
}

// applyLocked pushes segments and zoom to the renderer. Caller must hold
// c.mu with state == StateReady.
func (c *Controller) applyLocked() {
	c.renderer.SetZoom(c.zoomPPSLocked())
	c.renderer.SetSegments(c.segmentsLocked())
}

// segmentsLocked computes the styled ranges covering [0, duration].
func (c *Controller) segmentsLocked() []Segment {
	if !c.loopActive || c.loopEnd <= c.loopStart {
		return []Segment{{Start: 0, End: c.duration, Style: SegmentDimmed}}
	}
	start := c.loopStart
	end := c.loopEnd
	if start < 0 {
		start = 0
	}
	if c.duration > 0 && end > c.duration {
		end = c.duration
	}
	segments := make([]Segment, 0, 3)
	if start > 0 {
		segments = append(segments, Segment{Start: 0, End: start, Style: SegmentDimmed})
	}
	segments = append(segments, Segment{Start: start, End: end, Style: SegmentEmphasized})
	if c.duration > end {
		segments = append(segments, Segment{Start: end, End: c.duration, Style: SegmentDimmed})
	}
	return segments
}
