package vision

import "github.com/illufluo/robot-v2/internal/monitoring"

// Observer binds a frame source to a detection system, giving the controller
// a one-call-per-tick view of the scene. Each call captures a fresh frame;
// ok=false means the capture failed and the tick should be skipped.
type Observer struct {
	sys *System
	src FrameSource

	stats *Aggregate
}

// NewObserver creates an observer over a frame source. The observer does not
// take ownership of either component.
func NewObserver(sys *System, src FrameSource) *Observer {
	return &Observer{sys: sys, src: src, stats: NewAggregate()}
}

// Blocks captures a frame and detects small blocks in the default block
// colors.
func (o *Observer) Blocks() ([]DetectedObject, bool) {
	frame, ok := o.src.Capture()
	if !ok {
		return nil, false
	}
	blocks, err := o.sys.DetectBlocks(frame)
	if err != nil {
		// Colors are validated at startup; an error here is a bug.
		monitoring.Logf("vision: block detection failed: %v", err)
		return nil, false
	}
	o.stats.Add(blocks...)
	return blocks, true
}

// Sheets captures a frame and detects target sheets, restricted to the given
// colors (all default sheet colors if none are given).
func (o *Observer) Sheets(colors ...string) ([]DetectedObject, bool) {
	frame, ok := o.src.Capture()
	if !ok {
		return nil, false
	}
	sheets, err := o.sys.DetectSheets(frame, colors...)
	if err != nil {
		monitoring.Logf("vision: sheet detection failed: %v", err)
		return nil, false
	}
	o.stats.Add(sheets...)
	return sheets, true
}

// FrameCenterX returns the horizontal optical center of the frame.
func (o *Observer) FrameCenterX() int { return o.sys.FrameCenterX() }

// Stats returns the running detection aggregate for this observer.
func (o *Observer) Stats() *Aggregate { return o.stats }
