package vision

// Direction is the steering command implied by an object's horizontal offset
// from the frame center. It is a coarse hint: the controller applies its own
// (wider) tolerance before acting on it.
type Direction int

const (
	Centered Direction = iota
	Left
	Right
)

func (d Direction) String() string {
	switch d {
	case Centered:
		return "centered"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// Proximity is the relative distance class estimated from an object's
// apparent area. Area is the only distance proxy available.
type Proximity int

const (
	DistanceGood Proximity = iota
	DistanceTooClose
	DistanceTooFar
)

func (p Proximity) String() string {
	switch p {
	case DistanceGood:
		return "good"
	case DistanceTooClose:
		return "too_close"
	case DistanceTooFar:
		return "too_far"
	default:
		return "unknown"
	}
}

// Distance ratio boundaries. Both comparisons are strict: an object exactly
// 1.5x the reference area is not too close, exactly 0.5x is not too far.
const (
	tooCloseRatio = 1.5
	tooFarRatio   = 0.5
)

// AlignmentError returns the signed horizontal pixel offset of the object's
// centroid from frameCenterX and the steering direction it implies. Offsets
// smaller in magnitude than deadZonePx report Centered.
func AlignmentError(obj DetectedObject, frameCenterX, deadZonePx int) (int, Direction) {
	err := obj.CenterX - frameCenterX

	abs := err
	if abs < 0 {
		abs = -abs
	}

	switch {
	case abs < deadZonePx:
		return err, Centered
	case err > 0:
		return err, Right
	default:
		return err, Left
	}
}

// EstimateDistance classifies the distance to an object by comparing its area
// against referenceArea, the apparent area of a target at grabbing distance.
func EstimateDistance(obj DetectedObject, referenceArea float64) Proximity {
	ratio := obj.Area / referenceArea

	switch {
	case ratio > tooCloseRatio:
		return DistanceTooClose
	case ratio < tooFarRatio:
		return DistanceTooFar
	default:
		return DistanceGood
	}
}
