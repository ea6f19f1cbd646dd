package vision

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func objAt(centerX int) DetectedObject {
	return DetectedObject{Color: "red", CenterX: centerX, CenterY: 240}
}

func TestAlignmentError(t *testing.T) {
	t.Parallel()

	const frameCenter = 320
	const deadZone = 30

	tests := []struct {
		name    string
		centerX int
		wantErr int
		wantDir Direction
	}{
		{"exactly centered", 320, 0, Centered},
		{"inside dead zone right", 340, 20, Centered},
		{"inside dead zone left", 291, -29, Centered},
		{"dead zone boundary right", 350, 30, Right},
		{"dead zone boundary left", 290, -30, Left},
		{"far right", 600, 280, Right},
		{"far left", 0, -320, Left},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err, dir := AlignmentError(objAt(tt.centerX), frameCenter, deadZone)
			assert.Equal(t, tt.wantErr, err)
			assert.Equal(t, tt.wantDir, dir)
		})
	}
}

func TestAlignmentErrorSignMatchesDirection(t *testing.T) {
	t.Parallel()

	// The direction is a steering command: positive error means the object
	// is to the right of center and the robot must turn right.
	for centerX := 0; centerX <= 640; centerX += 7 {
		err, dir := AlignmentError(objAt(centerX), 320, 30)
		switch dir {
		case Right:
			assert.Greater(t, err, 0, "centerX=%d", centerX)
		case Left:
			assert.Less(t, err, 0, "centerX=%d", centerX)
		case Centered:
			assert.Less(t, abs(err), 30, "centerX=%d", centerX)
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func TestEstimateDistance(t *testing.T) {
	t.Parallel()

	const reference = 20000.0

	tests := []struct {
		name string
		area float64
		want Proximity
	}{
		{"far away", 5000, DistanceTooFar},
		{"boundary ratio 0.5 is not too far", 10000, DistanceGood},
		{"just under 0.5", 9999, DistanceTooFar},
		{"reference area itself", 20000, DistanceGood},
		{"boundary ratio 1.5 is not too close", 30000, DistanceGood},
		{"just over 1.5", 30001, DistanceTooClose},
		{"filling the frame", 100000, DistanceTooClose},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj := DetectedObject{Area: tt.area}
			assert.Equal(t, tt.want, EstimateDistance(obj, reference))
		})
	}
}

func TestDirectionAndProximityStrings(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "centered", Centered.String())
	assert.Equal(t, "left", Left.String())
	assert.Equal(t, "right", Right.String())
	assert.Equal(t, "good", DistanceGood.String())
	assert.Equal(t, "too_close", DistanceTooClose.String())
	assert.Equal(t, "too_far", DistanceTooFar.String())
}
