package vision

import (
	"fmt"

	"gocv.io/x/gocv"

	"github.com/illufluo/robot-v2/internal/monitoring"
)

// FrameSource supplies BGR frames to the detection system. Capture reports
// ok=false on a transient failure; callers skip the tick and retry.
type FrameSource interface {
	Capture() (gocv.Mat, bool)
	Close() error
}

// Camera is a FrameSource backed by a USB camera via OpenCV.
type Camera struct {
	cap   *gocv.VideoCapture
	frame gocv.Mat
}

// warmupFrames is the number of frames discarded after opening the device.
// USB cameras return under-exposed garbage for the first few reads.
const warmupFrames = 5

// OpenCamera opens the camera at the given device index and requests the
// given resolution. Failure to open is fatal to startup.
func OpenCamera(index, width, height int) (*Camera, error) {
	cap, err := gocv.OpenVideoCapture(index)
	if err != nil {
		return nil, fmt.Errorf("open camera %d: %w", index, err)
	}
	if !cap.IsOpened() {
		cap.Close()
		return nil, fmt.Errorf("camera %d not opened", index)
	}

	cap.Set(gocv.VideoCaptureFrameWidth, float64(width))
	cap.Set(gocv.VideoCaptureFrameHeight, float64(height))

	c := &Camera{cap: cap, frame: gocv.NewMat()}
	for i := 0; i < warmupFrames; i++ {
		c.cap.Read(&c.frame)
	}

	monitoring.Logf("camera %d initialized at %dx%d", index, width, height)
	return c, nil
}

// Capture reads one frame. The returned Mat is owned by the camera and valid
// only until the next Capture call. ok=false signals a transient failure.
func (c *Camera) Capture() (gocv.Mat, bool) {
	if !c.cap.Read(&c.frame) || c.frame.Empty() {
		monitoring.Logf("camera: failed to capture frame")
		return gocv.Mat{}, false
	}
	return c.frame, true
}

// Close releases the camera device.
func (c *Camera) Close() error {
	c.frame.Close()
	return c.cap.Close()
}
