package vision

import (
	"errors"
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"github.com/illufluo/robot-v2/internal/config"
)

// ErrUnknownColor is returned when a requested color has no entry in the
// segmentation table. It indicates a misconfiguration, not a transient
// sensing failure, so callers should treat it as fatal.
var ErrUnknownColor = errors.New("unknown color")

// System holds the segmentation table, class specs, and frame geometry for
// one camera. It owns a small amount of OpenCV state (the morphology kernel)
// and must be closed when no longer needed.
type System struct {
	table      map[string]ColorProfile
	blockSpec  ClassSpec
	sheetSpec  ClassSpec
	frameW     int
	frameH     int
	deadZonePx int
	refArea    float64

	kernel gocv.Mat // 5x5 square structuring element for open/close
}

// NewSystem builds a detection system from tuning config. The HSV table is
// the built-in one; area/ratio filters, the dead zone, and the reference
// area come from cfg.
func NewSystem(cfg *config.Tuning) *System {
	if cfg == nil {
		cfg = config.Default()
	}
	return &System{
		table: defaultColorTable(),
		blockSpec: ClassSpec{
			MinArea:  cfg.GetBlockMinArea(),
			MaxArea:  cfg.GetBlockMaxArea(),
			MinRatio: cfg.GetBlockMinRatio(),
			MaxRatio: cfg.GetBlockMaxRatio(),
		},
		sheetSpec: ClassSpec{
			MinArea:  cfg.GetSheetMinArea(),
			MaxArea:  cfg.GetSheetMaxArea(),
			MinRatio: cfg.GetSheetMinRatio(),
			MaxRatio: cfg.GetSheetMaxRatio(),
		},
		frameW:     cfg.GetFrameWidth(),
		frameH:     cfg.GetFrameHeight(),
		deadZonePx: cfg.GetCenterDeadZonePx(),
		refArea:    cfg.GetReferenceSheetArea(),
		kernel:     gocv.GetStructuringElement(gocv.MorphRect, image.Pt(5, 5)),
	}
}

// Close releases OpenCV resources held by the system.
func (s *System) Close() error {
	return s.kernel.Close()
}

// FrameCenterX returns the horizontal optical center of the configured frame.
func (s *System) FrameCenterX() int { return s.frameW / 2 }

// BlockSpec returns the class filter used for small blocks.
func (s *System) BlockSpec() ClassSpec { return s.blockSpec }

// SheetSpec returns the class filter used for target sheets.
func (s *System) SheetSpec() ClassSpec { return s.sheetSpec }

// HasColor reports whether the named color is configured.
func (s *System) HasColor(color string) bool {
	_, ok := s.table[color]
	return ok
}

// CheckColors verifies every named color is configured. Intended for startup
// validation so an unknown color aborts before the control loop runs.
func (s *System) CheckColors(colors ...string) error {
	for _, c := range colors {
		if !s.HasColor(c) {
			return fmt.Errorf("%w: %q", ErrUnknownColor, c)
		}
	}
	return nil
}

// preprocess blurs the BGR frame to suppress sensor noise and converts it to
// HSV. The caller owns the returned Mat.
func (s *System) preprocess(frame gocv.Mat) gocv.Mat {
	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(frame, &blurred, image.Pt(5, 5), 0, 0, gocv.BorderDefault)

	hsv := gocv.NewMat()
	gocv.CvtColor(blurred, &hsv, gocv.ColorBGRToHSV)
	return hsv
}

// maskColor produces the binary mask of pixels within any of the color's HSV
// ranges, then applies one round of morphological opening and closing to
// strip speckle noise and fill small gaps. The caller owns the returned Mat.
func (s *System) maskColor(hsv gocv.Mat, profile ColorProfile) gocv.Mat {
	var mask gocv.Mat
	for i, r := range profile.Ranges {
		lower := gocv.NewScalar(r.Lower[0], r.Lower[1], r.Lower[2], 0)
		upper := gocv.NewScalar(r.Upper[0], r.Upper[1], r.Upper[2], 0)

		if i == 0 {
			mask = gocv.NewMat()
			gocv.InRangeWithScalar(hsv, lower, upper, &mask)
			continue
		}

		part := gocv.NewMat()
		gocv.InRangeWithScalar(hsv, lower, upper, &part)
		gocv.BitwiseOr(mask, part, &mask)
		part.Close()
	}

	gocv.MorphologyEx(mask, &mask, gocv.MorphOpen, s.kernel)
	gocv.MorphologyEx(mask, &mask, gocv.MorphClose, s.kernel)
	return mask
}

// Segment converts a BGR frame into the binary mask for one color. It fails
// only if the color is unconfigured. The caller owns the returned Mat.
func (s *System) Segment(frame gocv.Mat, color string) (gocv.Mat, error) {
	profile, ok := s.table[color]
	if !ok {
		return gocv.Mat{}, fmt.Errorf("%w: %q", ErrUnknownColor, color)
	}

	hsv := s.preprocess(frame)
	defer hsv.Close()

	return s.maskColor(hsv, profile), nil
}
