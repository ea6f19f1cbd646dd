package vision

import (
	"fmt"

	"gocv.io/x/gocv"
)

// Extract finds external-boundary connected components of a binary mask and
// returns those passing the class filter, ranked by descending area.
func Extract(mask gocv.Mat, color string, spec ClassSpec) []DetectedObject {
	contours := gocv.FindContours(mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	regions := make([]region, 0, contours.Size())
	for i := 0; i < contours.Size(); i++ {
		contour := contours.At(i)
		area := gocv.ContourArea(contour)
		bounds := gocv.BoundingRect(contour)

		// Moments of the mask pixels inside the bounding box. Box-local,
		// rankRegions re-applies the offset.
		roi := mask.Region(bounds)
		m := gocv.Moments(roi, true)
		roi.Close()

		regions = append(regions, region{
			color:  color,
			area:   area,
			bounds: bounds,
			m00:    m["m00"],
			m10:    m["m10"],
			m01:    m["m01"],
		})
	}

	return rankRegions(regions, spec)
}

// detect runs segment+extract for each requested color against one class
// spec and merges the results into a single descending-area ranking.
func (s *System) detect(frame gocv.Mat, colors []string, spec ClassSpec) ([]DetectedObject, error) {
	hsv := s.preprocess(frame)
	defer hsv.Close()

	var all []DetectedObject
	for _, color := range colors {
		profile, ok := s.table[color]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownColor, color)
		}

		mask := s.maskColor(hsv, profile)
		all = append(all, Extract(mask, color, spec)...)
		mask.Close()
	}

	sortByArea(all)
	return all, nil
}

// DetectBlocks finds small colored blocks in the frame. With no colors given
// it scans the default block colors.
func (s *System) DetectBlocks(frame gocv.Mat, colors ...string) ([]DetectedObject, error) {
	if len(colors) == 0 {
		colors = DefaultBlockColors
	}
	return s.detect(frame, colors, s.blockSpec)
}

// DetectSheets finds vertical target sheets in the frame. With no colors
// given it scans the default sheet colors (including the black start marker).
func (s *System) DetectSheets(frame gocv.Mat, colors ...string) ([]DetectedObject, error) {
	if len(colors) == 0 {
		colors = DefaultSheetColors
	}
	return s.detect(frame, colors, s.sheetSpec)
}

// Alignment returns the signed pixel error and steering direction for an
// object relative to this system's frame center, using the configured
// dead zone.
func (s *System) Alignment(obj DetectedObject) (int, Direction) {
	return AlignmentError(obj, s.FrameCenterX(), s.deadZonePx)
}

// Distance classifies an object's distance against the configured reference
// area.
func (s *System) Distance(obj DetectedObject) Proximity {
	return EstimateDistance(obj, s.refArea)
}
