package vision

import (
	"image"
	"sort"
)

// region is the raw measurement of one connected component before class
// filtering: its color label, contour area, bounding box, and the zeroth and
// first moments of the mask pixels inside the box (box-local coordinates).
type region struct {
	color    string
	area     float64
	bounds   image.Rectangle
	m00      float64
	m10, m01 float64
}

// rankRegions applies the class filter to raw regions and produces the final
// ranked detection list. The centroid comes from the intensity-weighted
// moments; a degenerate region with zero mass falls back to the bounding-box
// center. Ordering is by descending area — largest (closest) first — which is
// the candidate-selection policy for the whole controller.
func rankRegions(regions []region, spec ClassSpec) []DetectedObject {
	objects := make([]DetectedObject, 0, len(regions))

	for _, r := range regions {
		w := r.bounds.Dx()
		h := r.bounds.Dy()

		ratio := 0.0
		if h > 0 {
			ratio = float64(w) / float64(h)
		}

		if !spec.Contains(r.area, ratio) {
			continue
		}

		var cx, cy int
		if r.m00 != 0 {
			cx = r.bounds.Min.X + int(r.m10/r.m00)
			cy = r.bounds.Min.Y + int(r.m01/r.m00)
		} else {
			cx = r.bounds.Min.X + w/2
			cy = r.bounds.Min.Y + h/2
		}

		objects = append(objects, DetectedObject{
			Color:       r.color,
			CenterX:     cx,
			CenterY:     cy,
			Area:        r.area,
			Bounds:      r.bounds,
			AspectRatio: ratio,
		})
	}

	sortByArea(objects)
	return objects
}

// sortByArea orders detections by strictly non-increasing area. The stable
// sort keeps per-color detection order as the tie-break when areas are equal.
func sortByArea(objects []DetectedObject) {
	sort.SliceStable(objects, func(i, j int) bool {
		return objects[i].Area > objects[j].Area
	})
}
