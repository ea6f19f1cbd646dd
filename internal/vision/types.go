// Package vision provides color-based detection of small blocks and target
// sheets for the block picking robot.
//
// Detection is a fixed pipeline: blur, HSV conversion, per-color range
// masking with morphological cleanup, then contour extraction filtered by a
// per-class area and aspect-ratio spec. Results are ranked by descending
// area; area stands in for distance since the robot has no depth sensing.
package vision

import "image"

// DetectedObject is one segmented region in one frame. Objects are discarded
// every frame; there is no cross-frame identity or tracking.
type DetectedObject struct {
	Color       string          // color label the region was segmented under
	CenterX     int             // centroid X in pixel coordinates
	CenterY     int             // centroid Y in pixel coordinates
	Area        float64         // contour area in pixels
	Bounds      image.Rectangle // bounding box
	AspectRatio float64         // bounding box width / height
}

// HSVRange is one inclusive lower/upper bound pair in HSV space
// (H 0-180, S 0-255, V 0-255, OpenCV convention).
type HSVRange struct {
	Lower [3]float64
	Upper [3]float64
}

// ColorProfile is a named color with one or more disjoint HSV ranges. Red
// needs two ranges because hue wraps at the ends of the axis.
type ColorProfile struct {
	Name   string
	Ranges []HSVRange
}

// ClassSpec is the area and aspect-ratio filter distinguishing one object
// class (small block vs. target sheet) in a mask.
type ClassSpec struct {
	MinArea  float64
	MaxArea  float64
	MinRatio float64 // minimum width/height
	MaxRatio float64 // maximum width/height
}

// Contains reports whether an object with the given area and aspect ratio
// passes the class filter.
func (c ClassSpec) Contains(area, ratio float64) bool {
	if area < c.MinArea || area > c.MaxArea {
		return false
	}
	if ratio < c.MinRatio || ratio > c.MaxRatio {
		return false
	}
	return true
}
