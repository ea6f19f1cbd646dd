package vision

// Default color names understood by the robot. Blocks come in red, yellow,
// and blue; sheets additionally include black (the start marker).
var (
	DefaultBlockColors = []string{"red", "yellow", "blue"}
	DefaultSheetColors = []string{"black", "red", "yellow", "blue"}
)

// defaultColorTable returns the built-in HSV segmentation table. Ranges were
// tuned under the robot's workshop lighting; black keys off low V only.
func defaultColorTable() map[string]ColorProfile {
	return map[string]ColorProfile{
		"red": {
			Name: "red",
			// Red wraps around the hue axis, so it needs both end ranges.
			Ranges: []HSVRange{
				{Lower: [3]float64{0, 100, 100}, Upper: [3]float64{10, 255, 255}},
				{Lower: [3]float64{160, 100, 100}, Upper: [3]float64{180, 255, 255}},
			},
		},
		"yellow": {
			Name:   "yellow",
			Ranges: []HSVRange{{Lower: [3]float64{20, 100, 100}, Upper: [3]float64{35, 255, 255}}},
		},
		"blue": {
			Name:   "blue",
			Ranges: []HSVRange{{Lower: [3]float64{100, 100, 80}, Upper: [3]float64{130, 255, 255}}},
		},
		"black": {
			Name:   "black",
			Ranges: []HSVRange{{Lower: [3]float64{0, 0, 0}, Upper: [3]float64{180, 255, 50}}},
		},
	}
}
