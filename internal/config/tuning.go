// Package config loads tuning parameters for the block picking robot.
//
// All fields are pointers so a partial JSON file only overrides the values it
// names; the Get* accessors fall back to the built-in defaults for any field
// left nil. The defaults reproduce the constants the robot was field-tuned
// with, so running without a config file is always safe.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"encoding/json"
)

// Tuning represents the root configuration for robot tuning parameters.
type Tuning struct {
	// Detection class filters
	BlockMinArea   *float64 `json:"block_min_area,omitempty"`
	BlockMaxArea   *float64 `json:"block_max_area,omitempty"`
	BlockMinRatio  *float64 `json:"block_min_ratio,omitempty"`
	BlockMaxRatio  *float64 `json:"block_max_ratio,omitempty"`
	SheetMinArea   *float64 `json:"sheet_min_area,omitempty"`
	SheetMaxArea   *float64 `json:"sheet_max_area,omitempty"`
	SheetMinRatio  *float64 `json:"sheet_min_ratio,omitempty"`
	SheetMaxRatio  *float64 `json:"sheet_max_ratio,omitempty"`

	// Alignment and distance policy
	CenterDeadZonePx   *int     `json:"center_dead_zone_px,omitempty"`
	AlignTolerancePx   *int     `json:"align_tolerance_px,omitempty"`
	ReferenceSheetArea *float64 `json:"reference_sheet_area,omitempty"`

	// Search and timeout policy
	MaxSearchAttempts *int    `json:"max_search_attempts,omitempty"`
	SearchPause       *string `json:"search_pause,omitempty"`  // duration string like "2s"
	StateTimeout      *string `json:"state_timeout,omitempty"` // duration string like "30s"

	// Pulse durations
	MovePulse     *string `json:"move_pulse,omitempty"`
	TurnPulse     *string `json:"turn_pulse,omitempty"`
	SearchPulse   *string `json:"search_pulse,omitempty"`
	ApproachPulse *string `json:"approach_pulse,omitempty"`
	BackOffPulse  *string `json:"back_off_pulse,omitempty"`
	GrabWait      *string `json:"grab_wait,omitempty"`
	ReleaseWait   *string `json:"release_wait,omitempty"`
	AlignSettle   *string `json:"align_settle,omitempty"`

	// Control loop
	TickInterval  *string `json:"tick_interval,omitempty"`
	CaptureRetry  *string `json:"capture_retry,omitempty"`
	SpeedTier     *string `json:"speed_tier,omitempty"` // "30", "50", or "80"

	// Serial link to the drive board
	SerialPort *string `json:"serial_port,omitempty"`
	BaudRate   *int    `json:"baud_rate,omitempty"`

	// Camera
	CameraIndex *int `json:"camera_index,omitempty"`
	FrameWidth  *int `json:"frame_width,omitempty"`
	FrameHeight *int `json:"frame_height,omitempty"`
}

// Default returns a Tuning with all fields nil so every accessor reports its
// built-in default.
func Default() *Tuning {
	return &Tuning{}
}

// Load loads a Tuning from a JSON file. Fields omitted from the file retain
// their defaults, so partial configs are safe.
func Load(path string) (*Tuning, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks cross-field consistency of any values that were set.
func (t *Tuning) Validate() error {
	if t.BlockMinArea != nil && *t.BlockMinArea < 0 {
		return fmt.Errorf("block_min_area must be >= 0, got %v", *t.BlockMinArea)
	}
	if t.BlockMinArea != nil && t.BlockMaxArea != nil && *t.BlockMinArea > *t.BlockMaxArea {
		return fmt.Errorf("block_min_area %v exceeds block_max_area %v", *t.BlockMinArea, *t.BlockMaxArea)
	}
	if t.SheetMinArea != nil && t.SheetMaxArea != nil && *t.SheetMinArea > *t.SheetMaxArea {
		return fmt.Errorf("sheet_min_area %v exceeds sheet_max_area %v", *t.SheetMinArea, *t.SheetMaxArea)
	}
	if t.CenterDeadZonePx != nil && *t.CenterDeadZonePx < 0 {
		return fmt.Errorf("center_dead_zone_px must be >= 0, got %d", *t.CenterDeadZonePx)
	}
	if t.AlignTolerancePx != nil && *t.AlignTolerancePx < 0 {
		return fmt.Errorf("align_tolerance_px must be >= 0, got %d", *t.AlignTolerancePx)
	}
	if t.ReferenceSheetArea != nil && *t.ReferenceSheetArea <= 0 {
		return fmt.Errorf("reference_sheet_area must be > 0, got %v", *t.ReferenceSheetArea)
	}
	if t.MaxSearchAttempts != nil && *t.MaxSearchAttempts < 1 {
		return fmt.Errorf("max_search_attempts must be >= 1, got %d", *t.MaxSearchAttempts)
	}
	if t.SpeedTier != nil {
		switch *t.SpeedTier {
		case "30", "50", "80":
		default:
			return fmt.Errorf("speed_tier must be one of 30, 50, 80; got %q", *t.SpeedTier)
		}
	}
	for name, field := range map[string]*string{
		"search_pause":   t.SearchPause,
		"state_timeout":  t.StateTimeout,
		"move_pulse":     t.MovePulse,
		"turn_pulse":     t.TurnPulse,
		"search_pulse":   t.SearchPulse,
		"approach_pulse": t.ApproachPulse,
		"back_off_pulse": t.BackOffPulse,
		"grab_wait":      t.GrabWait,
		"release_wait":   t.ReleaseWait,
		"align_settle":   t.AlignSettle,
		"tick_interval":  t.TickInterval,
		"capture_retry":  t.CaptureRetry,
	} {
		if field == nil {
			continue
		}
		if _, err := time.ParseDuration(*field); err != nil {
			return fmt.Errorf("invalid %s duration %q: %w", name, *field, err)
		}
	}
	return nil
}

func (t *Tuning) floatOr(v *float64, def float64) float64 {
	if v != nil {
		return *v
	}
	return def
}

func (t *Tuning) intOr(v *int, def int) int {
	if v != nil {
		return *v
	}
	return def
}

func (t *Tuning) durationOr(v *string, def time.Duration) time.Duration {
	if v == nil {
		return def
	}
	d, err := time.ParseDuration(*v)
	if err != nil {
		return def
	}
	return d
}

// Detection class filter accessors. Defaults match the field-tuned block and
// sheet geometry: blocks are small and roughly square, sheets are large
// vertical rectangles.

func (t *Tuning) GetBlockMinArea() float64  { return t.floatOr(t.BlockMinArea, 300) }
func (t *Tuning) GetBlockMaxArea() float64  { return t.floatOr(t.BlockMaxArea, 5000) }
func (t *Tuning) GetBlockMinRatio() float64 { return t.floatOr(t.BlockMinRatio, 0.5) }
func (t *Tuning) GetBlockMaxRatio() float64 { return t.floatOr(t.BlockMaxRatio, 2.0) }
func (t *Tuning) GetSheetMinArea() float64  { return t.floatOr(t.SheetMinArea, 8000) }
func (t *Tuning) GetSheetMaxArea() float64  { return t.floatOr(t.SheetMaxArea, 100000) }
func (t *Tuning) GetSheetMinRatio() float64 { return t.floatOr(t.SheetMinRatio, 0.3) }
func (t *Tuning) GetSheetMaxRatio() float64 { return t.floatOr(t.SheetMaxRatio, 0.9) }

// Alignment and distance accessors. The dead zone is the perception-side
// "centered" label; the tolerance is the controller's authoritative go/no-go
// threshold. They are deliberately distinct knobs.

func (t *Tuning) GetCenterDeadZonePx() int       { return t.intOr(t.CenterDeadZonePx, 30) }
func (t *Tuning) GetAlignTolerancePx() int       { return t.intOr(t.AlignTolerancePx, 40) }
func (t *Tuning) GetReferenceSheetArea() float64 { return t.floatOr(t.ReferenceSheetArea, 20000) }

// Search and timeout accessors.

func (t *Tuning) GetMaxSearchAttempts() int { return t.intOr(t.MaxSearchAttempts, 20) }
func (t *Tuning) GetSearchPause() time.Duration {
	return t.durationOr(t.SearchPause, 2*time.Second)
}
func (t *Tuning) GetStateTimeout() time.Duration {
	return t.durationOr(t.StateTimeout, 30*time.Second)
}

// Pulse duration accessors.

func (t *Tuning) GetMovePulse() time.Duration     { return t.durationOr(t.MovePulse, 500*time.Millisecond) }
func (t *Tuning) GetTurnPulse() time.Duration     { return t.durationOr(t.TurnPulse, 300*time.Millisecond) }
func (t *Tuning) GetSearchPulse() time.Duration   { return t.durationOr(t.SearchPulse, 300*time.Millisecond) }
func (t *Tuning) GetApproachPulse() time.Duration { return t.durationOr(t.ApproachPulse, 400*time.Millisecond) }
func (t *Tuning) GetBackOffPulse() time.Duration  { return t.durationOr(t.BackOffPulse, 300*time.Millisecond) }
func (t *Tuning) GetGrabWait() time.Duration      { return t.durationOr(t.GrabWait, 4*time.Second) }
func (t *Tuning) GetReleaseWait() time.Duration {
	return t.durationOr(t.ReleaseWait, 1500*time.Millisecond)
}
func (t *Tuning) GetAlignSettle() time.Duration {
	return t.durationOr(t.AlignSettle, 200*time.Millisecond)
}

// Control loop accessors.

func (t *Tuning) GetTickInterval() time.Duration {
	return t.durationOr(t.TickInterval, 50*time.Millisecond)
}
func (t *Tuning) GetCaptureRetry() time.Duration {
	return t.durationOr(t.CaptureRetry, 100*time.Millisecond)
}
func (t *Tuning) GetSpeedTier() string {
	if t.SpeedTier != nil {
		return *t.SpeedTier
	}
	return "50"
}

// Hardware accessors.

func (t *Tuning) GetSerialPort() string {
	if t.SerialPort != nil {
		return *t.SerialPort
	}
	return "/dev/ttyACM0"
}
func (t *Tuning) GetBaudRate() int    { return t.intOr(t.BaudRate, 9600) }
func (t *Tuning) GetCameraIndex() int { return t.intOr(t.CameraIndex, 0) }
func (t *Tuning) GetFrameWidth() int  { return t.intOr(t.FrameWidth, 640) }
func (t *Tuning) GetFrameHeight() int { return t.intOr(t.FrameHeight, 480) }
