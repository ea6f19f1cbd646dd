// Command vision-test exercises the detection pipeline without the drive
// hardware: it captures frames and prints ranked block and sheet detections
// as text, then a run summary. Useful when retuning HSV ranges or class
// filters after a lighting change.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/illufluo/robot-v2/internal/config"
	"github.com/illufluo/robot-v2/internal/vision"
)

var (
	configPath  = flag.String("config", "", "Path to tuning config JSON (optional)")
	cameraIndex = flag.Int("camera", -1, "Camera device index (overrides config)")
	frames      = flag.Int("frames", 100, "Number of frames to process (0 = run forever)")
	interval    = flag.Duration("interval", 200*time.Millisecond, "Delay between frames")
)

func main() {
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		cfg = loaded
	}

	camera := cfg.GetCameraIndex()
	if *cameraIndex >= 0 {
		camera = *cameraIndex
	}

	cam, err := vision.OpenCamera(camera, cfg.GetFrameWidth(), cfg.GetFrameHeight())
	if err != nil {
		log.Fatalf("open camera: %v", err)
	}
	defer cam.Close()

	sys := vision.NewSystem(cfg)
	defer sys.Close()

	stats := vision.NewAggregate()

	for n := 0; *frames == 0 || n < *frames; n++ {
		frame, ok := cam.Capture()
		if !ok {
			time.Sleep(*interval)
			continue
		}

		blocks, err := sys.DetectBlocks(frame)
		if err != nil {
			log.Fatalf("detect blocks: %v", err)
		}
		sheets, err := sys.DetectSheets(frame)
		if err != nil {
			log.Fatalf("detect sheets: %v", err)
		}
		stats.Add(blocks...)
		stats.Add(sheets...)

		fmt.Printf("frame %d: %d blocks, %d sheets\n", n, len(blocks), len(sheets))
		for _, b := range blocks {
			printObject("block", b, sys)
		}
		for _, s := range sheets {
			printObject("sheet", s, sys)
		}

		time.Sleep(*interval)
	}

	fmt.Println(stats.Summary())
}

func printObject(kind string, obj vision.DetectedObject, sys *vision.System) {
	errPx, dir := sys.Alignment(obj)
	fmt.Printf("  %s %s center=(%d,%d) area=%.0f ratio=%.2f align=%d(%s) dist=%s\n",
		kind, obj.Color, obj.CenterX, obj.CenterY, obj.Area, obj.AspectRatio,
		errPx, dir, sys.Distance(obj))
}
