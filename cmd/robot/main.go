// Command robot runs the vision-guided block picking loop: find a colored
// block, grab it, carry it to the matching colored sheet, drop it, and wait
// for the operator to continue.
//
// Operator input is read line-by-line from stdin:
//
//	c — continue with the next block (only honored while idle)
//	r — reset to block search from any state
//	q — quit (also SIGINT/SIGTERM)
package main

import (
	"bufio"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/illufluo/robot-v2/internal/config"
	"github.com/illufluo/robot-v2/internal/drive"
	"github.com/illufluo/robot-v2/internal/journal"
	"github.com/illufluo/robot-v2/internal/monitoring"
	"github.com/illufluo/robot-v2/internal/task"
	"github.com/illufluo/robot-v2/internal/timeutil"
	"github.com/illufluo/robot-v2/internal/vision"
)

var (
	configPath  = flag.String("config", "", "Path to tuning config JSON (optional)")
	serialPort  = flag.String("port", "", "Serial port to the drive board (overrides config)")
	cameraIndex = flag.Int("camera", -1, "Camera device index (overrides config)")
	journalPath = flag.String("journal", "robot_journal.db", "Path to session journal database (empty disables)")
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

	port := cfg.GetSerialPort()
	if *serialPort != "" {
		port = *serialPort
	}
	camera := cfg.GetCameraIndex()
	if *cameraIndex >= 0 {
		camera = *cameraIndex
	}

	clock := timeutil.RealClock{}

	// The drive link is the one unrecoverable dependency: no link, no robot.
	p, err := drive.OpenPort(port, drive.PortOptions{BaudRate: cfg.GetBaudRate()})
	if err != nil {
		log.Fatalf("open drive link: %v", err)
	}
	channel := drive.NewChannel(p, clock)
	defer channel.Close()

	channel.WaitReady()
	if err := channel.SetSpeed(cfg.GetSpeedTier()); err != nil {
		monitoring.Logf("set speed: %v", err)
	}

	cam, err := vision.OpenCamera(camera, cfg.GetFrameWidth(), cfg.GetFrameHeight())
	if err != nil {
		log.Fatalf("open camera: %v", err)
	}
	defer cam.Close()

	sys := vision.NewSystem(cfg)
	defer sys.Close()
	if err := sys.CheckColors(vision.DefaultSheetColors...); err != nil {
		log.Fatalf("color table: %v", err)
	}

	var rec task.Recorder
	var jnl *journal.Journal
	if *journalPath != "" {
		jnl, err = journal.Open(*journalPath)
		if err != nil {
			log.Fatalf("open journal: %v", err)
		}
		defer jnl.Close()
		rec = jnl
		monitoring.Logf("journaling run %s to %s", jnl.RunID(), *journalPath)
	}

	eyes := vision.NewObserver(sys, cam)
	exec := drive.NewExecutor(channel, clock)
	ctrl := task.NewController(eyes, exec, clock, task.TuningFromConfig(cfg), rec)

	signals := make(chan task.Signal, 4)
	go readOperator(signals)
	go watchInterrupt(signals)

	monitoring.Logf("robot ready on %s, camera %d; c=continue r=reset q=quit", port, camera)
	ctrl.Run(signals)

	if jnl != nil {
		if err := jnl.EndRun(ctrl.Task().Completed, eyes.Stats().Summary()); err != nil {
			monitoring.Logf("end run: %v", err)
		}
	}
	monitoring.Logf("done: %d blocks placed; %s", ctrl.Task().Completed, eyes.Stats().Summary())
}

// readOperator translates stdin lines into operator signals.
func readOperator(signals chan<- task.Signal) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		switch strings.TrimSpace(strings.ToLower(scanner.Text())) {
		case "c":
			signals <- task.SignalContinue
		case "r":
			signals <- task.SignalReset
		case "q":
			signals <- task.SignalQuit
			return
		}
	}
}

// watchInterrupt maps SIGINT/SIGTERM to a quit signal.
func watchInterrupt(signals chan<- task.Signal) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	signals <- task.SignalQuit
}
