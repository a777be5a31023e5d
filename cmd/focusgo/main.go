package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/cjeanneret/FocusGo/internal/config"
	"github.com/cjeanneret/FocusGo/internal/debug"
	"github.com/cjeanneret/FocusGo/internal/hw/camera"
	"github.com/cjeanneret/FocusGo/internal/hw/i2c"
	"github.com/cjeanneret/FocusGo/internal/hw/lens"
	"github.com/cjeanneret/FocusGo/internal/logic/focus"
	"github.com/cjeanneret/FocusGo/internal/session"
	"github.com/cjeanneret/FocusGo/internal/vision"
	"github.com/cjeanneret/FocusGo/internal/web"
)

func main() {
	// CLI flags
	webPort := &webPortFlag{defaultPort: 8080}
	flag.Var(webPort, "web", "start web status server on port; -web= for default 8080, -web 8980 for custom port")
	cfgPath := flag.String("config", filepath.Join("configs", "default.yaml"), "path to config file")
	mockI2C := flag.Bool("mock-i2c", false, "force the mock I2C transport (no lens hardware needed)")
	captureWidth := flag.Int("capture-width", 0, "override capture width in pixels")
	captureHeight := flag.Int("capture-height", 0, "override capture height in pixels")
	framerate := flag.Int("framerate", 0, "override capture framerate")
	flipMethod := flag.Int("flip-method", -1, "override nvvidconv flip method (0-7)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Load configuration
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}

	// Validate and apply CLI overrides (zero/negative means "use config default")
	if err := validateCaptureOverrides(*captureWidth, *captureHeight, *framerate, *flipMethod); err != nil {
		log.Fatalf("invalid CLI override: %v", err)
	}
	applyCaptureOverrides(cfg, *captureWidth, *captureHeight, *framerate, *flipMethod)

	// Initialize debug system
	debug.Init(cfg.Defaults.DebugLevel)
	debug.Section("Initialization")
	debug.Value("Config path", *cfgPath)
	debug.Value("Debug level", cfg.Defaults.DebugLevel)

	// Initialize I2C transport
	mock := cfg.Actuator.Mock || *mockI2C
	debug.Value("Mock I2C", mock)
	debug.Step(1, "Initializing I2C transport")
	transport, err := i2c.New(mock, cfg.Actuator.I2CBus, cfg.Actuator.I2CAddr)
	if err != nil {
		log.Fatalf("init I2C transport failed: %v", err)
	}
	defer func() {
		if err := transport.Close(); err != nil {
			log.Printf("closing I2C transport failed: %v", err)
		}
	}()

	// Initialize lens driver and focus controller
	debug.Step(2, "Initializing lens driver")
	driver := lens.NewDriver(transport)
	ctrl := focus.NewController(driver, focus.Params{
		StartStep:        cfg.Focus.StartStep,
		StepSize:         cfg.Focus.StepSize,
		DeclineThreshold: cfg.Focus.DeclineThreshold,
		UpperBound:       cfg.Focus.UpperBound,
	})
	debug.PrintStruct("Focus params", cfg.Focus)

	// Open camera
	debug.Step(3, "Opening CSI camera")
	cam, err := camera.NewCSICamera(cfg.Capture)
	if err != nil {
		log.Fatalf("open camera failed: %v", err)
	}
	defer func() {
		if err := cam.Close(); err != nil {
			log.Printf("closing camera failed: %v", err)
		}
	}()
	debug.PrintStruct("Capture config", cfg.Capture)

	// Optional web status server
	var external chan session.Event
	if port := webPort.port(); port > 0 {
		external = make(chan session.Event, 1)
		broadcaster := web.NewStatusBroadcaster()
		debug.SetOutput(io.MultiWriter(os.Stdout, web.BroadcastWriter(broadcaster)))

		ctrl.OnConverged(func(step int, score float64) {
			broadcaster.BroadcastMsg(fmt.Sprintf("Autofocus locked (step=%d, score=%.2f)", step, score))
		})

		status := func() web.Status {
			st := ctrl.Snapshot()
			return web.Status{
				Phase:        st.Phase.String(),
				CurrentStep:  st.CurrentStep,
				BestStep:     st.BestStep,
				BestScore:    st.BestScore,
				LastScore:    st.LastScore,
				DeclineCount: st.DeclineCount,
				LensPosition: driver.Position(),
			}
		}
		restart := func() bool {
			select {
			case external <- session.EventReset:
				return true
			default:
				return false
			}
		}

		srv := web.NewServer(fmt.Sprintf(":%d", port), broadcaster, status, restart)
		go func() {
			if err := srv.Run(ctx); err != nil {
				log.Printf("web server: %v", err)
			}
		}()
	}

	// Run the autofocus session
	debug.Step(4, "Starting session")
	win := session.NewWindow(cfg.Defaults.WindowTitle)
	defer func() {
		if err := win.Close(); err != nil {
			log.Printf("closing window failed: %v", err)
		}
	}()

	sess := session.New(cam, win, vision.NewEstimator(), ctrl, external)
	if err := sess.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		debug.Error(err)
		log.Printf("session failed: %v", err)
		os.Exit(1)
	}

	debug.Summary("Session finished")
}

// validateCaptureOverrides checks that non-default CLI overrides are sane.
// Zero (or -1 for flip-method) means "use config default" and is ignored.
func validateCaptureOverrides(width, height, framerate, flip int) error {
	if width != 0 && (width < 16 || width > 8192) {
		return fmt.Errorf("capture-width must be 16-8192, got %d", width)
	}
	if height != 0 && (height < 16 || height > 8192) {
		return fmt.Errorf("capture-height must be 16-8192, got %d", height)
	}
	if framerate != 0 && (framerate < 1 || framerate > 240) {
		return fmt.Errorf("framerate must be 1-240, got %d", framerate)
	}
	if flip != -1 && (flip < 0 || flip > 7) {
		return fmt.Errorf("flip-method must be 0-7, got %d", flip)
	}
	return nil
}

// applyCaptureOverrides mutates cfg with overrides. Only non-default values are applied.
func applyCaptureOverrides(cfg *config.Config, width, height, framerate, flip int) {
	if width > 0 {
		cfg.Capture.CaptureWidth = width
		cfg.Capture.DisplayWidth = width
	}
	if height > 0 {
		cfg.Capture.CaptureHeight = height
		cfg.Capture.DisplayHeight = height
	}
	if framerate > 0 {
		cfg.Capture.Framerate = framerate
	}
	if flip >= 0 {
		cfg.Capture.FlipMethod = flip
	}
}

// webPortFlag implements flag.Value for -web: 0 = disabled, -web= or -web 8080 → 8080, -web 8980 → 8980.
type webPortFlag struct {
	val         int
	defaultPort int
}

func (w *webPortFlag) String() string {
	if w.val == 0 {
		return "0"
	}
	return strconv.Itoa(w.val)
}

func (w *webPortFlag) Set(s string) error {
	if s == "" {
		w.val = w.defaultPort
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	if v <= 0 || v > 65535 {
		return fmt.Errorf("port must be 1-65535, got %d", v)
	}
	w.val = v
	return nil
}

func (w *webPortFlag) port() int { return w.val }
