package main

import (
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/rs/zerolog"

	"github.com/dojdev153/nexus-robot-control/internal/bus"
	"github.com/dojdev153/nexus-robot-control/internal/config"
	"github.com/dojdev153/nexus-robot-control/internal/input"
	"github.com/dojdev153/nexus-robot-control/internal/link"
	"github.com/dojdev153/nexus-robot-control/internal/logging"
	"github.com/dojdev153/nexus-robot-control/internal/remote"
	"github.com/dojdev153/nexus-robot-control/internal/renderer"
	"github.com/dojdev153/nexus-robot-control/internal/robot"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed, using defaults: %v\n", err)
	}

	logger, err := logging.New(&logging.Config{
		LogDir:  logging.DefaultConfig().LogDir,
		Level:   logging.LogLevel(cfg.Logging.Level),
		Console: cfg.Logging.Console,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()
	log := logger.Component("main")

	eventBus := bus.NewEventBus()
	eventBus.SubscribeMultiple([]bus.EventType{
		bus.EventTypeLinkConnected,
		bus.EventTypeLinkDisconnected,
		bus.EventTypeLinkError,
		bus.EventTypeCommandDropped,
		bus.EventTypeStateChanged,
		bus.EventTypeRemoteStarted,
		bus.EventTypeRemoteStopped,
	}, func(e bus.Event) {
		log.Info().Str("event", string(e.Type)).Fields(e.Data).Msg("session event")
	})
	defer eventBus.Clear()

	// Renderer/context failures are fatal; nothing below recovers them.
	if err := glfw.Init(); err != nil {
		log.Fatal().Err(err).Msg("glfw init failed")
	}
	defer glfw.Terminate()

	rend, err := renderer.New(renderer.Config{
		Width:  cfg.Window.Width,
		Height: cfg.Window.Height,
		Title:  cfg.Window.Title,
		VSync:  cfg.Window.VSync,
		MSAA:   cfg.Window.MSAA,
		HDR:    true,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("renderer init failed")
	}
	defer rend.Shutdown()

	figure := renderer.NewFigure()
	defer figure.Delete()

	if watcher, err := renderer.NewShaderWatcher(); err == nil {
		defer watcher.Close()
		if err := watcher.Watch(rend.LitShader()); err != nil {
			log.Debug().Err(err).Msg("shader hot reload unavailable")
		}
	}

	queue := input.NewQueue()
	input.BindKeyboard(rend.Window(), queue)

	ctrl := robot.NewController(tuningFromConfig(cfg.Robot))
	ctrl.SetStateHandler(func(s robot.State) {
		eventBus.Publish(bus.Event{
			Type: bus.EventTypeStateChanged,
			Data: map[string]any{"state": string(s)},
		})
	})

	printControls()

	if receiver := connectLink(cfg.Link, queue, logger.Component("link"), eventBus); receiver != nil {
		receiver.Start()
		defer receiver.Stop()
	} else {
		fmt.Println("No joystick link - keyboard control only")
	}

	if cfg.Remote.Enabled {
		srv := remote.NewServer(remote.Config(cfg.Remote), queue, logger.Component("remote"))
		if err := srv.Start(); err != nil {
			log.Warn().Err(err).Msg("remote command server unavailable")
		} else {
			eventBus.Publish(bus.Event{Type: bus.EventTypeRemoteStarted, Data: map[string]any{"addr": cfg.Remote.Addr}})
			defer func() {
				srv.Stop()
				eventBus.PublishSync(bus.Event{Type: bus.EventTypeRemoteStopped})
			}()
		}
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	fps := cfg.Window.FPS
	if fps <= 0 {
		fps = 60
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for !rend.ShouldClose() {
		select {
		case <-sigChan:
			log.Info().Msg("shutdown signal received")
			return
		case <-ticker.C:
		}

		// Apply everything that arrived since the last tick, in
		// arrival order, then advance exactly once.
		for _, token := range queue.Drain() {
			cmd, ok := robot.Route(token)
			if !ok {
				eventBus.Publish(bus.Event{
					Type: bus.EventTypeCommandDropped,
					Data: map[string]any{"token": token},
				})
				continue
			}
			ctrl.Apply(cmd)
		}
		ctrl.Advance()

		pose := ctrl.Pose()

		rend.BeginFrame()
		rend.DrawGrid()
		figure.Draw(rend, pose)
		rend.EndFrame()
		rend.Present()
	}

	log.Info().Msg("render loop ended")
}

// tuningFromConfig overlays the configured knobs onto the defaults.
func tuningFromConfig(rc config.RobotConfig) robot.Tuning {
	t := robot.DefaultTuning()
	if rc.StepSize > 0 {
		t.StepSize = rc.StepSize
	}
	if rc.JumpPeak > 0 {
		t.JumpPeak = rc.JumpPeak
	}
	if rc.JumpTicks > 0 {
		t.JumpTicks = rc.JumpTicks
	}
	if rc.BobHeight > 0 {
		t.WalkBob = rc.BobHeight
	}
	return t
}

// connectLink discovers and opens the peripheral link. Every failure is
// non-fatal: the session falls back to keyboard-only control.
func connectLink(cfg config.LinkConfig, queue *input.Queue, log zerolog.Logger, eventBus *bus.EventBus) *link.Receiver {
	portName := cfg.Port
	if portName == "" {
		candidates, err := link.DiscoverPorts()
		if err != nil {
			log.Warn().Err(err).Msg("port discovery failed")
			eventBus.Publish(bus.Event{Type: bus.EventTypeLinkError, Data: map[string]any{"error": err.Error()}})
			return nil
		}
		portName, err = link.SelectPort(candidates, os.Stdin, os.Stdout)
		if err != nil {
			log.Info().Err(err).Msg("no port selected")
			return nil
		}
	}

	receiver, err := link.Open(link.Config{
		Port:        portName,
		BaudRate:    cfg.BaudRate,
		ReadTimeout: cfg.ReadTimeout,
	}, queue, log)
	if err != nil {
		log.Warn().Err(err).Msg("link connection failed")
		eventBus.Publish(bus.Event{Type: bus.EventTypeLinkError, Data: map[string]any{"error": err.Error()}})
		return nil
	}

	eventBus.Publish(bus.Event{Type: bus.EventTypeLinkConnected, Data: map[string]any{"port": portName}})
	return receiver
}

func printControls() {
	fmt.Println("NEXUS Robot Control")
	fmt.Println("  arrows: move/rotate | space: jump | W: wave")
	fmt.Println("  D: dance | N: nod | R: reset | ESC: quit")
}
