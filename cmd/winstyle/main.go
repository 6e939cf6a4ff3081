// Command winstyle turns an existing window into a click-through overlay and
// restores it on interrupt.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"go.uber.org/zap"

	"screen-overlay/internal/logging"
	"screen-overlay/internal/winapi"
)

// shutdownSignals end the overlay and restore the window
var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

type settings struct {
	hwnd         string
	title        string
	opacity      float64
	clickThrough bool
	topmost      bool
	keep         bool
	reset        winapi.ResetOptions
}

func main() {
	var s settings
	flag.StringVar(&s.hwnd, "hwnd", "", "window handle (decimal or 0x hex)")
	flag.StringVar(&s.title, "title", "", "exact window title")
	flag.Float64Var(&s.opacity, "opacity", winapi.DefaultOpacity, "opacity between 0 and 1")
	flag.BoolVar(&s.clickThrough, "click-through", true, "let mouse input pass through the window")
	flag.BoolVar(&s.topmost, "topmost", true, "keep the window above others")
	flag.BoolVar(&s.keep, "keep", false, "leave the overlay style in place on exit")
	flag.BoolVar(&s.reset.RetainSize, "retain-size", false, "keep the current size on reset")
	flag.BoolVar(&s.reset.RetainPos, "retain-pos", false, "keep the current position on reset")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	level := "info"
	if *debug {
		level = "debug"
	}
	log, err := logging.New(level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	backend, err := winapi.NewNativeBackend()
	if err != nil {
		log.Fatal("failed to initialize native windowing", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), shutdownSignals...)
	err = run(ctx, backend, log, s)
	stop()
	if err != nil {
		log.Error("winstyle failed", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
	_ = log.Sync()
}

// run styles the target window, waits for ctx to end, then resets the window
// unless s.keep is set.
func run(ctx context.Context, backend winapi.Backend, log *zap.Logger, s settings) error {
	opts := []winapi.Option{
		winapi.WithOverlayMode(false),
		winapi.WithLogger(log),
	}
	if s.hwnd != "" {
		h, err := strconv.ParseUint(s.hwnd, 0, 64)
		if err != nil {
			return fmt.Errorf("invalid -hwnd %q: %w", s.hwnd, err)
		}
		opts = append(opts, winapi.WithHandle(winapi.Handle(h)))
	}
	if s.title != "" {
		opts = append(opts, winapi.WithTitle(s.title))
	}

	window, err := winapi.New(backend, opts...)
	if err != nil {
		return err
	}

	if err := window.SetLayeredMode(); err != nil {
		return err
	}
	if err := window.SetTransparency(s.opacity); err != nil {
		return err
	}
	if !s.clickThrough {
		if err := window.SetClickThrough(false); err != nil {
			return err
		}
	}
	if s.topmost {
		if err := window.SetAlwaysOnTop(); err != nil {
			return err
		}
	}

	if style, err := window.ExStyle(); err != nil {
		log.Warn("failed to read extended style", zap.Error(err))
	} else {
		log.Info("overlay applied, interrupt to restore",
			zap.Uintptr("hwnd", uintptr(window.Handle())),
			zap.Stringer("style", style),
		)
	}

	<-ctx.Done()

	if s.keep {
		return nil
	}
	if err := window.Reset(s.reset); err != nil {
		return err
	}
	log.Info("window restored", zap.Stringer("style", window.Defaults().Style))
	return nil
}
