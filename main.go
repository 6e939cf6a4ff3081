package main

import (
	"context"
	"embed"
	"fmt"
	"os"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	wailswindows "github.com/wailsapp/wails/v2/pkg/options/windows"
	"github.com/wailsapp/wails/v2/pkg/runtime"
	"go.uber.org/zap"

	"screen-overlay/internal/cache"
	"screen-overlay/internal/config"
	"screen-overlay/internal/layout"
	"screen-overlay/internal/logging"
	"screen-overlay/internal/overlay"
	"screen-overlay/internal/winapi"
)

//go:embed all:frontend/dist
var assets embed.FS

// viewEvent carries the overlay view to the frontend
const viewEvent = "overlay:view"

// App struct
type App struct {
	ctx     context.Context
	config  *config.Service
	overlay *overlay.Service
	window  *winapi.Client
	log     *zap.Logger
}

// NewApp creates a new App application struct
func NewApp(configSvc *config.Service, overlaySvc *overlay.Service, log *zap.Logger) *App {
	return &App{
		config:  configSvc,
		overlay: overlaySvc,
		log:     log,
	}
}

// OnStartup is called when the app starts up
func (a *App) OnStartup(ctx context.Context) {
	a.ctx = ctx
}

// OnDomReady runs once the window exists, so its native handle can be resolved.
// Any failure here is fatal.
func (a *App) OnDomReady(ctx context.Context) {
	cfg := a.config.Get()

	screens, err := runtime.ScreenGetAll(ctx)
	if err != nil {
		a.log.Fatal("failed to query screens", zap.Error(err))
	}
	screen, err := layout.Pick(displays(screens))
	if err != nil {
		a.log.Fatal("failed to determine screen", zap.Error(err))
	}
	a.log.Debug("resize",
		zap.Int("width", screen.Width),
		zap.Int("height", screen.Height),
		zap.Float64("dpi_scale", screen.Scale),
	)

	// set resolution
	width, height := screen.Logical()
	runtime.WindowSetSize(ctx, width, height)
	runtime.WindowFullscreen(ctx)

	// make background invisible
	key := cfg.Overlay.ColorKey
	runtime.WindowSetBackgroundColour(ctx, key.R, key.G, key.B, 255)

	backend, err := winapi.NewNativeBackend()
	if err != nil {
		a.log.Fatal("failed to initialize native windowing", zap.Error(err))
	}
	window, err := winapi.New(backend,
		winapi.WithTitle(cfg.Title),
		winapi.WithColorKey(winapi.RGB(key)),
		winapi.WithOverlayMode(false),
		winapi.WithLogger(a.log),
	)
	if err != nil {
		a.log.Fatal("failed to acquire overlay window", zap.Error(err))
	}
	if err := overlay.ApplyWindowStyle(window, cfg.Overlay, a.log); err != nil {
		a.log.Fatal("failed to apply overlay style", zap.Error(err))
	}
	a.window = window

	view, err := a.overlay.Load(screen)
	if err != nil {
		a.log.Fatal("failed to load overlay", zap.Error(err))
	}
	runtime.EventsEmit(ctx, viewEvent, view)
}

// OnShutdown is called when the app is shutting down
func (a *App) OnShutdown(ctx context.Context) {
	if a.overlay != nil {
		a.overlay.Shutdown()
	}
	_ = a.log.Sync()
}

// GetView returns the current overlay layout for the frontend
func (a *App) GetView() *overlay.View {
	return a.overlay.View()
}

// HandleKey receives key presses from the frontend and reports whether the overlay is closing
func (a *App) HandleKey(key string) bool {
	if a.overlay.HandleKey(key) != overlay.ActionClose {
		return false
	}
	a.Close()
	return true
}

// SetRegionText replaces the text of a display region
func (a *App) SetRegionText(name, text string) error {
	view, err := a.overlay.SetRegionText(name, text)
	if err != nil {
		return err
	}
	if view != nil && a.ctx != nil {
		runtime.EventsEmit(a.ctx, viewEvent, view)
	}
	return nil
}

// GetOverlayConfig returns the current overlay settings
func (a *App) GetOverlayConfig() config.OverlayConfig {
	return a.overlay.OverlayConfig()
}

// UpdateOverlay persists new overlay settings, restyles the native window
// and redraws the regions
func (a *App) UpdateOverlay(settings config.OverlayConfig) error {
	view, err := a.overlay.UpdateOverlay(settings)
	if err != nil {
		return err
	}
	if a.window != nil {
		if err := overlay.ApplyWindowStyle(a.window, a.overlay.OverlayConfig(), a.log); err != nil {
			return fmt.Errorf("failed to apply overlay style: %w", err)
		}
	}
	if view != nil && a.ctx != nil {
		runtime.EventsEmit(a.ctx, viewEvent, view)
	}
	return nil
}

// Close quits the application
func (a *App) Close() {
	a.log.Info("closing overlay")
	if a.ctx != nil {
		runtime.Quit(a.ctx)
	}
}

// displays converts the toolkit's screen list for layout.Pick
func displays(screens []runtime.Screen) []layout.Display {
	out := make([]layout.Display, 0, len(screens))
	for _, s := range screens {
		d := layout.Display{
			Current:        s.IsCurrent,
			Primary:        s.IsPrimary,
			LogicalWidth:   s.Size.Width,
			LogicalHeight:  s.Size.Height,
			PhysicalWidth:  s.PhysicalSize.Width,
			PhysicalHeight: s.PhysicalSize.Height,
		}
		if d.LogicalWidth == 0 || d.LogicalHeight == 0 {
			d.LogicalWidth, d.LogicalHeight = s.Width, s.Height
		}
		out = append(out, d)
	}
	return out
}

func main() {
	enableDPIAwareness()

	configSvc, err := config.New()
	if err != nil {
		fmt.Printf("Failed to initialize config: %v\n", err)
		os.Exit(1)
	}
	cfg := configSvc.Get()

	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	log = log.With(zap.String("window", cfg.Title))
	log.Debug("config loaded", zap.String("path", configSvc.Path()))

	lay, err := layout.Load(cfg.LayoutFile)
	if err != nil {
		log.Fatal("failed to load layout", zap.String("path", cfg.LayoutFile), zap.Error(err))
	}

	overlaySvc, err := overlay.New(configSvc, lay, cache.New(64), log)
	if err != nil {
		log.Fatal("failed to initialize overlay", zap.Error(err))
	}

	app := NewApp(configSvc, overlaySvc, log)
	key := cfg.Overlay.ColorKey

	err = wails.Run(&options.App{
		Title:  cfg.Title,
		Width:  1024,
		Height: 768,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		Frameless:        true,
		AlwaysOnTop:      cfg.Overlay.AlwaysOnTop,
		BackgroundColour: &options.RGBA{R: key.R, G: key.G, B: key.B, A: 255},
		Windows: &wailswindows.Options{
			DisableWindowIcon: true,
		},
		OnStartup:  app.OnStartup,
		OnDomReady: app.OnDomReady,
		OnShutdown: app.OnShutdown,
		Bind:       []interface{}{app},
	})

	if err != nil {
		log.Error("error starting application", zap.Error(err))
		os.Exit(1)
	}
}
