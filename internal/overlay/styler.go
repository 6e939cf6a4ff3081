package overlay

import (
	"go.uber.org/zap"

	"screen-overlay/internal/config"
)

// Styler is the part of winapi.Client the overlay drives
type Styler interface {
	SetLayeredMode() error
	SetTransparency(opacity float64) error
	SetClickThrough(enable bool) error
	SetAlwaysOnTop() error
	ClearAlwaysOnTop() error
}

// ApplyWindowStyle puts the native window into overlay mode according to cfg.
// Layered mode always comes first since transparency depends on it. It is
// safe to call again when the settings change.
func ApplyWindowStyle(w Styler, cfg config.OverlayConfig, log *zap.Logger) error {
	if err := w.SetLayeredMode(); err != nil {
		return err
	}
	if err := w.SetTransparency(cfg.Opacity); err != nil {
		return err
	}
	if !cfg.ClickThrough {
		if err := w.SetClickThrough(false); err != nil {
			return err
		}
	}
	if cfg.AlwaysOnTop {
		if err := w.SetAlwaysOnTop(); err != nil {
			return err
		}
	} else if err := w.ClearAlwaysOnTop(); err != nil {
		return err
	}
	if log != nil {
		log.Info("overlay style applied",
			zap.Float64("opacity", cfg.Opacity),
			zap.Bool("click_through", cfg.ClickThrough),
			zap.Bool("always_on_top", cfg.AlwaysOnTop),
		)
	}
	return nil
}
