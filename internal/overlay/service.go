package overlay

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"strings"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"go.uber.org/zap"

	"screen-overlay/internal/cache"
	"screen-overlay/internal/config"
	"screen-overlay/internal/layout"
)

// ErrUnknownRegion is returned for region names the layout does not define
var ErrUnknownRegion = errors.New("unknown region")

// Service holds the overlay window's state between the frontend and the native window
type Service struct {
	config *config.Service
	layout *layout.Layout
	cache  *cache.Service
	md     goldmark.Markdown
	log    *zap.Logger

	mu     sync.RWMutex
	screen *layout.Screen
	texts  map[string]string
	view   *View
}

// View is everything the frontend needs to draw the overlay
type View struct {
	Width          int          `json:"width"`  // logical pixels
	Height         int          `json:"height"` // logical pixels
	PhysicalWidth  int          `json:"physical_width"`
	PhysicalHeight int          `json:"physical_height"`
	Scale          float64      `json:"scale"`
	Background     string       `json:"background"`
	Regions        []RegionView `json:"regions"`
}

// RegionView is one placed display region
type RegionView struct {
	Name       string `json:"name"`
	X          int    `json:"x"`
	Y          int    `json:"y"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	HTML       string `json:"html"`
	Background string `json:"background"`
	Color      string `json:"color"`
	FontFamily string `json:"font_family"`
	FontSize   int    `json:"font_size"`
}

// New creates a new overlay service
func New(configSvc *config.Service, lay *layout.Layout, cacheSvc *cache.Service, log *zap.Logger) (*Service, error) {
	if err := lay.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}

	texts := make(map[string]string, len(lay.Regions))
	for _, r := range lay.Regions {
		texts[r.Name] = r.Text
	}

	return &Service{
		config: configSvc,
		layout: lay,
		cache:  cacheSvc,
		md:     goldmark.New(goldmark.WithExtensions(extension.Strikethrough)),
		log:    log,
		texts:  texts,
	}, nil
}

// Load is called once the window exists. It sizes the overlay to the screen
// and places every region.
func (s *Service) Load(screen layout.Screen) (*View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.screen = &screen
	view, err := s.buildViewLocked()
	if err != nil {
		return nil, err
	}
	s.view = view

	s.log.Debug("overlay loaded",
		zap.Int("width", screen.Width),
		zap.Int("height", screen.Height),
		zap.Float64("scale", screen.Scale),
		zap.Int("regions", len(view.Regions)),
	)
	return view, nil
}

// View returns the current view, or nil before Load
func (s *Service) View() *View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view
}

// SetRegionText replaces the text shown in a region
func (s *Service) SetRegionText(name, text string) (*View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.layout.Region(name); !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRegion, name)
	}
	s.texts[name] = text

	if s.screen == nil {
		return nil, nil
	}
	view, err := s.buildViewLocked()
	if err != nil {
		return nil, err
	}
	s.view = view
	return view, nil
}

// OverlayConfig returns the current overlay settings
func (s *Service) OverlayConfig() config.OverlayConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config.Get().Overlay
}

// UpdateOverlay persists new overlay settings and rebuilds the view with
// them. The color key belongs to the native window for its whole lifetime,
// so the current key is kept.
func (s *Service) UpdateOverlay(overlay config.OverlayConfig) (*View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	overlay.ColorKey = s.config.Get().Overlay.ColorKey
	if err := s.config.UpdateOverlay(overlay); err != nil {
		return nil, fmt.Errorf("failed to update overlay settings: %w", err)
	}
	s.log.Info("overlay settings updated", zap.String("path", s.config.Path()))

	if s.screen == nil {
		return nil, nil
	}
	view, err := s.buildViewLocked()
	if err != nil {
		return nil, err
	}
	s.view = view
	return view, nil
}

func (s *Service) buildViewLocked() (*View, error) {
	cfg := s.config.Get()
	width, height := s.screen.Logical()
	key := cfg.Overlay.ColorKey

	view := &View{
		Width:          width,
		Height:         height,
		PhysicalWidth:  s.screen.Width,
		PhysicalHeight: s.screen.Height,
		Scale:          s.screen.Scale,
		Background:     fmt.Sprintf("rgb(%d, %d, %d)", key.R, key.G, key.B),
	}

	for _, p := range s.layout.Place(width, height) {
		r := p.Region
		body, err := s.render(s.texts[r.Name], r.Markdown)
		if err != nil {
			return nil, fmt.Errorf("failed to render region %q: %w", r.Name, err)
		}
		view.Regions = append(view.Regions, RegionView{
			Name:       r.Name,
			X:          p.Bounds.X,
			Y:          p.Bounds.Y,
			Width:      p.Bounds.Width,
			Height:     p.Bounds.Height,
			HTML:       body,
			Background: orDefault(r.Style.Background, cfg.Overlay.PanelColor),
			Color:      orDefault(r.Style.Color, cfg.Overlay.TextColor),
			FontFamily: orDefault(r.Style.FontFamily, cfg.Overlay.FontFamily),
			FontSize:   orDefaultInt(r.Style.FontSize, cfg.Overlay.FontSize),
		})
	}
	return view, nil
}

func (s *Service) render(text string, markdown bool) (string, error) {
	if !markdown {
		return s.cache.GetOrRender("text:"+text, func() (string, error) {
			escaped := html.EscapeString(text)
			return "<p>" + strings.ReplaceAll(escaped, "\n", "<br>") + "</p>", nil
		})
	}
	return s.cache.GetOrRender("md:"+text, func() (string, error) {
		var buf bytes.Buffer
		if err := s.md.Convert([]byte(text), &buf); err != nil {
			return "", err
		}
		return buf.String(), nil
	})
}

func orDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}

func orDefaultInt(v, def int) int {
	if v != 0 {
		return v
	}
	return def
}

// Shutdown performs cleanup
func (s *Service) Shutdown() {
	// Save current state
	if err := s.config.Save(); err != nil {
		s.log.Warn("failed to save config", zap.String("path", s.config.Path()), zap.Error(err))
	}
}
