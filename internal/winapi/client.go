package winapi

import (
	"fmt"
	"math"

	"go.uber.org/zap"
)

// DefaultOpacity is applied by overlay mode when no opacity option is given
const DefaultOpacity = 0.5

// Client applies overlay styles to a single window and can restore it later
type Client struct {
	backend  Backend
	hwnd     Handle
	defaults Snapshot
	colorKey RGB
	log      *zap.Logger
}

type options struct {
	hwnd        Handle
	hasHandle   bool
	title       string
	colorKey    RGB
	overlayMode bool
	opacity     float64
	log         *zap.Logger
}

// Option configures New
type Option func(*options)

// WithHandle targets an explicit window handle
func WithHandle(h Handle) Option {
	return func(o *options) {
		o.hwnd = h
		o.hasHandle = true
	}
}

// WithTitle targets the top-level window with this exact title
func WithTitle(title string) Option {
	return func(o *options) { o.title = title }
}

// WithColorKey overrides DefaultColorKey
func WithColorKey(key RGB) Option {
	return func(o *options) { o.colorKey = key }
}

// WithOverlayMode controls whether New immediately applies layered mode,
// transparency and always-on-top. Enabled by default.
func WithOverlayMode(enabled bool) Option {
	return func(o *options) { o.overlayMode = enabled }
}

// WithOpacity sets the opacity used by overlay mode
func WithOpacity(opacity float64) Option {
	return func(o *options) { o.opacity = opacity }
}

// WithLogger sets the logger
func WithLogger(log *zap.Logger) Option {
	return func(o *options) { o.log = log }
}

// New resolves the target window, captures its current style and rectangle,
// and applies overlay mode unless disabled.
//
// The target is the explicit handle if one was given, otherwise the window
// with the given title, otherwise the active window. A source that yields no
// valid window fails with ErrWindowNotFound; later sources are not consulted.
func New(backend Backend, opts ...Option) (*Client, error) {
	o := options{
		colorKey:    DefaultColorKey,
		overlayMode: true,
		opacity:     DefaultOpacity,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = zap.NewNop()
	}

	hwnd, err := resolve(backend, o)
	if err != nil {
		return nil, err
	}

	c := &Client{
		backend:  backend,
		hwnd:     hwnd,
		colorKey: o.colorKey,
		log:      o.log.With(zap.Uintptr("hwnd", uintptr(hwnd))),
	}

	if title, err := backend.WindowText(hwnd); err == nil {
		c.log.Debug("found window", zap.String("title", title))
	}

	style, err := backend.ExStyle(hwnd)
	if err != nil {
		return nil, fmt.Errorf("failed to read extended style: %w", err)
	}
	rect, err := backend.WindowRect(hwnd)
	if err != nil {
		return nil, fmt.Errorf("failed to read window rect: %w", err)
	}
	c.defaults = Snapshot{Style: style, Rect: rect}

	if o.overlayMode {
		if err := c.SetLayeredMode(); err != nil {
			return nil, err
		}
		if err := c.SetTransparency(o.opacity); err != nil {
			return nil, err
		}
		if err := c.SetAlwaysOnTop(); err != nil {
			return nil, err
		}
	}

	return c, nil
}

func resolve(backend Backend, o options) (Handle, error) {
	var (
		hwnd   Handle
		source string
		err    error
	)
	switch {
	case o.hasHandle:
		hwnd, source = o.hwnd, "handle"
	case o.title != "":
		source = fmt.Sprintf("title %q", o.title)
		hwnd, err = backend.FindWindow(o.title)
	default:
		source = "active window"
		hwnd, err = backend.ActiveWindow()
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrWindowNotFound, source, err)
	}
	if hwnd == 0 {
		return 0, fmt.Errorf("%w: could not acquire window handle from %s", ErrWindowNotFound, source)
	}
	if !backend.IsWindow(hwnd) {
		return 0, fmt.Errorf("%w: invalid window handle 0x%x from %s", ErrWindowNotFound, uintptr(hwnd), source)
	}
	return hwnd, nil
}

// Handle returns the window handle this client targets
func (c *Client) Handle() Handle {
	return c.hwnd
}

// Defaults returns the snapshot captured by New
func (c *Client) Defaults() Snapshot {
	return c.defaults
}

// ColorKey returns the color treated as transparent
func (c *Client) ColorKey() RGB {
	return c.colorKey
}

// ExStyle returns the current extended style
func (c *Client) ExStyle() (Style, error) {
	return c.backend.ExStyle(c.hwnd)
}

// HasExStyle reports whether all bits of flag are currently set
func (c *Client) HasExStyle(flag Style) (bool, error) {
	style, err := c.ExStyle()
	if err != nil {
		return false, err
	}
	return style.Has(flag), nil
}

// SetExStyleFlag sets flag on top of the current extended style
func (c *Client) SetExStyleFlag(flag Style) error {
	style, err := c.ExStyle()
	if err != nil {
		return err
	}
	return c.setExStyle(style | flag)
}

// ClearExStyleFlag removes flag from the current extended style
func (c *Client) ClearExStyleFlag(flag Style) error {
	style, err := c.ExStyle()
	if err != nil {
		return err
	}
	return c.setExStyle(style &^ flag)
}

func (c *Client) setExStyle(style Style) error {
	if err := c.backend.SetExStyle(c.hwnd, style); err != nil {
		return fmt.Errorf("failed to set extended style %s: %w", style, err)
	}
	c.log.Debug("extended style set", zap.Stringer("style", style))
	return nil
}

// SetLayeredMode makes the window click-through and allows transparency
func (c *Client) SetLayeredMode() error {
	return c.SetExStyleFlag(StyleLayered | StyleTransparent)
}

// SetClickThrough toggles only the transparent bit, keeping layered mode on
func (c *Client) SetClickThrough(enable bool) error {
	style, err := c.ExStyle()
	if err != nil {
		return err
	}
	style |= StyleLayered
	if enable {
		style |= StyleTransparent
	} else {
		style &^= StyleTransparent
	}
	return c.setExStyle(style)
}

// SetTransparency applies opacity together with the client's color key
func (c *Client) SetTransparency(opacity float64) error {
	return c.SetTransparencyKey(opacity, c.colorKey)
}

// SetTransparencyKey applies opacity and color-key transparency at once.
// The window must already be in layered mode.
func (c *Client) SetTransparencyKey(opacity float64, key RGB) error {
	if math.IsNaN(opacity) || opacity < 0 || opacity > 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidOpacity, opacity)
	}

	layered, err := c.HasExStyle(StyleLayered)
	if err != nil {
		return err
	}
	if !layered {
		return fmt.Errorf("%w: call SetLayeredMode first", ErrRequiresLayerMode)
	}

	alpha := uint8(opacity * 255)
	if err := c.backend.SetLayeredAttributes(c.hwnd, key, alpha, LayeredAlpha|LayeredColorKey); err != nil {
		return fmt.Errorf("failed to set layered attributes: %w", err)
	}
	c.log.Debug("transparency set", zap.Uint8("alpha", alpha), zap.String("color_key", key.CSS()))
	return nil
}

// SetAlwaysOnTop moves the window into the topmost band without moving or resizing it
func (c *Client) SetAlwaysOnTop() error {
	if err := c.backend.SetWindowPos(c.hwnd, InsertTopmost, 0, 0, 0, 0, PosNoMove|PosNoSize); err != nil {
		return fmt.Errorf("failed to set topmost: %w", err)
	}
	return nil
}

// ClearAlwaysOnTop moves the window out of the topmost band, leaving its geometry alone
func (c *Client) ClearAlwaysOnTop() error {
	if err := c.backend.SetWindowPos(c.hwnd, InsertNoTopmost, 0, 0, 0, 0, PosNoMove|PosNoSize); err != nil {
		return fmt.Errorf("failed to clear topmost: %w", err)
	}
	return nil
}

// ResetOptions controls which parts of the current geometry survive Reset
type ResetOptions struct {
	RetainSize bool
	RetainPos  bool
}

// Reset restores the captured extended style and rectangle and drops the
// window out of the topmost band. Layered attributes are discarded by the
// system once the layered bit is cleared.
func (c *Client) Reset(opts ResetOptions) error {
	if err := c.setExStyle(c.defaults.Style); err != nil {
		return err
	}

	r := c.defaults.Rect
	var flags PosFlag
	if opts.RetainSize {
		flags |= PosNoSize
	}
	if opts.RetainPos {
		flags |= PosNoMove
	}

	if err := c.backend.SetWindowPos(c.hwnd, InsertNoTopmost, r.Left, r.Top, r.Width(), r.Height(), flags); err != nil {
		return fmt.Errorf("failed to restore window position: %w", err)
	}
	c.log.Debug("window reset",
		zap.Stringer("style", c.defaults.Style),
		zap.Bool("retain_size", opts.RetainSize),
		zap.Bool("retain_pos", opts.RetainPos),
	)
	return nil
}
