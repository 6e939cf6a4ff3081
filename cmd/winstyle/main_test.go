package main

import (
	"context"
	"errors"
	"syscall"
	"testing"

	"go.uber.org/zap/zaptest"

	"screen-overlay/internal/winapi"
	"screen-overlay/internal/winapi/winapitest"
)

var terminalRect = winapi.Rect{Left: 10, Top: 20, Right: 810, Bottom: 620}

const terminalStyle winapi.Style = 0x00000100

func cancelled() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	return ctx
}

func TestShutdownSignals(t *testing.T) {
	for _, sig := range shutdownSignals {
		if sig == syscall.SIGTERM {
			return
		}
	}
	t.Errorf("shutdownSignals %v missing SIGTERM", shutdownSignals)
}

func TestRun_RestoresWindow(t *testing.T) {
	b := winapitest.New()
	h := b.AddWindow("Terminal", terminalRect, terminalStyle)

	s := settings{title: "Terminal", opacity: 0.5, clickThrough: true, topmost: true}
	if err := run(cancelled(), b, zaptest.NewLogger(t), s); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	w, _ := b.Window(h)
	if w.Style != terminalStyle {
		t.Errorf("style = %s; want %s", w.Style, terminalStyle)
	}
	if w.Rect != terminalRect {
		t.Errorf("rect = %+v; want %+v", w.Rect, terminalRect)
	}
}

func TestRun_Keep(t *testing.T) {
	b := winapitest.New()
	h := b.AddWindow("Terminal", terminalRect, terminalStyle)

	s := settings{hwnd: "0x100", opacity: 0.25, topmost: true, keep: true}
	if err := run(cancelled(), b, zaptest.NewLogger(t), s); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	w, _ := b.Window(h)
	if !w.Style.Has(winapi.StyleLayered | winapi.StyleTopmost) {
		t.Errorf("style %s missing LAYERED|TOPMOST", w.Style)
	}
	if w.Style.Has(winapi.StyleTransparent) {
		t.Errorf("style %s should not be click-through", w.Style)
	}
	opacity := 0.25
	if w.Alpha != uint8(opacity*255) {
		t.Errorf("alpha = %d; want %d", w.Alpha, uint8(opacity*255))
	}
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name string
		s    settings
		want error
	}{
		{"bad handle syntax", settings{hwnd: "window"}, nil},
		{"unknown title", settings{title: "Missing", opacity: 0.5}, winapi.ErrWindowNotFound},
		{"bad opacity", settings{title: "Terminal", opacity: 2}, winapi.ErrInvalidOpacity},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := winapitest.New()
			b.AddWindow("Terminal", terminalRect, terminalStyle)

			err := run(cancelled(), b, zaptest.NewLogger(t), tc.s)
			if err == nil {
				t.Fatal("Expected error")
			}
			if tc.want != nil && !errors.Is(err, tc.want) {
				t.Errorf("error = %v; want %v", err, tc.want)
			}
		})
	}
}
