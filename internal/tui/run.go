package tui

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/gdamore/tcell/v2"

	"github.com/calvinalkan/shofi/internal/session"
)

var screenFactory = tcell.NewScreen

// SetScreenFactory overrides the screen factory used by Run. Passing nil restores the default.
func SetScreenFactory(factory func() (tcell.Screen, error)) {
	if factory == nil {
		screenFactory = tcell.NewScreen

		return
	}

	screenFactory = factory
}

// Run shows the launcher on the terminal and blocks until the session is
// closed, either by an activation or by the user escaping. Cancelling ctx
// closes the session without launching.
func Run(ctx context.Context, s *session.Session, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	screen, err := screenFactory()
	if err != nil {
		return fmt.Errorf("init screen: %w", err)
	}

	if err := screen.Init(); err != nil {
		return fmt.Errorf("screen init: %w", err)
	}
	defer screen.Fini()

	screen.EnableMouse()
	defer screen.DisableMouse()

	stop := context.AfterFunc(ctx, func() {
		_ = screen.PostEvent(tcell.NewEventInterrupt(nil))
	})
	defer stop()

	model := NewModel(s)

	draw := func() {
		model.Draw(screen)
		screen.ShowCursor(model.Cursor())
		screen.Show()
	}

	draw()

	for !s.Closed() {
		ev := screen.PollEvent()
		if ev == nil {
			// Screen finalized underneath us.
			logger.Debug("TUI: event stream ended")
			s.Close()

			break
		}

		if _, ok := ev.(*tcell.EventInterrupt); ok && ctx.Err() != nil {
			logger.Debug("TUI: interrupted", "cause", context.Cause(ctx))
			s.Close()

			break
		}

		if resize, ok := ev.(*tcell.EventResize); ok {
			screen.Sync()

			w, h := resize.Size()
			logger.Debug("TUI: resize", "width", w, "height", h)
		}

		if model.HandleEvent(ev) && !s.Closed() {
			draw()
		}
	}

	return nil
}
