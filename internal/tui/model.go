// Package tui is the terminal front-end of the launcher.
//
// [Model] translates tcell events into session input and draws the session
// onto any [Canvas]; [Run] drives a Model on a real tcell screen until the
// session closes.
package tui

import (
	"fmt"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/calvinalkan/shofi/internal/nav"
	"github.com/calvinalkan/shofi/internal/session"
)

const (
	promptPrefix = "> "
	rowSelected  = "> "
	rowPlain     = "  "
	descSep      = "  "
	ellipsis     = "…"
)

// Canvas is the part of [tcell.Screen] the model draws on.
type Canvas interface {
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
	Size() (width, height int)
}

// Styles used when drawing.
var (
	stylePrompt   = tcell.StyleDefault.Bold(true)
	styleName     = tcell.StyleDefault
	styleDesc     = tcell.StyleDefault.Dim(true)
	styleSelected = tcell.StyleDefault.Reverse(true)
	styleStatus   = tcell.StyleDefault.Dim(true)
)

// Model is the presentation state around a session: the scroll offset of
// the result list. Everything else lives in the session.
type Model struct {
	session *session.Session
	offset  int
	height  int
}

// NewModel returns a model over s.
func NewModel(s *session.Session) *Model {
	return &Model{session: s}
}

// Session returns the underlying session.
func (m *Model) Session() *session.Session {
	return m.session
}

// HandleEvent applies a tcell event. It reports whether the screen needs
// a redraw.
func (m *Model) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		m.handleKey(ev)

		return true
	case *tcell.EventMouse:
		return m.handleMouse(ev)
	case *tcell.EventResize:
		return true
	}

	return false
}

func (m *Model) handleKey(ev *tcell.EventKey) {
	s := m.session

	switch ev.Key() {
	case tcell.KeyUp, tcell.KeyCtrlP:
		s.HandleKey(nav.KeyUp)
	case tcell.KeyDown, tcell.KeyCtrlN:
		s.HandleKey(nav.KeyDown)
	case tcell.KeyEnter:
		s.HandleKey(nav.KeyEnter)
	case tcell.KeyRight:
		s.HandleKey(nav.KeyRight)
	case tcell.KeyEscape:
		s.HandleKey(nav.KeyEscape)
	case tcell.KeyCtrlC:
		s.Close()
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		q := s.Query()
		if q == "" {
			return
		}

		_, size := utf8.DecodeLastRuneInString(q)
		s.SetQuery(q[:len(q)-size])
	case tcell.KeyCtrlU:
		s.SetQuery("")
	case tcell.KeyRune:
		if ev.Modifiers()&(tcell.ModCtrl|tcell.ModAlt) != 0 {
			return
		}

		s.SetQuery(s.Query() + string(ev.Rune()))
	}
}

func (m *Model) handleMouse(ev *tcell.EventMouse) bool {
	switch {
	case ev.Buttons()&tcell.Button1 != 0:
		_, y := ev.Position()

		row := y - 1
		if row < 0 || row >= m.visibleRows() {
			return false
		}

		m.session.ActivateIndex(m.offset + row)

		return true
	case ev.Buttons()&tcell.WheelUp != 0:
		// Up from the search box wraps to the last row; the wheel must not.
		if m.session.State().Focus != nav.ListFocused {
			return false
		}

		m.session.HandleKey(nav.KeyUp)

		return true
	case ev.Buttons()&tcell.WheelDown != 0:
		m.session.HandleKey(nav.KeyDown)

		return true
	}

	return false
}

// visibleRows is the number of result rows between the prompt and the
// status line.
func (m *Model) visibleRows() int {
	return max(m.height-2, 0)
}

// scroll keeps the selection inside the visible window.
func (m *Model) scroll(total int) {
	visible := m.visibleRows()

	st := m.session.State()
	if st.Focus != nav.ListFocused || visible == 0 {
		m.offset = 0

		return
	}

	if st.Selected < m.offset {
		m.offset = st.Selected
	}

	if st.Selected >= m.offset+visible {
		m.offset = st.Selected - visible + 1
	}

	m.offset = max(min(m.offset, total-visible), 0)
}

// Cursor returns the cell where the text cursor belongs.
func (m *Model) Cursor() (int, int) {
	return runewidth.StringWidth(promptPrefix + m.session.Query()), 0
}

// Draw paints the whole canvas: the prompt on the first row, one result
// per row below it and a status line at the bottom.
func (m *Model) Draw(c Canvas) {
	width, height := c.Size()
	m.height = height

	for y := range height {
		for x := range width {
			c.SetContent(x, y, ' ', nil, tcell.StyleDefault)
		}
	}

	if height == 0 {
		return
	}

	drawText(c, 0, 0, width, promptPrefix+m.session.Query(), stylePrompt)

	results := m.session.Results()
	m.scroll(len(results))

	st := m.session.State()

	for row := range m.visibleRows() {
		i := m.offset + row
		if i >= len(results) {
			break
		}

		entry := results[i]
		selected := st.Focus == nav.ListFocused && st.Selected == i

		marker, nameStyle, descStyle := rowPlain, styleName, styleDesc
		if selected {
			marker, nameStyle, descStyle = rowSelected, styleSelected, styleSelected
		}

		line := runewidth.Truncate(marker+entry.Name, width, ellipsis)
		x := drawText(c, 0, row+1, width, line, nameStyle)

		if entry.Description != "" && runewidth.StringWidth(line) == runewidth.StringWidth(marker+entry.Name) {
			desc := runewidth.Truncate(descSep+entry.Description, width-x, ellipsis)
			x = drawText(c, x, row+1, width, desc, descStyle)
		}

		if selected {
			for ; x < width; x++ {
				c.SetContent(x, row+1, ' ', nil, styleSelected)
			}
		}
	}

	if height >= 2 {
		status := fmt.Sprintf("%d/%d", len(results), m.session.Total())
		drawText(c, 0, height-1, width, runewidth.Truncate(status, width, ellipsis), styleStatus)
	}
}

// drawText draws s from x on row y, stopping at maxX. It returns the
// column after the last drawn cell.
func drawText(c Canvas, x, y, maxX int, s string, style tcell.Style) int {
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}

		if x+w > maxX {
			break
		}

		c.SetContent(x, y, r, nil, style)
		x += w
	}

	return x
}
