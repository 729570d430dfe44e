// Package nav is the keyboard navigation state machine of the launcher.
//
// The machine tracks which surface holds logical focus (the query input or
// the result list) and which result is selected. [Transition] is a pure
// function over (state, event, list length); [Controller] keeps the
// current state for callers that want a stateful API.
package nav

import "fmt"

// NoSelection is the Selected value when nothing is selected.
const NoSelection = -1

// Focus is the surface holding logical focus.
type Focus int

const (
	// SearchFocused is the initial focus: keys edit the query.
	SearchFocused Focus = iota
	// ListFocused means a result is selected and Enter activates it.
	ListFocused
)

func (f Focus) String() string {
	switch f {
	case SearchFocused:
		return "search"
	case ListFocused:
		return "list"
	default:
		return fmt.Sprintf("Focus(%d)", int(f))
	}
}

// State is the navigation state.
//
// Selected is [NoSelection] unless Focus is [ListFocused]; when set it is
// a valid index into the current result list.
type State struct {
	Focus    Focus
	Selected int
}

// Initial returns the state a session starts in.
func Initial() State {
	return State{Focus: SearchFocused, Selected: NoSelection}
}

// Key is a navigation key. Keys that only edit the query are not keys
// here; they arrive as [QueryChanged] events.
type Key int

const (
	KeyNone Key = iota
	KeyUp
	KeyDown
	KeyEnter
	KeyRight
	KeyEscape
)

func (k Key) String() string {
	switch k {
	case KeyNone:
		return "none"
	case KeyUp:
		return "up"
	case KeyDown:
		return "down"
	case KeyEnter:
		return "enter"
	case KeyRight:
		return "right"
	case KeyEscape:
		return "escape"
	default:
		return fmt.Sprintf("Key(%d)", int(k))
	}
}

// EventKind discriminates [Event].
type EventKind int

const (
	// EventKey is a navigation key press.
	EventKey EventKind = iota
	// EventPointer is a pointer activation of a list row.
	EventPointer
	// EventQueryChanged means the query text changed and the result list
	// was recomputed. The list length passed along is the new one.
	EventQueryChanged
)

// Event is an input to the state machine.
type Event struct {
	Kind  EventKind
	Key   Key // for EventKey
	Index int // for EventPointer
}

// KeyPress returns a key event.
func KeyPress(k Key) Event {
	return Event{Kind: EventKey, Key: k}
}

// PointerActivate returns a pointer activation of row i.
func PointerActivate(i int) Event {
	return Event{Kind: EventPointer, Index: i}
}

// QueryChanged returns a query change event.
func QueryChanged() Event {
	return Event{Kind: EventQueryChanged}
}

// ActionKind discriminates [Action].
type ActionKind int

const (
	// ActionNone means nothing happens beyond the state change, if any.
	ActionNone ActionKind = iota
	// ActionSelect means Index became selected.
	ActionSelect
	// ActionClearSelection means the selection was dropped.
	ActionClearSelection
	// ActionActivate asks the caller to launch the entry at Index.
	ActionActivate
	// ActionClose asks the caller to close the launcher.
	ActionClose
)

func (k ActionKind) String() string {
	switch k {
	case ActionNone:
		return "none"
	case ActionSelect:
		return "select"
	case ActionClearSelection:
		return "clear"
	case ActionActivate:
		return "activate"
	case ActionClose:
		return "close"
	default:
		return fmt.Sprintf("ActionKind(%d)", int(k))
	}
}

// Action is the side effect requested by a transition.
type Action struct {
	Kind  ActionKind
	Index int // for ActionSelect and ActionActivate
}

func none() Action { return Action{Kind: ActionNone, Index: NoSelection} }

func selectIndex(i int) Action { return Action{Kind: ActionSelect, Index: i} }

func activate(i int) Action { return Action{Kind: ActionActivate, Index: i} }

// Transition applies ev to s given the current result list length.
//
// It is total: events with no row in the table (Enter in the query input,
// a pointer on a row that does not exist) leave the state unchanged and
// return an action of kind [ActionNone]. A state whose selection does not
// fit listLen is repaired before the event is applied.
func Transition(s State, ev Event, listLen int) (State, Action) {
	// The focus before the change decides, so this runs on the raw state.
	if ev.Kind == EventQueryChanged {
		if s.Focus == ListFocused {
			if listLen > 0 {
				return State{Focus: ListFocused, Selected: 0}, selectIndex(0)
			}

			return Initial(), Action{Kind: ActionClearSelection, Index: NoSelection}
		}

		return Initial(), none()
	}

	s = normalize(s, listLen)

	switch ev.Kind {
	case EventPointer:
		if ev.Index < 0 || ev.Index >= listLen {
			return s, none()
		}

		return s, activate(ev.Index)

	case EventKey:
		if s.Focus == ListFocused {
			return listKey(s, ev.Key, listLen)
		}

		return searchKey(s, ev.Key, listLen)
	}

	return s, none()
}

func searchKey(s State, k Key, listLen int) (State, Action) {
	switch k {
	case KeyDown:
		if listLen == 0 {
			return s, none()
		}

		return State{Focus: ListFocused, Selected: 0}, selectIndex(0)

	case KeyUp:
		if listLen == 0 {
			return s, none()
		}

		last := listLen - 1

		return State{Focus: ListFocused, Selected: last}, selectIndex(last)

	case KeyEscape:
		return s, Action{Kind: ActionClose, Index: NoSelection}

	case KeyNone, KeyEnter, KeyRight:
	}

	return s, none()
}

func listKey(s State, k Key, listLen int) (State, Action) {
	switch k {
	case KeyUp:
		if s.Selected == 0 {
			return Initial(), Action{Kind: ActionClearSelection, Index: NoSelection}
		}

		s.Selected--

		return s, selectIndex(s.Selected)

	case KeyDown:
		if s.Selected >= listLen-1 {
			return s, none()
		}

		s.Selected++

		return s, selectIndex(s.Selected)

	case KeyEnter, KeyRight:
		return s, activate(s.Selected)

	case KeyEscape:
		return s, Action{Kind: ActionClose, Index: NoSelection}

	case KeyNone:
	}

	return s, none()
}

// normalize repairs a state that does not fit the list: the selection is
// clamped to the last row, and an empty list drops focus back to search.
func normalize(s State, listLen int) State {
	if s.Focus != ListFocused {
		return Initial()
	}

	if listLen <= 0 {
		return Initial()
	}

	if s.Selected < 0 {
		s.Selected = 0
	}

	if s.Selected >= listLen {
		s.Selected = listLen - 1
	}

	return s
}

// Controller holds a navigation [State] and feeds events through
// [Transition].
type Controller struct {
	state State
}

// NewController returns a controller in the [Initial] state.
func NewController() *Controller {
	return &Controller{state: Initial()}
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// Handle applies ev and returns the requested action.
func (c *Controller) Handle(ev Event, listLen int) Action {
	var action Action

	c.state, action = Transition(c.state, ev, listLen)

	return action
}

// Reset returns the controller to the [Initial] state.
func (c *Controller) Reset() {
	c.state = Initial()
}
