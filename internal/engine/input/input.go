// Package input tracks keyboard and mouse state from window events.
//
// The window package translates platform events into Event values and pushes
// them here once per frame. Nothing in this package talks to the platform.
package input

// EventType identifies an input event.
type EventType int

// Event types.
const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventMouseWheel
)

// Key is a physical key code. Values follow the USB HID usage table, which is
// also what SDL scancodes use.
type Key uint32

// Keys used by the engine.
const (
	KeyA Key = 4
	KeyB Key = 5
	KeyC Key = 6
	KeyD Key = 7
	KeyE Key = 8
	KeyF Key = 9
	KeyL Key = 15
	KeyO Key = 18
	KeyQ Key = 20
	KeyR Key = 21
	KeyS Key = 22
	KeyV Key = 25
	KeyW Key = 26

	KeyReturn Key = 40
	KeyEscape Key = 41
	KeySpace  Key = 44

	KeyF1  Key = 58
	KeyF12 Key = 69

	KeyRight Key = 79
	KeyLeft  Key = 80
	KeyDown  Key = 81
	KeyUp    Key = 82

	KeyLCtrl  Key = 224
	KeyLShift Key = 225
)

// Button is a mouse button.
type Button uint8

// Mouse buttons.
const (
	ButtonLeft   Button = 1
	ButtonMiddle Button = 2
	ButtonRight  Button = 3
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    Key
	Repeat bool // key auto-repeat
	Width  int
	Height int
	MouseX int
	MouseY int
	// Relative motion for EventMouseMove.
	DX, DY float32
	Button Button
	WheelY float32
}

// State accumulates events into held keys and per-frame edges and deltas.
type State struct {
	events []Event

	held    map[Key]bool
	pressed map[Key]bool

	buttons map[Button]bool
	clicked map[Button]bool

	mouseX, mouseY int
	dx, dy         float32
	scroll         float32

	resized       bool
	width, height int

	quit bool
}

// New creates an empty input state.
func New() *State {
	return &State{
		events:  make([]Event, 0, 16),
		held:    make(map[Key]bool),
		pressed: make(map[Key]bool),
		buttons: make(map[Button]bool),
		clicked: make(map[Button]bool),
	}
}

// Begin starts a new frame, clearing edges, deltas and the event list.
// Held keys and buttons carry over.
func (s *State) Begin() {
	s.events = s.events[:0]
	clear(s.pressed)
	clear(s.clicked)
	s.dx, s.dy = 0, 0
	s.scroll = 0
	s.resized = false
}

// Push applies e to the state.
func (s *State) Push(e Event) {
	s.events = append(s.events, e)

	switch e.Type {
	case EventQuit:
		s.quit = true
	case EventWindowResize:
		s.resized = true
		s.width, s.height = e.Width, e.Height
	case EventKeyDown:
		if !e.Repeat && !s.held[e.Key] {
			s.pressed[e.Key] = true
		}
		s.held[e.Key] = true
	case EventKeyUp:
		delete(s.held, e.Key)
	case EventMouseMove:
		s.mouseX, s.mouseY = e.MouseX, e.MouseY
		s.dx += e.DX
		s.dy += e.DY
	case EventMouseDown:
		s.mouseX, s.mouseY = e.MouseX, e.MouseY
		if !s.buttons[e.Button] {
			s.clicked[e.Button] = true
		}
		s.buttons[e.Button] = true
	case EventMouseUp:
		s.mouseX, s.mouseY = e.MouseX, e.MouseY
		delete(s.buttons, e.Button)
	case EventMouseWheel:
		s.scroll += e.WheelY
	}
}

// Events returns the events pushed since the last Begin.
func (s *State) Events() []Event {
	return s.events
}

// KeyDown reports whether k is held.
func (s *State) KeyDown(k Key) bool { return s.held[k] }

// Pressed reports whether k went down this frame. Auto-repeat does not count.
func (s *State) Pressed(k Key) bool { return s.pressed[k] }

// MouseDown reports whether b is held.
func (s *State) MouseDown(b Button) bool { return s.buttons[b] }

// Clicked reports whether b went down this frame.
func (s *State) Clicked(b Button) bool { return s.clicked[b] }

// MousePosition returns the last known cursor position in window pixels.
func (s *State) MousePosition() (int, int) { return s.mouseX, s.mouseY }

// MouseDelta returns the relative mouse motion of this frame.
func (s *State) MouseDelta() (float32, float32) { return s.dx, s.dy }

// Scroll returns the vertical wheel motion of this frame.
func (s *State) Scroll() float32 { return s.scroll }

// Resized returns the new window size if it changed this frame.
func (s *State) Resized() (width, height int, ok bool) {
	return s.width, s.height, s.resized
}

// Quit reports whether a quit was requested. It stays set once seen.
func (s *State) Quit() bool { return s.quit }

// Axis returns -1, 0 or 1 depending on which of neg and pos are held.
func (s *State) Axis(neg, pos Key) float32 {
	var v float32
	if s.held[neg] {
		v--
	}
	if s.held[pos] {
		v++
	}
	return v
}
