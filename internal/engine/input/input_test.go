package input

import "testing"

func TestPressedIsEdgeTriggered(t *testing.T) {
	s := New()

	s.Begin()
	s.Push(Event{Type: EventKeyDown, Key: KeyE})
	if !s.Pressed(KeyE) || !s.KeyDown(KeyE) {
		t.Fatal("expected E pressed and held on the first frame")
	}

	s.Begin()
	s.Push(Event{Type: EventKeyDown, Key: KeyE, Repeat: true})
	if s.Pressed(KeyE) {
		t.Error("expected auto-repeat not to count as a press")
	}
	if !s.KeyDown(KeyE) {
		t.Error("expected E still held")
	}

	s.Begin()
	s.Push(Event{Type: EventKeyUp, Key: KeyE})
	if s.KeyDown(KeyE) {
		t.Error("expected E released")
	}
}

func TestAxis(t *testing.T) {
	tests := []struct {
		name     string
		keys     []Key
		expected float32
	}{
		{"none", nil, 0},
		{"forward", []Key{KeyW}, 1},
		{"back", []Key{KeyS}, -1},
		{"both cancel", []Key{KeyW, KeyS}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			s.Begin()
			for _, k := range tt.keys {
				s.Push(Event{Type: EventKeyDown, Key: k})
			}
			if got := s.Axis(KeyS, KeyW); got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestMouse(t *testing.T) {
	s := New()

	s.Begin()
	s.Push(Event{Type: EventMouseMove, MouseX: 10, MouseY: 20, DX: 3, DY: -1})
	s.Push(Event{Type: EventMouseMove, MouseX: 12, MouseY: 21, DX: 2, DY: 1})
	s.Push(Event{Type: EventMouseDown, MouseX: 12, MouseY: 21, Button: ButtonLeft})
	s.Push(Event{Type: EventMouseWheel, WheelY: 1})
	s.Push(Event{Type: EventMouseWheel, WheelY: 2})

	if dx, dy := s.MouseDelta(); dx != 5 || dy != 0 {
		t.Errorf("expected delta (5,0), got (%v,%v)", dx, dy)
	}
	if x, y := s.MousePosition(); x != 12 || y != 21 {
		t.Errorf("expected position (12,21), got (%d,%d)", x, y)
	}
	if !s.Clicked(ButtonLeft) || !s.MouseDown(ButtonLeft) {
		t.Error("expected left button clicked and held")
	}
	if s.Scroll() != 3 {
		t.Errorf("expected scroll 3, got %v", s.Scroll())
	}
	if len(s.Events()) != 5 {
		t.Errorf("expected 5 events, got %d", len(s.Events()))
	}

	s.Begin()
	if dx, dy := s.MouseDelta(); dx != 0 || dy != 0 {
		t.Errorf("expected delta reset, got (%v,%v)", dx, dy)
	}
	if s.Clicked(ButtonLeft) {
		t.Error("expected click edge cleared")
	}
	if !s.MouseDown(ButtonLeft) {
		t.Error("expected left button still held")
	}
	if s.Scroll() != 0 || len(s.Events()) != 0 {
		t.Error("expected scroll and events cleared")
	}

	s.Push(Event{Type: EventMouseUp, Button: ButtonLeft})
	if s.MouseDown(ButtonLeft) {
		t.Error("expected left button released")
	}
}

func TestResizeAndQuit(t *testing.T) {
	s := New()

	s.Begin()
	s.Push(Event{Type: EventWindowResize, Width: 800, Height: 600})
	if w, h, ok := s.Resized(); !ok || w != 800 || h != 600 {
		t.Errorf("expected resize to 800x600, got %dx%d ok=%v", w, h, ok)
	}

	s.Begin()
	if _, _, ok := s.Resized(); ok {
		t.Error("expected resize flag cleared")
	}

	s.Push(Event{Type: EventQuit})
	s.Begin()
	if !s.Quit() {
		t.Error("expected quit to persist across frames")
	}
}
