// Package window tracks the assistant window that lives in the UI process.
//
// The server never draws anything. It keeps the authoritative window state
// (visibility, size, horizontal position) and hands it to the UI, which applies
// it. The controller also serves as the hide/show bracket around captures.
package window

import "sync"

// Rect describes the window geometry in screen coordinates.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// State is a snapshot of the window.
type State struct {
	Visible     bool `json:"visible"`
	Bounds      Rect `json:"bounds"`
	ScreenWidth int  `json:"screen_width"`
}

// Controller is the window surface the application state drives.
type Controller interface {
	Hide()
	Show()
	Toggle()
	Visible() bool
	SetDimensions(width, height int)
	MoveLeft()
	MoveRight()
	State() State
}

// Listener receives the new state after every change.
type Listener func(State)

// HeadlessController is an in-memory Controller.
type HeadlessController struct {
	mu          sync.Mutex
	visible     bool
	bounds      Rect
	screenWidth int
	step        int
	listeners   []Listener
}

// NewHeadlessController creates a visible window centred on a screen of the given width.
func NewHeadlessController(screenWidth int) *HeadlessController {
	if screenWidth <= 0 {
		screenWidth = 1920
	}
	c := &HeadlessController{
		visible:     true,
		screenWidth: screenWidth,
		step:        screenWidth / 10,
		bounds:      Rect{Width: 600, Height: 400},
	}
	c.bounds.X = (screenWidth - c.bounds.Width) / 2
	return c
}

// OnChange registers a listener called after each state change.
func (c *HeadlessController) OnChange(l Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, l)
}

// Hide hides the window.
func (c *HeadlessController) Hide() {
	c.update(func() { c.visible = false })
}

// Show shows the window.
func (c *HeadlessController) Show() {
	c.update(func() { c.visible = true })
}

// Toggle flips visibility.
func (c *HeadlessController) Toggle() {
	c.update(func() { c.visible = !c.visible })
}

// Visible reports whether the window is shown.
func (c *HeadlessController) Visible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.visible
}

// SetDimensions resizes the window to fit its content. Non-positive values are ignored.
func (c *HeadlessController) SetDimensions(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.update(func() {
		c.bounds.Width = width
		c.bounds.Height = height
		c.bounds.X = c.clampX(c.bounds.X)
	})
}

// MoveLeft shifts the window one step left.
func (c *HeadlessController) MoveLeft() {
	c.update(func() { c.bounds.X = c.clampX(c.bounds.X - c.step) })
}

// MoveRight shifts the window one step right.
func (c *HeadlessController) MoveRight() {
	c.update(func() { c.bounds.X = c.clampX(c.bounds.X + c.step) })
}

// State returns a snapshot of the window.
func (c *HeadlessController) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

// clampX allows the window to hang at most half off either screen edge.
func (c *HeadlessController) clampX(x int) int {
	minX := -c.bounds.Width / 2
	maxX := c.screenWidth - c.bounds.Width/2
	if x < minX {
		return minX
	}
	if x > maxX {
		return maxX
	}
	return x
}

func (c *HeadlessController) snapshot() State {
	return State{Visible: c.visible, Bounds: c.bounds, ScreenWidth: c.screenWidth}
}

func (c *HeadlessController) update(mutate func()) {
	c.mu.Lock()
	mutate()
	state := c.snapshot()
	listeners := append([]Listener(nil), c.listeners...)
	c.mu.Unlock()

	for _, l := range listeners {
		l(state)
	}
}
