package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeadlessController_Visibility(t *testing.T) {
	c := NewHeadlessController(1000)
	assert.True(t, c.Visible())

	c.Hide()
	assert.False(t, c.Visible())
	c.Show()
	assert.True(t, c.Visible())
	c.Toggle()
	assert.False(t, c.Visible())
	c.Toggle()
	assert.True(t, c.Visible())
}

func TestHeadlessController_SetDimensions(t *testing.T) {
	c := NewHeadlessController(1000)

	c.SetDimensions(800, 300)
	assert.Equal(t, 800, c.State().Bounds.Width)
	assert.Equal(t, 300, c.State().Bounds.Height)

	c.SetDimensions(0, 500)
	c.SetDimensions(500, -1)
	assert.Equal(t, 800, c.State().Bounds.Width)
	assert.Equal(t, 300, c.State().Bounds.Height)
}

func TestHeadlessController_Move(t *testing.T) {
	c := NewHeadlessController(1000)
	start := c.State().Bounds.X
	assert.Equal(t, 200, start)

	c.MoveRight()
	assert.Equal(t, 300, c.State().Bounds.X)
	c.MoveLeft()
	c.MoveLeft()
	assert.Equal(t, 100, c.State().Bounds.X)

	for i := 0; i < 20; i++ {
		c.MoveLeft()
	}
	assert.Equal(t, -300, c.State().Bounds.X)

	for i := 0; i < 40; i++ {
		c.MoveRight()
	}
	assert.Equal(t, 700, c.State().Bounds.X)
}

func TestHeadlessController_OnChange(t *testing.T) {
	c := NewHeadlessController(1000)
	var seen []State
	c.OnChange(func(s State) { seen = append(seen, s) })

	c.Hide()
	c.SetDimensions(100, 100)

	assert.Len(t, seen, 2)
	assert.False(t, seen[0].Visible)
	assert.Equal(t, 100, seen[1].Bounds.Width)
}

func TestDefaultScreenWidth(t *testing.T) {
	c := NewHeadlessController(0)
	assert.Equal(t, 1920, c.State().ScreenWidth)
}
