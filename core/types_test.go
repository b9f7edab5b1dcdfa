package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/siligen/layoutgen/core"
)

func TestRectangle_NormalizesCornerOrder(t *testing.T) {
	r := core.NewRectangle("poly", 5, 5, 1, 1)
	assert.Equal(t, core.Point{X: 1, Y: 1}, r.P0)
	assert.Equal(t, core.Point{X: 5, Y: 5}, r.P1)
}

func TestRectangle_WidthHeightAreaCenter(t *testing.T) {
	r := core.NewRectangle("metal1", 0, 0, 4, 2)
	assert.Equal(t, 4.0, r.Width())
	assert.Equal(t, 2.0, r.Height())
	assert.Equal(t, 8.0, r.Area())
	assert.Equal(t, core.Point{X: 2, Y: 1}, r.Center())
}

func TestRectangle_Translate(t *testing.T) {
	r := core.NewRectangle("poly", 0, 0, 1, 1)
	moved := r.Translate(3, -2)
	assert.Equal(t, core.Point{X: 3, Y: -2}, moved.P0)
	assert.Equal(t, core.Point{X: 4, Y: -1}, moved.P1)
}

func TestPin_Translate(t *testing.T) {
	p := core.Pin{Net: "VDD", Layer: "metal1", Rect: core.NewRectangle("metal1", 0, 0, 1, 1)}
	moved := p.Translate(1, 1)
	assert.Equal(t, "VDD", moved.Net)
	assert.Equal(t, core.Point{X: 1, Y: 1}, moved.Rect.P0)
}

func TestBoundingBox(t *testing.T) {
	rs := []core.Rectangle{
		core.NewRectangle("ndiffusion", 0, 0, 2, 2),
		core.NewRectangle("ndiffusion", 5, -1, 7, 1),
	}
	box, ok := core.BoundingBox("ndiffusion", rs)
	assert.True(t, ok)
	assert.Equal(t, core.Point{X: 0, Y: -1}, box.P0)
	assert.Equal(t, core.Point{X: 7, Y: 2}, box.P1)
}

func TestBoundingBox_Empty(t *testing.T) {
	_, ok := core.BoundingBox("poly", nil)
	assert.False(t, ok)
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "diff", core.Diff.String())
	assert.Equal(t, "gate", core.Gate.String())
	assert.Equal(t, "unknown", core.Kind(99).String())
}

func TestNewDiffGate(t *testing.T) {
	d := core.NewDiff("S", 0.1, 0.5)
	assert.Equal(t, core.Diff, d.Kind)
	assert.Equal(t, "S", d.Net)

	g := core.NewGate("G", 0.1, 0.5)
	assert.Equal(t, core.Gate, g.Kind)
}
