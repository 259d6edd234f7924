package viz

import (
	"math"

	"github.com/san-kum/edmd/internal/analysis"
	"github.com/san-kum/edmd/internal/boundary"
	"github.com/san-kum/edmd/internal/sim"
)

// Projection maps box coordinates onto canvas dots, preserving aspect ratio
// and flipping y so the bottom wall is at the bottom of the screen.
type Projection struct {
	Scale  float64
	W, H   int
	OffX   int
	OffY   int
	Height float64
}

func NewProjection(c *Canvas, bx boundary.Box) Projection {
	cw, ch := c.Dots()
	scale := math.Min(float64(cw-1)/bx.Width, float64(ch-1)/bx.Height)
	w, h := int(bx.Width*scale), int(bx.Height*scale)
	return Projection{Scale: scale, W: w, H: h, OffX: (cw - 1 - w) / 2, OffY: (ch - 1 - h) / 2, Height: bx.Height}
}

func (p Projection) Point(x, y float64) (int, int) {
	return p.OffX + int(math.Round(x*p.Scale)), p.OffY + int(math.Round((p.Height-y)*p.Scale))
}

func (p Projection) Length(r float64) int { return int(math.Round(r * p.Scale)) }

// RenderState draws the box outline and every disk. Disks smaller than a dot
// become single dots, static bodies are outlined, finite-mass bodies filled.
func RenderState(c *Canvas, st *sim.State) Projection {
	p := NewProjection(c, st.Box)
	c.DrawRect(p.OffX, p.OffY, p.OffX+p.W, p.OffY+p.H)
	for _, b := range st.Bodies {
		x, y := p.Point(b.Pos.X, b.Pos.Y)
		r := p.Length(b.Radius)
		switch {
		case b.Static:
			c.DrawCircle(x, y, r)
		case r <= 1:
			c.Set(x, y)
		default:
			c.FillCircle(x, y, r)
		}
	}
	return p
}

// RenderTrail connects consecutive samples of a path.
func RenderTrail(c *Canvas, p Projection, trail []analysis.Sample) {
	for i := 1; i < len(trail); i++ {
		x0, y0 := p.Point(trail[i-1].X, trail[i-1].Y)
		x1, y1 := p.Point(trail[i].X, trail[i].Y)
		c.DrawLine(x0, y0, x1, y1)
	}
}
