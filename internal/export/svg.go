package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/edmd/internal/analysis"
	"github.com/san-kum/edmd/internal/body"
	"github.com/san-kum/edmd/internal/boundary"
)

const (
	background  = "#0a0a0a"
	wallColor   = "#888888"
	diskColor   = "#00ff00"
	staticColor = "#ff5f5f"
	movingColor = "#ffaf00"
)

// Style selects what a snapshot draws.
type Style struct {
	// Size is the longer side of the image in pixels.
	Size int
	// Path is drawn over the disks when not empty.
	Path       []analysis.Sample
	PathColor  string
	Velocities bool
}

type frame struct {
	w, h  float64
	scale float64
}

func newFrame(bx boundary.Box, size int) frame {
	if size <= 0 {
		size = 600
	}
	scale := float64(size) / math.Max(bx.Width, bx.Height)
	return frame{w: bx.Width * scale, h: bx.Height * scale, scale: scale}
}

// px maps box coordinates to SVG pixels with y pointing up.
func (f frame) px(x, y float64) (float64, float64) {
	return x * f.scale, f.h - y*f.scale
}

func (f frame) header(sb *strings.Builder) {
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
<rect x="0" y="0" width="%.0f" height="%.0f" fill="none" stroke="%s" stroke-width="2"/>
`, f.w, f.h, f.w, f.h, background, f.w, f.h, wallColor))
}

func (f frame) path(sb *strings.Builder, points []analysis.Sample, color string) {
	if len(points) < 2 {
		return
	}
	if color == "" {
		color = movingColor
	}
	sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, color))
	for i, p := range points {
		x, y := f.px(p.X, p.Y)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}
	sb.WriteString("\"/>\n")
}

// StateToSVG renders the box and every disk of a snapshot. Static disks
// and the obstacle get their own colours.
func StateToSVG(bodies []body.Body, bx boundary.Box, style Style) string {
	f := newFrame(bx, style.Size)
	var sb strings.Builder
	f.header(&sb)

	for _, b := range bodies {
		cx, cy := f.px(b.Pos.X, b.Pos.Y)
		r := math.Max(b.Radius*f.scale, 0.5)
		color := diskColor
		switch {
		case b.Static:
			color = staticColor
		case b.ID == 0:
			color = movingColor
		}
		sb.WriteString(fmt.Sprintf(`<circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s"/>
`, cx, cy, r, color))
		if style.Velocities && !b.Static {
			ex, ey := f.px(b.Pos.X+b.Vel.X*b.Radius*2, b.Pos.Y+b.Vel.Y*b.Radius*2)
			sb.WriteString(fmt.Sprintf(`<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="0.5"/>
`, cx, cy, ex, ey, color))
		}
	}
	f.path(&sb, style.Path, style.PathColor)

	sb.WriteString("</svg>")
	return sb.String()
}

// TrajectoryToSVG draws a single path inside the box outline.
func TrajectoryToSVG(points []analysis.Sample, bx boundary.Box, size int, strokeColor string) string {
	if len(points) < 2 {
		return ""
	}
	f := newFrame(bx, size)
	var sb strings.Builder
	f.header(&sb)
	f.path(&sb, points, strokeColor)
	sb.WriteString("</svg>")
	return sb.String()
}
