// Package accum keeps time-binned collision counts and momentum transfer
// per surface, the raw material for pressure estimates.
package accum

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/san-kum/edmd/internal/boundary"
)

type SurfaceKind int

const (
	SurfaceWall SurfaceKind = iota
	SurfaceBody
)

// Surface names something that receives momentum: a wall or an obstacle
// body.
type Surface struct {
	Kind SurfaceKind
	Side boundary.Side
	ID   int
}

func Wall(s boundary.Side) Surface { return Surface{Kind: SurfaceWall, Side: s, ID: -1} }
func Obstacle(id int) Surface      { return Surface{Kind: SurfaceBody, ID: id} }

// Walls returns the four wall surfaces in side order.
func Walls() []Surface {
	out := make([]Surface, 0, len(boundary.Sides))
	for _, s := range boundary.Sides {
		out = append(out, Wall(s))
	}
	return out
}

func (s Surface) String() string {
	if s.Kind == SurfaceWall {
		return "wall:" + s.Side.String()
	}
	return fmt.Sprintf("body:%d", s.ID)
}

// ParseSurface accepts the String form, plus bare side names.
func ParseSurface(name string) (Surface, error) {
	kind, rest, found := strings.Cut(name, ":")
	if !found {
		side, err := boundary.ParseSide(name)
		if err != nil {
			return Surface{}, fmt.Errorf("accum: unknown surface %q", name)
		}
		return Wall(side), nil
	}
	switch kind {
	case "wall":
		side, err := boundary.ParseSide(rest)
		if err != nil {
			return Surface{}, fmt.Errorf("accum: unknown surface %q: %w", name, err)
		}
		return Wall(side), nil
	case "body":
		id, err := strconv.Atoi(rest)
		if err != nil {
			return Surface{}, fmt.Errorf("accum: unknown surface %q: %w", name, err)
		}
		return Obstacle(id), nil
	}
	return Surface{}, fmt.Errorf("accum: unknown surface %q", name)
}
