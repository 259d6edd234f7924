package collision

import (
	"fmt"
	"math"

	"github.com/san-kum/edmd/internal/boundary"
)

// DefaultEpsilon is the contact-time tolerance used by the fence and by
// tie detection.
const DefaultEpsilon = 1e-12

type Kind int

const (
	KindBody Kind = iota
	KindStatic
	KindWall
)

func (k Kind) String() string {
	switch k {
	case KindBody:
		return "body"
	case KindStatic:
		return "static"
	case KindWall:
		return "wall"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Obstacle is whatever a moving body collides with. ID is meaningful for
// bodies and static bodies, Side only for walls.
type Obstacle struct {
	Kind Kind
	ID   int
	Side boundary.Side
}

func BodyObstacle(id int) Obstacle   { return Obstacle{Kind: KindBody, ID: id} }
func StaticObstacle(id int) Obstacle { return Obstacle{Kind: KindStatic, ID: id} }
func WallObstacle(s boundary.Side) Obstacle {
	return Obstacle{Kind: KindWall, ID: -1, Side: s}
}

// IsBody reports whether the obstacle is a disk (movable or static).
func (o Obstacle) IsBody() bool { return o.Kind == KindBody || o.Kind == KindStatic }

func (o Obstacle) String() string {
	if o.Kind == KindWall {
		return "wall:" + o.Side.String()
	}
	return fmt.Sprintf("%s:%d", o.Kind, o.ID)
}

// Event is a predicted contact of Body with Other, Tc from now.
type Event struct {
	Tc    float64
	Body  int
	Other Obstacle
}

// Never is the event returned when nothing will ever be hit.
func Never(id int) Event {
	return Event{Tc: math.Inf(1), Body: id, Other: Obstacle{Kind: KindWall, ID: -1}}
}

func (e Event) Finite() bool { return !math.IsInf(e.Tc, 0) && !math.IsNaN(e.Tc) }

// Involves reports whether the body id takes part in the event.
func (e Event) Involves(id int) bool {
	return e.Body == id || (e.Other.IsBody() && e.Other.ID == id)
}

func (e Event) String() string {
	return fmt.Sprintf("[%.9f][%d]->[%s]", e.Tc, e.Body, e.Other)
}
