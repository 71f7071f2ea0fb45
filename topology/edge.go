package topology

import "fmt"

// Edge identifies one of the six outward-facing sides of a hexagonal board.
type Edge int

// The six board edges, in the fixed order the spec assigns them.
const (
	Top Edge = iota
	TopLeft
	BottomLeft
	Bottom
	BottomRight
	TopRight
)

var edgeNames = [...]string{"Top", "TopLeft", "BottomLeft", "Bottom", "BottomRight", "TopRight"}

// NumEdges is the number of distinct board edges.
const NumEdges = 6

// String returns the short name of the edge.
func (e Edge) String() string {
	if e < 0 || int(e) >= NumEdges {
		return fmt.Sprintf("Edge(%d)", int(e))
	}
	return edgeNames[e]
}

// outwardDirection maps each board edge to the Direction a chip on that
// edge points to leave the board. The mapping walks the same rotational
// order as Direction's own cw/ccw cycle, offset so Top faces N.
var outwardDirection = [NumEdges]Direction{
	Top:         N,
	TopLeft:     W,
	BottomLeft:  SW,
	Bottom:      S,
	BottomRight: E,
	TopRight:    NE,
}

// Direction returns the outward-facing Direction associated with edge e.
func (e Edge) Direction() Direction {
	if e < 0 || int(e) >= NumEdges {
		panic(fmt.Sprintf("topology: invalid edge index %d", int(e)))
	}
	return outwardDirection[e]
}

// Opposite returns the edge on the far side of the board: Top/Bottom,
// TopLeft/BottomRight and BottomLeft/TopRight pair up, matching the
// three axes a hexagonal board's edges fall on.
func (e Edge) Opposite() Edge {
	if e < 0 || int(e) >= NumEdges {
		panic(fmt.Sprintf("topology: invalid edge index %d", int(e)))
	}
	return Edge((int(e) + NumEdges/2) % NumEdges)
}
