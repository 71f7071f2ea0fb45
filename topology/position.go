package topology

import "fmt"

// Position is a signed (x,y) chip-mesh coordinate. Routers address the
// mesh modulo its (width,height) extent; Position itself carries no
// modulus and is reduced by callers that know the mesh dimensions.
type Position struct {
	X, Y int
}

// Add returns p translated by the unit delta of direction d.
func (p Position) Add(d Direction) Position {
	delta := d.Delta()
	return Position{X: p.X + delta.X, Y: p.Y + delta.Y}
}

// Mod reduces p into [0,width) x [0,height), wrapping toroidally. Both
// dimensions must be strictly positive.
func (p Position) Mod(width, height int) Position {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("topology: invalid mesh dimensions %dx%d", width, height))
	}
	return Position{X: floorMod(p.X, width), Y: floorMod(p.Y, height)}
}

func floorMod(a, m int) int {
	r := a % m
	if r < 0 {
		r += m
	}
	return r
}
