package polyhedron

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Seed solids are named with their Conway notation letters.

// Tetrahedron returns a regular tetrahedron inscribed in the cube [-1,1]^3.
func Tetrahedron() *Polyhedron {
	return MustNew("T",
		[]Vertex{
			{X: 1, Y: 1, Z: 1},
			{X: 1, Y: -1, Z: -1},
			{X: -1, Y: 1, Z: -1},
			{X: -1, Y: -1, Z: 1},
		},
		[]Face{{0, 1, 2}, {0, 2, 3}, {0, 3, 1}, {1, 3, 2}},
	)
}

// Cube returns the unit cube centred on the origin.
func Cube() *Polyhedron {
	return MustNew("C",
		[]Vertex{
			{X: -0.5, Y: -0.5, Z: -0.5},
			{X: 0.5, Y: -0.5, Z: -0.5},
			{X: 0.5, Y: 0.5, Z: -0.5},
			{X: -0.5, Y: 0.5, Z: -0.5},
			{X: -0.5, Y: -0.5, Z: 0.5},
			{X: 0.5, Y: -0.5, Z: 0.5},
			{X: 0.5, Y: 0.5, Z: 0.5},
			{X: -0.5, Y: 0.5, Z: 0.5},
		},
		[]Face{
			{0, 3, 2, 1}, // bottom
			{4, 5, 6, 7}, // top
			{0, 1, 5, 4},
			{1, 2, 6, 5},
			{2, 3, 7, 6},
			{3, 0, 4, 7},
		},
	)
}

// Octahedron returns the regular octahedron with vertices on the axes.
func Octahedron() *Polyhedron {
	return MustNew("O",
		[]Vertex{
			{X: 1}, {X: -1},
			{Y: 1}, {Y: -1},
			{Z: 1}, {Z: -1},
		},
		[]Face{
			{0, 2, 4}, {2, 1, 4}, {1, 3, 4}, {3, 0, 4},
			{2, 0, 5}, {1, 2, 5}, {3, 1, 5}, {0, 3, 5},
		},
	)
}

// Icosahedron returns the regular icosahedron built from three orthogonal
// golden rectangles.
func Icosahedron() *Polyhedron {
	t := (1 + math.Sqrt(5)) / 2
	return MustNew("I",
		[]Vertex{
			{X: -1, Y: t}, {X: 1, Y: t}, {X: -1, Y: -t}, {X: 1, Y: -t},
			{Y: -1, Z: t}, {Y: 1, Z: t}, {Y: -1, Z: -t}, {Y: 1, Z: -t},
			{X: t, Z: -1}, {X: t, Z: 1}, {X: -t, Z: -1}, {X: -t, Z: 1},
		},
		[]Face{
			{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
			{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
			{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
			{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
		},
	)
}

// Prism returns an n-sided prism with unit circumradius and unit height.
// It panics if n < 3.
func Prism(n int) *Polyhedron {
	if n < 3 {
		panic(fmt.Sprintf("polyhedron: prism needs at least 3 sides, got %d", n))
	}
	positions := make([]Vertex, 0, 2*n)
	for _, z := range []float64{-0.5, 0.5} {
		for i := 0; i < n; i++ {
			a := 2 * math.Pi * float64(i) / float64(n)
			positions = append(positions, Vertex{X: math.Cos(a), Y: math.Sin(a), Z: z})
		}
	}

	bottom := make(Face, n)
	top := make(Face, n)
	for i := 0; i < n; i++ {
		bottom[i] = n - 1 - i
		top[i] = n + i
	}
	faces := []Face{bottom, top}
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		faces = append(faces, Face{i, j, n + j, n + i})
	}
	return MustNew("P"+strconv.Itoa(n), positions, faces)
}

// Pyramid returns an n-sided pyramid with unit circumradius base and unit
// height. It panics if n < 3.
func Pyramid(n int) *Polyhedron {
	if n < 3 {
		panic(fmt.Sprintf("polyhedron: pyramid needs at least 3 sides, got %d", n))
	}
	positions := make([]Vertex, 0, n+1)
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		positions = append(positions, Vertex{X: math.Cos(a), Y: math.Sin(a)})
	}
	positions = append(positions, Vertex{Z: 1})

	base := make(Face, n)
	for i := 0; i < n; i++ {
		base[i] = n - 1 - i
	}
	faces := []Face{base}
	for i := 0; i < n; i++ {
		faces = append(faces, Face{i, (i + 1) % n, n})
	}
	return MustNew("Y"+strconv.Itoa(n), positions, faces)
}

// SeedNames lists the names accepted by Seed for the fixed solids.
var SeedNames = []string{"tetrahedron", "cube", "octahedron", "icosahedron"}

// MaxSides bounds the side count Seed accepts for prisms and pyramids.
const MaxSides = 1000

// Seed resolves a seed by Conway letter ("T", "C", "O", "I", "P5", "Y4") or
// by name ("cube", "prism5", ...).
func Seed(name string) (*Polyhedron, error) {
	switch strings.ToLower(name) {
	case "t", "tetrahedron":
		return Tetrahedron(), nil
	case "c", "cube", "hexahedron":
		return Cube(), nil
	case "o", "octahedron":
		return Octahedron(), nil
	case "i", "icosahedron":
		return Icosahedron(), nil
	}

	lower := strings.ToLower(name)
	for _, s := range []struct {
		prefixes []string
		build    func(int) *Polyhedron
	}{
		{[]string{"prism", "p"}, Prism},
		{[]string{"pyramid", "y"}, Pyramid},
	} {
		for _, prefix := range s.prefixes {
			rest, ok := strings.CutPrefix(lower, prefix)
			if !ok {
				continue
			}
			n, err := strconv.Atoi(rest)
			if err != nil {
				continue
			}
			if n < 3 {
				return nil, fmt.Errorf("seed %q: need at least 3 sides", name)
			}
			if n > MaxSides {
				return nil, fmt.Errorf("seed %q: at most %d sides", name, MaxSides)
			}
			return s.build(n), nil
		}
	}
	return nil, fmt.Errorf("unknown seed %q", name)
}
