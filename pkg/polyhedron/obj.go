package polyhedron

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// WriteOBJ writes p as Wavefront OBJ text. Faces keep their polygon
// shape and winding; indices are 1-based as the format requires.
func (p *Polyhedron) WriteOBJ(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# %s\n", p.Name())
	fmt.Fprintf(bw, "o %s\n", p.Name())
	for _, v := range p.Positions {
		fmt.Fprintf(bw, "v %s %s %s\n", formatCoord(v.X), formatCoord(v.Y), formatCoord(v.Z))
	}
	for _, f := range p.Faces {
		bw.WriteString("f")
		for _, vi := range f {
			bw.WriteByte(' ')
			bw.WriteString(strconv.Itoa(vi + 1))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

func formatCoord(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}

// ReadOBJ parses vertex positions and polygon faces from Wavefront OBJ
// text. Texture and normal references ("f 1/2/3") are ignored, as are
// directives other than v and f. Negative indices count back from the
// most recent vertex. The result is validated like New.
func ReadOBJ(r io.Reader, seed string) (*Polyhedron, error) {
	var (
		positions []Vertex
		faces     []Face
	)
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, fmt.Errorf("%w: obj line %d: vertex needs 3 coordinates", ErrInvalidMesh, line)
			}
			var c [3]float64
			for i := range c {
				x, err := strconv.ParseFloat(fields[i+1], 64)
				if err != nil {
					return nil, fmt.Errorf("%w: obj line %d: %v", ErrInvalidMesh, line, err)
				}
				c[i] = x
			}
			positions = append(positions, Vertex{X: c[0], Y: c[1], Z: c[2]})
		case "f":
			face := make(Face, 0, len(fields)-1)
			for _, ref := range fields[1:] {
				idx, _, _ := strings.Cut(ref, "/")
				n, err := strconv.Atoi(idx)
				if err != nil {
					return nil, fmt.Errorf("%w: obj line %d: %v", ErrInvalidMesh, line, err)
				}
				switch {
				case n > 0:
					n--
				case n < 0:
					n += len(positions)
				default:
					return nil, fmt.Errorf("%w: obj line %d: index 0", ErrInvalidMesh, line)
				}
				face = append(face, n)
			}
			faces = append(faces, face)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read obj: %w", err)
	}
	return New(seed, positions, faces)
}
