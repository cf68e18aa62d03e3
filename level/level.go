// Package level holds the spatial partition of a loaded map: regions, their
// sub-regions and the boundary segments of each, plus the sprites and dynamic
// lights placed in it.
package level

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidLevel is wrapped by every validation failure.
var ErrInvalidLevel = errors.New("invalid level")

// Vertex is a map-space point.
type Vertex struct {
	X, Y float64
}

// UnmarshalYAML reads a vertex written as a two-element sequence [x, y].
func (v *Vertex) UnmarshalYAML(node *yaml.Node) error {
	var xy []float64
	if err := node.Decode(&xy); err != nil {
		return err
	}
	if len(xy) != 2 {
		return fmt.Errorf("line %d: vertex needs 2 coordinates, got %d", node.Line, len(xy))
	}
	v.X, v.Y = xy[0], xy[1]
	return nil
}

// Segment is one boundary edge of a sub-region.
type Segment struct {
	V1, V2 Vertex
}

// Plane is a floor or ceiling surface, A*x + B*y + C*z + D = 0.
type Plane struct {
	A float64 `yaml:"a"`
	B float64 `yaml:"b"`
	C float64 `yaml:"c"`
	D float64 `yaml:"d"`
}

// Flat returns a horizontal plane at height h.
func Flat(h float64) Plane {
	return Plane{C: 1, D: -h}
}

// ZAt returns the height of the plane at (x, y).
func (p Plane) ZAt(x, y float64) float64 {
	return -(p.A*x + p.B*y + p.D) / p.C
}

// UnmarshalYAML accepts either a bare height or a full {a, b, c, d} plane.
func (p *Plane) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		var h float64
		if err := node.Decode(&h); err != nil {
			return err
		}
		*p = Flat(h)
		return nil
	}
	type plain Plane
	return node.Decode((*plain)(p))
}

// minPolygonVertices is the smallest closed boundary a sub-region may have.
const minPolygonVertices = 3

// SubRegion is a convex cell of a region.
type SubRegion struct {
	Segments []Segment
}

// UnmarshalYAML reads a sub-region as a closed polygon of vertices.
func (s *SubRegion) UnmarshalYAML(node *yaml.Node) error {
	var poly []Vertex
	if err := node.Decode(&poly); err != nil {
		return err
	}
	*s = Polygon(poly...)
	return nil
}

// Polygon builds a sub-region whose boundary closes the given vertex loop.
func Polygon(vs ...Vertex) SubRegion {
	if len(vs) < 2 {
		return SubRegion{}
	}
	segs := make([]Segment, len(vs))
	for i := range vs {
		segs[i] = Segment{V1: vs[i], V2: vs[(i+1)%len(vs)]}
	}
	return SubRegion{Segments: segs}
}

// Region is one spatial partition cell with its floor, ceiling and light.
type Region struct {
	Floor      Plane       `yaml:"floor"`
	Ceiling    Plane       `yaml:"ceiling"`
	LightLevel int         `yaml:"light"`
	SubRegions []SubRegion `yaml:"subregions"`
}

// Thing is a sprite placed in the map.
type Thing struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Light is a dynamic point light.
type Light struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Radius float64 `yaml:"radius"`
}

// Level is a loaded map.
type Level struct {
	Name    string   `yaml:"name"`
	Title   string   `yaml:"title"`
	Regions []Region `yaml:"regions"`
	Things  []Thing  `yaml:"things"`
	Lights  []Light  `yaml:"lights"`
	Start   Vertex   `yaml:"start"`
}

// Load reads a level from a YAML file.
func Load(path string) (*Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading level: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a level.
func Parse(data []byte) (*Level, error) {
	lvl := &Level{}
	if err := yaml.Unmarshal(data, lvl); err != nil {
		return nil, fmt.Errorf("parsing level: %w", err)
	}
	if err := lvl.Validate(); err != nil {
		return nil, err
	}
	return lvl, nil
}

// Validate checks that every plane can be evaluated and every sub-region is
// bounded by a polygon of at least three vertices.
func (l *Level) Validate() error {
	if l.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidLevel)
	}
	for i, r := range l.Regions {
		if r.Floor.C == 0 {
			return fmt.Errorf("%w: region %d floor is vertical", ErrInvalidLevel, i)
		}
		if r.Ceiling.C == 0 {
			return fmt.Errorf("%w: region %d ceiling is vertical", ErrInvalidLevel, i)
		}
		for j, sub := range r.SubRegions {
			if n := len(sub.Segments); n < minPolygonVertices {
				return fmt.Errorf("%w: region %d sub-region %d has %d vertices, need %d",
					ErrInvalidLevel, i, j, n, minPolygonVertices)
			}
		}
	}
	return nil
}

// RegionCount returns the number of regions.
func (l *Level) RegionCount() int { return len(l.Regions) }

// SubRegionCount returns the number of sub-regions in region r.
func (l *Level) SubRegionCount(r int) int { return len(l.Regions[r].SubRegions) }

// SubRegionSegments returns the boundary of sub-region s of region r.
func (l *Level) SubRegionSegments(r, s int) []Segment {
	return l.Regions[r].SubRegions[s].Segments
}

// Heights returns the floor and ceiling height of region r at (x, y).
func (l *Level) Heights(r int, x, y float64) (floor, ceiling float64) {
	reg := &l.Regions[r]
	return reg.Floor.ZAt(x, y), reg.Ceiling.ZAt(x, y)
}

// RegionAt returns the region whose sub-region contains (x, y).
func (l *Level) RegionAt(x, y float64) (int, bool) {
	for r := range l.Regions {
		for _, sub := range l.Regions[r].SubRegions {
			if sub.Contains(x, y) {
				return r, true
			}
		}
	}
	return -1, false
}

// Contains reports whether (x, y) lies inside the sub-region boundary.
func (s SubRegion) Contains(x, y float64) bool {
	inside := false
	for _, seg := range s.Segments {
		a, b := seg.V1, seg.V2
		if (a.Y > y) != (b.Y > y) {
			cross := a.X + (y-a.Y)*(b.X-a.X)/(b.Y-a.Y)
			if x < cross {
				inside = !inside
			}
		}
	}
	return inside
}

// Centroid is the mean of every boundary endpoint of the sub-region.
func (s SubRegion) Centroid() (x, y float64, ok bool) {
	return Centroid(s.Segments)
}

// Centroid is the mean of every endpoint of segs. A boundary without segments
// has no centroid.
func Centroid(segs []Segment) (x, y float64, ok bool) {
	if len(segs) == 0 {
		return 0, 0, false
	}
	for _, seg := range segs {
		x += seg.V1.X + seg.V2.X
		y += seg.V1.Y + seg.V2.Y
	}
	n := float64(2 * len(segs))
	return x / n, y / n, true
}

// Bounds returns the bounding box of all segments. An empty level has zero
// bounds.
func (l *Level) Bounds() (minX, minY, maxX, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, r := range l.Regions {
		for _, sub := range r.SubRegions {
			for _, seg := range sub.Segments {
				for _, v := range []Vertex{seg.V1, seg.V2} {
					minX = math.Min(minX, v.X)
					minY = math.Min(minY, v.Y)
					maxX = math.Max(maxX, v.X)
					maxY = math.Max(maxY, v.Y)
				}
			}
		}
	}
	if math.IsInf(minX, 1) {
		return 0, 0, 0, 0
	}
	return minX, minY, maxX, maxY
}
