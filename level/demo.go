package level

import "fmt"

// Demo builds a small grid of rooms so the tools can run without a map file.
// Each room is a region split into two sub-regions. Room (1,1) is a closed
// door: its floor and ceiling meet. Sprites cluster towards the far corner so
// the sweep has an obvious winner.
func Demo() *Level {
	const (
		cols = 4
		rows = 3
		size = 256.0
	)

	lvl := &Level{
		Name:  "DEMO",
		Title: "Demo Rooms",
		Start: Vertex{X: size / 4, Y: size / 2},
	}

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			x0, y0 := float64(col)*size, float64(row)*size
			x1, y1 := x0+size, y0+size
			xm := (x0 + x1) / 2

			floor := float64(8 * (col + row))
			ceiling := floor + 128 + float64(16*row)
			if col == 1 && row == 1 {
				ceiling = floor
			}

			lvl.Regions = append(lvl.Regions, Region{
				Floor:      Flat(floor),
				Ceiling:    Flat(ceiling),
				LightLevel: 96 + 32*((col+row)%4),
				SubRegions: []SubRegion{
					Polygon(Vertex{x0, y0}, Vertex{xm, y0}, Vertex{xm, y1}, Vertex{x0, y1}),
					Polygon(Vertex{xm, y0}, Vertex{x1, y0}, Vertex{x1, y1}, Vertex{xm, y1}),
				},
			})

			// More sprites in rooms further from the start.
			for i := 0; i < col*row+col; i++ {
				fx := x0 + 32 + float64((i*53)%int(size-64))
				fy := y0 + 32 + float64((i*97)%int(size-64))
				lvl.Things = append(lvl.Things, Thing{X: fx, Y: fy})
			}
			if (col+row)%2 == 0 {
				lvl.Lights = append(lvl.Lights, Light{X: xm, Y: (y0 + y1) / 2, Radius: size / 2})
			}
		}
	}

	if err := lvl.Validate(); err != nil {
		panic(fmt.Sprintf("level: demo level invalid: %v", err))
	}
	return lvl
}
