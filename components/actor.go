// Package components defines the ECS components of the viewpoint actor.
package components

import "github.com/pthm-cable/goodshot/camera"

// Position is the actor's location on the map plane.
type Position struct {
	X, Y float64
}

// Facing is the view direction.
type Facing struct {
	Angle camera.Angle
	Pitch float64 // degrees, positive looks up
}

// Player marks the actor the camera is attached to and caches where it stands.
type Player struct {
	Name       string
	Region     int // -1 when outside every region
	FloorZ     float64
	LightLevel int
}
