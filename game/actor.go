package game

import (
	"github.com/pthm-cable/goodshot/camera"
	"github.com/pthm-cable/goodshot/components"
	"github.com/pthm-cable/goodshot/explorer"
	"github.com/pthm-cable/goodshot/renderer"
)

// Eye height recovery after a teleport, in map units per frame.
const stanceRecovery = 2.0

// spawnActor creates the viewpoint actor at the level start.
func (g *Game) spawnActor() {
	pos := components.Position{}
	if g.lvl != nil {
		pos = components.Position{X: g.lvl.Start.X, Y: g.lvl.Start.Y}
	}
	facing := components.Facing{Angle: camera.ANG90}
	stance := components.NewStance(components.DefaultViewHeight, stanceRecovery)
	player := components.Player{Name: "player", Region: -1}

	g.actor = g.actorMapper.NewEntity(&pos, &facing, &stance, &player)
	g.updateActors()
}

// teleportActor moves the actor. The eye drops to the floor and has to climb
// back, which is what a sweep waits for before its screenshot.
func (g *Game) teleportActor(t Teleport) {
	pos := g.posMap.Get(g.actor)
	pos.X, pos.Y = float64(t.X), float64(t.Y)
	g.stanceMap.Get(g.actor).Drop()
}

// updateActors eases every actor's eye height and records where it stands.
func (g *Game) updateActors() {
	query := g.actorFilter.Query()
	for query.Next() {
		pos, _, stance, player := query.Get()
		stance.Step()

		player.Region, player.FloorZ, player.LightLevel = -1, 0, 0
		if g.lvl == nil {
			continue
		}
		if r, ok := g.lvl.RegionAt(pos.X, pos.Y); ok {
			floor, _ := g.lvl.Heights(r, pos.X, pos.Y)
			player.Region = r
			player.FloorZ = floor
			player.LightLevel = g.lvl.Regions[r].LightLevel
		}
	}
}

// eye is the render viewpoint of the actor.
func (g *Game) eye() renderer.View {
	pos, facing, stance, player := g.actorMapper.Get(g.actor)
	return renderer.View{X: pos.X, Y: pos.Y, Z: stance.EyeZ(player.FloorZ), Angle: facing.Angle}
}

func (g *Game) view() explorer.Viewpoint {
	return actorView{g: g}
}

// actorView exposes the actor to the explorer.
type actorView struct {
	g *Game
}

func (v actorView) Position() (float64, float64) {
	pos := v.g.posMap.Get(v.g.actor)
	return pos.X, pos.Y
}

func (v actorView) Angle() camera.Angle {
	return v.g.facingMap.Get(v.g.actor).Angle
}

func (v actorView) SetAngle(a camera.Angle) {
	v.g.facingMap.Get(v.g.actor).Angle = a
}

func (v actorView) Surroundings() explorer.Surroundings {
	stance := v.g.stanceMap.Get(v.g.actor)
	player := v.g.playerMap.Get(v.g.actor)
	return explorer.Surroundings{
		Z:          stance.EyeZ(player.FloorZ),
		FloorZ:     player.FloorZ,
		Region:     player.Region,
		LightLevel: player.LightLevel,
	}
}
