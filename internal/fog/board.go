package fog

import "github.com/awbwapp/replay/pkg/core"

// MapBoard is a Board backed by lookup tables.
type MapBoard struct {
	Width, Height  int
	TerrainLimits  map[core.Vec2]int
	BuildingLimits map[int]int // by terrain id
	Owners         map[int]int // building terrain id to country id
}

var _ Board = (*MapBoard)(nil)

func (b *MapBoard) Size() core.Vec2 {
	return core.Vec2{X: b.Width, Y: b.Height}
}

func (b *MapBoard) TerrainSightLimit(pos core.Vec2) int {
	return b.TerrainLimits[pos]
}

func (b *MapBoard) BuildingSightLimit(terrainID int) int {
	return b.BuildingLimits[terrainID]
}

func (b *MapBoard) BuildingOwner(terrainID int) (int, bool) {
	c, ok := b.Owners[terrainID]
	return c, ok
}

// InferBoard sizes a board to cover every building and unit position seen in
// the replay. It has no sight limits and knows no building owners, so only
// units contribute vision.
func InferBoard(replay *core.ReplayData) *MapBoard {
	b := &MapBoard{}
	grow := func(p core.Vec2) {
		b.Width = max(b.Width, p.X+1)
		b.Height = max(b.Height, p.Y+1)
	}
	for i := range replay.Turns {
		for pos := range replay.Turns[i].Buildings {
			grow(pos)
		}
		for _, u := range replay.Turns[i].Units {
			if u.Position != nil {
				grow(*u.Position)
			}
		}
	}
	return b
}
