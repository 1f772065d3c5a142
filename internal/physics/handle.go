package physics

// Handle is the externally owned object a body moves. The integrator only
// reads and writes position and rotation.
type Handle interface {
	Position() Vec3
	SetPosition(Vec3)
	Rotation() Vec3
	SetRotation(Vec3)
}

// Transform is a plain position/rotation pair implementing Handle.
type Transform struct {
	Pos Vec3 `json:"position"`
	Rot Vec3 `json:"rotation"`
}

func NewTransform(pos, rot Vec3) *Transform {
	return &Transform{Pos: pos, Rot: rot}
}

func (t *Transform) Position() Vec3     { return t.Pos }
func (t *Transform) SetPosition(p Vec3) { t.Pos = p }
func (t *Transform) Rotation() Vec3     { return t.Rot }
func (t *Transform) SetRotation(r Vec3) { t.Rot = r }
