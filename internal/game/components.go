package game

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/oriumgames/roids"
)

// Transform places an entity in the world. Rotation must be a unit
// quaternion; use NewTransform rather than the zero value.
type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
}

func NewTransform(pos mgl64.Vec3) Transform {
	return Transform{Position: pos, Rotation: mgl64.QuatIdent()}
}

// Forward is the direction the entity faces, -Z in its local frame.
func (t *Transform) Forward() mgl64.Vec3 {
	return t.Rotation.Rotate(mgl64.Vec3{0, 0, -1})
}

// RotateY turns the entity about the world Y axis.
func (t *Transform) RotateY(angle float64) {
	t.rotateWorld(angle, mgl64.Vec3{0, 1, 0})
}

// RotateZ rolls the entity about the world Z axis.
func (t *Transform) RotateZ(angle float64) {
	t.rotateWorld(angle, mgl64.Vec3{0, 0, 1})
}

// RotateLocalZ spins the entity about its own Z axis.
func (t *Transform) RotateLocalZ(angle float64) {
	if angle == 0 {
		return
	}
	t.Rotation = t.Rotation.Mul(mgl64.QuatRotate(angle, mgl64.Vec3{0, 0, 1})).Normalize()
}

func (t *Transform) rotateWorld(angle float64, axis mgl64.Vec3) {
	if angle == 0 {
		return
	}
	t.Rotation = mgl64.QuatRotate(angle, axis).Mul(t.Rotation).Normalize()
}

type Velocity struct {
	Value mgl64.Vec3
}

type Acceleration struct {
	Value mgl64.Vec3
}

// Collider is a bounding sphere. Colliding is rebuilt every tick by
// collision detection and lists every entity overlapping this one.
type Collider struct {
	Radius    float64
	Colliding []roids.Entity
}

type Health struct {
	Value int
}

// Shield protects the ship from one impact until its timer runs out.
// Visual points at the sphere drawn around the ship.
type Shield struct {
	roids.Timer
	Visual roids.Relation[Transform]
}

// Strength returns the fraction of shield time left.
func (s *Shield) Strength() float64 {
	return 1 - s.Fraction()
}

// Spin rotates an entity about its local Z axis, radians per second.
type Spin struct {
	Rate float64
}

// AssetID names a model the host knows how to draw.
type AssetID string

const (
	AssetSpaceship AssetID = "spaceship"
	AssetAsteroid  AssetID = "asteroid"
	AssetMissile   AssetID = "missile"
	AssetShield    AssetID = "shield"
)

// Model selects the visual for an entity. Radius is the drawn size.
type Model struct {
	Asset  AssetID
	Radius float64
}

// Role and policy tags.
type (
	Spaceship        struct{}
	Asteroid         struct{}
	Missile          struct{}
	ShieldDisplay    struct{}
	DespawnAtEndgame struct{}

	// AlreadyFired suppresses the weapon until it expires or the missile
	// is gone.
	AlreadyFired struct{}
)

// normalizeOrZero returns v scaled to unit length, or zero for a
// degenerate vector.
func normalizeOrZero(v mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l == 0 || math.IsNaN(l) || math.IsInf(l, 0) {
		return mgl64.Vec3{}
	}
	return v.Mul(1 / l)
}

// Overlaps reports whether two spheres intersect. Touching spheres do not.
func Overlaps(pa mgl64.Vec3, ra float64, pb mgl64.Vec3, rb float64) bool {
	return pa.Sub(pb).Len() < ra+rb
}
