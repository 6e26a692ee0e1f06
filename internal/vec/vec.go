// Package vec provides the small 3D vector arithmetic used throughout
// the simulation. Vectors are plain value types; every operation
// returns a new value.
package vec

import "math"

// V3 is a 3D vector. The simulation uses meters for positions and
// meters per second for velocities, with Y as the out-of-plane axis.
type V3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (v V3) Add(o V3) V3 {
	return V3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v V3) Sub(o V3) V3 {
	return V3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v V3) Scale(s float64) V3 {
	return V3{v.X * s, v.Y * s, v.Z * s}
}

func (v V3) Dot(o V3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v V3) Cross(o V3) V3 {
	return V3{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

func (v V3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

func (v V3) NormSq() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// Unit returns a unit vector in the direction of v, or the zero vector
// when v has no direction.
func (v V3) Unit() V3 {
	n := v.Norm()
	if n == 0 {
		return V3{}
	}
	return v.Scale(1.0 / n)
}

func (v V3) Distance(o V3) float64 {
	return v.Sub(o).Norm()
}

// IsValid reports whether all components are finite.
func (v V3) IsValid() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0) &&
		!math.IsNaN(v.Z) && !math.IsInf(v.Z, 0)
}
