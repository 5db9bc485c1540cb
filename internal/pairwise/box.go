package pairwise

import "github.com/chewxy/math32"

// Box is an axis-aligned periodic box. Half is cached because the
// minimum-image test runs once per axis per pair.
type Box struct {
	L    [3]float32
	Half [3]float32
}

func NewBox(lx, ly, lz float32) Box {
	return Box{
		L:    [3]float32{lx, ly, lz},
		Half: [3]float32{lx / 2, ly / 2, lz / 2},
	}
}

func NewCubicBox(l float32) Box {
	return NewBox(l, l, l)
}

// UnitBox is the cubic box with L = 1.
func UnitBox() Box {
	return NewCubicBox(1.0)
}

func (b Box) IsZero() bool {
	return b.L == [3]float32{}
}

func (b Box) IsCubic() bool {
	return b.L[0] == b.L[1] && b.L[1] == b.L[2]
}

func (b Box) Validate() error {
	for _, l := range b.L {
		if !(l > 0) || math32.IsInf(l, 0) {
			return ErrInvalidBox
		}
	}
	return nil
}

func (b Box) Volume() float32 {
	return b.L[0] * b.L[1] * b.L[2]
}

// MinImage applies the single-step wrap on one axis. It is only correct when
// |d| < L, which holds for coordinates kept inside [0, L).
func (b Box) MinImage(d float32, axis int) float32 {
	if d > b.Half[axis] {
		d -= b.L[axis]
	}
	if d < -b.Half[axis] {
		d += b.L[axis]
	}
	return d
}

// Distance returns the minimum-image Euclidean distance between a and c.
func (b Box) Distance(a, c Position) float32 {
	dx := b.MinImage(a[0]-c[0], 0)
	dy := b.MinImage(a[1]-c[1], 1)
	dz := b.MinImage(a[2]-c[2], 2)
	// explicit conversions stop the compiler fusing into FMA, so every call
	// site rounds the same way
	return math32.Sqrt(float32(dx*dx) + float32(dy*dy) + float32(dz*dz))
}

// MaxDistance is the largest possible minimum-image separation.
func (b Box) MaxDistance() float32 {
	h := b.Half
	return math32.Sqrt(h[0]*h[0] + h[1]*h[1] + h[2]*h[2])
}
