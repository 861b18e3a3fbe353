package game

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrBoundsUninitialized means the court box has no area to clamp into.
var ErrBoundsUninitialized = errors.New("court bounds not initialized")

// Bounds is the axis-aligned court box. x is lateral, z is depth; the net
// sits at z = 0 with the bottom half at positive z.
type Bounds struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// NewBounds returns a box centred on the net.
func NewBounds(halfWidth, halfLength float64) Bounds {
	return Bounds{
		Min: mgl64.Vec3{-halfWidth, 0, -halfLength},
		Max: mgl64.Vec3{halfWidth, 0, halfLength},
	}
}

// Validate fails when the box cannot hold a player inside the margins.
func (b Bounds) Validate() error {
	for i := range 3 {
		if !finite(b.Min[i]) || !finite(b.Max[i]) {
			return fmt.Errorf("%w: non-finite box %v %v", ErrBoundsUninitialized, b.Min, b.Max)
		}
	}
	if b.Max.X()-b.Min.X() <= 2*CourtMargin {
		return fmt.Errorf("%w: width %.2f", ErrBoundsUninitialized, b.Max.X()-b.Min.X())
	}
	if b.Max.Z() <= 2*CourtMargin || b.Min.Z() >= -2*CourtMargin {
		return fmt.Errorf("%w: depth [%.2f, %.2f]", ErrBoundsUninitialized, b.Min.Z(), b.Max.Z())
	}
	return nil
}

// Clamp keeps pos inside side's half, CourtMargin away from every edge
// and from the net.
func (b Bounds) Clamp(side Side, pos mgl64.Vec3) mgl64.Vec3 {
	switch side {
	case SideBottom:
		pos[2] = clampF(pos[2], CourtMargin, b.Max.Z()-CourtMargin)
	case SideTop:
		pos[2] = clampF(pos[2], b.Min.Z()+CourtMargin, -CourtMargin)
	}
	pos[0] = clampF(pos[0], b.Min.X()+CourtMargin, b.Max.X()-CourtMargin)
	return pos
}

// Contains reports whether pos is inside side's clamped region.
func (b Bounds) Contains(side Side, pos mgl64.Vec3) bool {
	return b.Clamp(side, pos) == pos
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func clampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
