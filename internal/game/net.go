package game

import "github.com/go-gl/mathgl/mgl64"

// Net sits across the court at z = 0.
const (
	NetHeight      = 1.55
	RestitutionNet = 0.2
)

// checkNet stops a shuttle that crosses z = 0 below the tape: it is
// pushed back to the side it came from with most of its pace gone.
func checkNet(prev mgl64.Vec3, s *Shuttle) bool {
	crossed := (prev.Z() < 0) != (s.position.Z() < 0)
	if !crossed || s.position.Y() >= NetHeight {
		return false
	}
	s.position[2] = prev.Z()
	s.velocity[0] *= RestitutionNet
	s.velocity[2] = -s.velocity[2] * RestitutionNet
	return true
}
