package game

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Shuttle flight constants
const (
	ShuttleSpeed     = 6.0 // depth speed per unit of aim charge
	ShuttleLateral   = 0.35
	ShuttleLift      = 5.0
	ShuttleServeArc  = 8.0
	ShuttleServePace = 1.5 // serves ignore charge
	ShuttleGravity   = 9.8
	ShuttleDrag      = 0.6 // fraction of speed lost per second
	ShuttleCarry     = 1.0 // height above the holder
)

// BirdieState is the shuttle's relation to the players.
type BirdieState uint8

const (
	BirdieFree BirdieState = iota
	BirdieHeld
	BirdieHit
	BirdieHitByOpponent
)

func (s BirdieState) String() string {
	switch s {
	case BirdieHeld:
		return "held"
	case BirdieHit:
		return "hit"
	case BirdieHitByOpponent:
		return "hitbyopponent"
	}
	return "free"
}

// hitStateFor is the state a shuttle takes when side strikes it.
func hitStateFor(side Side) BirdieState {
	if side == SideTop {
		return BirdieHitByOpponent
	}
	return BirdieHit
}

// Birdie is the projectile players strike. The hit detector only reads
// its position and state and calls Hit.
type Birdie interface {
	Position() mgl64.Vec3
	State() BirdieState
	Hit(by *Player, serve bool)
}

// Shuttle is a simple drag-and-gravity birdie.
type Shuttle struct {
	bounds   Bounds
	position mgl64.Vec3
	velocity mgl64.Vec3
	state    BirdieState
	holder   *Player
	landed   bool
}

func NewShuttle(bounds Bounds) *Shuttle {
	return &Shuttle{bounds: bounds}
}

func (s *Shuttle) Position() mgl64.Vec3 { return s.position }
func (s *Shuttle) Velocity() mgl64.Vec3 { return s.velocity }
func (s *Shuttle) State() BirdieState   { return s.state }
func (s *Shuttle) Holder() *Player      { return s.holder }

// Landed reports the half the shuttle came down on after its last flight.
func (s *Shuttle) Landed() (Side, bool) {
	if !s.landed {
		return SideBottom, false
	}
	if s.position.Z() < 0 {
		return SideTop, true
	}
	return SideBottom, true
}

// GiveTo puts the shuttle in p's hand for a serve.
func (s *Shuttle) GiveTo(p *Player) {
	s.holder = p
	s.state = BirdieHeld
	s.velocity = mgl64.Vec3{}
	s.landed = false
	s.follow()
}

// Hit launches the shuttle toward by's opponent. The aim lean steers it
// sideways and the aim charge sets its pace.
func (s *Shuttle) Hit(by *Player, serve bool) {
	depth := -1.0
	if by.Side() == SideTop {
		depth = 1.0
	}
	lateral := 0.0
	switch by.AimMode().Heading() {
	case HeadingLeft, HeadingUpLeft, HeadingDownLeft:
		lateral = -1
	case HeadingRight, HeadingUpRight, HeadingDownRight:
		lateral = 1
	}

	pace := ShuttleSpeed * by.AimChargeTime()
	lift := ShuttleLift
	if serve {
		pace = ShuttleSpeed * ShuttleServePace
		lift = ShuttleServeArc
	}

	s.holder = nil
	s.landed = false
	s.state = hitStateFor(by.Side())
	s.position = by.Position().Add(mgl64.Vec3{0, ShuttleCarry, 0})
	s.velocity = mgl64.Vec3{lateral * pace * ShuttleLateral, lift, depth * pace}
}

// Update advances the flight by dt seconds.
func (s *Shuttle) Update(dt float64) {
	if !(dt > 0) || math.IsInf(dt, 1) {
		return
	}
	if s.state == BirdieHeld {
		s.follow()
		return
	}
	if s.landed {
		return
	}

	prev := s.position
	s.velocity[1] -= ShuttleGravity * dt
	s.velocity = s.velocity.Mul(math.Max(0, 1-ShuttleDrag*dt))
	s.position = s.position.Add(s.velocity.Mul(dt))
	checkNet(prev, s)

	// Side lines
	if s.position.X() < s.bounds.Min.X() {
		s.position[0] = s.bounds.Min.X()
		s.velocity[0] = -s.velocity[0] * 0.5
	}
	if s.position.X() > s.bounds.Max.X() {
		s.position[0] = s.bounds.Max.X()
		s.velocity[0] = -s.velocity[0] * 0.5
	}

	if s.position.Y() <= 0 {
		s.position[1] = 0
		s.velocity = mgl64.Vec3{}
		s.state = BirdieFree
		s.landed = true
	}
}

func (s *Shuttle) follow() {
	if s.holder != nil {
		s.position = s.holder.Position().Add(mgl64.Vec3{0, ShuttleCarry, 0})
	}
}
