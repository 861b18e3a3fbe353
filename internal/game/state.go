package game

import "github.com/go-gl/mathgl/mgl64"

// Movement & court constants
const (
	Speed          = 8.0
	VerticalMult   = 2.0 // depth moves faster to offset perspective foreshortening
	Momentum       = 0.85
	RestEpsilon    = 0.01
	MaxMoveTime    = 0.5
	RampFactor     = 0.5
	OffAxisDamping = 0.8
	MaxVelocityX   = 0.05
	MaxVelocityZ   = 0.1

	DiagonalThreshold = 1.0
	DiagonalArmRate   = 14.0
	WindowDisarmed    = -1.0

	AimChargeStart = 1.0
	AimChargeRate  = 1.0 / 3
	AimDamping     = 0.8
	AimLean        = 0.5
	AimLeanDiag    = 0.4375

	CourtMargin = 1.5
	HitRadius   = 4.0

	JumpSpeed   = 6.0
	JumpGravity = 20.0
)

// Simulation clock: accumulate wall time, step once per threshold with a
// fixed nominal delta.
const (
	ClockThreshold = 0.01
	StepDT         = 0.02
	MaxStepDT      = 0.1

	// MaxTickRate bounds how often a room wakes up per second.
	MaxTickRate = 1000
)

var (
	BottomSpawn = mgl64.Vec3{-2, 0, 7}
	TopSpawn    = mgl64.Vec3{0, 0, -3}
)

// Side is the court half a player defends.
type Side uint8

const (
	SideBottom Side = iota
	SideTop
)

func (s Side) String() string {
	if s == SideTop {
		return "top"
	}
	return "bottom"
}

// Opponent returns the other half.
func (s Side) Opponent() Side {
	if s == SideTop {
		return SideBottom
	}
	return SideTop
}

// PlayerView is the read-only renderer view of a player.
type PlayerView struct {
	Side          string     `json:"side" msgpack:"side"`
	Position      mgl64.Vec3 `json:"position" msgpack:"position"`
	Direction     mgl64.Vec3 `json:"direction" msgpack:"direction"`
	MoveState     string     `json:"moveState" msgpack:"moveState"`
	AimMode       string     `json:"aimMode" msgpack:"aimMode"`
	AimChargeTime float64    `json:"aimChargeTime" msgpack:"aimChargeTime"`
	Airborne      bool       `json:"airborne" msgpack:"airborne"`
}

// ShuttleView is the read-only renderer view of the shuttle.
type ShuttleView struct {
	Position mgl64.Vec3 `json:"position" msgpack:"position"`
	State    string     `json:"state" msgpack:"state"`
}

// Snapshot is what renderers and network clients see after a step.
type Snapshot struct {
	Tick    uint32        `json:"tick" msgpack:"tick"`
	Players [2]PlayerView `json:"players" msgpack:"players"`
	Shuttle ShuttleView   `json:"shuttle" msgpack:"shuttle"`
	Strikes uint32        `json:"strikes" msgpack:"strikes"`
}

// Input is the logical command a front end sends for one side.
// Toggle and Jump are one-shot; Heading is held until replaced.
type Input struct {
	Heading Heading
	Toggle  bool
	Jump    bool
}
