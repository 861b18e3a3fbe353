package game

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// MaxAimCharge saturates the charge so a held aim cannot diverge.
const MaxAimCharge = 4.0

// cardinal describes one single-axis locomotion state.
type cardinal struct {
	step   mgl64.Vec3 // displacement per second
	facing mgl64.Vec3
	// screen-plane diagonals that may still be held a tick after the
	// second key was released
	diagonals [2]mgl64.Vec3
}

var cardinals = map[MoveState]cardinal{
	MoveLeft: {
		step:      mgl64.Vec3{-Speed, 0, 0},
		facing:    mgl64.Vec3{-1, 0, 0},
		diagonals: [2]mgl64.Vec3{{-1, 1, 0}, {-1, -1, 0}},
	},
	MoveRight: {
		step:      mgl64.Vec3{Speed, 0, 0},
		facing:    mgl64.Vec3{1, 0, 0},
		diagonals: [2]mgl64.Vec3{{1, 1, 0}, {1, -1, 0}},
	},
	MoveUp: {
		step:      mgl64.Vec3{0, 0, -Speed * VerticalMult},
		facing:    mgl64.Vec3{0, 0, -1},
		diagonals: [2]mgl64.Vec3{{-1, -1, 0}, {1, -1, 0}},
	},
	MoveDown: {
		step:      mgl64.Vec3{0, 0, Speed * VerticalMult},
		facing:    mgl64.Vec3{0, 0, 1},
		diagonals: [2]mgl64.Vec3{{-1, 1, 0}, {1, 1, 0}},
	},
}

var diagonalFacings = map[MoveState]mgl64.Vec3{
	MoveDownLeft:  {-1, 0, 1},
	MoveUpLeft:    {-1, 0, -1},
	MoveDownRight: {1, 0, 1},
	MoveUpRight:   {1, 0, -1},
}

// lean describes the small nudge applied while aiming in one direction.
type lean struct {
	step   mgl64.Vec3
	facing mgl64.Vec3
}

var aimLeans = map[AimMode]lean{
	AimUp:        {step: mgl64.Vec3{0, 0, -AimLean}, facing: mgl64.Vec3{0, -1, 0}},
	AimDown:      {step: mgl64.Vec3{0, 0, AimLean}, facing: mgl64.Vec3{0, 1, 0}},
	AimLeft:      {step: mgl64.Vec3{-AimLean, 0, 0}, facing: mgl64.Vec3{-1, 0, 0}},
	AimRight:     {step: mgl64.Vec3{AimLean, 0, 0}, facing: mgl64.Vec3{1, 0, 0}},
	AimDownLeft:  {step: mgl64.Vec3{-AimLeanDiag, 0, AimLeanDiag}, facing: mgl64.Vec3{-1, 1, 0}},
	AimUpLeft:    {step: mgl64.Vec3{-AimLeanDiag, 0, -AimLeanDiag}, facing: mgl64.Vec3{-1, -1, 0}},
	AimDownRight: {step: mgl64.Vec3{AimLeanDiag, 0, AimLeanDiag}, facing: mgl64.Vec3{1, 1, 0}},
	AimUpRight:   {step: mgl64.Vec3{AimLeanDiag, 0, -AimLeanDiag}, facing: mgl64.Vec3{1, -1, 0}},
}

// Player is one side's athlete. Only Command, SwitchState and Update
// mutate it; the aim mode is non-idle only while the player is aiming.
type Player struct {
	side   Side
	bounds Bounds

	position      mgl64.Vec3
	velocity      mgl64.Vec3
	direction     mgl64.Vec3
	lastDirection mgl64.Vec3

	moveState     MoveState
	aimMode       AimMode
	aimChargeTime float64

	diagonalWindow float64
	moveTime       float64

	service  bool
	airborne bool
	lift     float64
}

// NewPlayer places a player on its spawn point. A serving player starts
// out aiming.
func NewPlayer(side Side, service bool, bounds Bounds) (*Player, error) {
	if err := bounds.Validate(); err != nil {
		return nil, fmt.Errorf("new %s player: %w", side, err)
	}
	p := &Player{
		side:          side,
		bounds:        bounds,
		position:      BottomSpawn,
		aimChargeTime: AimChargeStart,
		service:       service,
	}
	if side == SideTop {
		p.position = TopSpawn
	}
	if service {
		p.moveState = MoveAiming
	}
	return p, nil
}

func (p *Player) Side() Side                      { return p.side }
func (p *Player) Position() mgl64.Vec3            { return p.position }
func (p *Player) Velocity() mgl64.Vec3            { return p.velocity }
func (p *Player) Direction() mgl64.Vec3           { return p.direction }
func (p *Player) LastDirection() mgl64.Vec3       { return p.lastDirection }
func (p *Player) MoveState() MoveState            { return p.moveState }
func (p *Player) AimMode() AimMode                { return p.aimMode }
func (p *Player) AimChargeTime() float64          { return p.aimChargeTime }
func (p *Player) DiagonalWindow() float64         { return p.diagonalWindow }
func (p *Player) Service() bool                   { return p.service }
func (p *Player) Airborne() bool                  { return p.airborne }
func (p *Player) Aiming() bool                    { return p.moveState == MoveAiming }
func (p *Player) DistanceTo(v mgl64.Vec3) float64 { return p.position.Sub(v).Len() }

// Command applies a logical movement command. While aiming it steers the
// lean; otherwise it selects the locomotion state. It never enters or
// leaves aiming.
func (p *Player) Command(h Heading) {
	if p.moveState == MoveAiming {
		p.aimMode = h.AimMode()
		return
	}
	p.moveState = h.MoveState()
}

// SwitchState toggles between locomotion and aiming, keeping the heading:
// aiming up-left comes back as moving up-left and vice versa.
func (p *Player) SwitchState() {
	p.aimChargeTime = AimChargeStart
	if p.moveState == MoveAiming {
		h := p.aimMode.Heading()
		p.aimMode = AimIdle
		p.moveState = h.MoveState()
		return
	}
	h, _ := p.moveState.Heading()
	p.aimMode = h.AimMode()
	p.moveState = MoveAiming
}

// SetService marks whether the player is the one to serve next.
func (p *Player) SetService(service bool) { p.service = service }

// Respawn puts the player back on its spawn point at rest. A server
// starts aiming.
func (p *Player) Respawn(service bool) {
	p.position = BottomSpawn
	if p.side == SideTop {
		p.position = TopSpawn
	}
	p.velocity = mgl64.Vec3{}
	p.direction = mgl64.Vec3{}
	p.lastDirection = mgl64.Vec3{}
	p.moveState = MoveIdle
	p.aimMode = AimIdle
	p.aimChargeTime = AimChargeStart
	p.diagonalWindow = 0
	p.moveTime = 0
	p.airborne = false
	p.lift = 0
	p.service = service
	if service {
		p.moveState = MoveAiming
	}
}

// Jump starts a vertical hop. It reports false while already airborne.
func (p *Player) Jump() bool {
	if p.airborne {
		return false
	}
	p.airborne = true
	p.lift = JumpSpeed
	return true
}

// Update advances the player by dt seconds and clamps it to its half.
// Non-positive or non-finite deltas are ignored.
func (p *Player) Update(dt float64) {
	if !(dt > 0) || math.IsInf(dt, 1) {
		return
	}

	switch s := p.moveState; s {
	case MoveIdle:
		p.rest(dt)
	case MoveUp, MoveDown, MoveLeft, MoveRight:
		p.moveCardinal(dt, cardinals[s])
		p.ramp(dt, false)
	case MoveDownLeft, MoveUpLeft, MoveDownRight, MoveUpRight:
		p.moveDiagonal(dt, diagonalFacings[s])
		p.ramp(dt, true)
	case MoveAiming:
		p.aim(dt)
	}

	if p.moveState != MoveAiming {
		if p.diagonalWindow > DiagonalThreshold {
			p.diagonalWindow = WindowDisarmed
		}
		if _, ok := cardinals[p.moveState]; ok && p.diagonalWindow != WindowDisarmed {
			p.diagonalWindow += dt * DiagonalArmRate
		}
	}

	p.hop(dt)
	if p.direction != (mgl64.Vec3{}) {
		p.lastDirection = p.direction
	}
	p.position = p.bounds.Clamp(p.side, p.position)
}

func (p *Player) moveCardinal(dt float64, c cardinal) {
	p.position = p.position.Add(c.step.Mul(dt)).Add(planar(p.velocity))

	heldDiagonal := p.direction.ApproxEqual(c.diagonals[0]) || p.direction.ApproxEqual(c.diagonals[1])
	switch {
	case heldDiagonal && p.diagonalWindow > DiagonalThreshold:
		p.direction = c.facing
		p.diagonalWindow = WindowDisarmed
	case !heldDiagonal:
		p.direction = c.facing
	}
}

func (p *Player) moveDiagonal(dt float64, facing mgl64.Vec3) {
	step := mgl64.Vec3{facing.X() * Speed, 0, facing.Z() * Speed * VerticalMult}
	p.position = p.position.Add(step.Mul(dt)).Add(planar(p.velocity))
	p.direction = facing
	p.diagonalWindow = 0
}

// ramp builds momentum while a direction is held.
func (p *Player) ramp(dt float64, diagonal bool) {
	p.moveTime = math.Min(p.moveTime+dt, MaxMoveTime)
	p.velocity = p.velocity.Add(p.direction.Mul(dt * p.moveTime * RampFactor))
	if !diagonal {
		if p.direction.X() == 0 {
			p.velocity[0] *= OffAxisDamping
		}
		if p.direction.Z() == 0 {
			p.velocity[2] *= OffAxisDamping
		}
	}
	p.velocity[0] = saturate(p.velocity[0], MaxVelocityX)
	p.velocity[1] = saturate(p.velocity[1], MaxVelocityZ)
	p.velocity[2] = saturate(p.velocity[2], MaxVelocityZ)
}

func (p *Player) rest(dt float64) {
	p.aimChargeTime = AimChargeStart
	p.coast()
	p.diagonalWindow = decay(p.diagonalWindow, dt/2)
	p.settle()
}

func (p *Player) aim(dt float64) {
	p.aimChargeTime = math.Min(p.aimChargeTime+dt*AimChargeRate, MaxAimCharge)
	if p.aimMode != AimIdle {
		p.velocity = p.velocity.Mul(AimDamping)
	}
	p.diagonalWindow = decay(p.diagonalWindow, dt)

	if l, ok := aimLeans[p.aimMode]; ok {
		p.direction = l.facing
		p.position = p.position.Add(l.step.Mul(dt)).Add(planar(p.velocity))
	} else {
		p.coast()
		p.settle()
	}
	p.settle()
}

// coast lets momentum carry the player with nothing held.
func (p *Player) coast() {
	p.velocity = p.velocity.Mul(Momentum)
	p.position = p.position.Add(planar(p.velocity))
}

// settle zeroes motion once the player has all but stopped.
func (p *Player) settle() {
	if math.Abs(p.velocity.X()) < RestEpsilon && math.Abs(p.velocity.Z()) < RestEpsilon {
		p.direction = mgl64.Vec3{}
		p.velocity = mgl64.Vec3{}
		p.moveTime = 0
	}
}

func (p *Player) hop(dt float64) {
	if !p.airborne {
		return
	}
	p.position[1] += p.lift * dt
	p.lift -= JumpGravity * dt
	if p.position[1] <= 0 {
		p.position[1] = 0
		p.lift = 0
		p.airborne = false
	}
}

func (p *Player) String() string {
	return fmt.Sprintf("Player %s State: %s Aiming: %s Position: %.1f %.1f %.1f Direction: %.1f %.1f %.1f",
		p.side, p.moveState, p.aimMode,
		p.position.X(), p.position.Y(), p.position.Z(),
		p.direction.X(), p.direction.Y(), p.direction.Z())
}

// planar drops the height component; momentum never lifts a player.
func planar(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X(), 0, v.Z()}
}

// saturate clamps |v| to max keeping the sign.
func saturate(v, max float64) float64 {
	if math.Abs(v) > max {
		return math.Copysign(max, v)
	}
	return v
}

// decay counts a timer down to zero; a disarmed window re-arms at zero.
func decay(w, by float64) float64 {
	if w > 0 {
		return math.Max(w-by, 0)
	}
	return 0
}
