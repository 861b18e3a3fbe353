package game

import "fmt"

// RallyPause is how long a landed shuttle stays down before the next serve.
const RallyPause = 1.0

// Match owns both players and the shuttle and runs one simulation step at
// a time. It is not safe for concurrent use; one goroutine drives it.
type Match struct {
	bounds   Bounds
	players  [2]*Player
	shuttle  *Shuttle
	detector *Detector

	tick    uint32
	strikes uint32
	settle  float64

	// OnStrike is called after every serve or hit with the striker and
	// the charge it struck with.
	OnStrike func(p *Player, charge float64, serve bool)
}

// NewMatch sets up a rally with server holding the shuttle.
func NewMatch(bounds Bounds, server Side) (*Match, error) {
	m := &Match{bounds: bounds, detector: NewDetector()}
	// Strikes happen out of a charged aim.
	m.detector.RequireAiming = true
	for _, side := range []Side{SideBottom, SideTop} {
		p, err := NewPlayer(side, side == server, bounds)
		if err != nil {
			return nil, fmt.Errorf("new match: %w", err)
		}
		m.players[side] = p
	}
	m.shuttle = NewShuttle(bounds)
	m.shuttle.GiveTo(m.players[server])
	return m, nil
}

func (m *Match) Player(side Side) *Player { return m.players[side] }
func (m *Match) Shuttle() *Shuttle        { return m.shuttle }
func (m *Match) Detector() *Detector      { return m.detector }
func (m *Match) Tick() uint32             { return m.tick }
func (m *Match) Strikes() uint32          { return m.strikes }

// Apply feeds one side's logical command into its player. A toggle from
// the player holding the shuttle serves it.
func (m *Match) Apply(side Side, in Input) {
	p := m.players[side]
	p.Command(in.Heading)
	if in.Jump {
		p.Jump()
	}
	if !in.Toggle {
		return
	}
	if m.shuttle.Holder() == p {
		charge := p.AimChargeTime()
		m.shuttle.Hit(p, true)
		p.SetService(false)
		p.SwitchState()
		m.strike(p, charge, true)
		return
	}
	p.SwitchState()
}

// Step runs one tick: players move, the shuttle flies, then each player
// is tested for contact.
func (m *Match) Step(dt float64) {
	if !(dt > 0) {
		return
	}
	m.tick++
	for _, p := range m.players {
		p.Update(dt)
	}
	m.shuttle.Update(dt)

	if landedOn, ok := m.shuttle.Landed(); ok {
		m.settle += dt
		if m.settle >= RallyPause {
			m.Reset(landedOn.Opponent())
		}
		return
	}

	for _, p := range m.players {
		charge := p.AimChargeTime()
		if m.detector.Check(p, m.shuttle) {
			m.strike(p, charge, false)
		}
	}
}

// Reset respawns both players and hands the shuttle to server.
func (m *Match) Reset(server Side) {
	m.settle = 0
	for _, p := range m.players {
		p.Respawn(p.Side() == server)
	}
	m.shuttle.GiveTo(m.players[server])
}

func (m *Match) strike(p *Player, charge float64, serve bool) {
	m.strikes++
	if m.OnStrike != nil {
		m.OnStrike(p, charge, serve)
	}
}

// Snapshot is the read-only view handed to renderers.
func (m *Match) Snapshot() Snapshot {
	s := Snapshot{
		Tick:    m.tick,
		Strikes: m.strikes,
		Shuttle: ShuttleView{
			Position: m.shuttle.Position(),
			State:    m.shuttle.State().String(),
		},
	}
	for i, p := range m.players {
		s.Players[i] = PlayerView{
			Side:          p.Side().String(),
			Position:      p.Position(),
			Direction:     p.Direction(),
			MoveState:     p.MoveState().String(),
			AimMode:       p.AimMode().String(),
			AimChargeTime: p.AimChargeTime(),
			Airborne:      p.Airborne(),
		}
	}
	return s
}
