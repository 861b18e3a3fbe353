package game

import (
	"errors"
	"testing"
)

type strikeRecord struct {
	side   Side
	charge float64
	serve  bool
}

func newTestMatch(t *testing.T, server Side) (*Match, *[]strikeRecord) {
	t.Helper()
	m, err := NewMatch(testBounds, server)
	if err != nil {
		t.Fatalf("NewMatch: %v", err)
	}
	var strikes []strikeRecord
	m.OnStrike = func(p *Player, charge float64, serve bool) {
		strikes = append(strikes, strikeRecord{p.Side(), charge, serve})
	}
	return m, &strikes
}

func TestNewMatchRejectsBadBounds(t *testing.T) {
	_, err := NewMatch(NewBounds(1, 10), SideBottom)
	if !errors.Is(err, ErrBoundsUninitialized) {
		t.Fatalf("expected ErrBoundsUninitialized, got %v", err)
	}
}

func TestNewMatchHandsServerTheShuttle(t *testing.T) {
	m, _ := newTestMatch(t, SideTop)
	top := m.Player(SideTop)
	if m.Shuttle().Holder() != top || !top.Service() || !top.Aiming() {
		t.Fatalf("top should hold the shuttle and aim: holder=%v service=%v", m.Shuttle().Holder(), top.Service())
	}
	if m.Player(SideBottom).Aiming() {
		t.Fatalf("receiver should not start aiming")
	}
}

func TestServeIsAStrike(t *testing.T) {
	m, strikes := newTestMatch(t, SideBottom)
	for i := 0; i < 30; i++ {
		m.Step(StepDT)
	}
	charge := m.Player(SideBottom).AimChargeTime()

	m.Apply(SideBottom, Input{Toggle: true})
	bottom := m.Player(SideBottom)
	if m.Shuttle().State() != BirdieHit || m.Shuttle().Holder() != nil {
		t.Fatalf("shuttle not served: %s", m.Shuttle().State())
	}
	if bottom.Aiming() || bottom.Service() {
		t.Fatalf("server still aiming=%v service=%v", bottom.Aiming(), bottom.Service())
	}
	if len(*strikes) != 1 || (*strikes)[0] != (strikeRecord{SideBottom, charge, true}) {
		t.Fatalf("strikes = %+v", *strikes)
	}
	if m.Strikes() != 1 {
		t.Fatalf("Strikes() = %d", m.Strikes())
	}
}

func TestToggleWithoutShuttleOnlySwitches(t *testing.T) {
	m, strikes := newTestMatch(t, SideBottom)
	m.Apply(SideTop, Input{Heading: HeadingLeft, Toggle: true})
	top := m.Player(SideTop)
	if !top.Aiming() || top.AimMode() != AimLeft {
		t.Fatalf("top state %s aim %s", top.MoveState(), top.AimMode())
	}
	if len(*strikes) != 0 {
		t.Fatalf("unexpected strikes %+v", *strikes)
	}
}

func TestRallyReturn(t *testing.T) {
	m, strikes := newTestMatch(t, SideBottom)
	m.Apply(SideBottom, Input{Toggle: true})
	m.Apply(SideTop, Input{Toggle: true})

	for i := 0; i < 500 && len(*strikes) < 2; i++ {
		m.Step(StepDT)
		if _, landed := m.Shuttle().Landed(); landed {
			t.Fatalf("serve landed unreturned at %v", m.Shuttle().Position())
		}
	}
	if len(*strikes) != 2 {
		t.Fatalf("strikes = %+v", *strikes)
	}
	ret := (*strikes)[1]
	if ret.side != SideTop || ret.serve {
		t.Fatalf("return = %+v", ret)
	}
	if m.Shuttle().State() != BirdieHitByOpponent {
		t.Fatalf("shuttle state %s", m.Shuttle().State())
	}
	if m.Player(SideTop).Aiming() {
		t.Fatalf("returner should have left aim")
	}
	if v := m.Shuttle().Velocity(); v.Z() <= 0 {
		t.Fatalf("return flies %v, want toward bottom", v)
	}
}

func TestLandedShuttleResetsRally(t *testing.T) {
	m, _ := newTestMatch(t, SideBottom)
	m.Apply(SideBottom, Input{Toggle: true})

	landedAt := -1
	for i := 0; i < 1000; i++ {
		m.Step(StepDT)
		if landedAt < 0 {
			if side, ok := m.Shuttle().Landed(); ok {
				if side != SideTop {
					t.Fatalf("serve landed on %s", side)
				}
				landedAt = i
			}
			continue
		}
		if m.Shuttle().Holder() != nil {
			break
		}
	}
	if landedAt < 0 {
		t.Fatalf("serve never landed")
	}
	// The side that let it drop loses the rally.
	bottom := m.Player(SideBottom)
	if m.Shuttle().Holder() != bottom || !bottom.Service() || !bottom.Aiming() {
		t.Fatalf("bottom should serve next, holder %v", m.Shuttle().Holder())
	}
	if m.Player(SideTop).Service() {
		t.Fatalf("top kept the service")
	}
	if bottom.Position() != BottomSpawn || m.Player(SideTop).Position() != TopSpawn {
		t.Fatalf("players not respawned")
	}
}

func TestStepIgnoresBadDelta(t *testing.T) {
	m, _ := newTestMatch(t, SideBottom)
	m.Step(0)
	m.Step(-1)
	if m.Tick() != 0 {
		t.Fatalf("tick advanced to %d", m.Tick())
	}
	m.Step(StepDT)
	if m.Tick() != 1 {
		t.Fatalf("tick = %d", m.Tick())
	}
}

func TestSnapshot(t *testing.T) {
	m, _ := newTestMatch(t, SideBottom)
	m.Apply(SideTop, Input{Heading: HeadingDownRight})
	m.Step(StepDT)

	s := m.Snapshot()
	if s.Tick != 1 || s.Shuttle.State != "held" {
		t.Fatalf("snapshot %+v", s)
	}
	if s.Players[0].Side != "bottom" || s.Players[0].MoveState != "aiming" {
		t.Fatalf("bottom view %+v", s.Players[0])
	}
	if s.Players[1].MoveState != "downright" || s.Players[1].AimMode != "idle" {
		t.Fatalf("top view %+v", s.Players[1])
	}
}
