package game

// Detector is the per-tick proximity test between a player and the
// shuttle. It is the only code that calls Birdie.Hit outside a serve.
type Detector struct {
	// Radius is the strike distance; contact needs a strictly smaller gap.
	Radius float64
	// RequireAiming limits strikes to players charging a shot.
	RequireAiming bool
	// PickAim, when set, chooses the striker's lean just before contact.
	PickAim func(p *Player)
}

func NewDetector() *Detector {
	return &Detector{Radius: HitRadius}
}

// Check strikes b with p if p is close enough and b is not held or
// already on its way from p's side. On a strike p toggles its mode.
func (d *Detector) Check(p *Player, b Birdie) bool {
	state := b.State()
	if state == BirdieHeld || state == hitStateFor(p.Side()) {
		return false
	}
	if d.RequireAiming && !p.Aiming() {
		return false
	}
	if p.DistanceTo(b.Position()) >= d.Radius {
		return false
	}

	if d.PickAim != nil && p.Aiming() {
		d.PickAim(p)
	}
	b.Hit(p, false)
	p.SwitchState()
	return true
}
