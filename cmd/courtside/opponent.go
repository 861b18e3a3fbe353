package main

import (
	"math/rand/v2"

	"github.com/redlion/court/internal/game"
)

// Charge the opponent builds before it serves.
const opponentServeCharge = 1.5

var leans = []game.Heading{
	game.HeadingLeft, game.HeadingRight, game.HeadingUpLeft,
	game.HeadingUpRight, game.HeadingDownLeft, game.HeadingDownRight,
}

// opponent plays the top side in solo mode. It stands its ground with a
// shot charged and calls a random lean just before contact.
type opponent struct {
	rng *rand.Rand
}

func newOpponent(rng *rand.Rand) *opponent {
	return &opponent{rng: rng}
}

// Input is the top side's command for the coming tick.
func (o *opponent) Input(m *game.Match) game.Input {
	p := m.Player(game.SideTop)
	if m.Shuttle().Holder() == p {
		return game.Input{Toggle: p.AimChargeTime() >= opponentServeCharge}
	}
	return game.Input{Toggle: !p.Aiming()}
}

// PickAim is installed as the match detector's aim callout.
func (o *opponent) PickAim(p *game.Player) {
	if p.Side() != game.SideTop {
		return
	}
	p.Command(leans[o.rng.IntN(len(leans))])
}
