// Package keymap turns terminal key presses into logical court commands.
//
// Terminals report key presses and auto-repeats but no releases, so a
// direction counts as held for HoldWindow after its last press. Two
// directions held together on different axes make a diagonal.
package keymap

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/redlion/court/internal/game"
)

// DefaultHoldWindow outlasts a typical terminal auto-repeat delay.
const DefaultHoldWindow = 300 * time.Millisecond

type action uint8

const (
	actUp action = iota
	actDown
	actLeft
	actRight
	actToggle
	actJump
	actCount
)

// Key is a special key or, when Code is tcell.KeyRune, a rune.
type Key struct {
	Code tcell.Key
	Rune rune
}

func Rune(r rune) Key         { return Key{Code: tcell.KeyRune, Rune: r} }
func Special(k tcell.Key) Key { return Key{Code: k} }

// Binding lists one side's keys.
type Binding struct {
	Up, Down, Left, Right Key
	Toggle, Jump          Key
}

// BottomKeys: arrows, Enter aims/strikes, Backslash jumps.
var BottomKeys = Binding{
	Up:     Special(tcell.KeyUp),
	Down:   Special(tcell.KeyDown),
	Left:   Special(tcell.KeyLeft),
	Right:  Special(tcell.KeyRight),
	Toggle: Special(tcell.KeyEnter),
	Jump:   Rune('\\'),
}

// TopKeys: WASD, f aims/strikes, g jumps.
var TopKeys = Binding{
	Up:     Rune('w'),
	Down:   Rune('s'),
	Left:   Rune('a'),
	Right:  Rune('d'),
	Toggle: Rune('f'),
	Jump:   Rune('g'),
}

func (b Binding) keys() [actCount]Key {
	return [actCount]Key{b.Up, b.Down, b.Left, b.Right, b.Toggle, b.Jump}
}

// Keymap is owned by the UI goroutine.
type Keymap struct {
	HoldWindow time.Duration

	bindings [2]Binding
	pressed  [2][actCount]time.Time
	toggle   [2]bool
	jump     [2]bool
}

func New(bottom, top Binding) *Keymap {
	return &Keymap{
		HoldWindow: DefaultHoldWindow,
		bindings:   [2]Binding{game.SideBottom: bottom, game.SideTop: top},
	}
}

// Handle records a key press. It reports false for keys it does not bind.
func (k *Keymap) Handle(ev *tcell.EventKey, now time.Time) bool {
	pressed := Key{Code: ev.Key()}
	if pressed.Code == tcell.KeyRune {
		pressed.Rune = ev.Rune()
	}
	for side, b := range k.bindings {
		for a, key := range b.keys() {
			if key != pressed {
				continue
			}
			switch action(a) {
			case actToggle:
				k.toggle[side] = true
			case actJump:
				k.jump[side] = true
			default:
				k.pressed[side][a] = now
			}
			return true
		}
	}
	return false
}

// Input returns side's command at now and consumes its one-shot actions.
func (k *Keymap) Input(side game.Side, now time.Time) game.Input {
	in := game.Input{
		Heading: k.heading(side, now),
		Toggle:  k.toggle[side],
		Jump:    k.jump[side],
	}
	k.toggle[side] = false
	k.jump[side] = false
	return in
}

func (k *Keymap) heading(side game.Side, now time.Time) game.Heading {
	p := k.pressed[side]
	v := k.axis(p[actUp], p[actDown], now)
	h := k.axis(p[actLeft], p[actRight], now)
	switch {
	case v < 0 && h < 0:
		return game.HeadingUpLeft
	case v < 0 && h > 0:
		return game.HeadingUpRight
	case v > 0 && h < 0:
		return game.HeadingDownLeft
	case v > 0 && h > 0:
		return game.HeadingDownRight
	case v < 0:
		return game.HeadingUp
	case v > 0:
		return game.HeadingDown
	case h < 0:
		return game.HeadingLeft
	case h > 0:
		return game.HeadingRight
	}
	return game.HeadingNone
}

// axis resolves two opposing keys; the most recent live press wins.
func (k *Keymap) axis(neg, pos time.Time, now time.Time) int {
	negLive := !neg.IsZero() && now.Sub(neg) < k.HoldWindow
	posLive := !pos.IsZero() && now.Sub(pos) < k.HoldWindow
	switch {
	case negLive && posLive:
		if pos.After(neg) {
			return 1
		}
		return -1
	case negLive:
		return -1
	case posLive:
		return 1
	}
	return 0
}
