package game

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownHeading is returned by ParseHeading for names it does not know.
var ErrUnknownHeading = errors.New("unknown heading")

// Heading is the compass tag shared by locomotion states and aim modes.
// MoveState and AimMode are mapped through it explicitly, so neither
// enumeration depends on the other's declaration order.
type Heading uint8

const (
	HeadingNone Heading = iota
	HeadingUp
	HeadingDown
	HeadingLeft
	HeadingRight
	HeadingDownLeft
	HeadingUpLeft
	HeadingDownRight
	HeadingUpRight
)

// MoveState is the locomotion state of a player. MoveAiming suspends locomotion.
type MoveState uint8

const (
	MoveIdle MoveState = iota
	MoveUp
	MoveDown
	MoveLeft
	MoveRight
	MoveDownLeft
	MoveUpLeft
	MoveDownRight
	MoveUpRight
	MoveAiming
)

// AimMode is the directional lean while charging a shot.
type AimMode uint8

const (
	AimIdle AimMode = iota
	AimUp
	AimDown
	AimLeft
	AimRight
	AimDownLeft
	AimUpLeft
	AimDownRight
	AimUpRight
)

var headingNames = map[Heading]string{
	HeadingNone:      "none",
	HeadingUp:        "up",
	HeadingDown:      "down",
	HeadingLeft:      "left",
	HeadingRight:     "right",
	HeadingDownLeft:  "downleft",
	HeadingUpLeft:    "upleft",
	HeadingDownRight: "downright",
	HeadingUpRight:   "upright",
}

var moveByHeading = map[Heading]MoveState{
	HeadingNone:      MoveIdle,
	HeadingUp:        MoveUp,
	HeadingDown:      MoveDown,
	HeadingLeft:      MoveLeft,
	HeadingRight:     MoveRight,
	HeadingDownLeft:  MoveDownLeft,
	HeadingUpLeft:    MoveUpLeft,
	HeadingDownRight: MoveDownRight,
	HeadingUpRight:   MoveUpRight,
}

var aimByHeading = map[Heading]AimMode{
	HeadingNone:      AimIdle,
	HeadingUp:        AimUp,
	HeadingDown:      AimDown,
	HeadingLeft:      AimLeft,
	HeadingRight:     AimRight,
	HeadingDownLeft:  AimDownLeft,
	HeadingUpLeft:    AimUpLeft,
	HeadingDownRight: AimDownRight,
	HeadingUpRight:   AimUpRight,
}

var (
	headingByMove = invert(moveByHeading)
	headingByAim  = invert(aimByHeading)
)

func invert[K, V comparable](m map[K]V) map[V]K {
	out := make(map[V]K, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}

// ParseHeading accepts the lower-case names produced by Heading.String.
// The empty string is HeadingNone.
func ParseHeading(s string) (Heading, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return HeadingNone, nil
	}
	for h, name := range headingNames {
		if name == s {
			return h, nil
		}
	}
	return HeadingNone, fmt.Errorf("%w: %q", ErrUnknownHeading, s)
}

func (h Heading) String() string {
	if name, ok := headingNames[h]; ok {
		return name
	}
	return fmt.Sprintf("heading(%d)", uint8(h))
}

// Diagonal reports whether the heading combines two axes.
func (h Heading) Diagonal() bool {
	switch h {
	case HeadingDownLeft, HeadingUpLeft, HeadingDownRight, HeadingUpRight:
		return true
	}
	return false
}

// MoveState returns the locomotion state that moves along h.
func (h Heading) MoveState() MoveState {
	if s, ok := moveByHeading[h]; ok {
		return s
	}
	return MoveIdle
}

// AimMode returns the aim lean along h.
func (h Heading) AimMode() AimMode {
	if a, ok := aimByHeading[h]; ok {
		return a
	}
	return AimIdle
}

// Heading returns the compass tag of a locomotion state. MoveAiming has
// none and reports false.
func (s MoveState) Heading() (Heading, bool) {
	h, ok := headingByMove[s]
	return h, ok
}

func (s MoveState) String() string {
	if s == MoveAiming {
		return "aiming"
	}
	if h, ok := s.Heading(); ok {
		if h == HeadingNone {
			return "idle"
		}
		return h.String()
	}
	return fmt.Sprintf("move(%d)", uint8(s))
}

// Heading returns the compass tag of an aim mode.
func (a AimMode) Heading() Heading {
	return headingByAim[a]
}

func (a AimMode) String() string {
	h, ok := headingByAim[a]
	switch {
	case !ok:
		return fmt.Sprintf("aim(%d)", uint8(a))
	case h == HeadingNone:
		return "idle"
	}
	return h.String()
}
