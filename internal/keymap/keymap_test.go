package keymap

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/redlion/court/internal/game"
)

var t0 = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func press(k *Keymap, ev *tcell.EventKey, at time.Duration) bool {
	return k.Handle(ev, t0.Add(at))
}

func runeKey(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestSingleKeyHeading(t *testing.T) {
	k := New(BottomKeys, TopKeys)
	if !press(k, tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone), 0) {
		t.Fatalf("left arrow not bound")
	}
	if got := k.Input(game.SideBottom, t0.Add(100*time.Millisecond)).Heading; got != game.HeadingLeft {
		t.Fatalf("bottom heading %s", got)
	}
	if got := k.Input(game.SideTop, t0).Heading; got != game.HeadingNone {
		t.Fatalf("top heading %s", got)
	}
}

func TestHeldKeyExpires(t *testing.T) {
	k := New(BottomKeys, TopKeys)
	press(k, runeKey('w'), 0)
	if got := k.Input(game.SideTop, t0.Add(DefaultHoldWindow-time.Millisecond)).Heading; got != game.HeadingUp {
		t.Fatalf("heading inside window %s", got)
	}
	if got := k.Input(game.SideTop, t0.Add(DefaultHoldWindow)).Heading; got != game.HeadingNone {
		t.Fatalf("heading after window %s", got)
	}
}

func TestTwoAxesMakeDiagonal(t *testing.T) {
	tests := []struct {
		keys []rune
		want game.Heading
	}{
		{[]rune{'w', 'a'}, game.HeadingUpLeft},
		{[]rune{'w', 'd'}, game.HeadingUpRight},
		{[]rune{'s', 'a'}, game.HeadingDownLeft},
		{[]rune{'d', 's'}, game.HeadingDownRight},
		{[]rune{'a', 'd'}, game.HeadingRight},
		{[]rune{'s', 'w'}, game.HeadingUp},
	}
	for _, tt := range tests {
		k := New(BottomKeys, TopKeys)
		for i, r := range tt.keys {
			press(k, runeKey(r), time.Duration(i)*10*time.Millisecond)
		}
		if got := k.Input(game.SideTop, t0.Add(50*time.Millisecond)).Heading; got != tt.want {
			t.Errorf("keys %q: heading %s, want %s", string(tt.keys), got, tt.want)
		}
	}
}

func TestOneShotsAreConsumed(t *testing.T) {
	k := New(BottomKeys, TopKeys)
	press(k, tcell.NewEventKey(tcell.KeyEnter, '\r', tcell.ModNone), 0)
	press(k, runeKey('\\'), 0)
	press(k, runeKey('g'), 0)

	in := k.Input(game.SideBottom, t0)
	if !in.Toggle || !in.Jump {
		t.Fatalf("bottom one-shots %+v", in)
	}
	if in := k.Input(game.SideBottom, t0); in.Toggle || in.Jump {
		t.Fatalf("one-shots repeated %+v", in)
	}
	if in := k.Input(game.SideTop, t0); in.Toggle || !in.Jump {
		t.Fatalf("top one-shots %+v", in)
	}
}

func TestUnboundKey(t *testing.T) {
	k := New(BottomKeys, TopKeys)
	if press(k, runeKey('z'), 0) {
		t.Fatalf("z reported as bound")
	}
	if in := k.Input(game.SideBottom, t0); in != (game.Input{}) {
		t.Fatalf("unbound key changed input %+v", in)
	}
}
