package main

import (
	"fmt"
	"unicode"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/redlion/court/internal/game"
)

var (
	lineStyle    = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	netStyle     = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	bottomStyle  = tcell.StyleDefault.Foreground(tcell.ColorAqua).Bold(true)
	topStyle     = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	shuttleStyle = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	textStyle    = tcell.StyleDefault
)

// courtView draws a top-down court: x runs across, z runs down the screen.
type courtView struct {
	bounds game.Bounds
}

func newCourtView(b game.Bounds) *courtView {
	return &courtView{bounds: b}
}

// cell maps a court position to a screen cell inside a w×h court area
// whose top-left corner is (1, 1).
func (v *courtView) cell(pos mgl64.Vec3, w, h int) (int, int) {
	min, max := v.bounds.Min, v.bounds.Max
	fx := (pos.X() - min.X()) / (max.X() - min.X())
	fz := (pos.Z() - min.Z()) / (max.Z() - min.Z())
	x := 1 + int(fx*float64(w-1)+0.5)
	y := 1 + int(fz*float64(h-1)+0.5)
	return x, y
}

func (v *courtView) Draw(s tcell.Screen, snap game.Snapshot) {
	s.Clear()
	sw, sh := s.Size()
	w, h := sw-2, sh-5
	if w < 10 || h < 6 {
		drawText(s, 0, 0, textStyle, "terminal too small")
		s.Show()
		return
	}

	for x := 0; x <= w+1; x++ {
		s.SetContent(x, 0, '─', nil, lineStyle)
		s.SetContent(x, h+1, '─', nil, lineStyle)
	}
	for y := 0; y <= h+1; y++ {
		s.SetContent(0, y, '│', nil, lineStyle)
		s.SetContent(w+1, y, '│', nil, lineStyle)
	}
	_, netY := v.cell(mgl64.Vec3{}, w, h)
	for x := 1; x <= w; x++ {
		s.SetContent(x, netY, '═', nil, netStyle)
	}

	sx, sy := v.cell(snap.Shuttle.Position, w, h)
	s.SetContent(sx, sy, '*', nil, shuttleStyle)

	glyphs := [2]rune{'B', 'T'}
	styles := [2]tcell.Style{bottomStyle, topStyle}
	for i, p := range snap.Players {
		x, y := v.cell(p.Position, w, h)
		g := glyphs[i]
		if p.MoveState == game.MoveAiming.String() {
			g = unicode.ToLower(g)
		}
		s.SetContent(x, y, g, nil, styles[i])
	}

	for i, p := range snap.Players {
		line := fmt.Sprintf("%-6s %-9s aim:%-9s charge:%.2f", p.Side, p.MoveState, p.AimMode, p.AimChargeTime)
		drawText(s, 0, h+2+i, styles[i], line)
	}
	drawText(s, 0, h+4, textStyle, fmt.Sprintf("tick %d  strikes %d  shuttle %s  [esc quits]", snap.Tick, snap.Strikes, snap.Shuttle.State))
	s.Show()
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}
