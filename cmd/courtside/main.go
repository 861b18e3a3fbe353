// Command courtside is a hot-seat court in the terminal. With -solo the
// computer plays the top side.
package main

import (
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/redlion/court/internal/config"
	"github.com/redlion/court/internal/game"
	"github.com/redlion/court/internal/keymap"
	"github.com/redlion/court/internal/logging"
)

func main() {
	logFile := flag.String("log", "", "write logs to this file (the terminal is taken by the court)")
	frame := flag.Duration("frame", 10*time.Millisecond, "how often the screen is polled and redrawn")
	solo := flag.Bool("solo", false, "the computer plays the top side")
	flag.Parse()

	if err := run(*logFile, *frame, *solo); err != nil {
		fmt.Fprintln(os.Stderr, "courtside:", err)
		os.Exit(1)
	}
}

func run(logFile string, frame time.Duration, solo bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logging.FileOnly(cfg.LogLevel, logFile)
	if err != nil {
		return err
	}
	defer log.Sync()

	bounds := game.NewBounds(cfg.CourtHalfWidth, cfg.CourtHalfLength)
	match, err := game.NewMatch(bounds, game.SideBottom)
	if err != nil {
		return err
	}
	match.OnStrike = func(p *game.Player, charge float64, serve bool) {
		log.Info("strike", zap.Stringer("side", p.Side()), zap.Float64("charge", charge), zap.Bool("serve", serve))
	}

	var cpu *opponent
	if solo {
		cpu = newOpponent(rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)))
		match.Detector().PickAim = cpu.PickAim
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	keys := keymap.New(keymap.BottomKeys, keymap.TopKeys)
	view := newCourtView(bounds)
	clock := game.NewClock()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(frame)
	defer ticker.Stop()
	last := time.Now()
	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
					log.Info("quit", zap.Uint32("ticks", match.Tick()), zap.Uint32("strikes", match.Strikes()))
					return nil
				}
				keys.Handle(ev, time.Now())
			case *tcell.EventResize:
				screen.Sync()
			}
		case now := <-ticker.C:
			dt, ok := clock.Advance(now.Sub(last).Seconds())
			last = now
			if !ok {
				continue
			}
			match.Apply(game.SideBottom, keys.Input(game.SideBottom, now))
			if cpu != nil {
				match.Apply(game.SideTop, cpu.Input(match))
			} else {
				match.Apply(game.SideTop, keys.Input(game.SideTop, now))
			}
			match.Step(dt)
			view.Draw(screen, match.Snapshot())
		}
	}
}
