package game

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/redlion/court/internal/ws"
)

// Peer is one connected player as the room sees it.
type Peer interface {
	Name() string
	Send(msg ws.Message)
	ReadLoop(ctx context.Context) <-chan ws.Inbound
}

// Room runs one networked match. Inputs arrive on reader goroutines; the
// match itself is only touched by the game loop.
type Room struct {
	peers    [2]Peer
	match    *Match
	clock    *Clock
	tickRate int
	log      *zap.Logger

	inputs  [2]Input
	inputMu sync.Mutex

	// OnStrike, if set, is told about every strike after it is broadcast.
	OnStrike func(side Side)

	cancel context.CancelFunc
	done   chan struct{}
}

// ErrTickRate is returned by NewRoom for a rate outside (0, MaxTickRate].
var ErrTickRate = errors.New("tick rate out of range")

// NewRoom pairs two peers; bottom serves first.
func NewRoom(bottom, top Peer, bounds Bounds, tickRate int, log *zap.Logger) (*Room, error) {
	if tickRate <= 0 || tickRate > MaxTickRate {
		return nil, fmt.Errorf("%w: %d", ErrTickRate, tickRate)
	}
	m, err := NewMatch(bounds, SideBottom)
	if err != nil {
		return nil, err
	}
	r := &Room{
		peers:    [2]Peer{bottom, top},
		match:    m,
		clock:    NewClock(),
		tickRate: tickRate,
		log:      log.With(zap.String("bottom", bottom.Name()), zap.String("top", top.Name())),
		done:     make(chan struct{}),
	}
	m.OnStrike = r.strike
	return r, nil
}

func (r *Room) Start(ctx context.Context) {
	ctx, r.cancel = context.WithCancel(ctx)

	names := [2]string{r.peers[0].Name(), r.peers[1].Name()}
	for i, p := range r.peers {
		msg := ws.Message{Type: ws.MsgGameStart, Payload: ws.GameStartPayload{
			Side:  Side(i).String(),
			Names: names,
		}}
		p.Send(msg)
	}

	for i, p := range r.peers {
		go r.readLoop(ctx, p, Side(i))
	}

	go func() {
		r.gameLoop(ctx)
		close(r.done)
	}()
}

// Stop ends the game loop and readers.
func (r *Room) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
}

// Done returns a channel that closes when the room's game loop exits.
func (r *Room) Done() <-chan struct{} {
	return r.done
}

func (r *Room) readLoop(ctx context.Context, p Peer, side Side) {
	msgs := p.ReadLoop(ctx)
	for {
		select {
		case msg, ok := <-msgs:
			if !ok {
				r.log.Info("player disconnected", zap.Stringer("side", side))
				r.handleDisconnect(side)
				return
			}
			r.handleMessage(side, msg)
		case <-ctx.Done():
			return
		}
	}
}

func (r *Room) handleMessage(side Side, msg ws.Inbound) {
	switch msg.Type {
	case ws.MsgPlayerInput:
		var payload ws.PlayerInputPayload
		if err := msg.Bind(&payload); err != nil {
			r.log.Debug("bad input payload", zap.Stringer("side", side), zap.Error(err))
			return
		}
		h, err := ParseHeading(payload.Heading)
		if err != nil {
			r.log.Debug("bad heading", zap.Stringer("side", side), zap.Error(err))
			return
		}
		r.inputMu.Lock()
		in := &r.inputs[side]
		in.Heading = h
		// one-shot actions stay latched until the next tick consumes them
		in.Toggle = in.Toggle || payload.Toggle
		in.Jump = in.Jump || payload.Jump
		r.inputMu.Unlock()

	case ws.MsgPing:
		var ping ws.PingPayload
		if err := msg.Bind(&ping); err != nil {
			return
		}
		r.peers[side].Send(ws.Message{Type: ws.MsgPong, Payload: ws.PongPayload{
			ClientTime: ping.ClientTime,
			ServerTime: uint64(time.Now().UnixMilli()),
		}})
	}
}

func (r *Room) handleDisconnect(side Side) {
	other := side.Opponent()
	r.peers[other].Send(ws.Message{Type: ws.MsgPlayerDisconnected, Payload: ws.PlayerDisconnectedPayload{
		Side: side.String(),
	}})
	r.cancel()
}

func (r *Room) gameLoop(ctx context.Context) {
	ticker := time.NewTicker(time.Second / time.Duration(r.tickRate))
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case now := <-ticker.C:
			wall := now.Sub(last).Seconds()
			last = now
			if dt, ok := r.clock.Advance(wall); ok {
				r.tick(dt)
			}
		case <-ctx.Done():
			return
		}
	}
}

func (r *Room) tick(dt float64) {
	// Consume one-shot actions but keep the held heading
	r.inputMu.Lock()
	inputs := r.inputs
	for i := range r.inputs {
		r.inputs[i].Toggle = false
		r.inputs[i].Jump = false
	}
	r.inputMu.Unlock()

	for i, in := range inputs {
		r.match.Apply(Side(i), in)
	}
	r.match.Step(dt)
	r.broadcast(ws.Message{Type: ws.MsgGameState, Tick: r.match.Tick(), Payload: r.match.Snapshot()})
}

func (r *Room) strike(p *Player, charge float64, serve bool) {
	r.log.Info("strike",
		zap.Stringer("side", p.Side()),
		zap.Float64("charge", charge),
		zap.Bool("serve", serve),
		zap.Uint32("tick", r.match.Tick()))
	r.broadcast(ws.Message{Type: ws.MsgStrike, Tick: r.match.Tick(), Payload: ws.StrikePayload{
		Side:   p.Side().String(),
		Charge: charge,
		Serve:  serve,
	}})
	if r.OnStrike != nil {
		r.OnStrike(p.Side())
	}
}

func (r *Room) broadcast(msg ws.Message) {
	for _, p := range r.peers {
		p.Send(msg)
	}
}
