package ws

import (
	"context"
	"sync"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/redlion/court/internal/middleware"
)

type Conn struct {
	ws       *websocket.Conn
	codec    Codec
	sendCh   chan []byte
	done     chan struct{}
	once     sync.Once
	ID       string
	Nickname string
	IP       string
	limiter  *middleware.IPRateLimiter
	log      *zap.Logger
}

func NewConn(ws *websocket.Conn, codec Codec, id string, ip string, limiter *middleware.IPRateLimiter, log *zap.Logger) *Conn {
	return &Conn{
		ws:      ws,
		codec:   codec,
		sendCh:  make(chan []byte, 64),
		done:    make(chan struct{}),
		ID:      id,
		IP:      ip,
		limiter: limiter,
		log:     log.With(zap.String("conn", id), zap.String("codec", codec.Name())),
	}
}

// Name is the sanitized nickname shown to the opponent.
func (c *Conn) Name() string { return c.Nickname }

func (c *Conn) Send(msg Message) {
	data, err := c.codec.Encode(msg)
	if err != nil {
		c.log.Error("encode", zap.Uint8("type", msg.Type), zap.Error(err))
		return
	}
	select {
	case c.sendCh <- data:
	default:
		c.log.Warn("send buffer full, dropping message", zap.Uint8("type", msg.Type))
	}
}

func (c *Conn) ReadLoop(ctx context.Context) <-chan Inbound {
	ch := make(chan Inbound, 64)
	go func() {
		defer close(ch)
		for {
			_, data, err := c.ws.Read(ctx)
			if err != nil {
				c.log.Info("read", zap.Error(err))
				c.Close()
				return
			}
			// Per-IP message rate limiting
			if c.limiter != nil && !c.limiter.MessageAllowed(c.IP) {
				continue // drop message silently, don't disconnect
			}
			msg, err := c.codec.Decode(data)
			if err != nil {
				c.log.Debug("decode", zap.Error(err))
				continue
			}
			select {
			case ch <- msg:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}

func (c *Conn) WriteLoop(ctx context.Context) {
	for {
		select {
		case data := <-c.sendCh:
			ctx2, cancel := context.WithTimeout(ctx, 5*time.Second)
			err := c.ws.Write(ctx2, c.codec.Frame(), data)
			cancel()
			if err != nil {
				c.log.Info("write", zap.Error(err))
				c.Close()
				return
			}
		case <-c.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (c *Conn) Close() {
	c.once.Do(func() {
		close(c.done)
		c.ws.Close(websocket.StatusNormalClosure, "")
	})
}

func (c *Conn) Done() <-chan struct{} {
	return c.done
}
