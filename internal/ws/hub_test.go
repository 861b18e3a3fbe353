package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSanitizeNickname(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"ann", "ann"},
		{"a", "Player"},
		{"", "Player"},
		{"<b>bo</b>", "bbob"},
		{"shuttlecock_champion", "shuttlecock_"},
		{"\xff\xfe", "Player"},
		{"día-1", "da-1"},
	}
	for _, tt := range tests {
		if got := sanitizeNickname(tt.raw); got != tt.want {
			t.Errorf("sanitizeNickname(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

type pairRecorder struct {
	pairs chan [2]*Conn
}

func (p *pairRecorder) CreateRoom(bottom, top *Conn) {
	p.pairs <- [2]*Conn{bottom, top}
}

func wsURL(srv *httptest.Server, query string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/?" + query
}

func TestHubPairsConnections(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	rec := &pairRecorder{pairs: make(chan [2]*Conn, 1)}
	hub := NewHub(rec, nil, nil, zap.New(core))
	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWS))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c1, _, err := websocket.Dial(ctx, wsURL(srv, "name=ann"), nil)
	if err != nil {
		t.Fatalf("dial 1: %v", err)
	}
	defer c1.CloseNow()
	for hub.Stats().WaitingPlayers != 1 {
		select {
		case <-ctx.Done():
			t.Fatalf("first player never waited")
		case <-time.After(10 * time.Millisecond):
		}
	}

	c2, _, err := websocket.Dial(ctx, wsURL(srv, "name=ann&codec=msgpack"), nil)
	if err != nil {
		t.Fatalf("dial 2: %v", err)
	}
	defer c2.CloseNow()

	var pair [2]*Conn
	select {
	case pair = <-rec.pairs:
	case <-ctx.Done():
		t.Fatalf("no room created")
	}
	defer pair[0].Close()
	defer pair[1].Close()

	if pair[0].Name() != "ann" || pair[1].Name() != "ann(2)" {
		t.Fatalf("names %q %q", pair[0].Name(), pair[1].Name())
	}
	stats := hub.Stats()
	if stats.ActiveRooms != 1 || stats.TotalConnections != 2 || stats.WaitingPlayers != 0 {
		t.Fatalf("stats %+v", stats)
	}
	if logs.FilterMessage("matched").Len() != 1 {
		t.Fatalf("match was not logged")
	}

	// Server to client uses the codec the client asked for.
	pair[1].Send(Message{Type: MsgStrike, Tick: 3, Payload: StrikePayload{Side: "top", Serve: true}})
	typ, data, err := c2.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if typ != websocket.MessageBinary {
		t.Fatalf("frame type %v", typ)
	}
	in, err := MsgPack.Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	var strike StrikePayload
	if err := in.Bind(&strike); err != nil || in.Type != MsgStrike || !strike.Serve || strike.Side != "top" {
		t.Fatalf("got %+v %+v %v", in, strike, err)
	}

	// Client to server lands on the read loop.
	msgs := pair[0].ReadLoop(ctx)
	data, _ = JSON.Encode(Message{Type: MsgPlayerInput, Payload: PlayerInputPayload{Heading: "left"}})
	if err := c1.Write(ctx, websocket.MessageText, data); err != nil {
		t.Fatalf("write: %v", err)
	}
	select {
	case got := <-msgs:
		var input PlayerInputPayload
		if err := got.Bind(&input); err != nil || input.Heading != "left" {
			t.Fatalf("input %+v %v", input, err)
		}
	case <-ctx.Done():
		t.Fatalf("input never arrived")
	}

	hub.CountStrike()
	hub.RoomEnded()
	if stats := hub.Stats(); stats.Strikes != 1 || stats.ActiveRooms != 0 {
		t.Fatalf("stats after room %+v", stats)
	}
}

func TestHubRejectsUnknownCodec(t *testing.T) {
	hub := NewHub(&pairRecorder{}, nil, nil, zap.NewNop())
	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWS))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/?codec=xml")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status %d", resp.StatusCode)
	}
}
