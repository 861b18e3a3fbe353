package ws

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/coder/websocket"
	"github.com/vmihailenco/msgpack/v5"
)

// Client -> Server message types
const (
	MsgPlayerInput uint8 = 0x01
	MsgPing        uint8 = 0x04
)

// Server -> Client message types
const (
	MsgGameState          uint8 = 0x81
	MsgGameStart          uint8 = 0x82
	MsgStrike             uint8 = 0x84
	MsgPong               uint8 = 0x86
	MsgPlayerDisconnected uint8 = 0x87
)

// ErrUnknownCodec is returned by CodecByName.
var ErrUnknownCodec = errors.New("unknown codec")

// Message is an outbound envelope; Payload is encoded by the
// connection's codec.
type Message struct {
	Type    uint8  `json:"type" msgpack:"type"`
	Tick    uint32 `json:"tick" msgpack:"tick"`
	Payload any    `json:"payload" msgpack:"payload"`
}

// Inbound is a decoded envelope whose payload is still raw.
type Inbound struct {
	Type uint8
	Tick uint32

	raw       []byte
	unmarshal func([]byte, any) error
}

// Bind decodes the payload into v.
func (in Inbound) Bind(v any) error {
	if in.unmarshal == nil || len(in.raw) == 0 {
		return fmt.Errorf("message 0x%02x: empty payload", in.Type)
	}
	return in.unmarshal(in.raw, v)
}

type PlayerInputPayload struct {
	Heading string `json:"heading" msgpack:"heading"`
	Toggle  bool   `json:"toggle" msgpack:"toggle"`
	Jump    bool   `json:"jump" msgpack:"jump"`
}

type PingPayload struct {
	ClientTime uint64 `json:"clientTime" msgpack:"clientTime"`
}

type GameStartPayload struct {
	Side  string    `json:"side" msgpack:"side"`
	Names [2]string `json:"names" msgpack:"names"`
}

type StrikePayload struct {
	Side   string  `json:"side" msgpack:"side"`
	Charge float64 `json:"charge" msgpack:"charge"`
	Serve  bool    `json:"serve" msgpack:"serve"`
}

type PongPayload struct {
	ClientTime uint64 `json:"clientTime" msgpack:"clientTime"`
	ServerTime uint64 `json:"serverTime" msgpack:"serverTime"`
}

type PlayerDisconnectedPayload struct {
	Side string `json:"side" msgpack:"side"`
}

// Codec turns envelopes into websocket frames and back.
type Codec interface {
	Name() string
	Frame() websocket.MessageType
	Encode(msg Message) ([]byte, error)
	Decode(data []byte) (Inbound, error)
}

var (
	JSON    Codec = jsonCodec{}
	MsgPack Codec = msgpackCodec{}
)

// CodecByName picks a codec from a query parameter; empty means JSON.
func CodecByName(name string) (Codec, error) {
	switch name {
	case "", "json":
		return JSON, nil
	case "msgpack":
		return MsgPack, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
}

type jsonCodec struct{}

func (jsonCodec) Name() string                 { return "json" }
func (jsonCodec) Frame() websocket.MessageType { return websocket.MessageText }

func (jsonCodec) Encode(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}

func (jsonCodec) Decode(data []byte) (Inbound, error) {
	var env struct {
		Type    uint8           `json:"type"`
		Tick    uint32          `json:"tick"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return Inbound{}, fmt.Errorf("decode json envelope: %w", err)
	}
	return Inbound{Type: env.Type, Tick: env.Tick, raw: env.Payload, unmarshal: json.Unmarshal}, nil
}

type msgpackCodec struct{}

func (msgpackCodec) Name() string                 { return "msgpack" }
func (msgpackCodec) Frame() websocket.MessageType { return websocket.MessageBinary }

func (msgpackCodec) Encode(msg Message) ([]byte, error) {
	return msgpack.Marshal(&msg)
}

func (msgpackCodec) Decode(data []byte) (Inbound, error) {
	var env struct {
		Type    uint8              `msgpack:"type"`
		Tick    uint32             `msgpack:"tick"`
		Payload msgpack.RawMessage `msgpack:"payload"`
	}
	if err := msgpack.Unmarshal(data, &env); err != nil {
		return Inbound{}, fmt.Errorf("decode msgpack envelope: %w", err)
	}
	return Inbound{Type: env.Type, Tick: env.Tick, raw: env.Payload, unmarshal: msgpack.Unmarshal}, nil
}
