package ws

import (
	"encoding/json"
	"log"

	"github.com/playmatatu/ballpit/internal/game"
)

type wireBody struct {
	game.BodyState
	Highlight string `json:"highlight"`
	Shade     string `json:"shade"`
}

type frameMessage struct {
	Type    string       `json:"type"`
	Number  uint64       `json:"number"`
	Surface game.Surface `json:"surface"`
	Bodies  []wireBody   `json:"bodies"`
}

type bodyMessage struct {
	Type string   `json:"type"`
	Body wireBody `json:"body"`
}

// frameSink renders a session to its websocket client. It is called on the
// session's loop goroutine.
type frameSink struct {
	client  *Client
	dropped int
}

func newFrameSink(c *Client) *frameSink {
	return &frameSink{client: c}
}

func toWire(b game.BodyState) wireBody {
	return wireBody{
		BodyState: b,
		Highlight: game.Highlight(b.Color, game.HighlightAmount),
		Shade:     game.Shade(b.Color, game.ShadeAmount),
	}
}

func encodeFrame(f game.Frame) ([]byte, error) {
	msg := frameMessage{
		Type:    "frame",
		Number:  f.Number,
		Surface: f.Surface,
		Bodies:  make([]wireBody, len(f.Bodies)),
	}
	for i, b := range f.Bodies {
		msg.Bodies[i] = toWire(b)
	}
	return json.Marshal(msg)
}

func (s *frameSink) FrameReady(f game.Frame) {
	data, err := encodeFrame(f)
	if err != nil {
		log.Printf("[WS] frame encode failed for session %s: %v", s.client.sessionID, err)
		return
	}
	s.push(data)
}

func (s *frameSink) DrawBody(b game.BodyState) {
	data, err := json.Marshal(bodyMessage{Type: "body", Body: toWire(b)})
	if err != nil {
		return
	}
	s.push(data)
}

func (s *frameSink) push(data []byte) {
	if s.client.trySend(data) {
		return
	}
	// Slow viewers lose frames; the next frame carries the full state again.
	s.dropped++
	if s.dropped%600 == 1 {
		log.Printf("[WS] session %s dropping frames (total=%d)", s.client.sessionID, s.dropped)
	}
}
