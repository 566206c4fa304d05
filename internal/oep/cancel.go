package oep

import (
	"encoding/binary"
	"fmt"
)

// Cancel payload layout (30 bytes).
const (
	CancelSize = 30

	cancelOffParticipant = 0
	cancelOffOrderID     = 8
	cancelOffBookID      = 16
	cancelOffSide        = 24
	cancelOffGatewayID   = 25
	cancelOffSessionID   = 26
)

// Cancel removes a standing order. OrderID is the gateway-assigned id from
// the execution report, not the client order id.
type Cancel struct {
	Participant uint64
	OrderID     uint64
	BookID      uint64
	Side        byte
	GatewayID   byte
	SessionID   uint32
}

// Encode packs the 30-byte cancel payload.
func (c Cancel) Encode() []byte {
	b := make([]byte, CancelSize)
	binary.LittleEndian.PutUint64(b[cancelOffParticipant:], c.Participant)
	binary.LittleEndian.PutUint64(b[cancelOffOrderID:], c.OrderID)
	binary.LittleEndian.PutUint64(b[cancelOffBookID:], c.BookID)
	b[cancelOffSide] = c.Side
	b[cancelOffGatewayID] = c.GatewayID
	binary.LittleEndian.PutUint32(b[cancelOffSessionID:], c.SessionID)
	return b
}

// DecodeCancel unpacks a cancel payload.
func DecodeCancel(b []byte) (Cancel, error) {
	if len(b) != CancelSize {
		return Cancel{}, fmt.Errorf("oep: cancel payload is %d bytes, want %d: %w", len(b), CancelSize, ErrBadLength)
	}
	return Cancel{
		Participant: binary.LittleEndian.Uint64(b[cancelOffParticipant:]),
		OrderID:     binary.LittleEndian.Uint64(b[cancelOffOrderID:]),
		BookID:      binary.LittleEndian.Uint64(b[cancelOffBookID:]),
		Side:        b[cancelOffSide],
		GatewayID:   b[cancelOffGatewayID],
		SessionID:   binary.LittleEndian.Uint32(b[cancelOffSessionID:]),
	}, nil
}
