package oep

import (
	"encoding/binary"
	"fmt"
)

// Modify payload layout (46 bytes). Part of the protocol surface even though
// this client's session loop never sends one.
const (
	ModifySize = 46

	modifyOffParticipant = 0
	modifyOffOrderID     = 8
	modifyOffBookID      = 16
	modifyOffQuantity    = 24
	modifyOffPrice       = 32
	modifyOffSide        = 40
	modifyOffGatewayID   = 41
	modifyOffSessionID   = 42
)

// Modify re-prices or re-sizes a standing order in place.
type Modify struct {
	Participant uint64
	OrderID     uint64
	BookID      uint64
	Quantity    uint64
	Price       uint64
	Side        byte
	GatewayID   byte
	SessionID   uint32
}

// Encode packs the 46-byte modify payload.
func (m Modify) Encode() []byte {
	b := make([]byte, ModifySize)
	binary.LittleEndian.PutUint64(b[modifyOffParticipant:], m.Participant)
	binary.LittleEndian.PutUint64(b[modifyOffOrderID:], m.OrderID)
	binary.LittleEndian.PutUint64(b[modifyOffBookID:], m.BookID)
	binary.LittleEndian.PutUint64(b[modifyOffQuantity:], m.Quantity)
	binary.LittleEndian.PutUint64(b[modifyOffPrice:], m.Price)
	b[modifyOffSide] = m.Side
	b[modifyOffGatewayID] = m.GatewayID
	binary.LittleEndian.PutUint32(b[modifyOffSessionID:], m.SessionID)
	return b
}

// DecodeModify unpacks a modify payload.
func DecodeModify(b []byte) (Modify, error) {
	if len(b) != ModifySize {
		return Modify{}, fmt.Errorf("oep: modify payload is %d bytes, want %d: %w", len(b), ModifySize, ErrBadLength)
	}
	return Modify{
		Participant: binary.LittleEndian.Uint64(b[modifyOffParticipant:]),
		OrderID:     binary.LittleEndian.Uint64(b[modifyOffOrderID:]),
		BookID:      binary.LittleEndian.Uint64(b[modifyOffBookID:]),
		Quantity:    binary.LittleEndian.Uint64(b[modifyOffQuantity:]),
		Price:       binary.LittleEndian.Uint64(b[modifyOffPrice:]),
		Side:        b[modifyOffSide],
		GatewayID:   b[modifyOffGatewayID],
		SessionID:   binary.LittleEndian.Uint32(b[modifyOffSessionID:]),
	}, nil
}
