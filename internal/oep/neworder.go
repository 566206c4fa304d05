package oep

import (
	"encoding/binary"
	"fmt"
)

// NewOrder payload layout (48 bytes).
const (
	NewOrderSize = 48

	newOrderOffClientOrderID = 0
	newOrderOffParticipant   = 8
	newOrderOffBookID        = 16
	newOrderOffQuantity      = 24
	newOrderOffPrice         = 32
	newOrderOffOrderType     = 40
	newOrderOffSide          = 42
	newOrderOffGatewayID     = 43
	newOrderOffSessionID     = 44
)

// NewOrder submits a fresh order. The layout carries the gateway id as a
// single byte: values above 255 corrupt the frame silently, so they must be
// rejected before a message is ever built.
type NewOrder struct {
	ClientOrderID uint64
	Participant   uint64
	BookID        uint64
	Quantity      uint64
	Price         uint64
	OrderType     uint16 // 0 = day order; this client only sends day orders
	Side          byte   // 0 = buy, 1 = sell
	GatewayID     byte
	SessionID     uint32
}

// Encode packs the 48-byte new-order payload.
func (o NewOrder) Encode() []byte {
	b := make([]byte, NewOrderSize)
	binary.LittleEndian.PutUint64(b[newOrderOffClientOrderID:], o.ClientOrderID)
	binary.LittleEndian.PutUint64(b[newOrderOffParticipant:], o.Participant)
	binary.LittleEndian.PutUint64(b[newOrderOffBookID:], o.BookID)
	binary.LittleEndian.PutUint64(b[newOrderOffQuantity:], o.Quantity)
	binary.LittleEndian.PutUint64(b[newOrderOffPrice:], o.Price)
	binary.LittleEndian.PutUint16(b[newOrderOffOrderType:], o.OrderType)
	b[newOrderOffSide] = o.Side
	b[newOrderOffGatewayID] = o.GatewayID
	binary.LittleEndian.PutUint32(b[newOrderOffSessionID:], o.SessionID)
	return b
}

// DecodeNewOrder unpacks a new-order payload.
func DecodeNewOrder(b []byte) (NewOrder, error) {
	if len(b) != NewOrderSize {
		return NewOrder{}, fmt.Errorf("oep: new-order payload is %d bytes, want %d: %w", len(b), NewOrderSize, ErrBadLength)
	}
	return NewOrder{
		ClientOrderID: binary.LittleEndian.Uint64(b[newOrderOffClientOrderID:]),
		Participant:   binary.LittleEndian.Uint64(b[newOrderOffParticipant:]),
		BookID:        binary.LittleEndian.Uint64(b[newOrderOffBookID:]),
		Quantity:      binary.LittleEndian.Uint64(b[newOrderOffQuantity:]),
		Price:         binary.LittleEndian.Uint64(b[newOrderOffPrice:]),
		OrderType:     binary.LittleEndian.Uint16(b[newOrderOffOrderType:]),
		Side:          b[newOrderOffSide],
		GatewayID:     b[newOrderOffGatewayID],
		SessionID:     binary.LittleEndian.Uint32(b[newOrderOffSessionID:]),
	}, nil
}
