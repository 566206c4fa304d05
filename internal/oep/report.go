package oep

import (
	"encoding/binary"
	"fmt"
)

// ExecutionReport payload layout (57 bytes, inbound only).
const (
	ExecutionReportSize = 57

	reportOffParticipant      = 0
	reportOffOrderID          = 8
	reportOffSubmittedOrderID = 16
	reportOffBook             = 24
	reportOffQuantity         = 32
	reportOffPrice            = 40
	reportOffFlags            = 48
	reportOffSide             = 50
	reportOffState            = 51
	reportOffSessionID        = 52
	reportOffGatewayID        = 56
)

// Order states reported by the gateway. The session loop only handles
// StateInserted; anything else on this pipe is a protocol violation.
const (
	StateInserted byte = 0
)

// ExecutionReport is the gateway's asynchronous order-lifecycle event.
// OrderID is the gateway-assigned id; SubmittedOrderID echoes the client
// order id of the triggering message.
type ExecutionReport struct {
	Participant      uint64
	OrderID          uint64
	SubmittedOrderID uint64
	Book             uint64
	Quantity         uint64
	Price            uint64
	Flags            uint16
	Side             byte
	State            byte
	SessionID        uint32
	GatewayID        byte
}

// Encode packs the 57-byte execution-report payload. The client never sends
// one; this is the dual of DecodeExecutionReport, used when simulating the
// gateway side.
func (r ExecutionReport) Encode() []byte {
	b := make([]byte, ExecutionReportSize)
	binary.LittleEndian.PutUint64(b[reportOffParticipant:], r.Participant)
	binary.LittleEndian.PutUint64(b[reportOffOrderID:], r.OrderID)
	binary.LittleEndian.PutUint64(b[reportOffSubmittedOrderID:], r.SubmittedOrderID)
	binary.LittleEndian.PutUint64(b[reportOffBook:], r.Book)
	binary.LittleEndian.PutUint64(b[reportOffQuantity:], r.Quantity)
	binary.LittleEndian.PutUint64(b[reportOffPrice:], r.Price)
	binary.LittleEndian.PutUint16(b[reportOffFlags:], r.Flags)
	b[reportOffSide] = r.Side
	b[reportOffState] = r.State
	binary.LittleEndian.PutUint32(b[reportOffSessionID:], r.SessionID)
	b[reportOffGatewayID] = r.GatewayID
	return b
}

// DecodeExecutionReport unpacks an execution-report payload. The payload
// must be exactly 57 bytes; anything else breaks the wire contract.
func DecodeExecutionReport(b []byte) (ExecutionReport, error) {
	if len(b) != ExecutionReportSize {
		return ExecutionReport{}, fmt.Errorf("oep: execution-report payload is %d bytes, want %d: %w",
			len(b), ExecutionReportSize, ErrBadLength)
	}
	return ExecutionReport{
		Participant:      binary.LittleEndian.Uint64(b[reportOffParticipant:]),
		OrderID:          binary.LittleEndian.Uint64(b[reportOffOrderID:]),
		SubmittedOrderID: binary.LittleEndian.Uint64(b[reportOffSubmittedOrderID:]),
		Book:             binary.LittleEndian.Uint64(b[reportOffBook:]),
		Quantity:         binary.LittleEndian.Uint64(b[reportOffQuantity:]),
		Price:            binary.LittleEndian.Uint64(b[reportOffPrice:]),
		Flags:            binary.LittleEndian.Uint16(b[reportOffFlags:]),
		Side:             b[reportOffSide],
		State:            b[reportOffState],
		SessionID:        binary.LittleEndian.Uint32(b[reportOffSessionID:]),
		GatewayID:        b[reportOffGatewayID],
	}, nil
}
