package oep

import "fmt"

// payloadSizes lists the fixed payload size of every outbound message kind.
var payloadSizes = map[MsgType]int{
	MsgNewOrder:        NewOrderSize,
	MsgModify:          ModifySize,
	MsgCancel:          CancelSize,
	MsgExecutionReport: ExecutionReportSize,
	MsgLogin:           LoginSize,
}

// Frame prepends the OEP header to payload, producing a complete wire frame.
// Every defined message kind has a fixed payload size; handing Frame a
// payload of any other size is a programming-contract violation and panics.
func Frame(t MsgType, payload []byte) []byte {
	if want, ok := payloadSizes[t]; ok && len(payload) != want {
		panic(fmt.Sprintf("oep: %s payload is %d bytes, contract requires %d", t, len(payload), want))
	}
	f := make([]byte, 0, HeaderSize+len(payload))
	f = append(f, EncodeHeader(t, uint32(len(payload)))...)
	return append(f, payload...)
}
