// Package oep implements the binary Order Entry Protocol spoken by the
// venue gateway: an 8-byte frame header followed by a fixed-layout payload,
// all integers little-endian.
//
// Field offsets are declared once per message and shared by the encode and
// decode paths, so the two cannot drift apart.
package oep

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Version is the protocol version carried in every header.
const Version uint16 = 1

// HeaderSize is the fixed frame header size in bytes.
const HeaderSize = 8

// MsgType selects the payload interpretation of a frame.
type MsgType uint16

const (
	MsgNewOrder        MsgType = 0
	MsgModify          MsgType = 1
	MsgCancel          MsgType = 2
	MsgExecutionReport MsgType = 3
	MsgLogin           MsgType = 4
)

func (t MsgType) String() string {
	switch t {
	case MsgNewOrder:
		return "new_order"
	case MsgModify:
		return "modify"
	case MsgCancel:
		return "cancel"
	case MsgExecutionReport:
		return "execution_report"
	case MsgLogin:
		return "login"
	default:
		return fmt.Sprintf("unknown(%d)", uint16(t))
	}
}

// ErrBadLength is wrapped by every decode that receives a payload whose
// length does not match the message's fixed size.
var ErrBadLength = errors.New("oep: payload length mismatch")

// Header layout.
const (
	hdrOffVersion = 0
	hdrOffType    = 2
	hdrOffLen     = 4
)

// Header is the 8-byte frame prefix: version(u16) | type(u16) | payloadLen(u32).
type Header struct {
	Version    uint16
	Type       MsgType
	PayloadLen uint32
}

// EncodeHeader packs a frame header. The caller guarantees the type is valid;
// payloadLen is whatever follows the header on the wire.
func EncodeHeader(t MsgType, payloadLen uint32) []byte {
	b := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint16(b[hdrOffVersion:], Version)
	binary.LittleEndian.PutUint16(b[hdrOffType:], uint16(t))
	binary.LittleEndian.PutUint32(b[hdrOffLen:], payloadLen)
	return b
}

// DecodeHeader reads a frame header from the first 8 bytes of b.
func DecodeHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, fmt.Errorf("oep: header needs %d bytes, have %d: %w", HeaderSize, len(b), ErrBadLength)
	}
	return Header{
		Version:    binary.LittleEndian.Uint16(b[hdrOffVersion:]),
		Type:       MsgType(binary.LittleEndian.Uint16(b[hdrOffType:])),
		PayloadLen: binary.LittleEndian.Uint32(b[hdrOffLen:]),
	}, nil
}
