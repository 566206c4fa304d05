package session

import "oep_client/internal/oep"

// streamBuffer reassembles OEP frames from a byte stream that may deliver
// partial or multiple messages per read.
type streamBuffer struct {
	buf []byte
}

// extend appends freshly read bytes.
func (b *streamBuffer) extend(p []byte) {
	b.buf = append(b.buf, p...)
}

// next pops one complete frame if the buffer holds the full 8+length bytes.
// Remaining bytes stay buffered for the following call.
func (b *streamBuffer) next() (oep.Header, []byte, bool) {
	if len(b.buf) < oep.HeaderSize {
		return oep.Header{}, nil, false
	}
	hdr, err := oep.DecodeHeader(b.buf)
	if err != nil {
		return oep.Header{}, nil, false
	}
	total := oep.HeaderSize + int(hdr.PayloadLen)
	if len(b.buf) < total {
		return oep.Header{}, nil, false
	}
	payload := make([]byte, hdr.PayloadLen)
	copy(payload, b.buf[oep.HeaderSize:total])
	b.buf = b.buf[total:]
	return hdr, payload, true
}
