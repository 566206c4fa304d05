package oep

import (
	"bytes"
	"errors"
	"testing"
)

func TestDecodeHeader(t *testing.T) {
	raw := []byte{1, 0, 2, 0, 20, 0, 0, 0}
	hdr, err := DecodeHeader(raw)
	if err != nil {
		t.Fatalf("DecodeHeader failed: %v", err)
	}
	if hdr.Version != 1 {
		t.Errorf("Expected version 1, got %d", hdr.Version)
	}
	if hdr.Type != MsgCancel {
		t.Errorf("Expected type cancel, got %s", hdr.Type)
	}
	if hdr.PayloadLen != 20 {
		t.Errorf("Expected payload length 20, got %d", hdr.PayloadLen)
	}
}

func TestDecodeHeader_DeducesLogin(t *testing.T) {
	hdr, err := DecodeHeader([]byte{1, 0, 4, 0, 20, 0, 0, 0})
	if err != nil {
		t.Fatalf("DecodeHeader failed: %v", err)
	}
	if hdr.Type != MsgLogin {
		t.Errorf("Expected login, got %s", hdr.Type)
	}
}

func TestDecodeHeader_Short(t *testing.T) {
	if _, err := DecodeHeader([]byte{1, 0, 2}); !errors.Is(err, ErrBadLength) {
		t.Errorf("Expected ErrBadLength, got %v", err)
	}
}

func TestHeaderRoundTrip(t *testing.T) {
	raw := EncodeHeader(MsgNewOrder, NewOrderSize)
	hdr, err := DecodeHeader(raw)
	if err != nil {
		t.Fatalf("DecodeHeader failed: %v", err)
	}
	if hdr.Version != Version || hdr.Type != MsgNewOrder || hdr.PayloadLen != NewOrderSize {
		t.Errorf("Round trip mismatch: %+v", hdr)
	}
}

// Digest of "abc", the SHA-512 known-answer vector.
var sha512abc = [64]byte{
	221, 175, 53, 161, 147, 97, 122, 186, 204, 65, 115, 73, 174, 32, 65, 49,
	18, 230, 250, 78, 137, 169, 126, 162, 10, 158, 238, 230, 75, 85, 211, 154,
	33, 146, 153, 42, 39, 79, 193, 168, 54, 186, 60, 35, 163, 254, 235, 189,
	69, 77, 68, 35, 100, 60, 232, 14, 42, 154, 201, 79, 165, 76, 164, 159,
}

func TestHashPassword(t *testing.T) {
	if got := HashPassword("abc"); got != sha512abc {
		t.Errorf("SHA-512 digest mismatch:\ngot  %v\nwant %v", got, sha512abc)
	}
}

func TestLoginEncode(t *testing.T) {
	l := NewLogin(1050, 600, 1, "test", "test")
	payload := l.Encode()
	if len(payload) != LoginSize {
		t.Fatalf("Expected %d byte payload, got %d", LoginSize, len(payload))
	}

	decoded, err := DecodeLogin(payload)
	if err != nil {
		t.Fatalf("DecodeLogin failed: %v", err)
	}
	if decoded != l {
		t.Errorf("Round trip mismatch:\ngot  %+v\nwant %+v", decoded, l)
	}

	// Username is NUL-padded to 64 bytes.
	want := append([]byte("test"), make([]byte, UsernameSize-4)...)
	if !bytes.Equal(decoded.Username[:], want) {
		t.Errorf("Username not NUL-padded: %v", decoded.Username)
	}

	frame := Frame(MsgLogin, payload)
	if len(frame) != HeaderSize+LoginSize {
		t.Errorf("Expected %d byte frame, got %d", HeaderSize+LoginSize, len(frame))
	}
	hdr, _ := DecodeHeader(frame)
	if hdr.PayloadLen != LoginSize {
		t.Errorf("Header length %d does not match payload size %d", hdr.PayloadLen, LoginSize)
	}
}

func TestLoginTruncatesLongUsername(t *testing.T) {
	long := "this-username-is-considerably-longer-than-the-sixty-four-byte-wire-field"
	l := NewLogin(0, 0, 0, long, "pw")
	decoded, err := DecodeLogin(l.Encode())
	if err != nil {
		t.Fatalf("DecodeLogin failed: %v", err)
	}
	if !bytes.Equal(decoded.Username[:], []byte(long[:UsernameSize])) {
		t.Errorf("Expected silent truncation to %d bytes, got %q", UsernameSize, decoded.Username)
	}
}

func TestNewOrderEncodeVector(t *testing.T) {
	o := NewOrder{
		ClientOrderID: 66,
		Participant:   1,
		BookID:        2,
		Quantity:      100,
		Price:         1000,
		OrderType:     66,
		Side:          1,
		GatewayID:     55,
		SessionID:     66,
	}
	want := []byte{
		66, 0, 0, 0, 0, 0, 0, 0, // client_order_id
		1, 0, 0, 0, 0, 0, 0, 0, // participant
		2, 0, 0, 0, 0, 0, 0, 0, // book_id
		100, 0, 0, 0, 0, 0, 0, 0, // quantity
		232, 3, 0, 0, 0, 0, 0, 0, // price (1000)
		66, 0, // order_type
		1,  // side
		55, // gateway_id
		66, 0, 0, 0, // session_id
	}
	got := o.Encode()
	if !bytes.Equal(got, want) {
		t.Fatalf("Encoding mismatch:\ngot  %v\nwant %v", got, want)
	}

	decoded, err := DecodeNewOrder(got)
	if err != nil {
		t.Fatalf("DecodeNewOrder failed: %v", err)
	}
	if decoded != o {
		t.Errorf("Round trip mismatch:\ngot  %+v\nwant %+v", decoded, o)
	}
}

func TestCancelRoundTrip(t *testing.T) {
	c := Cancel{
		Participant: 1050,
		OrderID:     424242,
		BookID:      1000,
		Side:        0,
		GatewayID:   1,
		SessionID:   600,
	}
	payload := c.Encode()
	if len(payload) != CancelSize {
		t.Fatalf("Expected %d byte payload, got %d", CancelSize, len(payload))
	}
	decoded, err := DecodeCancel(payload)
	if err != nil {
		t.Fatalf("DecodeCancel failed: %v", err)
	}
	if decoded != c {
		t.Errorf("Round trip mismatch:\ngot  %+v\nwant %+v", decoded, c)
	}
}

func TestModifyRoundTrip(t *testing.T) {
	m := Modify{
		Participant: 1050,
		OrderID:     7,
		BookID:      1000,
		Quantity:    25,
		Price:       133,
		Side:        1,
		GatewayID:   1,
		SessionID:   600,
	}
	payload := m.Encode()
	if len(payload) != ModifySize {
		t.Fatalf("Expected %d byte payload, got %d", ModifySize, len(payload))
	}
	decoded, err := DecodeModify(payload)
	if err != nil {
		t.Fatalf("DecodeModify failed: %v", err)
	}
	if decoded != m {
		t.Errorf("Round trip mismatch:\ngot  %+v\nwant %+v", decoded, m)
	}
}

func TestExecutionReportRoundTrip(t *testing.T) {
	r := ExecutionReport{
		Participant:      1050,
		OrderID:          1000,
		SubmittedOrderID: 100,
		Book:             1000,
		Quantity:         10,
		Price:            120,
		Flags:            0,
		Side:             0,
		State:            StateInserted,
		SessionID:        600,
		GatewayID:        1,
	}
	payload := r.Encode()
	if len(payload) != ExecutionReportSize {
		t.Fatalf("Expected %d byte payload, got %d", ExecutionReportSize, len(payload))
	}
	decoded, err := DecodeExecutionReport(payload)
	if err != nil {
		t.Fatalf("DecodeExecutionReport failed: %v", err)
	}
	if decoded != r {
		t.Errorf("Round trip mismatch:\ngot  %+v\nwant %+v", decoded, r)
	}
}

func TestExecutionReportRejectsBadLength(t *testing.T) {
	for _, n := range []int{0, 56, 58, 512} {
		if _, err := DecodeExecutionReport(make([]byte, n)); !errors.Is(err, ErrBadLength) {
			t.Errorf("len %d: expected ErrBadLength, got %v", n, err)
		}
	}
}

func TestFramePanicsOnSizeContract(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Frame should panic on a payload violating the fixed-size contract")
		}
	}()
	Frame(MsgLogin, make([]byte, LoginSize-1))
}
