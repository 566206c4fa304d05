package domain

// Side is the order side on the wire: 0 = buy, 1 = sell.
type Side byte

const (
	SideBuy  Side = 0
	SideSell Side = 1
)

func (s Side) String() string {
	switch s {
	case SideBuy:
		return "buy"
	case SideSell:
		return "sell"
	default:
		return "unknown"
	}
}

// SessionIdentity identifies the client to the gateway. Fixed for the
// lifetime of a connection.
type SessionIdentity struct {
	Participant uint64
	SessionID   uint32
	// GatewayID is carried as u32 during login but as a single byte in the
	// order and cancel layouts. Values above 255 must be rejected at config
	// time; the codec truncates silently.
	GatewayID uint32
}

// Credentials are used only during the login handshake. The password is
// hashed (SHA-512) before transmission and never sent in clear form.
type Credentials struct {
	Username string
	Password string
}

// Order is a client-side view of a working order.
type Order struct {
	ClientOrderID uint64
	BookID        uint64
	Quantity      uint64
	Price         uint64
	Side          Side
}
