package oep

import (
	"crypto/sha512"
	"encoding/binary"
	"fmt"
)

// Login payload layout (144 bytes).
const (
	LoginSize    = 144
	UsernameSize = 64
	PasswordSize = sha512.Size // 64

	loginOffParticipant = 0
	loginOffSessionID   = 8
	loginOffGatewayID   = 12
	loginOffUsername    = 16
	loginOffPassword    = 80
)

// Login is the handshake message. The password field carries a SHA-512
// digest; the clear password never reaches the wire.
type Login struct {
	Participant  uint64
	SessionID    uint32
	GatewayID    uint32
	Username     [UsernameSize]byte
	PasswordHash [PasswordSize]byte
}

// HashPassword produces the digest transmitted in place of the password.
func HashPassword(password string) [PasswordSize]byte {
	return sha512.Sum512([]byte(password))
}

// NewLogin builds a login message. A username longer than 64 bytes is
// silently truncated by the fixed-width field; shorter names are NUL-padded.
func NewLogin(participant uint64, sessionID, gatewayID uint32, username, password string) Login {
	l := Login{
		Participant:  participant,
		SessionID:    sessionID,
		GatewayID:    gatewayID,
		PasswordHash: HashPassword(password),
	}
	copy(l.Username[:], username)
	return l
}

// Encode packs the 144-byte login payload.
func (l Login) Encode() []byte {
	b := make([]byte, LoginSize)
	binary.LittleEndian.PutUint64(b[loginOffParticipant:], l.Participant)
	binary.LittleEndian.PutUint32(b[loginOffSessionID:], l.SessionID)
	binary.LittleEndian.PutUint32(b[loginOffGatewayID:], l.GatewayID)
	copy(b[loginOffUsername:loginOffUsername+UsernameSize], l.Username[:])
	copy(b[loginOffPassword:loginOffPassword+PasswordSize], l.PasswordHash[:])
	return b
}

// DecodeLogin unpacks a login payload. The payload must be exactly 144 bytes.
func DecodeLogin(b []byte) (Login, error) {
	if len(b) != LoginSize {
		return Login{}, fmt.Errorf("oep: login payload is %d bytes, want %d: %w", len(b), LoginSize, ErrBadLength)
	}
	var l Login
	l.Participant = binary.LittleEndian.Uint64(b[loginOffParticipant:])
	l.SessionID = binary.LittleEndian.Uint32(b[loginOffSessionID:])
	l.GatewayID = binary.LittleEndian.Uint32(b[loginOffGatewayID:])
	copy(l.Username[:], b[loginOffUsername:loginOffUsername+UsernameSize])
	copy(l.PasswordHash[:], b[loginOffPassword:loginOffPassword+PasswordSize])
	return l, nil
}
