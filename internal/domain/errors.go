package domain

import "errors"

// ErrorKind discriminates the causes that terminate a gateway session.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	// KindLoginRejected: the first frame after connecting was not a login ack.
	KindLoginRejected
	// KindDisconnected: the peer closed the stream or a socket operation failed.
	KindDisconnected
	// KindMalformedExecutionReport: an execution report with a bad payload
	// length or an unhandled report state.
	KindMalformedExecutionReport
	// KindProtocolViolation: any other decode-time contract breach.
	KindProtocolViolation
)

func (k ErrorKind) String() string {
	switch k {
	case KindLoginRejected:
		return "login_rejected"
	case KindDisconnected:
		return "disconnected"
	case KindMalformedExecutionReport:
		return "malformed_execution_report"
	case KindProtocolViolation:
		return "protocol_violation"
	default:
		return "unknown"
	}
}

// SessionError is a session-terminating failure. All kinds are fatal for the
// session; the caller decides whether to reconnect.
type SessionError struct {
	Kind ErrorKind
	Op   string // operation that failed (e.g. "read", "send login")
	Err  error  // underlying error, may be nil
}

func (e *SessionError) Error() string {
	msg := e.Kind.String() + " [" + e.Op + "]"
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *SessionError) Unwrap() error {
	return e.Err
}

// NewLoginRejected reports a failed login handshake.
func NewLoginRejected(op string, err error) *SessionError {
	return &SessionError{Kind: KindLoginRejected, Op: op, Err: err}
}

// NewDisconnected reports a closed or broken stream.
func NewDisconnected(op string, err error) *SessionError {
	return &SessionError{Kind: KindDisconnected, Op: op, Err: err}
}

// NewMalformedReport reports an execution report violating the wire contract.
func NewMalformedReport(op string, err error) *SessionError {
	return &SessionError{Kind: KindMalformedExecutionReport, Op: op, Err: err}
}

// NewProtocolViolation reports any other decode-time contract breach.
func NewProtocolViolation(op string, err error) *SessionError {
	return &SessionError{Kind: KindProtocolViolation, Op: op, Err: err}
}

// KindOf extracts the error kind from an error chain.
func KindOf(err error) ErrorKind {
	var se *SessionError
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindUnknown
}
