// Package session drives one gateway connection through the login handshake
// and a sustained order-submission loop with bounded outstanding inventory.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net"
	"sync"
	"time"

	"oep_client/internal/domain"
	"oep_client/internal/infra"
	"oep_client/internal/infra/storage"
	"oep_client/internal/oep"
)

// State is the connection/session lifecycle position.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateAwaitingLoginAck
	StateActive
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateAwaitingLoginAck:
		return "awaiting_login_ack"
	case StateActive:
		return "active"
	case StateTerminated:
		return "terminated"
	default:
		return "invalid"
	}
}

const readChunkSize = 4096

// Config carries the fixed parameters of one session.
type Config struct {
	Identity    domain.SessionIdentity
	Credentials domain.Credentials

	BookID   uint64
	Quantity uint64
	Side     domain.Side

	// Orders are priced uniformly in [PriceLowTicks, PriceHighTicks).
	PriceLowTicks  uint64
	PriceHighTicks uint64

	// MaxOrdersInFlight caps the outstanding set; reaching it triggers a
	// retirement pass before the next order goes out.
	MaxOrdersInFlight int

	// ClientOrderIDBase seeds the client order id counter.
	ClientOrderIDBase uint64

	// SnapshotEvery is the submitted-order interval between progress
	// snapshots (log line, journal row, callback). Defaults to 1000.
	SnapshotEvery int
}

// Snapshot is a point-in-time external view of the engine.
type Snapshot struct {
	State             string `json:"state"`
	OrdersSubmitted   uint64 `json:"orders_submitted"`
	Outstanding       int    `json:"outstanding"`
	NextClientOrderID uint64 `json:"next_client_order_id"`
}

// Engine owns the connection lifecycle, the outstanding-order set and the
// client order id counter. It is single-threaded: one logical sequence of
// receive, decode, react, maybe retire, send. The mutex exists only for
// external reads via Snapshot.
type Engine struct {
	conn       net.Conn
	cfg        Config
	rng        *rand.Rand
	log        *slog.Logger
	metrics    *infra.Metrics
	journal    *storage.Journal
	onSnapshot func(Snapshot)

	stream          streamBuffer
	state           State
	nextOrderID     uint64
	outstanding     []uint64
	ordersSubmitted uint64

	mu sync.RWMutex // external reads only
}

// New creates a session engine over an established connection. metrics,
// journal and onSnapshot may be nil.
func New(conn net.Conn, cfg Config, metrics *infra.Metrics, journal *storage.Journal, onSnapshot func(Snapshot)) *Engine {
	if cfg.SnapshotEvery == 0 {
		cfg.SnapshotEvery = 1000
	}
	if metrics == nil {
		metrics = infra.NewMetrics()
	}
	return &Engine{
		conn:        conn,
		cfg:         cfg,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		log:         slog.Default().With("module", "session"),
		metrics:     metrics,
		journal:     journal,
		onSnapshot:  onSnapshot,
		state:       StateDisconnected,
		nextOrderID: cfg.ClientOrderIDBase,
	}
}

// Run executes the session until a fatal protocol error, peer disconnect or
// context cancellation. The returned error carries a domain.ErrorKind except
// for context cancellation. There is no reconnect at this layer.
func (e *Engine) Run(ctx context.Context) error {
	e.setState(StateConnecting)
	id := e.cfg.Identity
	e.log.Info("logging in to gateway",
		slog.Uint64("participant", id.Participant),
		slog.Uint64("session_id", uint64(id.SessionID)),
		slog.Uint64("gateway_id", uint64(id.GatewayID)))

	login := oep.NewLogin(id.Participant, id.SessionID, id.GatewayID,
		e.cfg.Credentials.Username, e.cfg.Credentials.Password)
	if _, err := e.conn.Write(oep.Frame(oep.MsgLogin, login.Encode())); err != nil {
		return e.terminate(domain.NewDisconnected("send login", err))
	}
	e.setState(StateAwaitingLoginAck)

	if e.journal != nil {
		if err := e.journal.StartRun(); err != nil {
			e.log.Warn("journal start failed", slog.Any("error", err))
		}
	}

	// There are no read timeouts: a silent peer stalls the session until the
	// context is cancelled, which closes the connection under the read.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			e.conn.Close()
		case <-done:
		}
	}()

	// One frame per iteration, even when more are buffered: order submission
	// stays ordered relative to report consumption.
	for {
		hdr, payload, err := e.readFrame()
		if err != nil {
			if ctx.Err() != nil {
				return e.terminate(ctx.Err())
			}
			return e.terminate(err)
		}
		if err := e.handleFrame(hdr, payload); err != nil {
			return e.terminate(err)
		}
		if e.outstandingLen() >= e.cfg.MaxOrdersInFlight {
			if err := e.retire(); err != nil {
				if ctx.Err() != nil {
					return e.terminate(ctx.Err())
				}
				return e.terminate(err)
			}
		}
		if err := e.sendOrder(); err != nil {
			return e.terminate(err)
		}
	}
}

// readFrame blocks until one complete frame is available, buffering partial
// reads. A closed stream surfaces as KindDisconnected.
func (e *Engine) readFrame() (oep.Header, []byte, error) {
	var chunk [readChunkSize]byte
	for {
		if hdr, payload, ok := e.stream.next(); ok {
			return hdr, payload, nil
		}
		n, err := e.conn.Read(chunk[:])
		if n > 0 {
			e.stream.extend(chunk[:n])
			continue
		}
		if err != nil {
			return oep.Header{}, nil, domain.NewDisconnected("read", err)
		}
	}
}

func (e *Engine) handleFrame(hdr oep.Header, payload []byte) error {
	switch e.state {
	case StateAwaitingLoginAck:
		// The first complete frame must be the login ack.
		if hdr.Type != oep.MsgLogin {
			return domain.NewLoginRejected("handshake", fmt.Errorf("first frame was %s", hdr.Type))
		}
		e.setState(StateActive)
		e.log.Info("login confirmed")
		return nil

	case StateActive:
		switch hdr.Type {
		case oep.MsgLogin:
			// Duplicate ack; nothing to do.
			return nil
		case oep.MsgExecutionReport:
			report, err := oep.DecodeExecutionReport(payload)
			if err != nil {
				return domain.NewMalformedReport("decode", err)
			}
			if report.State != oep.StateInserted {
				return domain.NewMalformedReport("state", fmt.Errorf("unhandled report state %d", report.State))
			}
			e.mu.Lock()
			e.outstanding = append(e.outstanding, report.OrderID)
			e.mu.Unlock()
			e.metrics.RecordReportConfirmed()
			e.metrics.SetOutstanding(int64(e.outstandingLen()))
			return nil
		default:
			// Unrecognized frames are consumed and reported, never fatal.
			e.log.Warn("unknown message type",
				slog.String("type", hdr.Type.String()), slog.Int("len", len(payload)))
			e.metrics.RecordUnknownFrame()
			return nil
		}

	default:
		return domain.NewProtocolViolation("dispatch", fmt.Errorf("frame received in state %s", e.state))
	}
}

// retire cancels a sampled fraction of the standing orders. Indices are
// drawn with replacement and the resolved ids deduplicated, so a pass
// usually retires somewhat less than a tenth of the cap.
func (e *Engine) retire() error {
	start := time.Now()
	capacity := e.cfg.MaxOrdersInFlight
	sample := capacity / 10

	seen := make(map[uint64]struct{}, sample)
	retired := make([]uint64, 0, sample)
	for i := 0; i < sample; i++ {
		id := e.outstanding[e.rng.Intn(capacity)]
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		retired = append(retired, id)
	}

	for _, id := range retired {
		cancel := oep.Cancel{
			Participant: e.cfg.Identity.Participant,
			OrderID:     id,
			BookID:      e.cfg.BookID,
			Side:        byte(e.cfg.Side),
			GatewayID:   byte(e.cfg.Identity.GatewayID),
			SessionID:   e.cfg.Identity.SessionID,
		}
		if _, err := e.conn.Write(oep.Frame(oep.MsgCancel, cancel.Encode())); err != nil {
			return domain.NewDisconnected("send cancel", err)
		}
		// Exactly one reply per cancel, awaited before the next cancel goes
		// out. The reply is validated structurally but not correlated.
		replyHdr, _, err := e.readFrame()
		if err != nil {
			return err
		}
		if replyHdr.Type != oep.MsgExecutionReport {
			e.log.Debug("unexpected cancel reply", slog.String("type", replyHdr.Type.String()))
		}
		e.metrics.RecordCancelSent()
	}

	e.removeOutstanding(retired)
	e.metrics.SetOutstanding(int64(e.outstandingLen()))

	elapsed := time.Since(start)
	e.metrics.RecordRetirementPass(elapsed)
	e.log.Info("retired standing orders",
		slog.Int("cancelled", len(retired)), slog.Duration("took", elapsed))
	if e.journal != nil {
		if err := e.journal.RecordRetirement(sample, len(retired), elapsed); err != nil {
			e.log.Warn("journal write failed", slog.Any("error", err))
		}
	}
	e.notifySnapshot()
	return nil
}

// removeOutstanding removes by value: indices shift as items go, so removal
// by position would corrupt the set.
func (e *Engine) removeOutstanding(ids []uint64) {
	drop := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	e.mu.Lock()
	kept := e.outstanding[:0]
	for _, id := range e.outstanding {
		if _, gone := drop[id]; !gone {
			kept = append(kept, id)
		}
	}
	e.outstanding = kept
	e.mu.Unlock()
}

func (e *Engine) sendOrder() error {
	price := e.cfg.PriceLowTicks + uint64(e.rng.Int63n(int64(e.cfg.PriceHighTicks-e.cfg.PriceLowTicks)))
	order := domain.Order{
		ClientOrderID: e.nextOrderID,
		BookID:        e.cfg.BookID,
		Quantity:      e.cfg.Quantity,
		Price:         price,
		Side:          e.cfg.Side,
	}
	msg := oep.NewOrder{
		ClientOrderID: order.ClientOrderID,
		Participant:   e.cfg.Identity.Participant,
		BookID:        order.BookID,
		Quantity:      order.Quantity,
		Price:         order.Price,
		Side:          byte(order.Side),
		GatewayID:     byte(e.cfg.Identity.GatewayID),
		SessionID:     e.cfg.Identity.SessionID,
	}
	// Exactly one increment per order built.
	e.mu.Lock()
	e.nextOrderID++
	e.ordersSubmitted++
	submitted := e.ordersSubmitted
	e.mu.Unlock()

	if _, err := e.conn.Write(oep.Frame(oep.MsgNewOrder, msg.Encode())); err != nil {
		return domain.NewDisconnected("send order", err)
	}
	e.metrics.RecordOrderSubmitted()

	if e.cfg.SnapshotEvery > 0 && submitted%uint64(e.cfg.SnapshotEvery) == 0 {
		e.log.Info("orders submitted", slog.Uint64("total", submitted))
		if e.journal != nil {
			if err := e.journal.RecordSnapshot(submitted, e.outstandingLen()); err != nil {
				e.log.Warn("journal write failed", slog.Any("error", err))
			}
		}
		e.notifySnapshot()
	}
	return nil
}

func (e *Engine) terminate(err error) error {
	e.setState(StateTerminated)
	reason := ""
	if err != nil {
		reason = err.Error()
	}
	if e.journal != nil {
		if jerr := e.journal.EndRun(reason, e.ordersSubmitted); jerr != nil {
			e.log.Warn("journal close failed", slog.Any("error", jerr))
		}
	}
	if err == nil || errors.Is(err, context.Canceled) {
		e.log.Info("session stopped", slog.Uint64("orders_submitted", e.ordersSubmitted))
	} else {
		e.log.Error("session terminated",
			slog.String("kind", domain.KindOf(err).String()), slog.Any("error", err))
	}
	return err
}

func (e *Engine) setState(s State) {
	e.mu.Lock()
	e.state = s
	e.mu.Unlock()
}

func (e *Engine) outstandingLen() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.outstanding)
}

// Snapshot returns an external view of the engine (safe from any goroutine).
func (e *Engine) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return Snapshot{
		State:             e.state.String(),
		OrdersSubmitted:   e.ordersSubmitted,
		Outstanding:       len(e.outstanding),
		NextClientOrderID: e.nextOrderID,
	}
}

func (e *Engine) notifySnapshot() {
	if e.onSnapshot != nil {
		e.onSnapshot(e.Snapshot())
	}
}
