package udp

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	general_i "github.com/beka-birhanu/vinom-common/interfaces/general"
	"github.com/beka-birhanu/vinom-snake-server/service/i"
	"github.com/beka-birhanu/vinom-snake-server/snake"
	"github.com/google/uuid"
)

// Record types exchanged with UDP clients.
const (
	JoinRecordType      = 1 // connect
	DirectionRecordType = 2 // change_direction, payload is a protobuf Struct {dx, dy}
	RestartRecordType   = 3
	LeaveRecordType     = 4 // disconnect
	PingRecordType      = 5 // keeps an idle client registered

	StateRecordType = 10 // state, payload is a protobuf Struct
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrNoTicket     = errors.New("no ticket issued for player")
)

const defaultIdleTimeout = 3 * time.Second

// Config wires a Bridge to a socket manager. Broadcast sends a state
// record to the given clients.
type Config struct {
	Manager     i.GameSessionManager
	Broadcast   func(ids []uuid.UUID, payload []byte)
	PublicKey   []byte
	Addr        string
	IdleTimeout time.Duration
	Logger      general_i.Logger
}

// Bridge translates UDP records into game session events. Clients obtain
// a ticket first and use it as their authentication token.
type Bridge struct {
	manager     i.GameSessionManager
	broadcast   func(ids []uuid.UUID, payload []byte)
	publicKey   []byte
	addr        string
	idleTimeout time.Duration
	logger      general_i.Logger

	tickets map[uuid.UUID]struct{}
	joined  map[uuid.UUID]time.Time // Last record seen from each joined client.
	sync.Mutex
}

func NewBridge(c *Config) *Bridge {
	idle := c.IdleTimeout
	if idle <= 0 {
		idle = defaultIdleTimeout
	}
	return &Bridge{
		manager:     c.Manager,
		broadcast:   c.Broadcast,
		publicKey:   c.PublicKey,
		addr:        c.Addr,
		idleTimeout: idle,
		logger:      c.Logger,
		tickets:     make(map[uuid.UUID]struct{}),
		joined:      make(map[uuid.UUID]time.Time),
	}
}

// IssueTicket registers a new player id and returns it with the server's
// public key and address.
func (b *Bridge) IssueTicket() (uuid.UUID, []byte, string) {
	b.Lock()
	defer b.Unlock()

	id := uuid.New()
	for {
		if _, ok := b.tickets[id]; !ok {
			break
		}
		id = uuid.New()
	}
	b.tickets[id] = struct{}{}
	return id, b.publicKey, b.addr
}

// Authenticate accepts a ticket id as the client token.
func (b *Bridge) Authenticate(s []byte) (uuid.UUID, error) {
	id, err := uuid.FromBytes(s)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}

	b.Lock()
	defer b.Unlock()
	if _, ok := b.tickets[id]; !ok {
		return uuid.Nil, ErrNoTicket
	}

	b.logger.Info(fmt.Sprintf("authenticated player: %s", id))
	return id, nil
}

// HandleRequest is the socket manager's client request handler.
func (b *Bridge) HandleRequest(pID uuid.UUID, recordType byte, payload []byte) {
	b.Lock()
	if _, ok := b.tickets[pID]; !ok {
		b.Unlock()
		b.logger.Warning(fmt.Sprintf("received record from player without ticket: %s", pID))
		return
	}
	_, joined := b.joined[pID]
	switch recordType {
	case JoinRecordType:
		b.joined[pID] = time.Now()
	case LeaveRecordType:
		delete(b.joined, pID)
		delete(b.tickets, pID)
	default:
		if joined {
			b.joined[pID] = time.Now()
		}
	}
	b.Unlock()

	switch recordType {
	case JoinRecordType:
		b.manager.Connect(pID, &sink{id: pID, broadcast: b.broadcast})
	case DirectionRecordType:
		dx, dy := decodeDirection(payload)
		b.manager.ChangeDirection(pID, dx, dy)
	case RestartRecordType:
		b.manager.Restart(pID)
	case LeaveRecordType:
		b.manager.Disconnect(pID)
	case PingRecordType:
	default:
		b.logger.Warning(fmt.Sprintf("unknown record type %d from %s", recordType, pID))
	}
}

// Run disconnects clients that stay silent longer than the idle timeout
// until ctx is done.
func (b *Bridge) Run(ctx context.Context) {
	ticker := time.NewTicker(b.idleTimeout / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			for _, id := range b.expire(now) {
				b.manager.Disconnect(id)
				b.logger.Info(fmt.Sprintf("dropped idle player: %s", id))
			}
		}
	}
}

func (b *Bridge) expire(now time.Time) []uuid.UUID {
	b.Lock()
	defer b.Unlock()

	var expired []uuid.UUID
	for id, seen := range b.joined {
		if now.Sub(seen) > b.idleTimeout {
			expired = append(expired, id)
			delete(b.joined, id)
			delete(b.tickets, id)
		}
	}
	return expired
}

type sink struct {
	id        uuid.UUID
	broadcast func(ids []uuid.UUID, payload []byte)
}

func (s *sink) SendState(state snake.State) error {
	payload, err := encodeState(state)
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}
	s.broadcast([]uuid.UUID{s.id}, payload)
	return nil
}
