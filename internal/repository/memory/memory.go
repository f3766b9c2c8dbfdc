// Package memory is an in-process store for local runs and tests. It
// enforces the same uniqueness rules as the postgres schema.
package memory

import (
	"context"
	"errors"
	"sync"

	"gameplaza-backend/internal/domain"
	"gameplaza-backend/internal/repository"
)

type state struct {
	mu           sync.RWMutex
	txMu         sync.Mutex
	reservations map[string]domain.Reservation
	checkIns     map[string]domain.CheckIn
	devices      map[string]domain.Device
	deviceTypes  map[string]domain.DeviceType
	users        map[string]domain.User
}

type Store struct {
	*state
	repository.ReservationRepository
	repository.CheckInRepository
	repository.DeviceRepository
	repository.DeviceTypeRepository
	repository.UserRepository
	repository.TxManager
}

func NewStore() *Store {
	st := &state{
		reservations: make(map[string]domain.Reservation),
		checkIns:     make(map[string]domain.CheckIn),
		devices:      make(map[string]domain.Device),
		deviceTypes:  make(map[string]domain.DeviceType),
		users:        make(map[string]domain.User),
	}
	return &Store{
		state:                 st,
		ReservationRepository: &reservationRepository{st: st},
		CheckInRepository:     &checkInRepository{st: st},
		DeviceRepository:      &deviceRepository{st: st},
		DeviceTypeRepository:  &deviceTypeRepository{st: st},
		UserRepository:        &userRepository{st: st},
		TxManager:             &txManager{st: st},
	}
}

// Ping always succeeds.
func (s *Store) Ping(ctx context.Context) error {
	return nil
}

func (s *Store) AddDeviceType(t domain.DeviceType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deviceTypes[t.ID] = t
}

func (s *Store) AddDevice(d domain.Device) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.devices[d.ID] = d
}

func (s *Store) AddUser(u domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

var errDuplicateID = errors.New("duplicate id")

type txKey struct{}

// memTx records undo steps so a failed RunInTx leaves no partial writes.
type memTx struct {
	undo []func()
}

type txManager struct {
	st *state
}

// RunInTx serializes transactions against each other. Nested calls join
// the outer transaction.
func (m *txManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*memTx); ok {
		return fn(ctx)
	}

	m.st.txMu.Lock()
	defer m.st.txMu.Unlock()

	tx := &memTx{}
	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		m.st.mu.Lock()
		for i := len(tx.undo) - 1; i >= 0; i-- {
			tx.undo[i]()
		}
		m.st.mu.Unlock()
		return err
	}
	return nil
}

// recordUndo must be called with st.mu held.
func recordUndo(ctx context.Context, fn func()) {
	if tx, ok := ctx.Value(txKey{}).(*memTx); ok {
		tx.undo = append(tx.undo, fn)
	}
}
