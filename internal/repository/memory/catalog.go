package memory

import (
	"context"

	"gameplaza-backend/internal/domain"
	"gameplaza-backend/internal/repository"
)

type deviceRepository struct {
	st *state
}

func (r *deviceRepository) FindByID(ctx context.Context, id string) (*domain.Device, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	d, ok := r.st.devices[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &d, nil
}

type deviceTypeRepository struct {
	st *state
}

func (r *deviceTypeRepository) FindByID(ctx context.Context, id string) (*domain.DeviceType, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	t, ok := r.st.deviceTypes[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

type userRepository struct {
	st *state
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	u, ok := r.st.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *userRepository) Update(ctx context.Context, u *domain.User) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	prev, ok := r.st.users[u.ID]
	if !ok {
		return repository.ErrNotFound
	}
	r.st.users[u.ID] = *u
	recordUndo(ctx, func() { r.st.users[prev.ID] = prev })
	return nil
}
