package session

import (
	"context"
	"errors"
	"sync"

	apperrors "aqarna-listings/internal/common/errors"
	"aqarna-listings/internal/common/logger"
	"aqarna-listings/internal/listings/page"
	"aqarna-listings/internal/listings/selection"
)

// Manager serializes events per session: load, apply, save.
type Manager struct {
	store Store
	deps  page.Dependencies
	log   logger.Logger
	locks *keyedMutex
}

func NewManager(store Store, deps page.Dependencies, log logger.Logger) *Manager {
	return &Manager{
		store: store,
		deps:  deps,
		log:   log,
		locks: newKeyedMutex(),
	}
}

// With runs fn against the page of session id, creating one in mode when
// none exists. The page is saved when fn succeeds.
func (m *Manager) With(ctx context.Context, id string, mode selection.InteractionMode, fn func(p *page.Page) error) error {
	unlock := m.locks.Lock(id)
	defer unlock()

	p, err := m.load(ctx, id, mode)
	if err != nil {
		return err
	}
	if err := fn(p); err != nil {
		return err
	}
	if err := m.store.Save(ctx, id, p.Snapshot()); err != nil {
		return apperrors.NewSessionStoreError("save", err).WithMetadata("sessionId", id)
	}
	return nil
}

// Reset forgets the page of session id.
func (m *Manager) Reset(ctx context.Context, id string) error {
	unlock := m.locks.Lock(id)
	defer unlock()

	if err := m.store.Delete(ctx, id); err != nil {
		return apperrors.NewSessionStoreError("delete", err).WithMetadata("sessionId", id)
	}
	return nil
}

func (m *Manager) load(ctx context.Context, id string, mode selection.InteractionMode) (*page.Page, error) {
	snap, err := m.store.Load(ctx, id)
	switch {
	case err == nil:
		return page.Restore(m.deps, snap), nil
	case errors.Is(err, ErrNotFound):
		m.log.Debug("starting listing page", map[string]interface{}{
			"sessionId": id,
			"mode":      string(mode),
		})
		return page.New(m.deps, mode), nil
	default:
		return nil, apperrors.NewSessionStoreError("load", err).WithMetadata("sessionId", id)
	}
}

type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*refMutex)}
}

func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &refMutex{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
