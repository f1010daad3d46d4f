package app

import (
	"context"
	"errors"
	"sync"

	"kino-bot/internal/domain/entity"
)

type fakeCatalogRepo struct {
	mu       sync.Mutex
	stored   entity.Catalog
	saves    int
	loadErr  error
	failSave bool
}

func (r *fakeCatalogRepo) Load(ctx context.Context) (entity.Catalog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	if r.stored == nil {
		return entity.Catalog{}, nil
	}
	return r.stored.Clone(), nil
}

func (r *fakeCatalogRepo) Save(ctx context.Context, catalog entity.Catalog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failSave {
		return errors.New("disk full")
	}
	r.saves++
	r.stored = catalog.Clone()
	return nil
}

func (r *fakeCatalogRepo) snapshot() entity.Catalog {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stored.Clone()
}

type fakeMirror struct {
	mu    sync.Mutex
	calls []entity.Catalog
	err   error
}

func (m *fakeMirror) Mirror(ctx context.Context, catalog entity.Catalog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, catalog)
	return m.err
}

func (m *fakeMirror) last() entity.Catalog {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		return nil
	}
	return m.calls[len(m.calls)-1]
}

type fakeChecker struct {
	statuses map[string]string
	err      error
}

func (c *fakeChecker) MemberStatus(ctx context.Context, ch entity.Channel, userID int64) (string, error) {
	if c.err != nil {
		return "", c.err
	}
	return c.statuses[ch.Name], nil
}

type fakeResolver struct {
	candidates []entity.Candidate
	tracks     map[string][]entity.Track
	searchErr  error
	tracksErr  error
}

func (r *fakeResolver) Search(ctx context.Context, title string) ([]entity.Candidate, error) {
	return r.candidates, r.searchErr
}

func (r *fakeResolver) Tracks(ctx context.Context, id string) ([]entity.Track, error) {
	if r.tracksErr != nil {
		return nil, r.tracksErr
	}
	return r.tracks[id], nil
}
