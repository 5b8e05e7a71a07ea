package application

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepository is an in-process Repository for the memory adapter and
// for tests. Not suitable for production use.
type MemoryRepository struct {
	mu   sync.RWMutex
	apps map[int64]*Application
	seq  int64
}

// NewMemoryRepository creates an empty in-memory Repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{apps: make(map[int64]*Application)}
}

// Create inserts a new application record.
func (r *MemoryRepository) Create(_ context.Context, a *Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	a.ID = r.seq
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	if a.ClientCredentialsUpdatedAt.IsZero() {
		a.ClientCredentialsUpdatedAt = now
	}

	clone := *a
	r.apps[a.ID] = &clone
	return nil
}

// GetByID retrieves a single application by id.
func (r *MemoryRepository) GetByID(_ context.Context, id int64) (*Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.apps[id]
	if !ok {
		return nil, ErrApplicationNotFound
	}
	clone := *a
	return &clone, nil
}

// GetByClientID retrieves a single application by its public client id.
func (r *MemoryRepository) GetByClientID(_ context.Context, clientID string) (*Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.apps {
		if a.ClientID == clientID {
			clone := *a
			return &clone, nil
		}
	}
	return nil, ErrApplicationNotFound
}

// List retrieves applications ordered by id.
func (r *MemoryRepository) List(_ context.Context, f ListFilter) ([]Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]Application, 0, len(r.apps))
	for _, a := range r.apps {
		matched = append(matched, *a)
	}

	sort.Slice(matched, func(i, j int) bool {
		if f.OrderBy == "asc" {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].ID > matched[j].ID
	})

	if f.Offset >= len(matched) {
		return []Application{}, nil
	}
	matched = matched[f.Offset:]
	if f.Limit > 0 && f.Limit < len(matched) {
		matched = matched[:f.Limit]
	}
	return matched, nil
}

// Update sets the name, homepage and description of an application.
func (r *MemoryRepository) Update(_ context.Context, id int64, name, homepage, description string) error {
	return r.mutate(id, func(a *Application) {
		a.Name = name
		a.Homepage = homepage
		a.Description = description
	})
}

// UpdateCredentials replaces the client id/secret pair and stamps the
// rotation time.
func (r *MemoryRepository) UpdateCredentials(_ context.Context, id int64, creds Credentials) error {
	return r.mutate(id, func(a *Application) {
		a.ClientID = creds.ClientID
		a.ClientSecret = creds.ClientSecret
		a.ClientCredentialsUpdatedAt = time.Now().UTC()
	})
}

// UpdateStatus changes the status of an application.
func (r *MemoryRepository) UpdateStatus(_ context.Context, id int64, status Status) error {
	return r.mutate(id, func(a *Application) { a.Status = status })
}

// Delete removes an application by id.
func (r *MemoryRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.apps[id]; !ok {
		return ErrApplicationNotFound
	}
	delete(r.apps, id)
	return nil
}

func (r *MemoryRepository) mutate(id int64, fn func(*Application)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.apps[id]
	if !ok {
		return ErrApplicationNotFound
	}
	fn(a)
	a.UpdatedAt = time.Now().UTC()
	return nil
}
