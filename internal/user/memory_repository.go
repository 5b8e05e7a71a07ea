package user

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepository is an in-process Repository for the memory adapter and
// for tests. Not suitable for production use.
type MemoryRepository struct {
	mu    sync.RWMutex
	users map[int64]*User
	seq   int64
}

// NewMemoryRepository creates an empty in-memory Repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{users: make(map[int64]*User)}
}

// Create inserts a new user record.
func (r *MemoryRepository) Create(_ context.Context, u *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.EmailAddress == u.EmailAddress {
			return ErrDuplicateEmail
		}
	}

	r.seq++
	u.ID = r.seq
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	clone := *u
	r.users[u.ID] = &clone
	return nil
}

// GetByID retrieves a single user by id.
func (r *MemoryRepository) GetByID(_ context.Context, id int64) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

// GetByEmailAddress retrieves a single user by email address.
func (r *MemoryRepository) GetByEmailAddress(_ context.Context, email string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.EmailAddress == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, ErrUserNotFound
}

// List retrieves users matching the filter, ordered by id.
func (r *MemoryRepository) List(_ context.Context, f ListFilter) ([]User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]User, 0, len(r.users))
	for _, u := range r.users {
		if f.Role != nil && u.Role != *f.Role {
			continue
		}
		if f.Status != nil && u.Status != *f.Status {
			continue
		}
		matched = append(matched, *u)
	}

	sort.Slice(matched, func(i, j int) bool {
		if f.OrderBy == "asc" {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].ID > matched[j].ID
	})

	if f.Offset >= len(matched) {
		return []User{}, nil
	}
	matched = matched[f.Offset:]
	if f.Limit > 0 && f.Limit < len(matched) {
		matched = matched[:f.Limit]
	}
	return matched, nil
}

// Update sets the name and email address of a user.
func (r *MemoryRepository) Update(_ context.Context, id int64, name, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return ErrUserNotFound
	}
	for otherID, other := range r.users {
		if otherID != id && other.EmailAddress == email {
			return ErrDuplicateEmail
		}
	}
	u.Name = name
	u.EmailAddress = email
	u.UpdatedAt = time.Now().UTC()
	return nil
}

// UpdatePassword replaces the stored password hash of a user.
func (r *MemoryRepository) UpdatePassword(_ context.Context, id int64, passwordHash string) error {
	return r.mutate(id, func(u *User) { u.PasswordHash = passwordHash })
}

// UpdateRole changes the role of a user.
func (r *MemoryRepository) UpdateRole(_ context.Context, id int64, role Role) error {
	return r.mutate(id, func(u *User) { u.Role = role })
}

// UpdateStatus changes the status of a user.
func (r *MemoryRepository) UpdateStatus(_ context.Context, id int64, status Status) error {
	return r.mutate(id, func(u *User) { u.Status = status })
}

// Delete removes a user by id.
func (r *MemoryRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *MemoryRepository) mutate(id int64, fn func(*User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return ErrUserNotFound
	}
	fn(u)
	u.UpdatedAt = time.Now().UTC()
	return nil
}
