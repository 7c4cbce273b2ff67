package user

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"
)

// MemoryUserRepository keeps users in process memory. It backs dry runs
// (STORE_DRIVER=memory) and tests.
type MemoryUserRepository struct {
	mu    sync.Mutex
	users []*User
	rng   *rand.Rand
}

// NewMemoryUserRepository shuffles samples with rng, so a seeded source gives
// repeatable target picks. A nil rng gets a randomly seeded one.
func NewMemoryUserRepository(rng *rand.Rand) *MemoryUserRepository {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &MemoryUserRepository{rng: rng}
}

func (r *MemoryUserRepository) Connect(context.Context) error { return nil }

func (r *MemoryUserRepository) Close(context.Context) error { return nil }

func (r *MemoryUserRepository) Count(_ context.Context, filter Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for _, u := range r.users {
		if matches(u, filter) {
			n++
		}
	}
	return n, nil
}

func (r *MemoryUserRepository) Sample(_ context.Context, filter Filter, limit int64) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var ids []string
	for _, u := range r.users {
		if matches(u, filter) {
			ids = append(ids, u.UserID)
		}
	}
	r.rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
	if int64(len(ids)) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

func (r *MemoryUserRepository) Insert(_ context.Context, user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *user
	r.users = append(r.users, &clone)
	return nil
}

// UpdateFields reports a modification only when a value actually changed.
func (r *MemoryUserRepository) UpdateFields(_ context.Context, userID string, fields Fields) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u := r.find(userID)
	if u == nil {
		return 0, nil
	}
	before := *u
	for field, value := range fields {
		apply(u, field, value)
	}
	if before == *u {
		return 0, nil
	}
	return 1, nil
}

func (r *MemoryUserRepository) Delete(_ context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, u := range r.users {
		if u.UserID == userID {
			r.users = append(r.users[:i], r.users[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

// Get returns a copy of the first user with userID.
func (r *MemoryUserRepository) Get(userID string) (User, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u := r.find(userID); u != nil {
		return *u, true
	}
	return User{}, false
}

func (r *MemoryUserRepository) find(userID string) *User {
	for _, u := range r.users {
		if u.UserID == userID {
			return u
		}
	}
	return nil
}

func matches(u *User, filter Filter) bool {
	return filter.Status == "" || u.Status == filter.Status
}

func apply(u *User, field string, value any) {
	switch field {
	case FieldRole:
		u.Role, _ = value.(string)
	case FieldStatus:
		u.Status, _ = value.(string)
	case FieldDepartment:
		u.Department, _ = value.(string)
	case FieldLastLoginAt:
		if t, ok := value.(time.Time); ok {
			u.LastLoginAt = t
		}
	}
}
