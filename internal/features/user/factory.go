package user

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"
)

// Factory builds synthetic users. It owns the userId sequence, which restarts
// from the configured start value with every process.
type Factory struct {
	next int64
	rng  *rand.Rand
	now  func() time.Time
}

func NewFactory(start int64, rng *rand.Rand) *Factory {
	return &Factory{next: start, rng: rng, now: time.Now}
}

// Next returns the sequence number the next Generate call will use.
func (f *Factory) Next() int64 {
	return f.next
}

func (f *Factory) Generate() *User {
	firstName := Pick(f.rng, FirstNames)
	lastName := Pick(f.rng, LastNames)
	first, last := strings.ToLower(firstName), strings.ToLower(lastName)
	now := f.now().UTC()

	u := &User{
		UserID:      FormatUserID(f.next),
		Username:    first + "_" + last,
		Email:       first + "." + last + "@example.com",
		FirstName:   firstName,
		LastName:    lastName,
		Role:        Pick(f.rng, Roles),
		Status:      Pick(f.rng, Statuses),
		Department:  Pick(f.rng, Departments),
		CreatedAt:   now,
		LastLoginAt: now,
	}
	f.next++
	return u
}

func FormatUserID(seq int64) string {
	return fmt.Sprintf("user%04d", seq)
}

// Pick returns a uniformly chosen element of a non-empty slice.
func Pick[T any](rng *rand.Rand, items []T) T {
	return items[rng.IntN(len(items))]
}
