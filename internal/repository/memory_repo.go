package repository

import (
	"context"
	"sync"
	"time"

	"github.com/Eursukkul/registration-service/internal/models"
	"gorm.io/gorm"
)

// MemoryRegistrationRepository keeps registrations in process memory. It
// applies the same active-uniqueness rule as the Postgres partial index and
// returns listings in insertion order.
type MemoryRegistrationRepository struct {
	mu    sync.RWMutex
	now   func() time.Time
	byID  map[string]models.Registration
	order []string
}

func NewMemoryRegistrationRepository(now func() time.Time) *MemoryRegistrationRepository {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &MemoryRegistrationRepository{
		now:  now,
		byID: make(map[string]models.Registration),
	}
}

func (r *MemoryRegistrationRepository) FindByID(_ context.Context, id string) (*models.Registration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reg, ok := r.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	reg = clone(reg)
	return &reg, nil
}

func (r *MemoryRegistrationRepository) FindAllActive(_ context.Context) ([]models.Registration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.filter(func(reg models.Registration) bool { return reg.Active() }), nil
}

func (r *MemoryRegistrationRepository) FindAllActiveByUser(_ context.Context, userID string) ([]models.Registration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.filter(func(reg models.Registration) bool {
		return reg.Active() && reg.UserID == userID
	}), nil
}

func (r *MemoryRegistrationRepository) FindActiveByUserAndEvent(_ context.Context, userID, eventID string) (*models.Registration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var found *models.Registration
	for i := len(r.order) - 1; i >= 0; i-- {
		reg := r.byID[r.order[i]]
		if !reg.Active() || reg.UserID != userID || reg.EventID != eventID {
			continue
		}
		reg = clone(reg)
		if reg.Status != models.StatusCanceled {
			return &reg, nil
		}
		if found == nil {
			found = &reg
		}
	}
	return found, nil
}

func (r *MemoryRegistrationRepository) Save(_ context.Context, reg *models.Registration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.conflicts(reg) {
		return ErrDuplicateActive
	}

	now := r.now()
	existing, exists := r.byID[reg.ID]
	if exists {
		reg.CreatedAt = existing.CreatedAt
	} else {
		if reg.CreatedAt.IsZero() {
			reg.CreatedAt = now
		}
		r.order = append(r.order, reg.ID)
	}
	reg.UpdatedAt = now
	r.byID[reg.ID] = clone(*reg)
	return nil
}

// Len returns the number of stored records, deleted ones included.
func (r *MemoryRegistrationRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

func (r *MemoryRegistrationRepository) conflicts(reg *models.Registration) bool {
	if !blocksUniqueness(*reg) {
		return false
	}
	for id, other := range r.byID {
		if id == reg.ID || !blocksUniqueness(other) {
			continue
		}
		if other.UserID == reg.UserID && other.EventID == reg.EventID {
			return true
		}
	}
	return false
}

func blocksUniqueness(reg models.Registration) bool {
	return reg.Active() && reg.Status != models.StatusCanceled
}

func (r *MemoryRegistrationRepository) filter(keep func(models.Registration) bool) []models.Registration {
	out := make([]models.Registration, 0, len(r.order))
	for _, id := range r.order {
		if reg := r.byID[id]; keep(reg) {
			out = append(out, clone(reg))
		}
	}
	return out
}

// clone detaches the optional timestamps so callers cannot mutate stored state.
func clone(reg models.Registration) models.Registration {
	if reg.CheckIn != nil {
		t := *reg.CheckIn
		reg.CheckIn = &t
	}
	if reg.DeletedAt != nil {
		t := *reg.DeletedAt
		reg.DeletedAt = &t
	}
	return reg
}
