package repository

import (
	"context"
	"errors"

	"github.com/Eursukkul/registration-service/internal/models"
	"gorm.io/gorm"
)

// ErrDuplicateActive is returned by Save when the store already holds a
// non-canceled active registration for the same user and event.
var ErrDuplicateActive = errors.New("active registration already exists for user and event")

// RegistrationRepository is the keyed record store behind the lifecycle
// manager. FindByID returns gorm.ErrRecordNotFound when no record exists;
// FindActiveByUserAndEvent returns (nil, nil) when there is no active match.
type RegistrationRepository interface {
	FindByID(ctx context.Context, id string) (*models.Registration, error)
	FindAllActive(ctx context.Context) ([]models.Registration, error)
	FindAllActiveByUser(ctx context.Context, userID string) ([]models.Registration, error)
	FindActiveByUserAndEvent(ctx context.Context, userID, eventID string) (*models.Registration, error)
	Save(ctx context.Context, reg *models.Registration) error
}

type registrationRepository struct {
	db *gorm.DB
}

func NewRegistrationRepository(db *gorm.DB) RegistrationRepository {
	return &registrationRepository{db: db}
}

func (r *registrationRepository) FindByID(ctx context.Context, id string) (*models.Registration, error) {
	var reg models.Registration
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&reg).Error; err != nil {
		return nil, err
	}
	return &reg, nil
}

func (r *registrationRepository) FindAllActive(ctx context.Context) ([]models.Registration, error) {
	var regs []models.Registration
	err := r.db.WithContext(ctx).
		Where("deleted_at IS NULL").
		Order("created_at ASC, id ASC").
		Find(&regs).Error
	if err != nil {
		return nil, err
	}
	return regs, nil
}

func (r *registrationRepository) FindAllActiveByUser(ctx context.Context, userID string) ([]models.Registration, error) {
	var regs []models.Registration
	err := r.db.WithContext(ctx).
		Where("users_id = ? AND deleted_at IS NULL", userID).
		Order("created_at ASC, id ASC").
		Find(&regs).Error
	if err != nil {
		return nil, err
	}
	return regs, nil
}

// FindActiveByUserAndEvent prefers a non-canceled record so that an older
// canceled registration never hides a live one.
func (r *registrationRepository) FindActiveByUserAndEvent(ctx context.Context, userID, eventID string) (*models.Registration, error) {
	var reg models.Registration
	err := r.db.WithContext(ctx).
		Where("users_id = ? AND events_id = ? AND deleted_at IS NULL", userID, eventID).
		Order("CASE WHEN status = '" + string(models.StatusCanceled) + "' THEN 1 ELSE 0 END, created_at DESC").
		First(&reg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

// Save inserts a record that has never been persisted (zero CreatedAt) and
// overwrites every column otherwise. gorm fills created_at on insert and
// updated_at on every write.
func (r *registrationRepository) Save(ctx context.Context, reg *models.Registration) error {
	tx := r.db.WithContext(ctx)
	var err error
	if reg.CreatedAt.IsZero() {
		err = tx.Create(reg).Error
	} else {
		err = tx.Save(reg).Error
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateActive
	}
	return err
}
