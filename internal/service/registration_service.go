package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Eursukkul/registration-service/internal/models"
	"github.com/Eursukkul/registration-service/internal/policy"
	"github.com/Eursukkul/registration-service/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Routing keys for lifecycle messages.
const (
	EventCreated   = "registration.created"
	EventUpdated   = "registration.updated"
	EventCheckedIn = "registration.checked_in"
	EventCanceled  = "registration.canceled"
	EventDeleted   = "registration.deleted"
)

// Publisher receives a message after each persisted transition.
type Publisher interface {
	Publish(routingKey string, payload any) error
}

type RegistrationService interface {
	ListRegistrations(ctx context.Context, requester policy.Requester) ([]models.Registration, error)
	ListUserRegistrations(ctx context.Context, requester policy.Requester, userID string) ([]models.Registration, error)
	GetRegistration(ctx context.Context, requester policy.Requester, id string) (*models.Registration, error)
	CreateRegistration(ctx context.Context, requester policy.Requester, eventID, userID string) (*models.Registration, error)
	UpdateRegistration(ctx context.Context, requester policy.Requester, id string, status models.RegistrationStatus, checkIn *time.Time) (*models.Registration, error)
	CheckIn(ctx context.Context, requester policy.Requester, id string) (*models.Registration, error)
	Cancel(ctx context.Context, requester policy.Requester, id string) (*models.Registration, error)
	Delete(ctx context.Context, requester policy.Requester, id string) error
}

type Option func(*registrationService)

// WithClock overrides the time source used for check-in and deletion stamps.
func WithClock(now func() time.Time) Option {
	return func(s *registrationService) { s.now = now }
}

// WithPublisher enables lifecycle messages. A nil publisher disables them.
func WithPublisher(p Publisher) Option {
	return func(s *registrationService) { s.publisher = p }
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *registrationService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithIDGenerator overrides how new registration ids are produced.
func WithIDGenerator(newID func() string) Option {
	return func(s *registrationService) { s.newID = newID }
}

type registrationService struct {
	repo      repository.RegistrationRepository
	policy    policy.Policy
	publisher Publisher
	logger    *zap.Logger
	now       func() time.Time
	newID     func() string
}

func NewRegistrationService(repo repository.RegistrationRepository, pol policy.Policy, opts ...Option) RegistrationService {
	s := &registrationService{
		repo:   repo,
		policy: pol,
		logger: zap.NewNop(),
		now:    func() time.Time { return time.Now().UTC() },
		newID:  func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *registrationService) ListRegistrations(ctx context.Context, requester policy.Requester) ([]models.Registration, error) {
	if !s.policy.RequireAdmin(requester.Roles).Allowed() {
		return nil, ErrForbidden
	}

	regs, err := s.repo.FindAllActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	return regs, nil
}

func (s *registrationService) ListUserRegistrations(ctx context.Context, requester policy.Requester, userID string) ([]models.Registration, error) {
	if err := s.authorize(requester, userID); err != nil {
		return nil, err
	}

	regs, err := s.repo.FindAllActiveByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list user registrations: %w", err)
	}
	return regs, nil
}

func (s *registrationService) GetRegistration(ctx context.Context, requester policy.Requester, id string) (*models.Registration, error) {
	return s.load(ctx, requester, id)
}

func (s *registrationService) CreateRegistration(ctx context.Context, requester policy.Requester, eventID, userID string) (*models.Registration, error) {
	if err := s.authorize(requester, userID); err != nil {
		return nil, err
	}

	// Check-then-act: concurrent creates can both pass this read. The store's
	// unique index is what finally rejects the second write.
	existing, err := s.repo.FindActiveByUserAndEvent(ctx, userID, eventID)
	if err != nil {
		return nil, fmt.Errorf("find active registration: %w", err)
	}
	if existing != nil && existing.Status != models.StatusCanceled {
		return nil, ErrAlreadyRegistered
	}

	reg := &models.Registration{
		ID:      s.newID(),
		EventID: eventID,
		UserID:  userID,
		Status:  models.StatusConfirmed,
	}
	if err := s.save(ctx, reg, EventCreated); err != nil {
		return nil, err
	}
	return reg, nil
}

// UpdateRegistration overwrites status and check-in as given. Unlike CheckIn
// and Cancel it applies no transition guard.
func (s *registrationService) UpdateRegistration(ctx context.Context, requester policy.Requester, id string, status models.RegistrationStatus, checkIn *time.Time) (*models.Registration, error) {
	reg, err := s.load(ctx, requester, id)
	if err != nil {
		return nil, err
	}

	reg.Status = status
	reg.CheckIn = checkIn
	if err := s.save(ctx, reg, EventUpdated); err != nil {
		return nil, err
	}
	return reg, nil
}

func (s *registrationService) CheckIn(ctx context.Context, requester policy.Requester, id string) (*models.Registration, error) {
	reg, err := s.load(ctx, requester, id)
	if err != nil {
		return nil, err
	}

	if reg.CheckedIn() {
		return nil, ErrAlreadyCheckedIn
	}

	now := s.now()
	reg.CheckIn = &now
	reg.Status = models.StatusCheckedIn
	if err := s.save(ctx, reg, EventCheckedIn); err != nil {
		return nil, err
	}
	return reg, nil
}

func (s *registrationService) Cancel(ctx context.Context, requester policy.Requester, id string) (*models.Registration, error) {
	reg, err := s.load(ctx, requester, id)
	if err != nil {
		return nil, err
	}

	if reg.CheckedIn() {
		return nil, ErrCheckedInCannotCancel
	}
	if reg.Status == models.StatusCanceled {
		return nil, ErrAlreadyCanceled
	}

	reg.Status = models.StatusCanceled
	if err := s.save(ctx, reg, EventCanceled); err != nil {
		return nil, err
	}
	return reg, nil
}

// Delete marks the registration as logically removed. Repeated deletes and
// deletes of checked-in registrations are accepted.
func (s *registrationService) Delete(ctx context.Context, requester policy.Requester, id string) error {
	reg, err := s.load(ctx, requester, id)
	if err != nil {
		return err
	}

	now := s.now()
	reg.Status = models.StatusDeleted
	reg.DeletedAt = &now
	return s.save(ctx, reg, EventDeleted)
}

// load fetches a registration and then checks ownership, since the owner is
// only known once the record is found.
func (s *registrationService) load(ctx context.Context, requester policy.Requester, id string) (*models.Registration, error) {
	reg, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find registration %s: %w", id, err)
	}

	if err := s.authorize(requester, reg.UserID); err != nil {
		return nil, err
	}
	return reg, nil
}

func (s *registrationService) authorize(requester policy.Requester, ownerID string) error {
	if !s.policy.Decide(requester.ID, requester.Roles, ownerID).Allowed() {
		s.logger.Info("authorization denied",
			zap.String("requester_id", requester.ID),
			zap.Strings("requester_roles", requester.Roles.Slice()),
			zap.String("owner_id", ownerID),
		)
		return ErrForbidden
	}
	return nil
}

func (s *registrationService) save(ctx context.Context, reg *models.Registration, routingKey string) error {
	if err := s.repo.Save(ctx, reg); err != nil {
		if errors.Is(err, repository.ErrDuplicateActive) {
			return ErrAlreadyRegistered
		}
		return fmt.Errorf("save registration %s: %w", reg.ID, err)
	}

	s.logger.Info("registration persisted",
		zap.String("registration_id", reg.ID),
		zap.String("user_id", reg.UserID),
		zap.String("event_id", reg.EventID),
		zap.String("status", string(reg.Status)),
		zap.String("transition", routingKey),
	)

	if s.publisher != nil {
		if err := s.publisher.Publish(routingKey, reg); err != nil {
			s.logger.Warn("publish lifecycle message failed",
				zap.String("registration_id", reg.ID),
				zap.String("routing_key", routingKey),
				zap.Error(err),
			)
		}
	}
	return nil
}
