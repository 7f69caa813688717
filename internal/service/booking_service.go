package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"gym-service/internal/events"
	"gym-service/internal/model"
	"gym-service/internal/policy"
	"gym-service/internal/repository"
)

var (
	ErrClassNotFound   = errors.New("class not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrBookingNotFound = errors.New("no confirmed booking of yours matches")
	ErrAlreadyBooked   = errors.New("you already booked this class")

	// ErrTransient marks storage failures where the caller should retry the
	// whole evaluate-then-book sequence.
	ErrTransient = errors.New("temporary storage failure, please retry")
)

// NotEligibleError is a normal evaluator outcome, not a system failure. Reason
// is user-facing and names the unmet plan constraint.
type NotEligibleError struct {
	Reason string
}

func (e *NotEligibleError) Error() string {
	return e.Reason
}

const reasonNoMembership = "No active membership. Please select a plan."

type BookingService interface {
	Eligibility(ctx context.Context, userID, classID uuid.UUID) (policy.Decision, error)
	Book(ctx context.Context, userID, classID uuid.UUID) (*model.Booking, error)
	Cancel(ctx context.Context, bookingID, userID uuid.UUID) error
	ListBookings(ctx context.Context, userID uuid.UUID) ([]model.BookingDetails, error)
	ListClasses(ctx context.Context, martialArt string) ([]model.ClassDetails, error)
}

type bookingService struct {
	userRepo    repository.UserRepository
	classRepo   repository.ClassRepository
	bookingRepo repository.BookingRepository
	publisher   events.EventPublisher
	now         func() time.Time
}

func NewBookingService(userRepo repository.UserRepository, classRepo repository.ClassRepository, bookingRepo repository.BookingRepository, publisher events.EventPublisher) BookingService {
	return &bookingService{
		userRepo:    userRepo,
		classRepo:   classRepo,
		bookingRepo: bookingRepo,
		publisher:   publisher,
		now:         time.Now,
	}
}

// Eligibility runs the plan rules for a member against a class without
// touching any booking state.
func (s *bookingService) Eligibility(ctx context.Context, userID, classID uuid.UUID) (policy.Decision, error) {
	snapshot, class, err := s.load(ctx, userID, classID)
	if err != nil {
		return policy.Decision{}, err
	}

	if snapshot.MembershipType == nil {
		return policy.Decision{Allowed: false, Reason: reasonNoMembership}, nil
	}

	return policy.Evaluate(memberFromSnapshot(snapshot), classInfo(class), s.now()), nil
}

// Book re-evaluates eligibility and then runs the booking transaction. The
// transaction re-checks for a confirmed duplicate, so a race between the
// eligibility read and the write surfaces as ErrAlreadyBooked rather than a
// double booking.
func (s *bookingService) Book(ctx context.Context, userID, classID uuid.UUID) (*model.Booking, error) {
	snapshot, class, err := s.load(ctx, userID, classID)
	if err != nil {
		return nil, err
	}

	if snapshot.MembershipType == nil {
		return nil, &NotEligibleError{Reason: reasonNoMembership}
	}

	decision := policy.Evaluate(memberFromSnapshot(snapshot), classInfo(class), s.now())
	if !decision.Allowed {
		return nil, &NotEligibleError{Reason: decision.Reason}
	}

	booking, err := s.bookingRepo.CreateConfirmed(ctx, userID, classID)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateBooking) {
			return nil, ErrAlreadyBooked
		}
		if repository.IsTransient(err) {
			return nil, fmt.Errorf("%w: %v", ErrTransient, err)
		}
		return nil, err
	}

	go func() {
		if err := s.publisher.PublishBookingConfirmed(booking); err != nil {
			slog.Error("failed to publish booking.confirmed", "booking_id", booking.ID, "error", err)
		}
	}()

	return booking, nil
}

func (s *bookingService) Cancel(ctx context.Context, bookingID, userID uuid.UUID) error {
	err := s.bookingRepo.Cancel(ctx, bookingID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrBookingNotFound
		}
		if repository.IsTransient(err) {
			return fmt.Errorf("%w: %v", ErrTransient, err)
		}
		return err
	}

	go func() {
		if err := s.publisher.PublishBookingCancelled(bookingID, userID); err != nil {
			slog.Error("failed to publish booking.cancelled", "booking_id", bookingID, "error", err)
		}
	}()

	return nil
}

func (s *bookingService) ListBookings(ctx context.Context, userID uuid.UUID) ([]model.BookingDetails, error) {
	return s.bookingRepo.ListByUserID(ctx, userID)
}

func (s *bookingService) ListClasses(ctx context.Context, martialArt string) ([]model.ClassDetails, error) {
	return s.classRepo.List(ctx, martialArt)
}

func (s *bookingService) load(ctx context.Context, userID, classID uuid.UUID) (*model.MemberSnapshot, *model.Class, error) {
	snapshot, err := s.userRepo.GetSnapshot(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, err
	}

	class, err := s.classRepo.FindByID(ctx, classID)
	if err != nil {
		return nil, nil, err
	}
	if class == nil {
		return nil, nil, ErrClassNotFound
	}

	return snapshot, class, nil
}

func memberFromSnapshot(snapshot *model.MemberSnapshot) policy.Member {
	return policy.Member{
		Tier:            policy.NormalizeTier(deref(snapshot.MembershipType)),
		PrimaryArt:      deref(snapshot.ChosenMartialArt),
		SecondaryArt:    deref(snapshot.ChosenMartialArt2),
		SessionsUsed:    snapshot.SessionsUsedThisWeek,
		SessionsPerWeek: snapshot.SessionsPerWeek,
		JoinedAt:        snapshot.CreatedAt,
	}
}

func classInfo(class *model.Class) policy.Class {
	return policy.Class{
		MartialArt: class.MartialArt,
		Kids:       class.IsKidsClass(),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
