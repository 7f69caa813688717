package service_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"gym-service/internal/model"
	"gym-service/internal/repository"
	"gym-service/internal/service"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	snapshot *model.MemberSnapshot
	err      error
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return nil, sql.ErrNoRows
}

func (f *fakeUserRepo) GetSnapshot(ctx context.Context, userID uuid.UUID) (*model.MemberSnapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.snapshot, nil
}

func (f *fakeUserRepo) UpdatePlan(ctx context.Context, userID, membershipID uuid.UUID, primaryArt, secondaryArt string) error {
	return nil
}

func (f *fakeUserRepo) ResetWeeklyCounters(ctx context.Context) error { return nil }

type fakeClassRepo struct {
	class *model.Class
	err   error
}

func (f *fakeClassRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Class, error) {
	return f.class, f.err
}

func (f *fakeClassRepo) List(ctx context.Context, martialArt string) ([]model.ClassDetails, error) {
	return []model.ClassDetails{}, nil
}

type fakeBookingRepo struct {
	booking   *model.Booking
	createErr error
	cancelErr error
	created   bool
}

func (f *fakeBookingRepo) CreateConfirmed(ctx context.Context, userID, classID uuid.UUID) (*model.Booking, error) {
	f.created = true
	return f.booking, f.createErr
}

func (f *fakeBookingRepo) Cancel(ctx context.Context, bookingID, userID uuid.UUID) error {
	return f.cancelErr
}

func (f *fakeBookingRepo) ListByUserID(ctx context.Context, userID uuid.UUID) ([]model.BookingDetails, error) {
	return []model.BookingDetails{}, nil
}

func (f *fakeBookingRepo) HasConfirmed(ctx context.Context, userID, classID uuid.UUID) (bool, error) {
	return false, nil
}

type fakePublisher struct {
	confirmed chan uuid.UUID
	cancelled chan uuid.UUID
}

func newFakePublisher() *fakePublisher {
	return &fakePublisher{
		confirmed: make(chan uuid.UUID, 1),
		cancelled: make(chan uuid.UUID, 1),
	}
}

func (f *fakePublisher) PublishBookingConfirmed(booking *model.Booking) error {
	f.confirmed <- booking.ID
	return nil
}

func (f *fakePublisher) PublishBookingCancelled(bookingID, userID uuid.UUID) error {
	f.cancelled <- bookingID
	return nil
}

func strPtr(s string) *string { return &s }

func basicSnapshot() *model.MemberSnapshot {
	return &model.MemberSnapshot{
		UserID:               uuid.New(),
		MembershipType:       strPtr("Basic"),
		ChosenMartialArt:     strPtr("Judo"),
		SessionsUsedThisWeek: 0,
		CreatedAt:            time.Now().Add(-48 * time.Hour),
	}
}

func judoClass() *model.Class {
	return &model.Class{ID: uuid.New(), ClassName: "Judo Fundamentals", MartialArt: "Judo", AgeGroup: "Adults"}
}

func TestBookingService_Book_Allowed(t *testing.T) {
	bookingID := uuid.New()
	bookings := &fakeBookingRepo{booking: &model.Booking{ID: bookingID, Status: model.BookingStatusConfirmed}}
	pub := newFakePublisher()
	svc := service.NewBookingService(&fakeUserRepo{snapshot: basicSnapshot()}, &fakeClassRepo{class: judoClass()}, bookings, pub)

	booking, err := svc.Book(context.Background(), uuid.New(), uuid.New())
	require.NoError(t, err)
	require.Equal(t, bookingID, booking.ID)

	select {
	case published := <-pub.confirmed:
		require.Equal(t, bookingID, published)
	case <-time.After(time.Second):
		t.Fatal("booking.confirmed event was not published")
	}
}

func TestBookingService_Book_PolicyDenied(t *testing.T) {
	snapshot := basicSnapshot()
	snapshot.SessionsUsedThisWeek = 2

	bookings := &fakeBookingRepo{}
	svc := service.NewBookingService(&fakeUserRepo{snapshot: snapshot}, &fakeClassRepo{class: judoClass()}, bookings, newFakePublisher())

	_, err := svc.Book(context.Background(), uuid.New(), uuid.New())

	var notEligible *service.NotEligibleError
	require.ErrorAs(t, err, &notEligible)
	require.Equal(t, "Weekly limit reached (2 sessions).", notEligible.Reason)
	require.False(t, bookings.created, "denied booking must never reach the transaction")
}

func TestBookingService_Book_NoMembership(t *testing.T) {
	snapshot := basicSnapshot()
	snapshot.MembershipType = nil

	svc := service.NewBookingService(&fakeUserRepo{snapshot: snapshot}, &fakeClassRepo{class: judoClass()}, &fakeBookingRepo{}, newFakePublisher())

	_, err := svc.Book(context.Background(), uuid.New(), uuid.New())

	var notEligible *service.NotEligibleError
	require.ErrorAs(t, err, &notEligible)
	require.Equal(t, "No active membership. Please select a plan.", notEligible.Reason)
}

func TestBookingService_Book_Duplicate(t *testing.T) {
	bookings := &fakeBookingRepo{createErr: repository.ErrDuplicateBooking}
	svc := service.NewBookingService(&fakeUserRepo{snapshot: basicSnapshot()}, &fakeClassRepo{class: judoClass()}, bookings, newFakePublisher())

	_, err := svc.Book(context.Background(), uuid.New(), uuid.New())
	require.ErrorIs(t, err, service.ErrAlreadyBooked)
}

func TestBookingService_Book_TransientStoreFailure(t *testing.T) {
	bookings := &fakeBookingRepo{createErr: &pgconn.PgError{Code: "40001"}}
	svc := service.NewBookingService(&fakeUserRepo{snapshot: basicSnapshot()}, &fakeClassRepo{class: judoClass()}, bookings, newFakePublisher())

	_, err := svc.Book(context.Background(), uuid.New(), uuid.New())
	require.ErrorIs(t, err, service.ErrTransient)
}

func TestBookingService_Book_UnknownUser(t *testing.T) {
	svc := service.NewBookingService(&fakeUserRepo{err: sql.ErrNoRows}, &fakeClassRepo{class: judoClass()}, &fakeBookingRepo{}, newFakePublisher())

	_, err := svc.Book(context.Background(), uuid.New(), uuid.New())
	require.ErrorIs(t, err, service.ErrUserNotFound)
}

func TestBookingService_Book_UnknownClass(t *testing.T) {
	svc := service.NewBookingService(&fakeUserRepo{snapshot: basicSnapshot()}, &fakeClassRepo{}, &fakeBookingRepo{}, newFakePublisher())

	_, err := svc.Book(context.Background(), uuid.New(), uuid.New())
	require.ErrorIs(t, err, service.ErrClassNotFound)
}

func TestBookingService_Eligibility(t *testing.T) {
	snapshot := basicSnapshot()
	snapshot.ChosenMartialArt = nil

	svc := service.NewBookingService(&fakeUserRepo{snapshot: snapshot}, &fakeClassRepo{class: judoClass()}, &fakeBookingRepo{}, newFakePublisher())

	decision, err := svc.Eligibility(context.Background(), uuid.New(), uuid.New())
	require.NoError(t, err)
	require.False(t, decision.Allowed)
	require.Equal(t, "Please select your preferred martial art in your profile.", decision.Reason)
}

func TestBookingService_Cancel_NotFound(t *testing.T) {
	bookings := &fakeBookingRepo{cancelErr: sql.ErrNoRows}
	svc := service.NewBookingService(&fakeUserRepo{snapshot: basicSnapshot()}, &fakeClassRepo{class: judoClass()}, bookings, newFakePublisher())

	err := svc.Cancel(context.Background(), uuid.New(), uuid.New())
	require.ErrorIs(t, err, service.ErrBookingNotFound)
}

func TestBookingService_Cancel_PublishesEvent(t *testing.T) {
	pub := newFakePublisher()
	svc := service.NewBookingService(&fakeUserRepo{snapshot: basicSnapshot()}, &fakeClassRepo{class: judoClass()}, &fakeBookingRepo{}, pub)

	bookingID := uuid.New()
	err := svc.Cancel(context.Background(), bookingID, uuid.New())
	require.NoError(t, err)

	select {
	case published := <-pub.cancelled:
		require.Equal(t, bookingID, published)
	case <-time.After(time.Second):
		t.Fatal("booking.cancelled event was not published")
	}
}

func TestBookingService_Cancel_TransientStoreFailure(t *testing.T) {
	bookings := &fakeBookingRepo{cancelErr: errors.New("write tcp: connection reset")}
	svc := service.NewBookingService(&fakeUserRepo{snapshot: basicSnapshot()}, &fakeClassRepo{class: judoClass()}, bookings, newFakePublisher())

	err := svc.Cancel(context.Background(), uuid.New(), uuid.New())
	// arbitrary errors are not classified as transient
	require.NotErrorIs(t, err, service.ErrTransient)
	require.Error(t, err)
}
