package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	_ "gym-service/migrations"
)

type BookingRepositoryIntegrationTestSuite struct {
	suite.Suite
	db          *sqlx.DB
	bookingRepo BookingRepository
	userRepo    UserRepository
	pgc         *postgres.PostgresContainer
	ctx         context.Context

	basicPlanID uuid.UUID
	classID     uuid.UUID
}

func (s *BookingRepositoryIntegrationTestSuite) SetupSuite() {
	s.ctx = context.Background()

	pgc, err := postgres.Run(s.ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("test-db"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second),
		),
	)
	if err != nil {
		log.Fatalf("could not start postgres container: %s", err)
	}
	s.pgc = pgc

	connStr, err := pgc.ConnectionString(s.ctx, "sslmode=disable")
	assert.NoError(s.T(), err)

	db, err := sqlx.Connect("pgx", connStr)
	assert.NoError(s.T(), err)
	s.db = db

	err = goose.Up(db.DB, "../../migrations")
	assert.NoError(s.T(), err)

	s.bookingRepo = NewPostgresBookingRepository(s.db)
	s.userRepo = NewPostgresUserRepository(s.db)

	err = s.db.GetContext(s.ctx, &s.basicPlanID, `SELECT id FROM memberships WHERE type = 'Basic'`)
	assert.NoError(s.T(), err)

	err = s.db.QueryRowxContext(s.ctx,
		`INSERT INTO classes (class_name, martial_art, age_group, day_of_week, start_time, end_time) VALUES ('Judo Fundamentals', 'Judo', 'Adults', 'Monday', '18:00', '19:30') RETURNING id`).
		Scan(&s.classID)
	assert.NoError(s.T(), err)
}

func (s *BookingRepositoryIntegrationTestSuite) TearDownSuite() {
	s.db.Close()
	if err := s.pgc.Terminate(s.ctx); err != nil {
		log.Fatalf("failed to terminate pg container: %s", err)
	}
}

func (s *BookingRepositoryIntegrationTestSuite) createMember() uuid.UUID {
	var userID uuid.UUID
	email := fmt.Sprintf("member-%s@test.com", uuid.NewString())
	err := s.db.QueryRowxContext(s.ctx,
		`INSERT INTO users (email, name, membership_id, chosen_martial_art) VALUES ($1, 'Test Member', $2, 'Judo') RETURNING id`,
		email, s.basicPlanID).
		Scan(&userID)
	assert.NoError(s.T(), err)
	return userID
}

func (s *BookingRepositoryIntegrationTestSuite) sessionsUsed(userID uuid.UUID) int {
	var used int
	err := s.db.GetContext(s.ctx, &used, `SELECT sessions_used_this_week FROM users WHERE id = $1`, userID)
	assert.NoError(s.T(), err)
	return used
}

func (s *BookingRepositoryIntegrationTestSuite) TestBookCancelRebookRoundTrip() {
	userID := s.createMember()

	booking, err := s.bookingRepo.CreateConfirmed(s.ctx, userID, s.classID)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), 1, s.sessionsUsed(userID))

	// booking the same class again is a duplicate
	_, err = s.bookingRepo.CreateConfirmed(s.ctx, userID, s.classID)
	assert.ErrorIs(s.T(), err, ErrDuplicateBooking)
	assert.Equal(s.T(), 1, s.sessionsUsed(userID))

	err = s.bookingRepo.Cancel(s.ctx, booking.ID, userID)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), 0, s.sessionsUsed(userID))

	// cancelling twice is rejected and the counter stays at zero
	err = s.bookingRepo.Cancel(s.ctx, booking.ID, userID)
	assert.ErrorIs(s.T(), err, sql.ErrNoRows)
	assert.Equal(s.T(), 0, s.sessionsUsed(userID))

	// after a cancel the same class can be booked again
	rebooked, err := s.bookingRepo.CreateConfirmed(s.ctx, userID, s.classID)
	assert.NoError(s.T(), err)
	assert.NotEqual(s.T(), booking.ID, rebooked.ID)
	assert.Equal(s.T(), 1, s.sessionsUsed(userID))
}

func (s *BookingRepositoryIntegrationTestSuite) TestConcurrentBookingOnlyOneWins() {
	userID := s.createMember()

	const attempts = 2
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.bookingRepo.CreateConfirmed(s.ctx, userID, s.classID)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.True(s.T(), errors.Is(err, ErrDuplicateBooking), "unexpected error: %v", err)
		}
	}
	assert.Equal(s.T(), 1, succeeded)

	var confirmed int
	err := s.db.GetContext(s.ctx, &confirmed,
		`SELECT COUNT(*) FROM bookings WHERE user_id = $1 AND class_id = $2 AND status = 'confirmed'`, userID, s.classID)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), 1, confirmed)
	assert.Equal(s.T(), 1, s.sessionsUsed(userID))
}

func (s *BookingRepositoryIntegrationTestSuite) TestCancelSomeoneElsesBooking() {
	owner := s.createMember()
	stranger := s.createMember()

	booking, err := s.bookingRepo.CreateConfirmed(s.ctx, owner, s.classID)
	assert.NoError(s.T(), err)

	err = s.bookingRepo.Cancel(s.ctx, booking.ID, stranger)
	assert.ErrorIs(s.T(), err, sql.ErrNoRows)

	// the owner's booking and counter are untouched
	has, err := s.bookingRepo.HasConfirmed(s.ctx, owner, s.classID)
	assert.NoError(s.T(), err)
	assert.True(s.T(), has)
	assert.Equal(s.T(), 1, s.sessionsUsed(owner))
}

func TestBookingRepositoryIntegration(t *testing.T) {
	if os.Getenv("DOCKER_HOST") == "" {
		t.Skip("Docker is not available, skipping integration test.")
	}
	suite.Run(t, new(BookingRepositoryIntegrationTestSuite))
}
