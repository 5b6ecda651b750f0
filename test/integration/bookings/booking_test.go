package integrationtests

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	bookingserrors "rently/internal/bookings/errors"
	"rently/internal/bookings/repository"
	"rently/internal/bookings/service"
	"rently/internal/bookings/validator"
	"rently/internal/directory"
	migrations "rently/internal/migrations/mongo"
	"rently/pkg/config"
	"rently/pkg/model"
	"rently/test/integration/testutil"
)

const ServiceName = "bookings-integration-tests"

var (
	cfg     *config.Config
	db      *testutil.MongoHelper
	svc     service.BookingService
	emitter *recordingEmitter
)

// recordingEmitter captures confirmation events so tests can assert that
// emission happens exactly once per committed booking.
type recordingEmitter struct {
	mu     sync.Mutex
	events []*model.BookingConfirmedEvent
}

func (e *recordingEmitter) BookingConfirmed(_ context.Context, event *model.BookingConfirmedEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, event)
	return nil
}

func (e *recordingEmitter) count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.events)
}

func TestMain(t *testing.T) {
	env := testutil.NewTestEnv(t)
	db = env.Setup(t)
	defer env.Cleanup(t, db)

	setup(t, env)

	testCreateAndGetByID(t)
	testConcurrentBookingCreation(t)
	testTouchingEndpointConflict(t)
	testCancelledBookingDoesNotBlock(t)
}

func setup(t *testing.T, env *testutil.TestEnv) {
	t.Helper()

	cfg = config.Load(ServiceName)
	cfg.MongoURI = env.MongoURI
	cfg.MongoDatabaseName = env.DatabaseName
	cfg.SetMongo()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	if err := migrations.RunMigration(ctx, cfg.Client.Mongo, cfg.MongoDatabaseName); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	emitter = &recordingEmitter{}
	svc = service.NewBookingService(
		repository.NewMongoBookingRepository(cfg),
		repository.NewBookingLockRepository(cfg),
		directory.NewMongoDirectory(cfg),
		validator.NewBookingValidator(cfg.Log),
		emitter,
		cfg,
	)
}

// day returns midnight UTC, offset days from now.
func day(offset int) time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, offset)
}

func seedUserAndItem(t *testing.T) (string, string) {
	t.Helper()
	userID := db.SeedUser(t, testutil.ValidUser())
	itemID := db.SeedItem(t, testutil.NewItemBuilder().Build())
	return userID, itemID
}

func testCreateAndGetByID(t *testing.T) {
	defer db.CleanCollection(t, repository.CollectionName)
	userID, itemID := seedUserAndItem(t)
	ctx := context.Background()

	booking, err := svc.Create(ctx, &model.BookingRequest{
		UserID:    userID,
		ItemID:    itemID,
		StartDate: day(1),
		EndDate:   day(3),
	})
	if err != nil {
		t.Fatalf("expected booking to be admitted, got %v", err)
	}
	if booking.ID == "" {
		t.Error("expected booking ID to be set")
	}
	if booking.Status != model.StatusConfirmed {
		t.Errorf("expected status 'confirmed', got '%s'", booking.Status)
	}
	if booking.TotalPrice != 150 {
		t.Errorf("expected total price 150, got %v", booking.TotalPrice)
	}

	got, err := svc.GetByID(ctx, booking.ID)
	if err != nil {
		t.Fatalf("failed to fetch booking by id: %v", err)
	}
	if got.ItemID != itemID || got.UserID != userID {
		t.Errorf("stored booking references wrong user/item: %+v", got)
	}
	if !got.StartDate.Equal(booking.StartDate) || !got.EndDate.Equal(booking.EndDate) {
		t.Errorf("stored interval [%v, %v] does not match requested [%v, %v]",
			got.StartDate, got.EndDate, booking.StartDate, booking.EndDate)
	}

	if emitter.count() != 1 {
		t.Errorf("expected 1 confirmation event, got %d", emitter.count())
	}

	if released := db.CountDocuments(t, repository.LockCollectionName, nil); released != 0 {
		t.Errorf("expected advisory lock to be released, found %d", released)
	}
}

// Racing requests for the same item and dates must commit exactly one booking.
// This drives the advisory lock and the in-transaction overlap re-check
// against the real database rather than a fake.
func testConcurrentBookingCreation(t *testing.T) {
	defer db.CleanCollection(t, repository.CollectionName)
	userID, itemID := seedUserAndItem(t)

	start := day(1)
	end := day(3)

	const workers = 8
	var wg sync.WaitGroup
	results := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(index int) {
			defer wg.Done()
			_, err := svc.Create(context.Background(), &model.BookingRequest{
				UserID:    userID,
				ItemID:    itemID,
				StartDate: start,
				EndDate:   end,
				Notes:     fmt.Sprintf("request %d", index),
			})
			results[index] = err
		}(i)
	}
	wg.Wait()

	successCount := 0
	for i, err := range results {
		switch {
		case err == nil:
			successCount++
		case errors.Is(err, bookingserrors.ErrIntervalConflict):
		default:
			t.Errorf("request %d: expected interval conflict, got %v", i, err)
		}
	}
	if successCount != 1 {
		t.Errorf("expected exactly 1 admitted booking, got %d", successCount)
	}

	stored := db.CountDocuments(t, repository.CollectionName, map[string]any{"item_id": itemID})
	if stored != 1 {
		t.Errorf("expected exactly 1 stored booking, found %d", stored)
	}
}

// Intervals are closed on both ends, so a booking starting on the day an
// existing one ends must be rejected by the stored overlap filter, while the
// next day is free.
func testTouchingEndpointConflict(t *testing.T) {
	defer db.CleanCollection(t, repository.CollectionName)
	userID, itemID := seedUserAndItem(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, &model.BookingRequest{
		UserID: userID, ItemID: itemID, StartDate: day(1), EndDate: day(3),
	}); err != nil {
		t.Fatalf("failed to create initial booking: %v", err)
	}

	_, err := svc.Create(ctx, &model.BookingRequest{
		UserID: userID, ItemID: itemID, StartDate: day(3), EndDate: day(5),
	})
	if !errors.Is(err, bookingserrors.ErrIntervalConflict) {
		t.Errorf("expected conflict for interval touching an existing end date, got %v", err)
	}

	if _, err := svc.Create(ctx, &model.BookingRequest{
		UserID: userID, ItemID: itemID, StartDate: day(4), EndDate: day(6),
	}); err != nil {
		t.Errorf("expected adjacent interval to be admitted, got %v", err)
	}
}

// Cancelled bookings are excluded from the overlap filter, so their dates can
// be booked again.
func testCancelledBookingDoesNotBlock(t *testing.T) {
	defer db.CleanCollection(t, repository.CollectionName)
	userID, itemID := seedUserAndItem(t)
	ctx := context.Background()

	cancelled := model.Booking{
		UserID:    userID,
		ItemID:    itemID,
		StartDate: day(10),
		EndDate:   day(12),
		Status:    model.StatusCancelled,
	}
	repo := repository.NewMongoBookingRepository(cfg)
	if err := repo.Create(ctx, &cancelled); err != nil {
		t.Fatalf("failed to seed cancelled booking: %v", err)
	}

	booking, err := svc.Create(ctx, &model.BookingRequest{
		UserID: userID, ItemID: itemID, StartDate: day(10), EndDate: day(12),
	})
	if err != nil {
		t.Fatalf("expected cancelled dates to be rebookable, got %v", err)
	}
	if booking.Status != model.StatusConfirmed {
		t.Errorf("expected status 'confirmed', got '%s'", booking.Status)
	}
}
