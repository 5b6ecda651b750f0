package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "rently/internal/bookings/errors"
	"rently/internal/bookings/events"
	"rently/internal/bookings/repository"
	"rently/internal/bookings/validator"
	"rently/internal/directory"
	"rently/pkg/config"
	apperrors "rently/pkg/errors"
	"rently/pkg/model"
)

type BookingService interface {
	Create(ctx context.Context, req *model.BookingRequest) (*model.Booking, error)
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	GetByUser(ctx context.Context, userID string, limit int, offset int64) ([]*model.Booking, int64, error)
	GetByItem(ctx context.Context, itemID string, limit int, offset int64) ([]*model.Booking, int64, error)
	GetByStatus(ctx context.Context, status string, limit int, offset int64) ([]*model.Booking, int64, error)
	FindConflicts(ctx context.Context, itemID string, start, end time.Time) ([]*model.Booking, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	lockRepo  repository.BookingLockRepository
	directory directory.Directory
	validator *validator.BookingValidator
	emitter   events.Emitter
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.BookingLockRepository,
	dir directory.Directory,
	bookingValidator *validator.BookingValidator,
	emitter events.Emitter,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		lockRepo:  lockRepo,
		directory: dir,
		validator: bookingValidator,
		emitter:   emitter,
		cfg:       cfg,
	}
}

// Create admits a booking request. The gates run in a fixed order: field and
// interval validation, user and item resolution, availability, duration,
// then the conflict check. The final conflict re-check and the insert run in
// one transaction under a per-item advisory lock, so two racing requests for
// overlapping dates can never both commit. The confirmation event goes out
// only after the transaction commits.
func (s *bookingService) Create(ctx context.Context, req *model.BookingRequest) (*model.Booking, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	user, err := s.resolveUser(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	item, err := s.resolveItem(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}

	if !item.IsAvailable {
		return nil, apperrors.Wrap(bookingserrors.ErrItemUnavailable, apperrors.CodeUnavailable,
			fmt.Sprintf("Item '%s' is not available for booking", item.Name), http.StatusConflict)
	}

	if span := inclusiveDaySpan(req.StartDate, req.EndDate); span > item.MaxDurationDays {
		return nil, apperrors.Wrap(bookingserrors.ErrDurationExceeded, apperrors.CodeInvalidInput,
			fmt.Sprintf("Booking spans %d days but item '%s' allows at most %d", span, item.Name, item.MaxDurationDays),
			http.StatusBadRequest)
	}

	if err := s.checkConflicts(ctx, req.ItemID, req.StartDate, req.EndDate); err != nil {
		return nil, err
	}

	booking := &model.Booking{
		UserID:     req.UserID,
		ItemID:     req.ItemID,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		TotalPrice: totalPrice(item.PricePerDay, req.StartDate, req.EndDate),
		Status:     model.StatusConfirmed,
		Notes:      req.Notes,
	}

	lockID, err := s.acquireItemLock(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if releaseErr := s.releaseItemLock(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release booking lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.checkConflicts(sessCtx, req.ItemID, req.StartDate, req.EndDate); err != nil {
			return err
		}
		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create booking",
			"user_id", req.UserID,
			"item_id", req.ItemID,
			"error", err,
		)
		return nil, err
	}

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"user_id", booking.UserID,
		"item_id", booking.ItemID,
		"start_date", booking.StartDate,
		"end_date", booking.EndDate,
		"total_price", booking.TotalPrice,
	)

	s.emitConfirmed(ctx, booking, user, item)
	return booking, nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	return booking, nil
}

func (s *bookingService) GetByUser(ctx context.Context, userID string, limit int, offset int64) ([]*model.Booking, int64, error) {
	if userID == "" {
		return nil, 0, apperrors.InvalidInput("User ID cannot be empty")
	}
	return s.listWithCount(ctx,
		func(ctx context.Context) ([]*model.Booking, error) {
			return s.repo.FindByUser(ctx, userID, limit, offset)
		},
		func(ctx context.Context) (int64, error) {
			return s.repo.CountByUser(ctx, userID)
		},
	)
}

func (s *bookingService) GetByItem(ctx context.Context, itemID string, limit int, offset int64) ([]*model.Booking, int64, error) {
	if itemID == "" {
		return nil, 0, apperrors.InvalidInput("Item ID cannot be empty")
	}
	return s.listWithCount(ctx,
		func(ctx context.Context) ([]*model.Booking, error) {
			return s.repo.FindByItem(ctx, itemID, limit, offset)
		},
		func(ctx context.Context) (int64, error) {
			return s.repo.CountByItem(ctx, itemID)
		},
	)
}

func (s *bookingService) GetByStatus(ctx context.Context, status string, limit int, offset int64) ([]*model.Booking, int64, error) {
	if !isKnownStatus(status) {
		return nil, 0, apperrors.InvalidInput(fmt.Sprintf("Unknown booking status: %s", status))
	}
	return s.listWithCount(ctx,
		func(ctx context.Context) ([]*model.Booking, error) {
			return s.repo.FindByStatus(ctx, status, limit, offset)
		},
		func(ctx context.Context) (int64, error) {
			return s.repo.CountByStatus(ctx, status)
		},
	)
}

// FindConflicts exposes the conflict query directly so callers can probe an
// interval before submitting a request.
func (s *bookingService) FindConflicts(ctx context.Context, itemID string, start, end time.Time) ([]*model.Booking, error) {
	if itemID == "" {
		return nil, apperrors.InvalidInput("Item ID cannot be empty")
	}
	if end.Before(start) {
		return nil, apperrors.Wrap(bookingserrors.ErrInvalidInterval, apperrors.CodeInvalidInput,
			"End date must not be before start date", http.StatusBadRequest)
	}

	conflicts, err := s.repo.FindOverlapping(ctx, itemID, start, end)
	if err != nil {
		return nil, apperrors.Internal("Failed to find conflicting bookings", err)
	}
	return conflicts, nil
}

// --- Helpers ---

func (s *bookingService) validateRequest(req *model.BookingRequest) error {
	err := s.validator.ValidateRequest(req)
	if err == nil {
		return nil
	}

	s.cfg.Log.Warn("Booking validation failed", "error", err)

	if errors.Is(err, bookingserrors.ErrInvalidInterval) {
		return apperrors.Wrap(err, apperrors.CodeInvalidInput,
			"End date must be after start date", http.StatusBadRequest)
	}
	if errors.Is(err, bookingserrors.ErrPastStart) {
		return apperrors.Wrap(err, apperrors.CodeInvalidInput,
			"Start date cannot be in the past", http.StatusBadRequest)
	}
	return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
}

func (s *bookingService) resolveUser(ctx context.Context, id string) (*model.User, error) {
	user, err := s.directory.ResolveUser(ctx, id)
	if err != nil {
		if errors.Is(err, directory.ErrUserNotFound) {
			return nil, apperrors.NotFoundWithID("User", id)
		}
		return nil, apperrors.Internal("Failed to resolve user", err)
	}
	return user, nil
}

func (s *bookingService) resolveItem(ctx context.Context, id string) (*model.Item, error) {
	item, err := s.directory.ResolveItem(ctx, id)
	if err != nil {
		if errors.Is(err, directory.ErrItemNotFound) {
			return nil, apperrors.NotFoundWithID("Item", id)
		}
		return nil, apperrors.Internal("Failed to resolve item", err)
	}
	return item, nil
}

func (s *bookingService) checkConflicts(ctx context.Context, itemID string, start, end time.Time) error {
	existing, err := s.repo.FindOverlapping(ctx, itemID, start, end)
	if err != nil {
		return apperrors.Internal("Failed to check existing bookings", err)
	}

	if len(existing) > 0 {
		first := existing[0]
		return apperrors.Wrap(bookingserrors.ErrIntervalConflict, apperrors.CodeConflict,
			fmt.Sprintf("Booking dates conflict with an existing booking (%s - %s)",
				first.StartDate.Format("2006-01-02"),
				first.EndDate.Format("2006-01-02"),
			), http.StatusConflict)
	}
	return nil
}

func (s *bookingService) listWithCount(
	ctx context.Context,
	find func(ctx context.Context) ([]*model.Booking, error),
	count func(ctx context.Context) (int64, error),
) ([]*model.Booking, int64, error) {
	var total int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		total, errCount = count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = find(ctx)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, total, nil
}

// emitConfirmed publishes the confirmation event. The booking is already
// committed; a publish failure is logged and swallowed.
func (s *bookingService) emitConfirmed(ctx context.Context, booking *model.Booking, user *model.User, item *model.Item) {
	event := &model.BookingConfirmedEvent{
		BookingID:   booking.ID,
		UserID:      user.ID,
		ItemName:    item.Name,
		StartDate:   booking.StartDate,
		EndDate:     booking.EndDate,
		TotalPrice:  booking.TotalPrice,
		Status:      booking.Status,
		ConfirmedAt: booking.CreatedAt,
	}

	if err := s.emitter.BookingConfirmed(ctx, event); err != nil {
		s.cfg.Log.Warn("Failed to publish booking confirmed event",
			"booking_id", booking.ID,
			"error", err,
		)
	}
}

// acquireItemLock serializes admissions per item. A duplicate key error means
// another request holds the item; the caller gets the same conflict surface
// as a date overlap with an existing booking.
func (s *bookingService) acquireItemLock(ctx context.Context, itemID string) (string, error) {
	lockID := fmt.Sprintf("booking_lock_%s", itemID)

	lock := &model.BookingLock{
		ID:        lockID,
		ItemID:    itemID,
		ExpiresAt: time.Now().Add(s.cfg.BookingLockTTL),
	}

	_, err := s.lockRepo.Create(ctx, lock)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", apperrors.Wrap(bookingserrors.ErrIntervalConflict, apperrors.CodeConflict,
				"This item is currently being booked by another request. Please try again.",
				http.StatusConflict)
		}
		return "", apperrors.Internal("Failed to acquire booking lock", err)
	}

	return lockID, nil
}

func (s *bookingService) releaseItemLock(ctx context.Context, lockID string) error {
	return s.lockRepo.Delete(ctx, lockID)
}

func isKnownStatus(status string) bool {
	switch status {
	case model.StatusPending, model.StatusConfirmed, model.StatusPaid, model.StatusActive,
		model.StatusCompleted, model.StatusCancelled, model.StatusRefunded:
		return true
	}
	return false
}
