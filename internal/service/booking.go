package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/logger"
	"carrental-backend/internal/repository"
	"carrental-backend/internal/utils"
)

const (
	defaultCurrency   = "INR"
	defaultPendingTTL = 30 * time.Minute

	// a conditional write that loses to a concurrent change is re-read this many times
	maxStatusAttempts = 3
)

// BookingOptions holds the gateway credentials and lifecycle settings
type BookingOptions struct {
	KeyID      string
	KeySecret  string
	Currency   string
	PendingTTL time.Duration
}

type bookingService struct {
	bookingRepo repository.BookingRepository
	carRepo     repository.CarRepository
	userRepo    repository.UserRepository
	gateway     PaymentGateway
	emailSvc    EmailService
	opts        BookingOptions
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	carRepo repository.CarRepository,
	userRepo repository.UserRepository,
	gateway PaymentGateway,
	emailSvc EmailService,
	opts BookingOptions,
) BookingService {
	if opts.Currency == "" {
		opts.Currency = defaultCurrency
	}
	if opts.PendingTTL <= 0 {
		opts.PendingTTL = defaultPendingTTL
	}
	return &bookingService{
		bookingRepo: bookingRepo,
		carRepo:     carRepo,
		userRepo:    userRepo,
		gateway:     gateway,
		emailSvc:    emailSvc,
		opts:        opts,
	}
}

func (s *bookingService) IsAvailable(ctx context.Context, carID string, pickup, ret time.Time) (bool, error) {
	existing, err := s.bookingRepo.FindOverlapping(ctx, carID, pickup, ret)
	if err != nil {
		return false, fmt.Errorf("find overlapping bookings: %w", err)
	}
	return domain.IsAvailable(existing, carID, domain.DateRange{Start: pickup, End: ret}), nil
}

func (s *bookingService) SearchAvailableCars(ctx context.Context, location, pickupDate, returnDate string) ([]domain.Car, error) {
	logger.EnterMethod("bookingService.SearchAvailableCars", "location", location)

	if strings.TrimSpace(location) == "" || strings.TrimSpace(pickupDate) == "" || strings.TrimSpace(returnDate) == "" {
		return nil, newError(ErrValidation, "location, pickupDate and returnDate are required.")
	}
	pickup, ret, err := parseSearchDates(pickupDate, returnDate)
	if err != nil {
		return nil, err
	}

	cars, err := s.carRepo.ListAvailableByLocation(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("list cars: %w", err)
	}

	available := make([]domain.Car, 0, len(cars))
	for _, car := range cars {
		ok, err := s.IsAvailable(ctx, car.ID, pickup, ret)
		if err != nil {
			return nil, err
		}
		if ok {
			available = append(available, car)
		}
	}

	logger.ExitMethod("bookingService.SearchAvailableCars", "candidates", len(cars), "available", len(available))
	return available, nil
}

func (s *bookingService) ListUserBookings(ctx context.Context, userID string) ([]domain.Booking, error) {
	bookings, err := s.bookingRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list user bookings: %w", err)
	}
	return bookings, nil
}

func (s *bookingService) ListOwnerBookings(ctx context.Context, caller *domain.User) ([]domain.Booking, error) {
	if !caller.IsOwner() {
		return nil, newError(ErrUnauthorized, "Unauthorized")
	}
	bookings, err := s.bookingRepo.ListByOwner(ctx, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("list owner bookings: %w", err)
	}
	return bookings, nil
}

func (s *bookingService) ChangeStatus(ctx context.Context, callerID, bookingID string, status domain.BookingStatus) (*domain.Booking, error) {
	logger.EnterMethod("bookingService.ChangeStatus", "bookingID", bookingID, "status", status)

	if !status.Valid() {
		return nil, newError(ErrValidation, "Invalid status.")
	}

	for attempt := 1; ; attempt++ {
		booking, err := s.bookingRepo.GetByID(ctx, bookingID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, newError(ErrNotFound, "Booking not found")
			}
			return nil, fmt.Errorf("get booking: %w", err)
		}

		if booking.OwnerID != callerID {
			return nil, newError(ErrUnauthorized, "Unauthorized")
		}
		if !booking.Status.CanTransitionTo(status) {
			return nil, newError(ErrValidation, fmt.Sprintf("Cannot change status from %s to %s.", booking.Status, status))
		}
		if booking.Status == status {
			return booking, nil
		}

		expected := booking.Status
		booking.Status = status
		err = s.bookingRepo.Update(ctx, booking, expected)
		if errors.Is(err, repository.ErrStatusChanged) && attempt < maxStatusAttempts {
			logger.Warn("Booking changed during status update, re-reading", "bookingID", booking.ID, "attempt", attempt)
			continue
		}
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, newError(ErrNotFound, "Booking not found")
			}
			return nil, fmt.Errorf("update booking: %w", err)
		}

		logger.Info("Booking status changed", "bookingID", booking.ID, "from", expected, "status", status, "ownerID", callerID)
		return booking, nil
	}
}

func (s *bookingService) ExpireStalePending(ctx context.Context) (int, error) {
	cutoff := time.Now().UTC().Add(-s.opts.PendingTTL)
	stale, err := s.bookingRepo.ListStalePending(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("list stale bookings: %w", err)
	}

	expired := 0
	for _, b := range stale {
		if err := ctx.Err(); err != nil {
			return expired, err
		}
		ok, err := s.bookingRepo.ExpirePending(ctx, b.ID)
		if err != nil {
			logger.Error("Failed to expire pending booking", "bookingID", b.ID, "error", err)
			continue
		}
		if ok {
			expired++
			logger.Info("Expired pending booking", "bookingID", b.ID, "orderID", b.Payment.OrderID)
		}
	}
	return expired, nil
}

// parseRange checks that the return instant (date plus time, defaulting to
// 10:00) is strictly after pickup, then returns the pickup and return dates.
// Bookings are stored, priced and compared by date.
func parseRange(pickupDate, pickupTime, returnDate, returnTime string) (time.Time, time.Time, error) {
	pickup, err := utils.CombineDateTime(pickupDate, pickupTime)
	if err != nil {
		return time.Time{}, time.Time{}, newError(ErrValidation, "Invalid pickup/return date or time.")
	}
	ret, err := utils.CombineDateTime(returnDate, returnTime)
	if err != nil {
		return time.Time{}, time.Time{}, newError(ErrValidation, "Invalid pickup/return date or time.")
	}
	if !ret.After(pickup) {
		return time.Time{}, time.Time{}, newError(ErrValidation, "Return must be after pickup.")
	}
	return utils.DateOf(pickup), utils.DateOf(ret), nil
}

// parseSearchDates parses a search window. Equal dates are a same-day search.
func parseSearchDates(pickupDate, returnDate string) (time.Time, time.Time, error) {
	pickup, err := utils.ParseDate(pickupDate)
	if err != nil {
		return time.Time{}, time.Time{}, newError(ErrValidation, "Invalid pickup/return date.")
	}
	ret, err := utils.ParseDate(returnDate)
	if err != nil {
		return time.Time{}, time.Time{}, newError(ErrValidation, "Invalid pickup/return date.")
	}
	if ret.Before(pickup) {
		return time.Time{}, time.Time{}, newError(ErrValidation, "Return date cannot be before pickup date.")
	}
	return pickup, ret, nil
}
