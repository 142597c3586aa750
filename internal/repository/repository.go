package repository

import (
	"context"
	"errors"
	"time"

	"carrental-backend/internal/domain"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrOverlap is returned when a booking would overlap an active booking for the same car
	ErrOverlap = errors.New("booking overlaps an existing booking")
	// ErrStatusChanged is returned when a conditional update finds the booking
	// in a different status than the caller read
	ErrStatusChanged = errors.New("booking status changed concurrently")
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type CarRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Car, error)
	ListAvailableByLocation(ctx context.Context, location string) ([]domain.Car, error)
}

type BookingRepository interface {
	// Create inserts a pending booking after re-checking overlap under a per-car lock
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	// Update writes status and payment fields only while the stored status is
	// still expected. Otherwise it returns ErrStatusChanged, or ErrNotFound.
	Update(ctx context.Context, booking *domain.Booking, expected domain.BookingStatus) error
	FindOverlapping(ctx context.Context, carID string, pickup, ret time.Time) ([]domain.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Booking, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Booking, error)
	// ListStalePending returns pending bookings with an unpaid order created before cutoff
	ListStalePending(ctx context.Context, cutoff time.Time) ([]domain.Booking, error)
	// ExpirePending cancels a booking only if it is still pending and unpaid
	ExpirePending(ctx context.Context, id string) (bool, error)
}
