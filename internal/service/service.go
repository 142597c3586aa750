package service

import (
	"context"
	"time"

	"carrental-backend/internal/domain"
)

type AuthService interface {
	// Login returns an access token and the authenticated user
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	// Authenticate resolves an access token into the calling user
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

type BookingService interface {
	IsAvailable(ctx context.Context, carID string, pickup, ret time.Time) (bool, error)
	SearchAvailableCars(ctx context.Context, location, pickupDate, returnDate string) ([]domain.Car, error)
	CreateOrder(ctx context.Context, user *domain.User, in CreateOrderInput) (*OrderResult, error)
	VerifyPayment(ctx context.Context, in VerifyPaymentInput) (*domain.Booking, error)
	ListUserBookings(ctx context.Context, userID string) ([]domain.Booking, error)
	ListOwnerBookings(ctx context.Context, caller *domain.User) ([]domain.Booking, error)
	ChangeStatus(ctx context.Context, callerID, bookingID string, status domain.BookingStatus) (*domain.Booking, error)
	// ExpireStalePending cancels unpaid pending bookings older than the configured TTL
	ExpireStalePending(ctx context.Context) (int, error)
}

// PaymentGateway creates payment orders with the external provider
type PaymentGateway interface {
	CreateOrder(ctx context.Context, req domain.OrderRequest) (*domain.GatewayOrder, error)
}

type EmailService interface {
	SendBookingConfirmation(ctx context.Context, to, name string, booking *domain.Booking, car *domain.Car) error
}
