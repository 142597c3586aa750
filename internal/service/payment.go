package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/logger"
	"carrental-backend/internal/repository"
	"carrental-backend/internal/security"
)

type VerifyPaymentInput struct {
	BookingID string `json:"bookingId"`
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
}

func (s *bookingService) VerifyPayment(ctx context.Context, in VerifyPaymentInput) (*domain.Booking, error) {
	logger.EnterMethod("bookingService.VerifyPayment", "bookingID", in.BookingID, "orderID", in.OrderID)

	if strings.TrimSpace(in.BookingID) == "" || in.OrderID == "" || in.PaymentID == "" || in.Signature == "" {
		return nil, newError(ErrValidation, "bookingId, razorpay_order_id, razorpay_payment_id and razorpay_signature are required.")
	}

	if !security.VerifySignature(s.opts.KeySecret, in.OrderID, in.PaymentID, in.Signature) {
		logger.Warn("Payment signature mismatch", "bookingID", in.BookingID, "orderID", in.OrderID)
		return nil, newError(ErrInvalidSignature, "Invalid signature")
	}

	for attempt := 1; ; attempt++ {
		booking, err := s.bookingRepo.GetByID(ctx, in.BookingID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, newError(ErrNotFound, "Booking not found")
			}
			return nil, fmt.Errorf("get booking: %w", err)
		}

		if booking.Payment.OrderID != "" && booking.Payment.OrderID != in.OrderID {
			logger.Warn("Payment order does not match booking", "bookingID", booking.ID, "expected", booking.Payment.OrderID, "got", in.OrderID)
			return nil, newError(ErrInvalidSignature, "Order does not match booking")
		}

		if booking.Status == domain.BookingStatusCancelled {
			logger.Warn("Payment received for cancelled booking, refund required",
				"bookingID", booking.ID, "orderID", in.OrderID, "paymentID", in.PaymentID)
			return nil, newError(ErrUnavailable, "Booking has been cancelled")
		}

		expected := booking.Status
		alreadyPaid := booking.Status == domain.BookingStatusConfirmed && booking.Payment.Status == domain.PaymentStatusPaid

		booking.Status = domain.BookingStatusConfirmed
		booking.Payment.OrderID = in.OrderID
		booking.Payment.PaymentID = in.PaymentID
		booking.Payment.Signature = in.Signature
		booking.Payment.Status = domain.PaymentStatusPaid

		err = s.bookingRepo.Update(ctx, booking, expected)
		if errors.Is(err, repository.ErrStatusChanged) && attempt < maxStatusAttempts {
			logger.Warn("Booking changed during payment verification, re-reading", "bookingID", booking.ID, "attempt", attempt)
			continue
		}
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, newError(ErrNotFound, "Booking not found")
			}
			return nil, fmt.Errorf("update booking: %w", err)
		}

		logger.Info("Payment verified", "bookingID", booking.ID, "paymentID", in.PaymentID)

		if !alreadyPaid {
			s.notifyConfirmed(ctx, booking)
		}
		return booking, nil
	}
}

// notifyConfirmed sends the confirmation email. Failures are logged only.
func (s *bookingService) notifyConfirmed(ctx context.Context, booking *domain.Booking) {
	if s.emailSvc == nil {
		return
	}
	user, err := s.userRepo.GetByID(ctx, booking.UserID)
	if err != nil {
		logger.Warn("Skipping confirmation email, user lookup failed", "bookingID", booking.ID, "error", err)
		return
	}
	car, err := s.carRepo.GetByID(ctx, booking.CarID)
	if err != nil {
		logger.Warn("Skipping confirmation email, car lookup failed", "bookingID", booking.ID, "error", err)
		return
	}
	if err := s.emailSvc.SendBookingConfirmation(ctx, user.Email, user.Name, booking, car); err != nil {
		logger.Error("Failed to send booking confirmation", "bookingID", booking.ID, "error", err)
	}
}
