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

	"github.com/google/uuid"
)

type CreateOrderInput struct {
	CarID      string `json:"car"`
	PickupDate string `json:"pickupDate"`
	ReturnDate string `json:"returnDate"`
	PickupTime string `json:"pickupTime,omitempty"`
	ReturnTime string `json:"returnTime,omitempty"`
	Location   string `json:"location,omitempty"`
	Address    string `json:"address,omitempty"`
}

type Prefill struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Contact string `json:"contact"`
}

// OrderResult is what the checkout needs to open the payment form
type OrderResult struct {
	Key       string               `json:"key"`
	Order     *domain.GatewayOrder `json:"order"`
	BookingID string               `json:"bookingId"`
	Prefill   Prefill              `json:"prefill"`
}

func (s *bookingService) CreateOrder(ctx context.Context, user *domain.User, in CreateOrderInput) (*OrderResult, error) {
	logger.EnterMethod("bookingService.CreateOrder", "carID", in.CarID)

	if strings.TrimSpace(in.CarID) == "" || strings.TrimSpace(in.PickupDate) == "" || strings.TrimSpace(in.ReturnDate) == "" {
		return nil, newError(ErrValidation, "car, pickupDate and returnDate are required.")
	}
	pickup, ret, err := parseRange(in.PickupDate, in.PickupTime, in.ReturnDate, in.ReturnTime)
	if err != nil {
		return nil, err
	}

	car, err := s.carRepo.GetByID(ctx, in.CarID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(ErrNotFound, "Car not found.")
		}
		return nil, fmt.Errorf("get car: %w", err)
	}
	if !car.IsAvailable {
		return nil, newError(ErrUnavailable, "Car is not available.")
	}

	available, err := s.IsAvailable(ctx, car.ID, pickup, ret)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, newError(ErrUnavailable, "Car is not available for the selected dates.")
	}

	price, err := utils.ComputePrice(car.PricePerDay, pickup, ret)
	if err != nil {
		return nil, newError(ErrInvalidPrice, "Invalid price computation for this car.")
	}

	var userID string
	if user != nil {
		userID = user.ID
	}

	req := domain.OrderRequest{
		AmountMinor: utils.ToMinorUnits(price),
		Currency:    s.opts.Currency,
		Receipt:     newReceipt(time.Now()),
		Notes: map[string]string{
			"car":        car.ID,
			"user":       userID,
			"pickupDate": in.PickupDate,
			"returnDate": in.ReturnDate,
			"pickupTime": in.PickupTime,
			"returnTime": in.ReturnTime,
			"location":   in.Location,
			"address":    in.Address,
		},
	}
	order, err := s.gateway.CreateOrder(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create gateway order: %w", err)
	}

	booking := &domain.Booking{
		CarID:      car.ID,
		UserID:     userID,
		OwnerID:    car.OwnerID,
		PickupDate: pickup,
		ReturnDate: ret,
		PickupTime: in.PickupTime,
		ReturnTime: in.ReturnTime,
		Location:   in.Location,
		Address:    in.Address,
		Status:     domain.BookingStatusPending,
		Price:      price,
		Payment: domain.Payment{
			OrderID: order.ID,
			Status:  domain.PaymentStatusCreated,
		},
	}
	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		// Nothing references the gateway order now. It lapses unpaid.
		logger.Error("Orphaned gateway order", "orderID", order.ID, "receipt", req.Receipt, "carID", car.ID, "error", err)
		switch {
		case errors.Is(err, repository.ErrOverlap):
			return nil, newError(ErrUnavailable, "Car is not available for the selected dates.")
		case errors.Is(err, repository.ErrNotFound):
			return nil, newError(ErrNotFound, "Car not found.")
		}
		return nil, fmt.Errorf("persist booking: %w", err)
	}

	logger.Info("Booking order created", "bookingID", booking.ID, "orderID", order.ID, "amount", req.AmountMinor)

	result := &OrderResult{
		Key:       s.opts.KeyID,
		Order:     order,
		BookingID: booking.ID,
	}
	if user != nil {
		result.Prefill = Prefill{Name: user.Name, Email: user.Email, Contact: user.Phone}
	}
	return result, nil
}

// newReceipt returns rcpt_<unix millis>_<6 hex chars>
func newReceipt(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	return fmt.Sprintf("rcpt_%d_%s", now.UnixMilli(), suffix)
}
