package domain

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Valid reports whether s is one of the known booking statuses.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether an owner may move a booking from s to next.
// Confirmation is reserved for payment verification and is not reachable here.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	if s == next {
		return true
	}
	switch s {
	case BookingStatusPending, BookingStatusConfirmed:
		return next == BookingStatusCancelled
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusCreated PaymentStatus = "created"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

type Payment struct {
	OrderID   string        `json:"orderId,omitempty"`
	PaymentID string        `json:"paymentId,omitempty"`
	Signature string        `json:"signature,omitempty"`
	Method    string        `json:"method,omitempty"`
	Status    PaymentStatus `json:"status"`
}

type Booking struct {
	ID         string        `json:"_id"`
	CarID      string        `json:"carId"`
	Car        *Car          `json:"car,omitempty"` // Populated on list queries
	UserID     string        `json:"userId"`
	User       *User         `json:"user,omitempty"` // Populated on owner list queries
	OwnerID    string        `json:"owner"`
	PickupDate time.Time     `json:"pickupDate"`
	ReturnDate time.Time     `json:"returnDate"`
	PickupTime string        `json:"pickupTime,omitempty"`
	ReturnTime string        `json:"returnTime,omitempty"`
	Location   string        `json:"location,omitempty"`
	Address    string        `json:"address,omitempty"`
	Status     BookingStatus `json:"status"`
	Price      float64       `json:"price"`
	Payment    Payment       `json:"payment"`
	CreatedAt  time.Time     `json:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt"`
}

// Range returns the reserved date interval of the booking.
func (b *Booking) Range() DateRange {
	return DateRange{Start: b.PickupDate, End: b.ReturnDate}
}
