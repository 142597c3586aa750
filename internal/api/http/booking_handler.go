package http

import (
	"net/http"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/service"
)

type BookingHandler struct {
	svc service.BookingService
}

func NewBookingHandler(svc service.BookingService) *BookingHandler {
	return &BookingHandler{svc: svc}
}

type availabilityRequest struct {
	Location   string `json:"location"`
	PickupDate string `json:"pickupDate"`
	ReturnDate string `json:"returnDate"`
}

type availabilityResponse struct {
	Success       bool         `json:"success"`
	AvailableCars []domain.Car `json:"availableCars"`
}

type createOrderResponse struct {
	Success bool `json:"success"`
	*service.OrderResult
}

type bookingsResponse struct {
	Success  bool             `json:"success"`
	Bookings []domain.Booking `json:"bookings"`
}

type changeStatusRequest struct {
	BookingID string               `json:"bookingId"`
	Status    domain.BookingStatus `json:"status"`
}

func (h *BookingHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	var req availabilityRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	cars, err := h.svc.SearchAvailableCars(r.Context(), req.Location, req.PickupDate, req.ReturnDate)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if cars == nil {
		cars = []domain.Car{}
	}
	writeJSON(w, http.StatusOK, availabilityResponse{Success: true, AvailableCars: cars})
}

func (h *BookingHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req service.CreateOrderInput
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	res, err := h.svc.CreateOrder(r.Context(), UserFromContext(r.Context()), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, createOrderResponse{Success: true, OrderResult: res})
}

func (h *BookingHandler) ListUserBookings(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	bookings, err := h.svc.ListUserBookings(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeBookings(w, bookings)
}

func (h *BookingHandler) ListOwnerBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.svc.ListOwnerBookings(r.Context(), UserFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeBookings(w, bookings)
}

func (h *BookingHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	var req changeStatusRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	user := UserFromContext(r.Context())
	if _, err := h.svc.ChangeStatus(r.Context(), user.ID, req.BookingID, req.Status); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, true, "Status Updated")
}

func writeBookings(w http.ResponseWriter, bookings []domain.Booking) {
	if bookings == nil {
		bookings = []domain.Booking{}
	}
	writeJSON(w, http.StatusOK, bookingsResponse{Success: true, Bookings: bookings})
}
