package http

import (
	"net/http"

	"carrental-backend/internal/service"
)

type PaymentHandler struct {
	svc service.BookingService
}

func NewPaymentHandler(svc service.BookingService) *PaymentHandler {
	return &PaymentHandler{svc: svc}
}

type verifyResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	BookingID string `json:"bookingId"`
}

func (h *PaymentHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req service.VerifyPaymentInput
	if err := decodeBody(r, &req); err != nil {
		writeVerifyError(w, r, err)
		return
	}

	booking, err := h.svc.VerifyPayment(r.Context(), req)
	if err != nil {
		writeVerifyError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, verifyResponse{Success: true, Message: "Payment verified", BookingID: booking.ID})
}
