package http

import (
	"net/http"
	"time"

	"carrental-backend/internal/idempotency"
	"carrental-backend/internal/service"

	"github.com/gorilla/mux"
)

// RouterDeps are the collaborators the HTTP layer needs
type RouterDeps struct {
	Auth           service.AuthService
	Bookings       service.BookingService
	Idempotency    idempotency.Store
	IdempotencyTTL time.Duration
	RateLimiter    *RateLimiter
}

func NewRouter(d RouterDeps) *mux.Router {
	r := mux.NewRouter()
	r.Use(RequestLogger)
	r.Use(AuthMiddleware(d.Auth))

	users := NewUserHandler(d.Auth)
	bookings := NewBookingHandler(d.Bookings)
	payments := NewPaymentHandler(d.Bookings)

	limited := func(h http.Handler) http.Handler {
		if d.RateLimiter == nil {
			return h
		}
		return d.RateLimiter.Limit(h)
	}
	idempotent := func(h http.Handler) http.Handler {
		if d.Idempotency == nil {
			return h
		}
		return idempotency.Middleware(d.Idempotency, d.IdempotencyTTL, callerID)(h)
	}

	r.HandleFunc("/health", health).Methods(http.MethodGet)

	r.HandleFunc("/api/user/login", users.Login).Methods(http.MethodPost)
	r.HandleFunc("/api/user/data", users.GetUserData).Methods(http.MethodGet)

	r.HandleFunc("/api/bookings/check-availability", bookings.CheckAvailability).Methods(http.MethodPost)
	r.Handle("/api/bookings/create", limited(idempotent(http.HandlerFunc(bookings.CreateOrder)))).Methods(http.MethodPost)
	r.HandleFunc("/api/bookings/user", bookings.ListUserBookings).Methods(http.MethodGet)
	r.HandleFunc("/api/bookings/owner", bookings.ListOwnerBookings).Methods(http.MethodGet)
	r.HandleFunc("/api/bookings/change-status", bookings.ChangeStatus).Methods(http.MethodPost)

	r.Handle("/api/payments/verify", limited(http.HandlerFunc(payments.Verify))).Methods(http.MethodPost)

	return r
}

func callerID(r *http.Request) string {
	if user := UserFromContext(r.Context()); user != nil {
		return user.ID
	}
	return ""
}

func health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
