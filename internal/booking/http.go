package booking

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"review-service/internal/httputil"
	"review-service/internal/model"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

type Handler struct {
	service  Service
	validate *validator.Validate
	logger   *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

type reviewRequest struct {
	Content string   `json:"content" validate:"required"`
	Rating  *float64 `json:"rating" validate:"omitempty,gte=0,lte=5"`
}

type bookingRequest struct {
	BookingStatus model.BookingStatus `json:"bookingStatus"`
	StartTime     time.Time           `json:"startTime"`
	EndTime       time.Time           `json:"endTime"`
	TotalDistance int64               `json:"totalDistance" validate:"gte=0"`
	DriverID      int                 `json:"driverId" validate:"gte=0"`
	PassengerID   int                 `json:"passengerId" validate:"gte=0"`
	Review        *reviewRequest      `json:"review" validate:"omitempty"`
}

type passengerReviewRequest struct {
	Content          string   `json:"content" validate:"required"`
	Rating           *float64 `json:"rating" validate:"omitempty,gte=0,lte=5"`
	PassengerComment string   `json:"passengerComment"`
}

func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/passengers", h.CreatePassenger).Methods("POST")
	router.HandleFunc("/api/bookings", h.CreateBooking).Methods("POST")
	router.HandleFunc("/api/bookings/{id}", h.GetBooking).Methods("GET")
	router.HandleFunc("/api/reviews/{id}", h.GetReview).Methods("GET")
	router.HandleFunc("/api/reviews/{id}", h.DeleteReview).Methods("DELETE")
	router.HandleFunc("/api/passenger-reviews", h.CreatePassengerReview).Methods("POST")
	router.HandleFunc("/api/passenger-reviews/{id}", h.GetPassengerReview).Methods("GET")
}

func (h *Handler) CreatePassenger(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("creating passenger")
	passenger, err := h.service.CreatePassenger(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusCreated, passenger)
}

func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req bookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || h.validate.Struct(&req) != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	in := CreateBookingInput{
		Status:        req.BookingStatus,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		TotalDistance: req.TotalDistance,
		DriverID:      req.DriverID,
		PassengerID:   req.PassengerID,
	}
	if req.Review != nil {
		in.Review = &model.ReviewParams{Content: req.Review.Content, Rating: req.Review.Rating}
	}

	h.logger.Info("creating booking", "driver_id", req.DriverID, "passenger_id", req.PassengerID)
	booking, err := h.service.CreateBooking(r.Context(), in)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusCreated, booking)
}

func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathID(r)
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid booking ID")
		return
	}

	h.logger.Info("fetching booking by ID", "id", id)
	booking, err := h.service.GetBookingByID(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, booking)
}

func (h *Handler) GetReview(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathID(r)
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid review ID")
		return
	}

	h.logger.Info("fetching review by ID", "id", id)
	review, err := h.service.GetReviewByID(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, review)
}

func (h *Handler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathID(r)
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid review ID")
		return
	}

	h.logger.Info("deleting review", "id", id)
	if err := h.service.DeleteReview(r.Context(), id); err != nil {
		h.handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) CreatePassengerReview(w http.ResponseWriter, r *http.Request) {
	var req passengerReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || h.validate.Struct(&req) != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	h.logger.Info("creating passenger review")
	review, err := h.service.CreatePassengerReview(r.Context(), model.PassengerReviewParams{
		Content:          req.Content,
		Rating:           req.Rating,
		PassengerComment: req.PassengerComment,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusCreated, review)
}

func (h *Handler) GetPassengerReview(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathID(r)
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid review ID")
		return
	}

	h.logger.Info("fetching passenger review by ID", "id", id)
	review, err := h.service.GetPassengerReviewByID(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, review)
}

func (h *Handler) handleServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrBookingNotFound) || errors.Is(err, ErrReviewNotFound) {
		h.logger.Info("not found", "error", err)
		httputil.RespondWithError(w, http.StatusNotFound, err.Error())
		return
	}
	if errors.Is(err, ErrInvalidInput) {
		h.logger.Info("invalid input", "error", err)
		httputil.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if code := httputil.StoreErrorStatus(err); code != 0 {
		h.logger.Info("rejected by storage", "error", err)
		httputil.RespondWithError(w, code, err.Error())
		return
	}
	h.logger.Error("internal error", "error", err)
	httputil.RespondWithError(w, http.StatusInternalServerError, err.Error())
}
