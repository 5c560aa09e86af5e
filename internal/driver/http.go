package driver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

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

type driverRequest struct {
	Name          string `json:"name" validate:"required"`
	LicenseNumber string `json:"licenseNumber" validate:"required"`
}

func (req driverRequest) params() model.DriverParams {
	return model.DriverParams{Name: req.Name, LicenseNumber: req.LicenseNumber}
}

func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/drivers", h.CreateDriver).Methods("POST")
	router.HandleFunc("/api/drivers", h.GetAllDrivers).Methods("GET")
	router.HandleFunc("/api/drivers/{id}", h.GetDriver).Methods("GET")
	router.HandleFunc("/api/drivers/{id}", h.UpdateDriver).Methods("PUT")
	router.HandleFunc("/api/drivers/{id}", h.DeleteDriver).Methods("DELETE")
	router.HandleFunc("/api/drivers/{id}/license/{licenseNumber}", h.GetDriverByLicense).Methods("GET")
	router.HandleFunc("/api/drivers/{id}/bookings", h.GetDriverBookings).Methods("GET")
}

func (h *Handler) CreateDriver(w http.ResponseWriter, r *http.Request) {
	var req driverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || h.validate.Struct(&req) != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	h.logger.Info("creating driver", "name", req.Name)
	driver, err := h.service.CreateDriver(r.Context(), req.params())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusCreated, driver)
}

func (h *Handler) GetAllDrivers(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("fetching all drivers")

	drivers, err := h.service.GetAllDrivers(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, drivers)
}

func (h *Handler) GetDriver(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathID(r)
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid driver ID")
		return
	}

	h.logger.Info("fetching driver by ID", "id", id)
	driver, err := h.service.GetDriverByID(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, driver)
}

func (h *Handler) GetDriverByLicense(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathID(r)
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid driver ID")
		return
	}
	licenseNumber := mux.Vars(r)["licenseNumber"]

	h.logger.Info("fetching driver by ID and license number", "id", id)
	driver, err := h.service.GetDriverByIDAndLicense(r.Context(), id, licenseNumber)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, driver)
}

func (h *Handler) UpdateDriver(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathID(r)
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid driver ID")
		return
	}

	var req driverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || h.validate.Struct(&req) != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	h.logger.Info("updating driver", "id", id)
	driver, err := h.service.UpdateDriver(r.Context(), id, req.params())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, driver)
}

func (h *Handler) DeleteDriver(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathID(r)
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid driver ID")
		return
	}

	h.logger.Info("deleting driver", "id", id)
	if err := h.service.DeleteDriver(r.Context(), id); err != nil {
		h.handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetDriverBookings(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathID(r)
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid driver ID")
		return
	}

	h.logger.Info("fetching driver bookings", "id", id)
	bookings, err := h.service.GetDriverBookings(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, bookings)
}

func (h *Handler) handleServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrDriverNotFound) {
		h.logger.Info("driver not found")
		httputil.RespondWithError(w, http.StatusNotFound, "Driver not found")
		return
	}
	if errors.Is(err, ErrInvalidInput) {
		h.logger.Info("invalid input")
		httputil.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	switch code := httputil.StoreErrorStatus(err); code {
	case http.StatusNotFound:
		h.logger.Info("driver not found")
		httputil.RespondWithError(w, code, "Driver not found")
		return
	case http.StatusConflict, http.StatusBadRequest:
		h.logger.Info("rejected by storage", "error", err)
		httputil.RespondWithError(w, code, err.Error())
		return
	}
	h.logger.Error("internal error", "error", err)
	httputil.RespondWithError(w, http.StatusInternalServerError, err.Error())
}
