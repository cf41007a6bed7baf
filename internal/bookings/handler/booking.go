package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"studio/internal/auth"
	"studio/internal/bookings/service"
	apperrors "studio/pkg/errors"
	httputil "studio/pkg/http"
	"studio/pkg/logger"
	"studio/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type BookingHandler struct {
	service service.BookingService
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log,
	}
}

type ReserveResponse struct {
	BookingID string `json:"booking_id"`
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/slots", h.ListOpenSlots)
	router.GET("/api/v1/slots/locations", h.ListLocations)
	router.GET("/api/v1/slots/id/:id", h.GetSlot)
	router.POST("/api/v1/slots/id/:id/bookings", h.ReserveSlot)

	router.GET("/api/v1/bookings/me", h.GetUserBookings)
	router.POST("/api/v1/bookings/id/:id/cancel", h.CancelBooking)

	router.POST("/api/v1/admin/slots", h.CreateSlot)
	router.PATCH("/api/v1/admin/slots/id/:id", h.UpdateSlot)
	router.DELETE("/api/v1/admin/slots/id/:id", h.DeleteSlot)
	router.GET("/api/v1/admin/slots/id/:id/bookings", h.ListSlotBookings)
	router.GET("/api/v1/admin/bookings", h.ListAllBookings)
	router.GET("/api/v1/admin/bookings/stats", h.BookingStats)
}

func (h *BookingHandler) ListOpenSlots(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	slots, err := h.service.ListOpenSlots(r.Context())
	if err != nil {
		h.writeError(w, "ListOpenSlots", err)
		return
	}

	if err := httputil.WriteSuccess(w, slots); err != nil {
		h.log.Error("failed to write success response", "handler", "ListOpenSlots", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) ListLocations(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	locations, err := h.service.ListLocations(r.Context())
	if err != nil {
		h.writeError(w, "ListLocations", err)
		return
	}

	if err := httputil.WriteSuccess(w, locations); err != nil {
		h.log.Error("failed to write success response", "handler", "ListLocations", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) GetSlot(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	slot, err := h.service.GetSlot(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetSlot", err)
		return
	}

	if err := httputil.WriteSuccess(w, slot); err != nil {
		h.log.Error("failed to write success response", "handler", "GetSlot", "operation", "WriteSuccess", "error", err)
	}
}

// ReserveSlot accepts an optional body with the member's contact details.
func (h *BookingHandler) ReserveSlot(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var contact model.BookingContact
	if err := decodeOptional(r, &contact); err != nil {
		h.writeError(w, "ReserveSlot", err)
		return
	}

	bookingID, err := h.service.ReserveSlot(r.Context(), principal(r), ps.ByName("id"), &contact)
	if err != nil {
		h.writeError(w, "ReserveSlot", err)
		return
	}

	if err := httputil.WriteCreated(w, ReserveResponse{BookingID: bookingID}); err != nil {
		h.log.Error("failed to write created response", "handler", "ReserveSlot", "operation", "WriteCreated", "error", err)
	}
}

func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.CancelBooking(r.Context(), principal(r), ps.ByName("id")); err != nil {
		h.writeError(w, "CancelBooking", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *BookingHandler) GetUserBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	bookings, err := h.service.GetUserBookings(r.Context(), principal(r))
	if err != nil {
		h.writeError(w, "GetUserBookings", err)
		return
	}

	if err := httputil.WriteSuccess(w, bookings); err != nil {
		h.log.Error("failed to write success response", "handler", "GetUserBookings", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) CreateSlot(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var slot model.Slot
	if err := json.NewDecoder(r.Body).Decode(&slot); err != nil {
		h.writeError(w, "CreateSlot", invalidBody(err))
		return
	}

	if err := h.service.CreateSlot(r.Context(), principal(r), &slot); err != nil {
		h.writeError(w, "CreateSlot", err)
		return
	}

	if err := httputil.WriteCreated(w, slot); err != nil {
		h.log.Error("failed to write created response", "handler", "CreateSlot", "operation", "WriteCreated", "error", err)
	}
}

func (h *BookingHandler) UpdateSlot(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var update model.SlotUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		h.writeError(w, "UpdateSlot", invalidBody(err))
		return
	}

	slot, err := h.service.UpdateSlot(r.Context(), principal(r), ps.ByName("id"), &update)
	if err != nil {
		h.writeError(w, "UpdateSlot", err)
		return
	}

	if err := httputil.WriteSuccess(w, slot); err != nil {
		h.log.Error("failed to write success response", "handler", "UpdateSlot", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) DeleteSlot(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.DeleteSlot(r.Context(), principal(r), ps.ByName("id")); err != nil {
		h.writeError(w, "DeleteSlot", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *BookingHandler) ListSlotBookings(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	bookings, err := h.service.ListSlotBookings(r.Context(), principal(r), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "ListSlotBookings", err)
		return
	}

	if err := httputil.WriteSuccess(w, bookings); err != nil {
		h.log.Error("failed to write success response", "handler", "ListSlotBookings", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) ListAllBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "ListAllBookings", err)
		return
	}

	bookings, total, err := h.service.ListAllBookings(r.Context(), principal(r), limit, offset)
	if err != nil {
		h.writeError(w, "ListAllBookings", err)
		return
	}

	if err := httputil.WritePaginated(w, bookings, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "ListAllBookings", "operation", "WritePaginated", "error", err)
	}
}

func (h *BookingHandler) BookingStats(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	stats, err := h.service.BookingStats(r.Context(), principal(r))
	if err != nil {
		h.writeError(w, "BookingStats", err)
		return
	}

	if err := httputil.WriteSuccess(w, stats); err != nil {
		h.log.Error("failed to write success response", "handler", "BookingStats", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

// principal is the zero Principal for anonymous requests; the service
// answers those with UNAUTHORIZED where a caller is required.
func principal(r *http.Request) auth.Principal {
	p, _ := auth.FromContext(r.Context())
	return p
}

func decodeOptional(r *http.Request, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return invalidBody(err)
	}
	return nil
}

func invalidBody(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return apperrors.New("REQUEST_TOO_LARGE", "Request body too large", http.StatusRequestEntityTooLarge)
	}
	return apperrors.InvalidInput("Invalid request body")
}
