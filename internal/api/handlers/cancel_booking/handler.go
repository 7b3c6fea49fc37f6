package cancel_booking

import (
	"errors"
	"io"
	"net/http"

	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/api/handlers"
	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/api/middleware"
	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/service/bookings"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgNotFound           = "бронирование не найдено"
	msgForbidden          = "доступ запрещен"
	msgCannotCancel       = "бронирование не может быть отменено"
)

var errorMappings = []handlers.ErrorMapping{
	{Err: bookings.ErrBookingNotFound, Status: http.StatusNotFound, Msg: msgNotFound},
	{Err: bookings.ErrAccessDenied, Status: http.StatusForbidden, Msg: msgForbidden},
	{Err: bookings.ErrInvalidTransition, Status: http.StatusConflict, Msg: msgCannotCancel},
	{Err: bookings.ErrInvalidInput, Status: http.StatusBadRequest},
}

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/cancel
// Тело запроса опционально: {"cancellationReason": "..."}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathUUID(r, "bookingId")
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/cancel - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /bookings/{id}/cancel - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CancelBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("PATCH /bookings/{id}/cancel - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	booking, err := h.service.Cancel(r.Context(), bookingID, req.ToServiceRequest(userID))
	if err != nil {
		if handlers.RespondMapped(w, err, errorMappings) {
			h.logger.Warn("PATCH /bookings/{id}/cancel - booking_id=%s, user_id=%s: %v", bookingID, userID, err)
			return
		}
		h.logger.Error("PATCH /bookings/{id}/cancel - Failed to cancel booking: booking_id=%s, error=%v", bookingID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("PATCH /bookings/{id}/cancel - Booking cancelled successfully: booking_id=%s, user_id=%s",
		bookingID, userID)
	handlers.RespondJSON(w, http.StatusOK, booking)
}
