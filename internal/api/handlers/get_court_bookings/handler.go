package get_court_bookings

import (
	"errors"
	"net/http"
	"time"

	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/api/handlers"
	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/api/middleware"
	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/service/bookings"
	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/service/bookings/models"
)

const (
	msgInvalidCourtID = "некорректный ID корта"
	msgInvalidTime    = "некорректное время, ожидается RFC 3339"
	msgInvalidFilter  = "некорректный фильтр"
	msgMissingUserID  = "отсутствует ID пользователя"
	msgCourtNotFound  = "корт не найден"
	msgForbidden      = "доступ запрещен"
)

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

// Handle GET /api/v1/courts/{courtId}/bookings
// Query params: from, to (optional, RFC 3339), state (optional)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	courtID, err := handlers.PathUUID(r, "courtId")
	if err != nil {
		h.logger.Warn("GET /courts/{courtId}/bookings - Invalid court ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCourtID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	serviceReq := &models.GetCourtBookingsRequest{
		UserID:  userID,
		CourtID: courtID,
	}

	if serviceReq.From, err = parseOptionalTime(handlers.QueryParam(r, "from")); err != nil {
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}
	if serviceReq.To, err = parseOptionalTime(handlers.QueryParam(r, "to")); err != nil {
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}
	if state := handlers.QueryParam(r, "state"); state != "" {
		serviceReq.State = &state
	}

	result, err := h.service.GetCourtBookings(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidFilter)

		case errors.Is(err, bookings.ErrCourtNotFound), errors.Is(err, bookings.ErrFacilityNotFound):
			handlers.RespondNotFound(w, msgCourtNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("GET /courts/{courtId}/bookings - Access denied: court_id=%s, user_id=%s", courtID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /courts/{courtId}/bookings - Failed to get bookings: court_id=%s, error=%v", courtID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /courts/{courtId}/bookings - Bookings retrieved: court_id=%s, count=%d",
		courtID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result.Bookings)
}

func parseOptionalTime(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
