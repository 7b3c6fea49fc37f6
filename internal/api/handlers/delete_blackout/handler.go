package delete_blackout

import (
	"errors"
	"net/http"

	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/api/handlers"
	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/api/middleware"
	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/service/courts"
)

const (
	msgInvalidCourtID    = "некорректный ID корта"
	msgInvalidBlackoutID = "некорректный ID периода недоступности"
	msgMissingUserID     = "отсутствует ID пользователя"
	msgCourtNotFound     = "корт не найден"
	msgBlackoutNotFound  = "период недоступности не найден"
	msgForbidden         = "доступ запрещен"
)

type Handler struct {
	service CourtService
	logger  Logger
}

func NewHandler(service CourtService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/courts/{courtId}/blackouts/{blackoutId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	courtID, err := handlers.PathUUID(r, "courtId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidCourtID)
		return
	}
	blackoutID, err := handlers.PathUUID(r, "blackoutId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidBlackoutID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	if err := h.service.DeleteBlackout(r.Context(), courtID, blackoutID, userID); err != nil {
		switch {
		case errors.Is(err, courts.ErrBlackoutNotFound):
			handlers.RespondNotFound(w, msgBlackoutNotFound)

		case errors.Is(err, courts.ErrCourtNotFound), errors.Is(err, courts.ErrFacilityNotFound):
			handlers.RespondNotFound(w, msgCourtNotFound)

		case errors.Is(err, courts.ErrAccessDenied):
			h.logger.Warn("DELETE /courts/{courtId}/blackouts/{id} - Access denied: court_id=%s, user_id=%s", courtID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("DELETE /courts/{courtId}/blackouts/{id} - Failed to delete: blackout_id=%s, error=%v", blackoutID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /courts/{courtId}/blackouts/{id} - Blackout deleted: blackout_id=%s, user_id=%s", blackoutID, userID)
	handlers.RespondNoContent(w)
}
