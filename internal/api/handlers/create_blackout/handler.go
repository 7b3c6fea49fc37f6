package create_blackout

import (
	"errors"
	"net/http"

	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/api/handlers"
	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/api/middleware"
	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/service/courts"
)

const (
	msgInvalidCourtID     = "некорректный ID корта"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgCourtNotFound      = "корт не найден"
	msgForbidden          = "доступ запрещен"
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

// Handle POST /api/v1/courts/{courtId}/blackouts
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	courtID, err := handlers.PathUUID(r, "courtId")
	if err != nil {
		h.logger.Warn("POST /courts/{courtId}/blackouts - Invalid court ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCourtID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBlackoutRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /courts/{courtId}/blackouts - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.CreateBlackout(r.Context(), req.ToServiceRequest(courtID, userID))
	if err != nil {
		switch {
		case errors.Is(err, courts.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, courts.ErrCourtNotFound), errors.Is(err, courts.ErrFacilityNotFound):
			handlers.RespondNotFound(w, msgCourtNotFound)

		case errors.Is(err, courts.ErrAccessDenied):
			h.logger.Warn("POST /courts/{courtId}/blackouts - Access denied: court_id=%s, user_id=%s", courtID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("POST /courts/{courtId}/blackouts - Failed to create blackout: court_id=%s, error=%v", courtID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /courts/{courtId}/blackouts - Blackout created: blackout_id=%s, court_id=%s", result.ID, courtID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
