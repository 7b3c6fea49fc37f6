package check_availability

import (
	"errors"
	"net/http"

	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/api/handlers"
	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/availability"
	checkAvailability "github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/usecase/check_availability"
)

const (
	msgInvalidCourtID  = "некорректный ID корта"
	msgMissingParams   = "параметры start и end обязательны"
	msgInvalidDateTime = "некорректное время, ожидается YYYY-MM-DDTHH:MM"
	msgCourtNotFound   = "корт не найден"
)

type Handler struct {
	useCase CheckAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase CheckAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/courts/{courtId}/availability?start=...&end=...&tz=...
// Отказ по расписанию возвращается как 200 с available=false и кодом причины
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	courtID, err := handlers.PathUUID(r, "courtId")
	if err != nil {
		h.logger.Warn("GET /courts/{courtId}/availability - Invalid court ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCourtID)
		return
	}

	startStr := handlers.QueryParam(r, "start")
	endStr := handlers.QueryParam(r, "end")
	if startStr == "" || endStr == "" {
		handlers.RespondBadRequest(w, msgMissingParams)
		return
	}

	start, err := availability.ParseLocal(startStr)
	if err != nil {
		h.logger.Warn("GET /courts/{courtId}/availability - Invalid start: court_id=%s, start=%s", courtID, startStr)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}
	end, err := availability.ParseLocal(endStr)
	if err != nil {
		h.logger.Warn("GET /courts/{courtId}/availability - Invalid end: court_id=%s, end=%s", courtID, endStr)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &checkAvailability.Request{
		CourtID:    courtID,
		StartLocal: start,
		EndLocal:   end,
		TimeZone:   handlers.QueryParam(r, "tz"),
	})
	if err != nil {
		switch {
		case errors.Is(err, checkAvailability.ErrCourtNotFound):
			handlers.RespondNotFound(w, msgCourtNotFound)
		case errors.Is(err, checkAvailability.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())
		default:
			h.logger.Error("GET /courts/{courtId}/availability - Failed to check: court_id=%s, error=%v", courtID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
