package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/api/handlers"
	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/domain"
	getAvailableSlots "github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/usecase/get_available_slots"
)

const (
	msgInvalidCourtID  = "некорректный ID корта"
	msgMissingDate     = "дата обязательна"
	msgInvalidDate     = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgPastDate        = "дата в прошлом"
	msgInvalidDuration = "некорректная длительность слота"
	msgCourtNotFound   = "корт не найден"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/courts/{courtId}/available-slots
// Query params: date (required, YYYY-MM-DD), duration (optional, минуты)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	courtID, err := handlers.PathUUID(r, "courtId")
	if err != nil {
		h.logger.Warn("GET /courts/{courtId}/available-slots - Invalid court ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCourtID)
		return
	}

	dateStr := handlers.QueryParam(r, "date")
	if dateStr == "" {
		h.logger.Warn("GET /courts/{courtId}/available-slots - Missing date: court_id=%s", courtID)
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		h.logger.Warn("GET /courts/{courtId}/available-slots - Invalid date format: court_id=%s, date=%s", courtID, dateStr)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	var duration int
	if durationStr := handlers.QueryParam(r, "duration"); durationStr != "" {
		duration, err = strconv.Atoi(durationStr)
		if err != nil || duration <= 0 {
			h.logger.Warn("GET /courts/{courtId}/available-slots - Invalid duration: court_id=%s, duration=%s", courtID, durationStr)
			handlers.RespondBadRequest(w, msgInvalidDuration)
			return
		}
	}

	result, err := h.useCase.Execute(r.Context(), &getAvailableSlots.Request{
		CourtID:         courtID,
		Date:            date,
		DurationMinutes: duration,
	})
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrCourtNotFound):
			h.logger.Warn("GET /courts/{courtId}/available-slots - Court not found: court_id=%s", courtID)
			handlers.RespondNotFound(w, msgCourtNotFound)

		case errors.Is(err, getAvailableSlots.ErrInvalidDate):
			h.logger.Warn("GET /courts/{courtId}/available-slots - Past date: court_id=%s, date=%s", courtID, dateStr)
			handlers.RespondBadRequest(w, msgPastDate)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidDuration)

		default:
			h.logger.Error("GET /courts/{courtId}/available-slots - Failed to get slots: court_id=%s, date=%s, error=%v",
				courtID, dateStr, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /courts/{courtId}/available-slots - Found %d slots: court_id=%s, date=%s",
		len(result.Slots), courtID, dateStr)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
