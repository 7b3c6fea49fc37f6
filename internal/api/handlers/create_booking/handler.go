package create_booking

import (
	"errors"
	"net/http"

	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/api/handlers"
	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/api/middleware"
	createBooking "github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDateTime    = "некорректное время, ожидается YYYY-MM-DDTHH:MM"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgCourtNotFound      = "корт не найден"
	msgCourtLocked        = "корт заблокирован"
	msgInvalidWindow      = "некорректное окно бронирования"
	msgCourtClosed        = "корт не работает в этот день"
	msgOutsideHours       = "окно выходит за часы работы корта"
	msgBookingConflict    = "окно пересекается с другим бронированием"
	msgBlackoutConflict   = "корт закрыт на это время"
	msgRetry              = "не удалось сохранить бронирование, повторите запрос"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: user_id=%s, error=%v", userID, err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, createBooking.ErrCourtNotFound):
			h.logger.Warn("POST /bookings - Court not found: court_id=%s", req.CourtID)
			handlers.RespondNotFound(w, msgCourtNotFound)

		case errors.Is(err, createBooking.ErrResourceLocked):
			h.logger.Warn("POST /bookings - Court locked: court_id=%s", req.CourtID)
			handlers.RespondLocked(w, msgCourtLocked)

		case errors.Is(err, createBooking.ErrInvalidWindow):
			h.logger.Warn("POST /bookings - Invalid window: court_id=%s, error=%v", req.CourtID, err)
			handlers.RespondBadRequest(w, msgInvalidWindow)

		case errors.Is(err, createBooking.ErrResourceClosed):
			h.logger.Warn("POST /bookings - Court closed: court_id=%s", req.CourtID)
			handlers.RespondUnprocessable(w, msgCourtClosed)

		case errors.Is(err, createBooking.ErrOutsideOperatingHours):
			h.logger.Warn("POST /bookings - Outside operating hours: court_id=%s", req.CourtID)
			handlers.RespondUnprocessable(w, msgOutsideHours)

		case errors.Is(err, createBooking.ErrBookingConflict):
			h.logger.Warn("POST /bookings - Booking conflict: court_id=%s, user_id=%s", req.CourtID, userID)
			handlers.RespondConflict(w, msgBookingConflict)

		case errors.Is(err, createBooking.ErrBlackoutConflict):
			h.logger.Warn("POST /bookings - Blackout conflict: court_id=%s", req.CourtID)
			handlers.RespondConflict(w, msgBlackoutConflict)

		case errors.Is(err, createBooking.ErrPersistenceFailure):
			h.logger.Error("POST /bookings - Persistence failure: court_id=%s, error=%v", req.CourtID, err)
			handlers.RespondServiceUnavailable(w, msgRetry)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: user_id=%s, court_id=%s, error=%v",
				userID, req.CourtID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%s, user_id=%s, court_id=%s",
		result.ID, userID, req.CourtID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
