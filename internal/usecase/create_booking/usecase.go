package create_booking

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/availability"
	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/domain"
	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/events"
	bookingRepo "github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/infra/storage/booking"
	courtRepo "github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/infra/storage/court"
	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/pkg/tracing"
)

var tracer = tracing.Tracer("badcourt/usecase/create_booking")

// verdictErrors сопоставляет отказ проверки с ошибкой use case
var verdictErrors = map[availability.Reason]error{
	availability.ReasonResourceLocked:        ErrResourceLocked,
	availability.ReasonInvalidWindow:         ErrInvalidWindow,
	availability.ReasonResourceClosed:        ErrResourceClosed,
	availability.ReasonOutsideOperatingHours: ErrOutsideOperatingHours,
	availability.ReasonBookingConflict:       ErrBookingConflict,
	availability.ReasonBlackoutConflict:      ErrBlackoutConflict,
}

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	courtRepo    CourtRepository
	txManager    TransactionManager
	publisher    EventPublisher
	reaper       ReaperNotifier
	verdicts     VerdictRecorder
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
// verdicts может быть nil (метрики выключены)
func NewUseCase(
	bookingRepo BookingRepository,
	courtRepo CourtRepository,
	txManager TransactionManager,
	publisher EventPublisher,
	reaper ReaperNotifier,
	verdicts VerdictRecorder,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		courtRepo:    courtRepo,
		txManager:    txManager,
		publisher:    publisher,
		reaper:       reaper,
		verdicts:     verdicts,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования.
// Проверка и вставка идут в одной сериализуемой транзакции под advisory-блокировкой корта,
// а exclusion constraint в БД отсекает пересечения, если блокировку кто-то обошёл.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	ctx, span := tracer.Start(ctx, "CreateBooking")
	defer span.End()
	span.SetAttributes(
		attribute.String("court.id", req.CourtID.String()),
		attribute.String("user.id", req.UserID.String()),
	)

	uc.logger.Info("CreateBooking: user=%s, court=%s, %s..%s tz=%q",
		req.UserID, req.CourtID,
		req.StartLocal.Format(domain.LocalDateTimeFormat), req.EndLocal.Format(domain.LocalDateTimeFormat), req.TimeZone)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	var (
		result   *domain.Booking
		timeZone string
	)

	// 2. Проверка и вставка в сериализуемой транзакции (повтор при 40001 внутри txManager)
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// Время берём внутри попытки: при повторе транзакции окно могло уйти в прошлое
		now := uc.timeProvider.Now()

		// 2.1. Сериализуем создание бронирований этого корта
		if err := uc.bookingRepo.LockCourt(txCtx, req.CourtID); err != nil {
			return fmt.Errorf("%w: failed to lock court: %w", ErrPersistenceFailure, err)
		}

		// 2.2. Загружаем корт и его расписание
		court, err := uc.courtRepo.GetByID(txCtx, req.CourtID)
		if err != nil {
			if errors.Is(err, courtRepo.ErrCourtNotFound) {
				return ErrCourtNotFound
			}
			return fmt.Errorf("%w: failed to get court: %w", ErrPersistenceFailure, err)
		}

		hours, err := uc.courtRepo.GetOperatingHours(txCtx, court.ID)
		if err != nil {
			return fmt.Errorf("%w: failed to get operating hours: %w", ErrPersistenceFailure, err)
		}

		booked, err := uc.bookingRepo.ListConfirmedBookingWindows(txCtx, court.ID, now)
		if err != nil {
			return fmt.Errorf("%w: failed to list booked windows: %w", ErrPersistenceFailure, err)
		}

		blackouts, err := uc.courtRepo.ListBlackoutWindows(txCtx, court.ID, now)
		if err != nil {
			return fmt.Errorf("%w: failed to list blackout windows: %w", ErrPersistenceFailure, err)
		}

		timeZone = req.TimeZone
		if timeZone == "" {
			timeZone = court.TimeZone
		}

		// 2.3. Проверка окна
		verdict := availability.Check(availability.Input{
			CourtState:    court.State,
			StartLocal:    req.StartLocal,
			EndLocal:      req.EndLocal,
			TimeZone:      timeZone,
			CourtTimeZone: court.TimeZone,
			Hours:         hours,
			Booked:        booked,
			Blackouts:     blackouts,
		}, now)

		if uc.verdicts != nil {
			uc.verdicts.IncAvailabilityVerdict(string(verdict.Reason))
		}
		if !verdict.Accepted() {
			return fmt.Errorf("%w: %s", verdictErrors[verdict.Reason], verdict.Detail)
		}

		// 2.4. Создаем бронирование в ожидании оплаты
		booking := &domain.Booking{
			ID:               uuid.New(),
			CourtID:          court.ID,
			UserID:           req.UserID,
			Window:           verdict.Window,
			State:            domain.StatePending,
			PaymentReference: req.PaymentReference,
			TotalPrice:       roundPrice(court.PriceFor(verdict.Window)),
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			switch {
			case errors.Is(err, bookingRepo.ErrBookingConflict):
				return fmt.Errorf("%w: %v", ErrBookingConflict, err)
			case errors.Is(err, bookingRepo.ErrCourtNotFound):
				return ErrCourtNotFound
			}
			// ошибку сериализации txManager должен увидеть как есть, чтобы повторить транзакцию
			return fmt.Errorf("%w: failed to create booking: %w", ErrPersistenceFailure, err)
		}

		result = created
		return nil
	})

	if err != nil {
		uc.logRejection(req, err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	uc.logger.Info("CreateBooking: created booking id=%s court=%s window=%s price=%.2f",
		result.ID, result.CourtID, result.Window, result.TotalPrice)

	// 3. После коммита: будим reaper и публикуем событие
	if uc.reaper != nil {
		uc.reaper.Notify()
	}
	if uc.publisher != nil {
		event := events.NewBookingEvent(events.BookingCreated, result, uc.timeProvider.Now())
		if err := uc.publisher.PublishJSON(ctx, events.BookingCreated, event); err != nil {
			uc.logger.Error("CreateBooking: failed to publish %s for booking id=%s: %v", events.BookingCreated, result.ID, err)
		}
	}

	return &Response{
		ID:               result.ID,
		CourtID:          result.CourtID,
		UserID:           result.UserID,
		StartAt:          result.Window.Start,
		EndAt:            result.Window.End,
		TimeZone:         timeZone,
		State:            string(result.State),
		TotalPrice:       result.TotalPrice,
		PaymentReference: result.PaymentReference,
		CreatedAt:        result.CreatedAt,
		UpdatedAt:        result.UpdatedAt,
	}, nil
}

func (uc *UseCase) logRejection(req *Request, err error) {
	if errors.Is(err, ErrPersistenceFailure) {
		uc.logger.Error("CreateBooking: court=%s user=%s: %v", req.CourtID, req.UserID, err)
		return
	}
	uc.logger.Warn("CreateBooking: rejected court=%s user=%s: %v", req.CourtID, req.UserID, err)
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.UserID == uuid.Nil {
		return fmt.Errorf("%w: userId is required", ErrInvalidInput)
	}
	if req.CourtID == uuid.Nil {
		return fmt.Errorf("%w: courtId is required", ErrInvalidInput)
	}
	if req.StartLocal.IsZero() || req.EndLocal.IsZero() {
		return fmt.Errorf("%w: start and end are required", ErrInvalidInput)
	}
	if req.PaymentReference != nil && len(*req.PaymentReference) > domain.MaxPaymentReferenceLength {
		return fmt.Errorf("%w: paymentReference exceeds %d characters", ErrInvalidInput, domain.MaxPaymentReferenceLength)
	}
	return nil
}

func roundPrice(v float64) float64 {
	return math.Round(v*100) / 100
}
