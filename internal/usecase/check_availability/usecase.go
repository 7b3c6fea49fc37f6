package check_availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/availability"
	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/domain"
	courtRepo "github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/infra/storage/court"
	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/pkg/tracing"
)

var tracer = tracing.Tracer("badcourt/usecase/check_availability")

// UseCase use case проверки доступности окна на корте
type UseCase struct {
	courtRepo    CourtRepository
	bookingRepo  BookingRepository
	txManager    TransactionManager
	verdicts     VerdictRecorder
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
// verdicts может быть nil (метрики выключены)
func NewUseCase(
	courtRepo CourtRepository,
	bookingRepo BookingRepository,
	txManager TransactionManager,
	verdicts VerdictRecorder,
	logger Logger,
) *UseCase {
	return &UseCase{
		courtRepo:    courtRepo,
		bookingRepo:  bookingRepo,
		txManager:    txManager,
		verdicts:     verdicts,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute проверяет окно и возвращает вердикт. Отказ по расписанию - не ошибка, а Available=false.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	ctx, span := tracer.Start(ctx, "CheckAvailability")
	defer span.End()
	span.SetAttributes(attribute.String("court.id", req.CourtID.String()))

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CheckAvailability: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()
	var input availability.Input

	err := uc.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		court, err := uc.courtRepo.GetByID(txCtx, req.CourtID)
		if err != nil {
			if errors.Is(err, courtRepo.ErrCourtNotFound) {
				return ErrCourtNotFound
			}
			return fmt.Errorf("%w: failed to get court: %v", ErrInternal, err)
		}

		hours, err := uc.courtRepo.GetOperatingHours(txCtx, court.ID)
		if err != nil {
			return fmt.Errorf("%w: failed to get operating hours: %v", ErrInternal, err)
		}

		booked, err := uc.bookingRepo.ListConfirmedBookingWindows(txCtx, court.ID, now)
		if err != nil {
			return fmt.Errorf("%w: failed to list booked windows: %v", ErrInternal, err)
		}

		blackouts, err := uc.courtRepo.ListBlackoutWindows(txCtx, court.ID, now)
		if err != nil {
			return fmt.Errorf("%w: failed to list blackout windows: %v", ErrInternal, err)
		}

		tz := req.TimeZone
		if tz == "" {
			tz = court.TimeZone
		}

		input = availability.Input{
			CourtState:    court.State,
			StartLocal:    req.StartLocal,
			EndLocal:      req.EndLocal,
			TimeZone:      tz,
			CourtTimeZone: court.TimeZone,
			Hours:         hours,
			Booked:        booked,
			Blackouts:     blackouts,
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrCourtNotFound) {
			uc.logger.Warn("CheckAvailability: court id=%s not found", req.CourtID)
		} else {
			uc.logger.Error("CheckAvailability: court id=%s: %v", req.CourtID, err)
			span.SetStatus(codes.Error, err.Error())
		}
		return nil, err
	}

	verdict := availability.Check(input, now)
	if uc.verdicts != nil {
		uc.verdicts.IncAvailabilityVerdict(string(verdict.Reason))
	}
	span.SetAttributes(attribute.String("availability.verdict", string(verdict.Reason)))

	uc.logger.Info("CheckAvailability: court=%s %s..%s tz=%s verdict=%s",
		req.CourtID, req.StartLocal.Format(domain.LocalDateTimeFormat), req.EndLocal.Format(domain.LocalDateTimeFormat),
		input.TimeZone, verdict.Reason)

	resp := &Response{
		CourtID:            req.CourtID,
		Available:          verdict.Accepted(),
		Reason:             string(verdict.Reason),
		Detail:             verdict.Detail,
		TimeZone:           input.TimeZone,
		ConflictBookingID:  verdict.ConflictBookingID,
		ConflictBlackoutID: verdict.ConflictBlackoutID,
	}
	if !verdict.Window.IsZero() {
		start, end := verdict.Window.Start, verdict.Window.End
		resp.StartUTC, resp.EndUTC = &start, &end
	}

	return resp, nil
}

func validateRequest(req *Request) error {
	if req.CourtID == uuid.Nil {
		return fmt.Errorf("%w: courtId is required", ErrInvalidInput)
	}
	if req.StartLocal.IsZero() || req.EndLocal.IsZero() {
		return fmt.Errorf("%w: start and end are required", ErrInvalidInput)
	}
	return nil
}
