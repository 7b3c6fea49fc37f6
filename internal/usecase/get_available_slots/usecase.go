package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/availability"
	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/domain"
	courtRepo "github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/infra/storage/court"
)

// UseCase use case для получения свободных слотов корта на дату
type UseCase struct {
	courtRepo       CourtRepository
	bookingRepo     BookingRepository
	txManager       TransactionManager
	defaultDuration int
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
// defaultDuration используется, если в запросе длительность не указана
func NewUseCase(
	courtRepo CourtRepository,
	bookingRepo BookingRepository,
	txManager TransactionManager,
	defaultDuration int,
	logger Logger,
) *UseCase {
	if defaultDuration <= 0 {
		defaultDuration = domain.DefaultSlotDurationMinutes
	}
	return &UseCase{
		courtRepo:       courtRepo,
		bookingRepo:     bookingRepo,
		txManager:       txManager,
		defaultDuration: defaultDuration,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case получения свободных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req.DurationMinutes == 0 {
		req.DurationMinutes = uc.defaultDuration
	}

	uc.logger.Info("GetAvailableSlots: court=%s, date=%s, duration=%d",
		req.CourtID, req.Date.Format(domain.DateFormat), req.DurationMinutes)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	var (
		court *domain.Court
		input availability.Input
	)

	// 3. Загружаем корт, расписание и занятые окна одним снимком
	err := uc.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		var err error
		court, err = uc.courtRepo.GetByID(txCtx, req.CourtID)
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

		input = availability.Input{
			CourtState: court.State,
			TimeZone:   court.TimeZone,
			Hours:      hours,
			Booked:     booked,
			Blackouts:  blackouts,
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrCourtNotFound) {
			uc.logger.Warn("GetAvailableSlots: court id=%s not found", req.CourtID)
		} else {
			uc.logger.Error("GetAvailableSlots: court=%s: %v", req.CourtID, err)
		}
		return nil, err
	}

	// 4. Проверяем дату в зоне корта
	loc, err := court.Location()
	if err != nil {
		uc.logger.Error("GetAvailableSlots: court id=%s has invalid time zone %q: %v", court.ID, court.TimeZone, err)
		return nil, fmt.Errorf("%w: court time zone: %v", ErrInternal, err)
	}
	if err := validateDate(req.Date, now, loc); err != nil {
		uc.logger.Warn("GetAvailableSlots: %v", err)
		return nil, err
	}

	// 5. Строим сетку; закрытый день и заблокированный корт дают пустой список
	slots := generateSlots(dateOnly(req.Date), req.DurationMinutes, input, now)

	uc.logger.Info("GetAvailableSlots: court=%s, date=%s: %d free slots",
		court.ID, req.Date.Format(domain.DateFormat), len(slots))

	return &Response{
		CourtID:         court.ID,
		Date:            dateOnly(req.Date),
		TimeZone:        court.TimeZone,
		DurationMinutes: req.DurationMinutes,
		Slots:           slots,
	}, nil
}
