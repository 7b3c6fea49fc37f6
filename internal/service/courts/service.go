package courts

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/domain"
	courtRepo "github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/infra/storage/court"
	facilityClient "github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/integrations/facilityservice"
	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/service/courts/models"
)

// Service сервис расписания корта: часы работы и периоды недоступности
type Service struct {
	courtRepo      CourtRepository
	facilityClient FacilityServiceClient
	txManager      TransactionManager
	timeProvider   TimeProvider
	logger         Logger
}

// NewService создает новый экземпляр сервиса кортов
func NewService(
	courtRepo CourtRepository,
	facilityClient FacilityServiceClient,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		courtRepo:      courtRepo,
		facilityClient: facilityClient,
		txManager:      txManager,
		timeProvider:   realTimeProvider{},
		logger:         logger,
	}
}

// GetOperatingHours получает недельное расписание корта
func (s *Service) GetOperatingHours(ctx context.Context, courtID uuid.UUID) (*models.OperatingHoursResponse, error) {
	s.logger.Info("GetOperatingHours: court=%s", courtID)

	court, err := s.getCourt(ctx, "GetOperatingHours", courtID)
	if err != nil {
		return nil, err
	}

	hours, err := s.courtRepo.GetOperatingHours(ctx, courtID)
	if err != nil {
		s.logger.Error("GetOperatingHours: repository error for court=%s: %v", courtID, err)
		return nil, fmt.Errorf("%w: GetOperatingHours - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainOperatingHours(court, hours), nil
}

// UpdateOperatingHours заменяет расписание корта целиком. Только для менеджеров площадки.
func (s *Service) UpdateOperatingHours(ctx context.Context, courtID uuid.UUID, req *models.UpdateOperatingHoursRequest) (*models.OperatingHoursResponse, error) {
	s.logger.Info("UpdateOperatingHours: court=%s, user=%s, days=%d", courtID, req.UserID, len(req.Days))

	hours, err := req.ToDomain()
	if err != nil {
		s.logger.Warn("UpdateOperatingHours: validation failed for court=%s: %v", courtID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	court, err := s.getCourt(ctx, "UpdateOperatingHours", courtID)
	if err != nil {
		return nil, err
	}
	if err := s.checkManagerAccess(ctx, court, req.UserID); err != nil {
		return nil, err
	}

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		return s.courtRepo.UpsertOperatingHours(txCtx, courtID, hours)
	})
	if err != nil {
		if errors.Is(err, courtRepo.ErrCourtNotFound) {
			return nil, ErrCourtNotFound
		}
		s.logger.Error("UpdateOperatingHours: repository error for court=%s: %v", courtID, err)
		return nil, fmt.Errorf("%w: UpdateOperatingHours - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateOperatingHours: court=%s now open %d days a week", courtID, len(hours))
	return models.FromDomainOperatingHours(court, hours), nil
}

// ListBlackouts получает текущие и будущие периоды недоступности корта
func (s *Service) ListBlackouts(ctx context.Context, courtID uuid.UUID) (*models.BlackoutListResponse, error) {
	s.logger.Info("ListBlackouts: court=%s", courtID)

	if _, err := s.getCourt(ctx, "ListBlackouts", courtID); err != nil {
		return nil, err
	}

	list, err := s.courtRepo.ListBlackoutWindows(ctx, courtID, s.timeProvider.Now())
	if err != nil {
		s.logger.Error("ListBlackouts: repository error for court=%s: %v", courtID, err)
		return nil, fmt.Errorf("%w: ListBlackouts - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBlackoutList(list), nil
}

// CreateBlackout закрывает корт на период. Только для менеджеров площадки.
// Уже существующие бронирования в этом периоде не отменяются.
func (s *Service) CreateBlackout(ctx context.Context, req *models.CreateBlackoutRequest) (*models.BlackoutResponse, error) {
	s.logger.Info("CreateBlackout: court=%s, user=%s, %s..%s", req.CourtID, req.UserID, req.StartAt, req.EndAt)

	window, err := domain.NewTimeWindow(req.StartAt, req.EndAt)
	if err != nil {
		s.logger.Warn("CreateBlackout: invalid window for court=%s: %v", req.CourtID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if len(req.Reason) > domain.MaxBlackoutReasonLength {
		return nil, fmt.Errorf("%w: reason exceeds %d characters", ErrInvalidInput, domain.MaxBlackoutReasonLength)
	}

	court, err := s.getCourt(ctx, "CreateBlackout", req.CourtID)
	if err != nil {
		return nil, err
	}
	if err := s.checkManagerAccess(ctx, court, req.UserID); err != nil {
		return nil, err
	}

	created, err := s.courtRepo.CreateBlackout(ctx, &domain.BlackoutWindow{
		CourtID:   court.ID,
		Window:    window,
		Reason:    req.Reason,
		CreatedBy: req.UserID,
	})
	if err != nil {
		s.logger.Error("CreateBlackout: repository error for court=%s: %v", req.CourtID, err)
		return nil, fmt.Errorf("%w: CreateBlackout - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateBlackout: created blackout id=%s for court=%s", created.ID, court.ID)
	return models.FromDomainBlackout(created), nil
}

// DeleteBlackout удаляет период недоступности. Только для менеджеров площадки.
func (s *Service) DeleteBlackout(ctx context.Context, courtID, blackoutID, userID uuid.UUID) error {
	s.logger.Info("DeleteBlackout: court=%s, blackout=%s, user=%s", courtID, blackoutID, userID)

	court, err := s.getCourt(ctx, "DeleteBlackout", courtID)
	if err != nil {
		return err
	}
	if err := s.checkManagerAccess(ctx, court, userID); err != nil {
		return err
	}

	if err := s.courtRepo.DeleteBlackout(ctx, courtID, blackoutID); err != nil {
		if errors.Is(err, courtRepo.ErrBlackoutNotFound) {
			s.logger.Warn("DeleteBlackout: blackout id=%s not found on court=%s", blackoutID, courtID)
			return ErrBlackoutNotFound
		}
		s.logger.Error("DeleteBlackout: repository error for blackout id=%s: %v", blackoutID, err)
		return fmt.Errorf("%w: DeleteBlackout - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("DeleteBlackout: deleted blackout id=%s", blackoutID)
	return nil
}

// Вспомогательные методы

func (s *Service) getCourt(ctx context.Context, op string, courtID uuid.UUID) (*domain.Court, error) {
	court, err := s.courtRepo.GetByID(ctx, courtID)
	if err != nil {
		if errors.Is(err, courtRepo.ErrCourtNotFound) {
			s.logger.Warn("%s: court id=%s not found", op, courtID)
			return nil, ErrCourtNotFound
		}
		s.logger.Error("%s: failed to get court id=%s: %v", op, courtID, err)
		return nil, fmt.Errorf("%w: %s - failed to get court: %v", ErrInternal, op, err)
	}
	return court, nil
}

// checkManagerAccess проверяет, что пользователь - менеджер площадки корта
func (s *Service) checkManagerAccess(ctx context.Context, court *domain.Court, userID uuid.UUID) error {
	facility, err := s.facilityClient.GetFacility(ctx, court.FacilityID)
	if err != nil {
		if errors.Is(err, facilityClient.ErrFacilityNotFound) {
			s.logger.Warn("checkManagerAccess: facility id=%s not found", court.FacilityID)
			return ErrFacilityNotFound
		}
		s.logger.Error("checkManagerAccess: failed to get facility id=%s: %v", court.FacilityID, err)
		return fmt.Errorf("%w: checkManagerAccess - failed to get facility: %v", ErrInternal, err)
	}

	if !facility.IsManagedBy(userID) {
		s.logger.Warn("checkManagerAccess: user=%s is not a manager of facility=%s", userID, facility.ID)
		return ErrAccessDenied
	}
	return nil
}
