package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/domain"
	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/events"
	bookingRepo "github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/infra/storage/booking"
	courtRepo "github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/infra/storage/court"
	facilityClient "github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/integrations/facilityservice"
	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo    BookingRepository
	courtRepo      CourtRepository
	facilityClient FacilityServiceClient
	publisher      EventPublisher
	timeProvider   TimeProvider
	logger         Logger
}

// NewService создает новый экземпляр сервиса бронирований
// publisher может быть nil (события не публикуются)
func NewService(
	bookingRepo BookingRepository,
	courtRepo CourtRepository,
	facilityClient FacilityServiceClient,
	publisher EventPublisher,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:    bookingRepo,
		courtRepo:      courtRepo,
		facilityClient: facilityClient,
		publisher:      publisher,
		timeProvider:   realTimeProvider{},
		logger:         logger,
	}
}

// GetByID получает бронирование по ID
// Видеть бронирование может его владелец или менеджер площадки корта
func (s *Service) GetByID(ctx context.Context, id, userID uuid.UUID) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%s for user=%s", id, userID)

	booking, err := s.getBooking(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if booking.UserID != userID {
		if err := s.checkManagerAccess(ctx, booking.CourtID, userID); err != nil {
			s.logger.Warn("GetByID: access denied for user=%s to booking id=%s", userID, id)
			return nil, err
		}
	}

	return models.FromDomainBooking(booking), nil
}

// GetUserBookings получает бронирования пользователя, опционально по состоянию
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%s, state=%v", req.UserID, req.State)

	var state *domain.BookingState
	if req.State != nil {
		parsed, err := models.ToDomainBookingState(*req.State)
		if err != nil {
			s.logger.Warn("GetUserBookings: invalid state=%s for user=%s", *req.State, req.UserID)
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		state = &parsed
	}

	bookings, err := s.bookingRepo.GetByUserID(ctx, req.UserID, state)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%s: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: fetched %d bookings for user=%s", len(bookings), req.UserID)
	return models.FromDomainBookingList(bookings), nil
}

// GetCourtBookings получает бронирования корта за период. Только для менеджеров площадки.
func (s *Service) GetCourtBookings(ctx context.Context, req *models.GetCourtBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetCourtBookings: court=%s, user=%s, from=%v, to=%v, state=%v",
		req.CourtID, req.UserID, req.From, req.To, req.State)

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetCourtBookings: invalid filter for court=%s: %v", req.CourtID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.checkManagerAccess(ctx, req.CourtID, req.UserID); err != nil {
		return nil, err
	}

	bookings, err := s.bookingRepo.GetByCourtWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetCourtBookings: repository error for court=%s: %v", req.CourtID, err)
		return nil, fmt.Errorf("%w: GetCourtBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetCourtBookings: fetched %d bookings for court=%s", len(bookings), req.CourtID)
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование событием cancel_requested
// Владелец отменяет с причиной cancelled_by_user, менеджер площадки - cancelled_by_manager
func (s *Service) Cancel(ctx context.Context, bookingID uuid.UUID, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: cancelling booking id=%s by user=%s", bookingID, req.UserID)

	if len(req.CancellationReason) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: cancellationReason exceeds %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	booking, err := s.getBooking(ctx, "Cancel", bookingID)
	if err != nil {
		return nil, err
	}

	reason := domain.CancelReasonUser
	if booking.UserID != req.UserID {
		if err := s.checkManagerAccess(ctx, booking.CourtID, req.UserID); err != nil {
			s.logger.Warn("Cancel: access denied for user=%s to cancel booking id=%s", req.UserID, bookingID)
			return nil, err
		}
		reason = domain.CancelReasonManager
	}

	from := booking.State
	if err := booking.Apply(domain.EventCancelRequested, s.timeProvider.Now()); err != nil {
		s.logger.Warn("Cancel: booking id=%s cannot be cancelled in state=%s", bookingID, from)
		return nil, fmt.Errorf("%w: %v", ErrInvalidTransition, err)
	}

	stored := cancellationText(reason, req.CancellationReason)
	if err := s.bookingRepo.Cancel(ctx, bookingID, from, stored); err != nil {
		return nil, s.mapWriteError("Cancel", bookingID, err)
	}
	booking.CancellationReason = &stored

	s.logger.Info("Cancel: cancelled booking id=%s, reason=%s", bookingID, reason)
	s.publish(ctx, events.BookingCancelled, booking)
	return models.FromDomainBooking(booking), nil
}

// ConfirmPayment подтверждает оплату (payment_confirmed)
// Повторное подтверждение с той же ссылкой на платёж ничего не меняет и не считается ошибкой
func (s *Service) ConfirmPayment(ctx context.Context, bookingID uuid.UUID, paymentReference string) (*models.BookingResponse, error) {
	s.logger.Info("ConfirmPayment: booking id=%s, payment=%s", bookingID, paymentReference)

	if paymentReference == "" || len(paymentReference) > domain.MaxPaymentReferenceLength {
		return nil, fmt.Errorf("%w: paymentReference must be 1..%d characters", ErrInvalidInput, domain.MaxPaymentReferenceLength)
	}

	booking, err := s.getBooking(ctx, "ConfirmPayment", bookingID)
	if err != nil {
		return nil, err
	}

	if booking.State == domain.StateConfirmed &&
		booking.PaymentReference != nil && *booking.PaymentReference == paymentReference {
		s.logger.Info("ConfirmPayment: booking id=%s already confirmed with payment=%s", bookingID, paymentReference)
		return models.FromDomainBooking(booking), nil
	}

	if err := booking.Apply(domain.EventPaymentConfirmed, s.timeProvider.Now()); err != nil {
		s.logger.Warn("ConfirmPayment: booking id=%s cannot be confirmed: %v", bookingID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidTransition, err)
	}

	if err := s.bookingRepo.Confirm(ctx, bookingID, paymentReference); err != nil {
		return nil, s.mapWriteError("ConfirmPayment", bookingID, err)
	}
	booking.PaymentReference = &paymentReference

	s.logger.Info("ConfirmPayment: confirmed booking id=%s", bookingID)
	s.publish(ctx, events.BookingConfirmed, booking)
	return models.FromDomainBooking(booking), nil
}

// Вспомогательные методы

func (s *Service) getBooking(ctx context.Context, op string, id uuid.UUID) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%s not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%s: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return booking, nil
}

// mapWriteError переводит ошибки условного UPDATE: состояние успело смениться - это недопустимый переход
func (s *Service) mapWriteError(op string, id uuid.UUID, err error) error {
	switch {
	case errors.Is(err, bookingRepo.ErrBookingNotFound):
		s.logger.Warn("%s: booking id=%s disappeared during update", op, id)
		return ErrBookingNotFound
	case errors.Is(err, bookingRepo.ErrStateChanged):
		s.logger.Warn("%s: booking id=%s changed state concurrently", op, id)
		return fmt.Errorf("%w: %v", ErrInvalidTransition, err)
	default:
		s.logger.Error("%s: repository error for booking id=%s: %v", op, id, err)
		return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
}

// checkManagerAccess проверяет, что пользователь - менеджер площадки, которой принадлежит корт
func (s *Service) checkManagerAccess(ctx context.Context, courtID, userID uuid.UUID) error {
	court, err := s.courtRepo.GetByID(ctx, courtID)
	if err != nil {
		if errors.Is(err, courtRepo.ErrCourtNotFound) {
			s.logger.Warn("checkManagerAccess: court id=%s not found", courtID)
			return ErrCourtNotFound
		}
		s.logger.Error("checkManagerAccess: failed to get court id=%s: %v", courtID, err)
		return fmt.Errorf("%w: checkManagerAccess - failed to get court: %v", ErrInternal, err)
	}

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

func (s *Service) publish(ctx context.Context, key string, booking *domain.Booking) {
	if s.publisher == nil {
		return
	}
	event := events.NewBookingEvent(key, booking, s.timeProvider.Now())
	if err := s.publisher.PublishJSON(ctx, key, event); err != nil {
		s.logger.Error("failed to publish %s for booking id=%s: %v", key, booking.ID, err)
	}
}

// cancellationText код причины и, если есть, комментарий пользователя
func cancellationText(reason domain.CancellationReason, comment string) string {
	if comment == "" {
		return string(reason)
	}
	return string(reason) + ": " + comment
}
