package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/events"
	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/service/bookings"
)

// Outcome что сделать с сообщением после обработки
type Outcome int

const (
	Ack     Outcome = iota // обработано или повтор бессмысленен
	Drop                   // битое сообщение: nack без возврата в очередь
	Requeue                // временная ошибка: nack с возвратом
)

func (o Outcome) String() string {
	switch o {
	case Ack:
		return "ack"
	case Drop:
		return "drop"
	case Requeue:
		return "requeue"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// PaymentConsumer переводит бронирования в confirmed по событиям payment.paid.
// Оплату, которую некуда отнести, отдаёт дальше событием booking.payment_orphaned.
type PaymentConsumer struct {
	confirmer PaymentConfirmer
	publisher EventPublisher
	logger    Logger
	now       func() time.Time
}

func NewPaymentConsumer(confirmer PaymentConfirmer, publisher EventPublisher, logger Logger) *PaymentConsumer {
	return &PaymentConsumer{confirmer: confirmer, publisher: publisher, logger: logger, now: time.Now}
}

// Run обрабатывает сообщения, пока канал не закрыт или ctx не отменён
func (c *PaymentConsumer) Run(ctx context.Context, deliveries <-chan amqp.Delivery) {
	c.logger.Info("payment consumer: started")
	for {
		select {
		case <-ctx.Done():
			c.logger.Info("payment consumer: stopped")
			return
		case d, ok := <-deliveries:
			if !ok {
				c.logger.Warn("payment consumer: delivery channel closed")
				return
			}
			c.settle(d, c.Handle(ctx, d.Body))
		}
	}
}

func (c *PaymentConsumer) settle(d amqp.Delivery, outcome Outcome) {
	var err error
	switch outcome {
	case Ack:
		err = d.Ack(false)
	case Drop:
		err = d.Nack(false, false)
	case Requeue:
		err = d.Nack(false, true)
	}
	if err != nil {
		c.logger.Error("payment consumer: failed to %s message %s: %v", outcome, d.MessageId, err)
	}
}

// Handle разбирает тело payment.paid и подтверждает оплату
func (c *PaymentConsumer) Handle(ctx context.Context, body []byte) Outcome {
	var msg events.Envelope[events.PaymentPaidData]
	if err := json.Unmarshal(body, &msg); err != nil {
		c.logger.Warn("payment consumer: malformed message: %v", err)
		return Drop
	}
	if msg.Event != events.PaymentPaid {
		c.logger.Warn("payment consumer: unexpected event %q", msg.Event)
		return Drop
	}
	if msg.Data.BookingID == uuid.Nil || msg.Data.PaymentID == "" {
		c.logger.Warn("payment consumer: payment.paid without booking_id or payment_id")
		return Drop
	}

	_, err := c.confirmer.ConfirmPayment(ctx, msg.Data.BookingID, msg.Data.PaymentID)
	switch {
	case err == nil:
		c.logger.Info("payment consumer: booking id=%s confirmed by payment=%s", msg.Data.BookingID, msg.Data.PaymentID)
		return Ack
	case errors.Is(err, bookings.ErrBookingNotFound), errors.Is(err, bookings.ErrInvalidTransition):
		c.logger.Warn("payment consumer: payment=%s for booking id=%s is orphaned: %v", msg.Data.PaymentID, msg.Data.BookingID, err)
		return c.reportOrphaned(ctx, msg.Data, err)
	case errors.Is(err, bookings.ErrInvalidInput):
		c.logger.Warn("payment consumer: payment=%s rejected: %v", msg.Data.PaymentID, err)
		return Drop
	default:
		c.logger.Error("payment consumer: payment=%s for booking id=%s will be retried: %v", msg.Data.PaymentID, msg.Data.BookingID, err)
		return Requeue
	}
}

// reportOrphaned публикует оплату без бронирования; без публикации сообщение возвращается в очередь
func (c *PaymentConsumer) reportOrphaned(ctx context.Context, paid events.PaymentPaidData, cause error) Outcome {
	event := events.NewPaymentOrphanedEvent(paid, orphanReason(cause), c.now())
	if err := c.publisher.PublishJSON(ctx, events.BookingPaymentOrphaned, event); err != nil {
		c.logger.Error("payment consumer: failed to publish %s for payment=%s: %v", events.BookingPaymentOrphaned, paid.PaymentID, err)
		return Requeue
	}
	return Ack
}

func orphanReason(err error) string {
	if errors.Is(err, bookings.ErrBookingNotFound) {
		return "booking_not_found"
	}
	return "invalid_transition"
}
