package events

import (
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"gym-service/internal/model"
)

type EventPublisher interface {
	PublishBookingConfirmed(booking *model.Booking) error
	PublishBookingCancelled(bookingID, userID uuid.UUID) error
}

type NatsPublisher struct {
	conn *nats.Conn
}

func NewNatsPublisher(natsURL string) (EventPublisher, error) {
	nc, err := nats.Connect(natsURL)

	if err != nil {
		return nil, err
	}

	return &NatsPublisher{conn: nc}, nil
}

type BookingConfirmedEvent struct {
	EventType string    `json:"event_type"`
	BookingID uuid.UUID `json:"booking_id"`
	UserID    uuid.UUID `json:"user_id"`
	ClassID   uuid.UUID `json:"class_id"`
	BookedAt  time.Time `json:"booked_at"`
}

type BookingCancelledEvent struct {
	EventType   string    `json:"event_type"`
	BookingID   uuid.UUID `json:"booking_id"`
	UserID      uuid.UUID `json:"user_id"`
	CancelledAt time.Time `json:"cancelled_at"`
}

func (p *NatsPublisher) PublishBookingConfirmed(booking *model.Booking) error {
	event := BookingConfirmedEvent{
		EventType: "booking.confirmed",
		BookingID: booking.ID,
		UserID:    booking.UserID,
		ClassID:   booking.ClassID,
		BookedAt:  booking.BookedAt,
	}

	eventJSON, err := json.Marshal(event)
	if err != nil {
		log.Printf("Error marshalling event JSON: %v", err)
		return err
	}

	subject := "booking.confirmed"
	if err := p.conn.Publish(subject, eventJSON); err != nil {
		log.Printf("Error publishing to NATS: %v", err)
		return err
	}

	return nil
}

func (p *NatsPublisher) PublishBookingCancelled(bookingID, userID uuid.UUID) error {
	event := BookingCancelledEvent{
		EventType:   "booking.cancelled",
		BookingID:   bookingID,
		UserID:      userID,
		CancelledAt: time.Now(),
	}

	eventJSON, err := json.Marshal(event)
	if err != nil {
		return err
	}

	subject := "booking.cancelled"
	if err := p.conn.Publish(subject, eventJSON); err != nil {
		log.Printf("Error publishing to NATS: %v", err)
		return err
	}

	return nil
}
