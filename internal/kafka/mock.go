package kafka

import (
	"encoding/json"
	"fmt"

	"showbook/internal/models"
)

// MockProducer logs events instead of publishing them. Used when
// KAFKA_MOCK_MODE is set so the services run without a broker.
type MockProducer struct{}

func NewMockProducer() *MockProducer {
	return &MockProducer{}
}

func (p *MockProducer) PublishShowBooked(show models.Show) error {
	return p.logEvent(models.NewShowBookedEvent(show))
}

func (p *MockProducer) PublishVenueRemoved(id int64, name string) error {
	return p.logEvent(models.NewVenueRemovedEvent(id, name))
}

func (p *MockProducer) PublishArtistRemoved(id int64, name string) error {
	return p.logEvent(models.NewArtistRemovedEvent(id, name))
}

func (p *MockProducer) logEvent(event models.BookingEvent) error {
	msgBytes, err := json.Marshal(event)
	if err != nil {
		return err
	}
	fmt.Printf("MOCK Kafka publish [%s]: %s\n", event.Type, string(msgBytes))
	return nil
}
