package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/segmentio/kafka-go"

	"showbook/internal/models"
)

type Producer struct {
	Writer *kafka.Writer
}

func NewProducer(brokers []string, topic string) *Producer {
	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers: brokers,
		Topic:   topic,
	})
	return &Producer{Writer: writer}
}

// PublishShowBooked streams a show-booked event keyed by venue id so all
// events for one venue land on the same partition.
func (p *Producer) PublishShowBooked(show models.Show) error {
	event := models.NewShowBookedEvent(show)
	return p.publish(strconv.FormatInt(show.VenueID, 10), event)
}

func (p *Producer) PublishVenueRemoved(id int64, name string) error {
	event := models.NewVenueRemovedEvent(id, name)
	return p.publish(strconv.FormatInt(id, 10), event)
}

func (p *Producer) PublishArtistRemoved(id int64, name string) error {
	event := models.NewArtistRemovedEvent(id, name)
	return p.publish(strconv.FormatInt(id, 10), event)
}

func (p *Producer) publish(key string, event models.BookingEvent) error {
	msgBytes, err := json.Marshal(event)
	if err != nil {
		return err
	}

	fmt.Printf("Publishing to Kafka [%s]: %s\n", event.Type, string(msgBytes))

	return p.Writer.WriteMessages(context.Background(),
		kafka.Message{
			Key:   []byte(key),
			Value: msgBytes,
		},
	)
}

func (p *Producer) Close() error {
	return p.Writer.Close()
}
