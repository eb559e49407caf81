package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/couchcryptid/demand-forecast-service/internal/config"
	"github.com/couchcryptid/demand-forecast-service/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer publishes forecast reports to a Kafka topic.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured report topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish sends the whole report as a single message keyed by the first
// forecast date, so reruns for the same week land on the same partition.
func (w *Writer) Publish(ctx context.Context, r domain.ForecastReport) error {
	msg, err := serializeToMessage(r)
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish report: %w", err)
	}
	w.logger.Info("report published", "topic", w.writer.Topic, "key", string(msg.Key))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a ForecastReport into a Kafka message.
func serializeToMessage(r domain.ForecastReport) (kafkago.Message, error) {
	if len(r.Forecast) == 0 {
		return kafkago.Message{}, errors.New("serialize report: empty forecast")
	}
	data, err := json.Marshal(r)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize report: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(r.Forecast[0].Date.String()),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "generated_at", Value: []byte(r.GeneratedAt.Format(time.RFC3339))},
			{Key: "weather_available", Value: []byte(strconv.FormatBool(r.DataQuality.WeatherAvailable))},
			{Key: "events_count", Value: []byte(strconv.Itoa(r.DataQuality.EventsCount))},
		},
	}, nil
}
