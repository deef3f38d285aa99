// Package kafkasink publishes the result tables to a Kafka topic so a
// downstream rendering service can consume them.
package kafkasink

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/ridgelinegeo/snowbelt-pipeline/internal/domain"
)

// Writer produces one message per result table.
// It implements pipeline.ResultSink.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured result topic.
func NewWriter(brokers []string, topic string, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// Name implements pipeline.ResultSink.
func (w *Writer) Name() string { return "kafka" }

// Publish writes the stations table and the cities table as two messages in
// a single WriteMessages call, keyed by table name.
func (w *Writer) Publish(ctx context.Context, res domain.Result) error {
	stationsMsg, err := tableMessage("filtered_stations", res.GeneratedAt, len(res.Stations), res.Stations)
	if err != nil {
		return err
	}
	citiesMsg, err := tableMessage("cities_in_range", res.GeneratedAt, len(res.Cities), res.Cities)
	if err != nil {
		return err
	}
	return w.writer.WriteMessages(ctx, stationsMsg, citiesMsg)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// tableMessage marshals one result table into a Kafka message.
func tableMessage(table string, generatedAt time.Time, rows int, payload any) (kafkago.Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize %s: %w", table, err)
	}
	return kafkago.Message{
		Key:   []byte(table),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "table", Value: []byte(table)},
			{Key: "rows", Value: []byte(strconv.Itoa(rows))},
			{Key: "generated_at", Value: []byte(generatedAt.Format(time.RFC3339))},
		},
	}, nil
}
