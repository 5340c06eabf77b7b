package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/weather-qc/internal/config"
	"github.com/couchcryptid/weather-qc/internal/domain"
	"github.com/couchcryptid/weather-qc/internal/pipeline"
	kafkago "github.com/segmentio/kafka-go"
)

const (
	headerRecordType = "record_type"
	headerRunAt      = "run_at"

	recordObservation = "observation"
	recordLedger      = "ledger"
)

// Writer publishes a run's cleaned observations and ledger rows to a Kafka
// topic. It implements pipeline.Loader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

func (w *Writer) Name() string { return "kafka" }

// Load serializes every cleaned observation followed by every ledger row and
// publishes them in a single WriteMessages call. Observations are keyed by
// date so one day always lands on the same partition.
func (w *Writer) Load(ctx context.Context, result pipeline.Result) error {
	runAt := result.StartedAt.UTC().Format(time.RFC3339)
	msgs := make([]kafkago.Message, 0, len(result.Cleaned)+result.Ledger.Len())

	for i := range result.Cleaned {
		msg, err := serializeObservation(result.Cleaned[i], runAt)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}
	for _, row := range result.Ledger.Rows() {
		msg, err := serializeLedgerRow(row, runAt)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}

	if len(msgs) == 0 {
		return nil
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write messages: %w", err)
	}
	w.logger.Info("published to kafka", "topic", w.writer.Topic, "messages", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// ObservationMessage is the JSON body of an observation record. Missing
// values are null.
type ObservationMessage struct {
	Date      string   `json:"date"`
	Precip    *float64 `json:"precip"`
	MaxTemp   *float64 `json:"max_temp"`
	MinTemp   *float64 `json:"min_temp"`
	WindSpeed *float64 `json:"wind_speed"`
}

// LedgerMessage is the JSON body of a ledger record.
type LedgerMessage struct {
	Check     string `json:"check"`
	Precip    int    `json:"precip"`
	MaxTemp   int    `json:"max_temp"`
	MinTemp   int    `json:"min_temp"`
	WindSpeed int    `json:"wind_speed"`
}

func serializeObservation(obs domain.Observation, runAt string) (kafkago.Message, error) {
	date := obs.Date.Format("2006-01-02")
	body := ObservationMessage{
		Date:      date,
		Precip:    valuePtr(obs.Get(domain.Precip)),
		MaxTemp:   valuePtr(obs.Get(domain.MaxTemp)),
		MinTemp:   valuePtr(obs.Get(domain.MinTemp)),
		WindSpeed: valuePtr(obs.Get(domain.WindSpeed)),
	}
	data, err := json.Marshal(body)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize observation %s: %w", date, err)
	}
	return kafkago.Message{
		Key:   []byte(date),
		Value: data,
		Headers: []kafkago.Header{
			{Key: headerRecordType, Value: []byte(recordObservation)},
			{Key: headerRunAt, Value: []byte(runAt)},
		},
	}, nil
}

func serializeLedgerRow(row domain.LedgerRow, runAt string) (kafkago.Message, error) {
	body := LedgerMessage{
		Check:     row.Check,
		Precip:    row.Counts[domain.Precip],
		MaxTemp:   row.Counts[domain.MaxTemp],
		MinTemp:   row.Counts[domain.MinTemp],
		WindSpeed: row.Counts[domain.WindSpeed],
	}
	data, err := json.Marshal(body)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize ledger row %q: %w", row.Check, err)
	}
	return kafkago.Message{
		Key:   []byte(row.Check),
		Value: data,
		Headers: []kafkago.Header{
			{Key: headerRecordType, Value: []byte(recordLedger)},
			{Key: headerRunAt, Value: []byte(runAt)},
		},
	}, nil
}

func valuePtr(v domain.Value) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float
	return &f
}
