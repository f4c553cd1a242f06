package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"FinDeck/internal/domain/models"
	"FinDeck/internal/domain/repository"
	pkgkafka "FinDeck/pkg/kafka"
)

// ClickHouseStorage implements Storage for ClickHouse.
type ClickHouseStorage struct {
	db    *sql.DB
	table string
}

// NewClickHouseStorage creates ClickHouse storage.
func NewClickHouseStorage(db *sql.DB, table string) repository.Storage {
	return &ClickHouseStorage{db: db, table: table}
}

func (s *ClickHouseStorage) Init(ctx context.Context) error {
	return nil // Schema init in pkg
}

func (s *ClickHouseStorage) Store(ctx context.Context, quote *models.Quote) error {
	q := fmt.Sprintf("INSERT INTO %s (ts, symbol, price, volume, source, event_id) VALUES (?, ?, ?, ?, ?, ?)", s.table)
	// Idempotency key derived from symbol+timestamp
	eventID := fmt.Sprintf("%s-%d", quote.Symbol, quote.Timestamp.Unix())
	_, err := s.db.ExecContext(ctx, q,
		quote.Timestamp,
		quote.Symbol,
		quote.Price,
		quote.Volume,
		"stream",
		eventID,
	)
	return err
}

func (s *ClickHouseStorage) StoreBatch(ctx context.Context, batch []*models.Quote) error {
	if len(batch) == 0 {
		return nil
	}
	// Multi-row VALUES inserts to reduce round-trips, chunked at 2000 rows.
	const chunkSize = 2000
	for start := 0; start < len(batch); start += chunkSize {
		end := start + chunkSize
		if end > len(batch) {
			end = len(batch)
		}

		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*6)
		for _, quote := range batch[start:end] {
			if quote == nil || quote.Symbol == "" || quote.Timestamp.IsZero() {
				continue
			}
			eventID := fmt.Sprintf("%s-%d", quote.Symbol, quote.Timestamp.Unix())
			values = append(values, "(?, ?, ?, ?, ?, ?)")
			args = append(args,
				quote.Timestamp,
				quote.Symbol,
				quote.Price,
				quote.Volume,
				"stream",
				eventID,
			)
		}
		if len(values) == 0 {
			continue
		}
		q := fmt.Sprintf("INSERT INTO %s (ts, symbol, price, volume, source, event_id) VALUES %s", s.table, strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return err
		}
	}
	return nil
}

func (s *ClickHouseStorage) Query(ctx context.Context, symbol string, from, to time.Time, limit int) ([]*models.Quote, error) {
	q := fmt.Sprintf("SELECT symbol, ts, price, volume FROM %s WHERE symbol = ? AND ts >= ? AND ts <= ? ORDER BY ts DESC LIMIT ?", s.table)
	rows, err := s.db.QueryContext(ctx, q, symbol, from, to, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quotes []*models.Quote
	for rows.Next() {
		var quote models.Quote
		if err := rows.Scan(&quote.Symbol, &quote.Timestamp, &quote.Price, &quote.Volume); err != nil {
			return nil, err
		}
		quotes = append(quotes, &quote)
	}
	return quotes, rows.Err()
}

func (s *ClickHouseStorage) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ClickHouseStorage) Close() error {
	return nil // Managed by pkg
}

// KafkaPublisher implements Publisher for Kafka.
type KafkaPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaPublisher creates Kafka publisher.
func NewKafkaPublisher(producer *pkgkafka.Producer, topic string) repository.Publisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) Publish(ctx context.Context, quote *models.Quote) error {
	return p.producer.Publish(ctx, p.topic, []byte(quote.Symbol), map[string]interface{}{
		"symbol": quote.Symbol,
		"t":      quote.Timestamp.Unix(),
		"c":      quote.Price,
		"v":      quote.Volume,
	})
}

func (p *KafkaPublisher) PublishBatch(ctx context.Context, batch []*models.Quote) error {
	if len(batch) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(batch))
	for i, quote := range batch {
		msgs[i] = pkgkafka.Message{
			Key: []byte(quote.Symbol),
			Value: map[string]interface{}{
				"symbol": quote.Symbol,
				"t":      quote.Timestamp.Unix(),
				"c":      quote.Price,
				"v":      quote.Volume,
			},
		}
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
