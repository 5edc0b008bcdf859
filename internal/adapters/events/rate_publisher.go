package events

import (
	"context"
	"encoding/json"
	"fmt"
	"fxsync/internal/domain"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
)

// RateStoredEvent is published for every exchange rate written to the store.
type RateStoredEvent struct {
	ExchangeRateID int64           `json:"exchangeRateId"`
	FromCurrencyID int64           `json:"fromCurrencyId"`
	ToCurrencyID   int64           `json:"toCurrencyId"`
	Date           string          `json:"date"`
	Rate           decimal.Decimal `json:"rate"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type RatePublisher struct {
	writer messageWriter
	topic  string
}

func NewRatePublisher(brokers []string, topic string) *RatePublisher {
	return &RatePublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			BatchTimeout: 50 * time.Millisecond,
		},
		topic: topic,
	}
}

func (p *RatePublisher) PublishRateStored(ctx context.Context, rate domain.ExchangeRate) error {
	event := RateStoredEvent{
		ExchangeRateID: rate.ExchangeRateID,
		FromCurrencyID: rate.FromCurrencyID,
		ToCurrencyID:   rate.ToCurrencyID,
		Date:           rate.Date.Format(domain.DateLayout),
		Rate:           rate.Rate,
	}
	v, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal rate event: %w", err)
	}

	key := strconv.FormatInt(rate.FromCurrencyID, 10) + ":" + strconv.FormatInt(rate.ToCurrencyID, 10)
	return p.writer.WriteMessages(ctx, kafka.Message{
		Topic: p.topic,
		Key:   []byte(key),
		Value: v,
		Time:  time.Now(),
	})
}

func (p *RatePublisher) Close() error { return p.writer.Close() }

// NopPublisher drops events; used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) PublishRateStored(context.Context, domain.ExchangeRate) error { return nil }
