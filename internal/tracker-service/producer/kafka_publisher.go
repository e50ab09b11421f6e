package producer

import (
	"context"
	"encoding/json"
	"time"

	skafka "github.com/radieske/pari-flow/internal/shared/kafka"
	"github.com/radieske/pari-flow/pkg/contracts/events"
)

// KafkaPublisher emite os eventos de aposta nos tópicos do tracker.
type KafkaPublisher struct {
	placed  *skafka.Writer
	settled *skafka.Writer
}

func New(brokers, topicPlaced, topicSettled string) *KafkaPublisher {
	return &KafkaPublisher{
		placed:  skafka.NewWriter(brokers, topicPlaced),
		settled: skafka.NewWriter(brokers, topicSettled),
	}
}

func (p *KafkaPublisher) PublishBetPlaced(ctx context.Context, e events.BetPlaced) error {
	e.TsUnixMs = time.Now().UnixMilli()
	b, _ := json.Marshal(e)
	return skafka.WriteJSON(ctx, p.placed, e.BetID, b)
}

func (p *KafkaPublisher) PublishBetSettled(ctx context.Context, e events.BetSettled) error {
	e.TsUnixMs = time.Now().UnixMilli()
	b, _ := json.Marshal(e)
	return skafka.WriteJSON(ctx, p.settled, e.BetID, b)
}

func (p *KafkaPublisher) Close() error {
	if err := p.placed.Close(); err != nil {
		return err
	}
	return p.settled.Close()
}
