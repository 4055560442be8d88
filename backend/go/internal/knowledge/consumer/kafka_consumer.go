// Package consumer feeds inbound transport messages to the orchestrator, one at a time.
package consumer

import (
	"Saber/backend/go/internal/knowledge/dedupe"
	"Saber/backend/go/internal/models"
	"Saber/backend/go/pkg/logger"
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/segmentio/kafka-go"
)

// MessageReader is the part of *kafka.Reader the consumer needs.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Handler answers one inbound message.
type Handler interface {
	HandleMessage(ctx context.Context, msg models.InboundMessage) models.Reply
}

// Deliverer sends a reply back to the conversation.
type Deliverer interface {
	Deliver(ctx context.Context, in models.InboundMessage, text string) error
}

// KafkaConsumer consumes inbound messages and processes each to completion
// before fetching the next.
type KafkaConsumer struct {
	reader     MessageReader
	handler    Handler
	publisher  Deliverer
	guard      dedupe.Guard
	errBackoff time.Duration
	logger     *logger.Logger
}

// NewKafkaConsumer creates a new KafkaConsumer. guard may be nil.
func NewKafkaConsumer(reader MessageReader, handler Handler, publisher Deliverer, guard dedupe.Guard, errBackoff time.Duration, logger *logger.Logger) *KafkaConsumer {
	return &KafkaConsumer{
		reader:     reader,
		handler:    handler,
		publisher:  publisher,
		guard:      guard,
		errBackoff: errBackoff,
		logger:     logger,
	}
}

// Run blocks until ctx is cancelled or the reader is closed.
func (c *KafkaConsumer) Run(ctx context.Context) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				return nil
			}
			c.logger.WithError(models.ErrorInfo{Message: err.Error(), Type: "transport_error"}).Error("failed to fetch message")
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(c.errBackoff):
			}
			continue
		}

		c.process(ctx, msg)

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.logger.WithError(models.ErrorInfo{Message: err.Error(), Type: "transport_error"}).Error("failed to commit message")
		}
	}
}

func (c *KafkaConsumer) process(ctx context.Context, msg kafka.Message) {
	var in models.InboundMessage
	if err := json.Unmarshal(msg.Value, &in); err != nil {
		c.logger.WithError(models.ErrorInfo{Message: err.Error()}).Error("failed to unmarshal message")
		return
	}
	if in.ReceivedAt.IsZero() {
		in.ReceivedAt = msg.Time
	}
	log := c.logger.WithField("message_id", in.ID)

	if c.guard != nil {
		first, err := c.guard.FirstSeen(ctx, in.ID)
		if err != nil {
			log.WithError(models.ErrorInfo{Message: err.Error()}).Warn("redelivery guard unavailable, processing anyway")
		} else if !first {
			log.Info("skipping redelivered message")
			return
		}
	}

	reply := c.handler.HandleMessage(ctx, in)
	if err := c.publisher.Deliver(ctx, in, reply.Text); err != nil {
		log.WithError(models.ErrorInfo{Message: err.Error(), Type: "delivery_error"}).Error("failed to deliver reply")
		return
	}
	log.WithPayload(map[string]interface{}{
		"route":        reply.Route,
		"facts_stored": reply.FactsStored,
	}).Info("message answered")
}
