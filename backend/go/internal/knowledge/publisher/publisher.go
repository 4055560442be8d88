// Package publisher sends replies back to the conversation transport.
package publisher

import (
	"Saber/backend/go/internal/models"
	"Saber/backend/go/pkg/logger"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// ErrDelivery is returned when a reply could not be sent even without the quote.
var ErrDelivery = errors.New("reply delivery failed")

// MessageWriter is the part of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// ReplyPublisher writes outbound messages to the reply topic.
type ReplyPublisher struct {
	writer MessageWriter
	logger *logger.Logger
}

// NewReplyPublisher creates a new ReplyPublisher.
func NewReplyPublisher(writer MessageWriter, logger *logger.Logger) *ReplyPublisher {
	return &ReplyPublisher{writer: writer, logger: logger}
}

// Deliver sends text as a reply to in, quoting it. If that fails it retries
// once without the quote.
func (p *ReplyPublisher) Deliver(ctx context.Context, in models.InboundMessage, text string) error {
	out := models.OutboundMessage{
		ID:              uuid.New().String(),
		ConversationID:  in.SenderID,
		Text:            text,
		QuotedMessageID: in.ID,
		SentAt:          time.Now(),
	}

	err := p.write(ctx, out)
	if err == nil {
		return nil
	}
	if out.QuotedMessageID == "" {
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}

	p.logger.WithError(models.ErrorInfo{Message: err.Error(), Type: "delivery_error"}).
		WithField("message_id", in.ID).
		Warn("quoted reply failed, retrying without quote")
	out.QuotedMessageID = ""
	if err := p.write(ctx, out); err != nil {
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}
	return nil
}

func (p *ReplyPublisher) write(ctx context.Context, out models.OutboundMessage) error {
	msgBytes, err := json.Marshal(out)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(out.ConversationID),
		Value: msgBytes,
	})
}
