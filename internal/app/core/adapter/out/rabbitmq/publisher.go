package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/JoeShih716/go-bank-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-bank-ledger/internal/app/core/usecase"
)

// channel *amqp.Channel 中發布需要的部分
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Publisher 將帳本事件發布到 topic exchange，routing key 為事件類型
type Publisher struct {
	channel  channel
	exchange string
	log      zerolog.Logger
}

// NewPublisher 建立 Publisher
func NewPublisher(ch channel, exchange string, log zerolog.Logger) *Publisher {
	return &Publisher{channel: ch, exchange: exchange, log: log}
}

// Publish 以 JSON 發布事件，DeliveryMode 為 Persistent
func (p *Publisher) Publish(ctx context.Context, event domain.LedgerEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = p.channel.PublishWithContext(ctx,
		p.exchange, // exchange
		event.Type, // routing key
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    event.TransactionID,
			Timestamp:    event.OccurredAt,
			Body:         body,
			DeliveryMode: amqp.Persistent, // broker 重啟後訊息仍在
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	p.log.Debug().Str("routing_key", event.Type).Str("txn_id", event.TransactionID).Msg("ledger event published")
	return nil
}

var _ usecase.EventPublisher = (*Publisher)(nil)
