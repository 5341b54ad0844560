// Package audit 消費帳本事件並寫入稽核紀錄。
package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/JoeShih716/go-bank-ledger/internal/app/core/domain"
)

// ErrChannelClosed deliveries channel 被 broker 關閉
var ErrChannelClosed = errors.New("delivery channel closed")

// Record 一筆稽核紀錄，以交易 ID 為唯一鍵
type Record struct {
	TransactionID string
	Type          string
	Kind          string
	Status        string
	Amount        string
	Source        int64
	Destination   int64
	Reason        string
	Initiator     string
	Sequence      uint64
	OccurredAt    time.Time
	ProcessedAt   time.Time
}

// Repository 稽核紀錄的儲存，同一個交易 ID 重複寫入必須視為成功
type Repository interface {
	Save(ctx context.Context, record Record) error
}

// NewRecord 由事件建立稽核紀錄
func NewRecord(event domain.LedgerEvent, processedAt time.Time) Record {
	return Record{
		TransactionID: event.TransactionID,
		Type:          event.Type,
		Kind:          event.Kind,
		Status:        event.Status,
		Amount:        event.Amount,
		Source:        event.Source,
		Destination:   event.Destination,
		Reason:        event.Reason,
		Initiator:     event.Initiator,
		Sequence:      event.Sequence,
		OccurredAt:    event.OccurredAt,
		ProcessedAt:   processedAt,
	}
}

// Consumer 將 RabbitMQ 的帳本事件寫入 Repository，手動 Ack
type Consumer struct {
	repo        Repository
	log         zerolog.Logger
	saveTimeout time.Duration
	now         func() time.Time
}

// NewConsumer 建立 Consumer
func NewConsumer(repo Repository, log zerolog.Logger, saveTimeout time.Duration) *Consumer {
	return &Consumer{
		repo:        repo,
		log:         log,
		saveTimeout: saveTimeout,
		now:         time.Now,
	}
}

// Run 持續處理 deliveries 直到 ctx 取消或 channel 關閉
func (c *Consumer) Run(ctx context.Context, deliveries <-chan amqp.Delivery) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return ErrChannelClosed
			}
			c.Handle(ctx, d)
		}
	}
}

// Handle 處理單一訊息
// 格式錯誤: Nack 不 requeue (避免毒訊息無限重送)
// 儲存失敗: Nack 並 requeue，稍後重試
func (c *Consumer) Handle(ctx context.Context, d amqp.Delivery) {
	var event domain.LedgerEvent
	if err := json.Unmarshal(d.Body, &event); err != nil || event.TransactionID == "" {
		c.log.Error().Err(err).Str("routing_key", d.RoutingKey).Msg("dropping malformed ledger event")
		if err := d.Nack(false, false); err != nil {
			c.log.Error().Err(err).Msg("failed to nack malformed event")
		}
		return
	}

	logger := c.log.With().Str("txn_id", event.TransactionID).Str("type", event.Type).Logger()
	if err := c.save(ctx, event); err != nil {
		logger.Error().Err(err).Msg("failed to save audit record, requeueing")
		if err := d.Nack(false, true); err != nil {
			logger.Error().Err(err).Msg("failed to nack event")
		}
		return
	}
	if err := d.Ack(false); err != nil {
		logger.Error().Err(err).Msg("failed to ack event")
		return
	}
	logger.Debug().Msg("audit record saved")
}

func (c *Consumer) save(ctx context.Context, event domain.LedgerEvent) error {
	saveCtx := ctx
	if c.saveTimeout > 0 {
		var cancel context.CancelFunc
		saveCtx, cancel = context.WithTimeout(ctx, c.saveTimeout)
		defer cancel()
	}
	if err := c.repo.Save(saveCtx, NewRecord(event, c.now())); err != nil {
		return fmt.Errorf("save audit record: %w", err)
	}
	return nil
}
