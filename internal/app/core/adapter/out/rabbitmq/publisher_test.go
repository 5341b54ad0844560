package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/JoeShih716/go-bank-ledger/internal/app/core/domain"
)

type fakeChannel struct {
	exchange string
	key      string
	msg      amqp.Publishing
	err      error
}

func (c *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	c.exchange, c.key, c.msg = exchange, key, msg
	return c.err
}

func TestPublish(t *testing.T) {
	ch := &fakeChannel{}
	p := NewPublisher(ch, "ledger_events", zerolog.Nop())

	entry := &domain.LedgerEntry{
		Sequence: 3,
		Transaction: domain.Transaction{
			ID:          "t-1",
			Kind:        domain.TransactionKindTransfer,
			Amount:      domain.Units(30),
			Source:      1,
			Destination: 2,
			Status:      domain.TransactionStatusApplied,
		},
	}
	if err := p.Publish(context.Background(), domain.NewLedgerEvent(entry)); err != nil {
		t.Fatal(err)
	}
	if ch.exchange != "ledger_events" || ch.key != domain.EventTransactionApplied {
		t.Fatalf("exchange=%s key=%s", ch.exchange, ch.key)
	}
	if ch.msg.DeliveryMode != amqp.Persistent || ch.msg.MessageId != "t-1" {
		t.Fatalf("msg=%+v", ch.msg)
	}
	var got domain.LedgerEvent
	if err := json.Unmarshal(ch.msg.Body, &got); err != nil {
		t.Fatal(err)
	}
	if got.Amount != "30.0000" || got.Sequence != 3 || got.Kind != "transfer" {
		t.Fatalf("event=%+v", got)
	}
}

func TestPublishError(t *testing.T) {
	boom := errors.New("channel closed")
	p := NewPublisher(&fakeChannel{err: boom}, "ledger_events", zerolog.Nop())
	err := p.Publish(context.Background(), domain.LedgerEvent{Type: domain.EventTransactionRejected})
	if !errors.Is(err, boom) {
		t.Fatalf("err=%v", err)
	}
}
