package audit

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/JoeShih716/go-bank-ledger/internal/app/core/domain"
)

type ackResult struct {
	acked   bool
	nacked  bool
	requeue bool
}

type fakeAcknowledger struct {
	mu      sync.Mutex
	results map[uint64]*ackResult
}

func newFakeAcknowledger() *fakeAcknowledger {
	return &fakeAcknowledger{results: make(map[uint64]*ackResult)}
}

func (a *fakeAcknowledger) result(tag uint64) *ackResult {
	a.mu.Lock()
	defer a.mu.Unlock()
	r, ok := a.results[tag]
	if !ok {
		r = &ackResult{}
		a.results[tag] = r
	}
	return r
}

func (a *fakeAcknowledger) Ack(tag uint64, multiple bool) error {
	a.result(tag).acked = true
	return nil
}

func (a *fakeAcknowledger) Nack(tag uint64, multiple, requeue bool) error {
	r := a.result(tag)
	r.nacked, r.requeue = true, requeue
	return nil
}

func (a *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	return a.Nack(tag, false, requeue)
}

type memoryRepo struct {
	mu      sync.Mutex
	records map[string]Record
	err     error
}

func (r *memoryRepo) Save(ctx context.Context, record Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	if r.records == nil {
		r.records = make(map[string]Record)
	}
	r.records[record.TransactionID] = record
	return nil
}

func delivery(t *testing.T, ack amqp.Acknowledger, tag uint64, v any) amqp.Delivery {
	t.Helper()
	body, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return amqp.Delivery{Acknowledger: ack, DeliveryTag: tag, Body: body, RoutingKey: domain.EventTransactionApplied}
}

func sampleEvent(id string) domain.LedgerEvent {
	return domain.NewLedgerEvent(&domain.LedgerEntry{
		Sequence: 1,
		Transaction: domain.Transaction{
			ID:          id,
			Kind:        domain.TransactionKindDeposit,
			Amount:      domain.Units(5),
			Destination: 1,
			Status:      domain.TransactionStatusApplied,
		},
	})
}

func TestHandleSavesAndAcks(t *testing.T) {
	ack := newFakeAcknowledger()
	repo := &memoryRepo{}
	c := NewConsumer(repo, zerolog.Nop(), time.Second)

	c.Handle(context.Background(), delivery(t, ack, 1, sampleEvent("t-1")))
	if !ack.result(1).acked {
		t.Fatal("expected ack")
	}
	rec, ok := repo.records["t-1"]
	if !ok || rec.Amount != "5.0000" || rec.Kind != "deposit" || rec.ProcessedAt.IsZero() {
		t.Fatalf("record=%+v", rec)
	}
}

func TestHandleMalformedIsDropped(t *testing.T) {
	ack := newFakeAcknowledger()
	c := NewConsumer(&memoryRepo{}, zerolog.Nop(), time.Second)

	c.Handle(context.Background(), amqp.Delivery{Acknowledger: ack, DeliveryTag: 7, Body: []byte("{not json")})
	r := ack.result(7)
	if !r.nacked || r.requeue {
		t.Fatalf("result=%+v want nack without requeue", r)
	}
}

func TestHandleSaveFailureRequeues(t *testing.T) {
	ack := newFakeAcknowledger()
	c := NewConsumer(&memoryRepo{err: errors.New("mongo down")}, zerolog.Nop(), time.Second)

	c.Handle(context.Background(), delivery(t, ack, 2, sampleEvent("t-2")))
	r := ack.result(2)
	if !r.nacked || !r.requeue || r.acked {
		t.Fatalf("result=%+v want nack with requeue", r)
	}
}

func TestRunStopsWhenChannelCloses(t *testing.T) {
	ack := newFakeAcknowledger()
	repo := &memoryRepo{}
	c := NewConsumer(repo, zerolog.Nop(), time.Second)

	ch := make(chan amqp.Delivery, 2)
	ch <- delivery(t, ack, 1, sampleEvent("a"))
	ch <- delivery(t, ack, 2, sampleEvent("b"))
	close(ch)

	if err := c.Run(context.Background(), ch); !errors.Is(err, ErrChannelClosed) {
		t.Fatalf("err=%v", err)
	}
	if len(repo.records) != 2 {
		t.Fatalf("records=%d", len(repo.records))
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := NewConsumer(&memoryRepo{}, zerolog.Nop(), time.Second)
	if err := c.Run(ctx, make(chan amqp.Delivery)); !errors.Is(err, context.Canceled) {
		t.Fatalf("err=%v", err)
	}
}
