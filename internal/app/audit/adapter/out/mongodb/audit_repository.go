package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/JoeShih716/go-bank-ledger/internal/app/audit"
)

// CollectionName 稽核紀錄的 collection
const CollectionName = "audit_logs"

// auditDocument 存入 MongoDB 的文件，_id 為交易 ID，重送的事件不會產生第二筆
type auditDocument struct {
	ID          string    `bson:"_id"`
	Type        string    `bson:"type"`
	Kind        string    `bson:"kind"`
	Status      string    `bson:"status"`
	Amount      string    `bson:"amount"`
	Source      int64     `bson:"source,omitempty"`
	Destination int64     `bson:"destination,omitempty"`
	Reason      string    `bson:"reason,omitempty"`
	Initiator   string    `bson:"initiator,omitempty"`
	Sequence    int64     `bson:"sequence"`
	OccurredAt  time.Time `bson:"occurred_at"`
	ProcessedAt time.Time `bson:"processed_at"`
}

func newAuditDocument(r audit.Record) auditDocument {
	return auditDocument{
		ID:          r.TransactionID,
		Type:        r.Type,
		Kind:        r.Kind,
		Status:      r.Status,
		Amount:      r.Amount,
		Source:      r.Source,
		Destination: r.Destination,
		Reason:      r.Reason,
		Initiator:   r.Initiator,
		Sequence:    int64(r.Sequence),
		OccurredAt:  r.OccurredAt,
		ProcessedAt: r.ProcessedAt,
	}
}

func (d auditDocument) toRecord() audit.Record {
	return audit.Record{
		TransactionID: d.ID,
		Type:          d.Type,
		Kind:          d.Kind,
		Status:        d.Status,
		Amount:        d.Amount,
		Source:        d.Source,
		Destination:   d.Destination,
		Reason:        d.Reason,
		Initiator:     d.Initiator,
		Sequence:      uint64(d.Sequence),
		OccurredAt:    d.OccurredAt,
		ProcessedAt:   d.ProcessedAt,
	}
}

// AuditRepository 以 MongoDB 實作 audit.Repository
type AuditRepository struct {
	collection *mongo.Collection
}

// NewAuditRepository 建立 AuditRepository
func NewAuditRepository(client *mongo.Client, dbName string) *AuditRepository {
	return &AuditRepository{collection: client.Database(dbName).Collection(CollectionName)}
}

// Save 寫入稽核紀錄，重複的交易 ID 視為已處理
func (r *AuditRepository) Save(ctx context.Context, record audit.Record) error {
	_, err := r.collection.InsertOne(ctx, newAuditDocument(record))
	if mongo.IsDuplicateKeyError(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to insert audit log: %w", err)
	}
	return nil
}

// Get 以交易 ID 讀取稽核紀錄
func (r *AuditRepository) Get(ctx context.Context, transactionID string) (*audit.Record, error) {
	var doc auditDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": transactionID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("audit record %s: %w", transactionID, err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find audit log: %w", err)
	}
	rec := doc.toRecord()
	return &rec, nil
}

var _ audit.Repository = (*AuditRepository)(nil)
