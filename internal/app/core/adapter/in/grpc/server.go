package grpc

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/JoeShih716/go-bank-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-bank-ledger/internal/app/core/usecase"
	pb "github.com/JoeShih716/go-bank-ledger/proto/ledgerpb"
)

// GrpcServer 將 ledger.v1.LedgerService 轉接到 usecase.Service
type GrpcServer struct {
	pb.UnimplementedLedgerServiceServer

	core *usecase.Service
	log  zerolog.Logger
}

// NewGrpcServer 建立 GrpcServer
func NewGrpcServer(core *usecase.Service, log zerolog.Logger) *GrpcServer {
	return &GrpcServer{
		core: core,
		log:  log,
	}
}

func (s *GrpcServer) Deposit(ctx context.Context, req *pb.DepositRequest) (*pb.TransactionReply, error) {
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return nil, err
	}
	receipt, err := s.core.Deposit(ctx, req.AccountId, amount, txnID(req.ClientTxnId))
	return s.transactionReply(receipt, err)
}

func (s *GrpcServer) Withdraw(ctx context.Context, req *pb.WithdrawRequest) (*pb.TransactionReply, error) {
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return nil, err
	}
	receipt, err := s.core.Withdraw(ctx, req.AccountId, amount, txnID(req.ClientTxnId))
	return s.transactionReply(receipt, err)
}

func (s *GrpcServer) Transfer(ctx context.Context, req *pb.TransferRequest) (*pb.TransactionReply, error) {
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return nil, err
	}
	receipt, err := s.core.Transfer(ctx, req.SourceAccountId, req.DestinationAccountId, amount, txnID(req.ClientTxnId))
	return s.transactionReply(receipt, err)
}

func (s *GrpcServer) GetBalance(ctx context.Context, req *pb.GetBalanceRequest) (*pb.GetBalanceReply, error) {
	account, err := s.core.GetBalance(ctx, req.AccountId)
	if err != nil {
		return nil, s.toStatus(err)
	}
	return &pb.GetBalanceReply{
		AccountId: account.ID,
		OwnerId:   account.OwnerID,
		Balance:   account.Balance.String(),
		Currency:  account.Currency,
		Version:   account.Version,
	}, nil
}

func (s *GrpcServer) GetHistory(ctx context.Context, req *pb.GetHistoryRequest) (*pb.GetHistoryReply, error) {
	if req.Limit < 0 {
		return nil, status.Error(codes.InvalidArgument, "limit must not be negative")
	}
	page, err := s.core.GetHistory(ctx, req.AccountId, domain.Page{Limit: int(req.Limit), Before: req.Before})
	if err != nil {
		return nil, s.toStatus(err)
	}
	reply := &pb.GetHistoryReply{NextBefore: page.NextBefore}
	for i := range page.Entries {
		e := &page.Entries[i]
		reply.Entries = append(reply.Entries, entryReply(e.Transaction, e.Sequence, e.Changes, false))
	}
	return reply, nil
}

// txnID 呼叫端未提供冪等鍵時由服務產生 (該次請求無法安全重送)
func txnID(clientTxnID string) string {
	if clientTxnID == "" {
		return domain.NewTransactionID()
	}
	return clientTxnID
}

func parseAmount(s string) (domain.Amount, error) {
	amount, err := domain.ParseAmount(s)
	if err != nil {
		return 0, status.Error(codes.InvalidArgument, err.Error())
	}
	return amount, nil
}

// transactionReply Applied 回傳結果，其餘轉為 gRPC status
func (s *GrpcServer) transactionReply(receipt *usecase.Receipt, err error) (*pb.TransactionReply, error) {
	if err != nil {
		return nil, s.toStatus(err)
	}
	return entryReply(receipt.Transaction, receipt.Sequence, receipt.Balances, receipt.Replayed), nil
}

func entryReply(txn domain.Transaction, seq uint64, changes []domain.BalanceChange, replayed bool) *pb.TransactionReply {
	reply := &pb.TransactionReply{
		TransactionId:        txn.ID,
		Kind:                 txn.Kind.String(),
		Status:               txn.Status.String(),
		Amount:               txn.Amount.String(),
		SourceAccountId:      txn.Source,
		DestinationAccountId: txn.Destination,
		Reason:               string(txn.Reason),
		Sequence:             seq,
		Replayed:             replayed,
		Initiator:            txn.Initiator,
		CreatedAt:            txn.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	for _, c := range changes {
		reply.Balances = append(reply.Balances, &pb.BalanceChange{
			AccountId: c.AccountID,
			Before:    c.Before.String(),
			After:     c.After.String(),
			Version:   c.Version,
		})
	}
	return reply
}

// toStatus 依錯誤分類對應 gRPC status code
// 內部錯誤只記錄在 log，不把儲存層的細節回給呼叫端
func (s *GrpcServer) toStatus(err error) error {
	var code codes.Code
	switch domain.KindOf(err) {
	case domain.KindNotFound:
		code = codes.NotFound
	case domain.KindInvalidAmount, domain.KindInvalidRequest:
		code = codes.InvalidArgument
	case domain.KindInsufficientFunds:
		code = codes.FailedPrecondition
	case domain.KindConflict:
		code = codes.AlreadyExists
	case domain.KindTransient:
		code = codes.Unavailable
	case domain.KindCanceled:
		code = codes.Canceled
		if errors.Is(err, context.DeadlineExceeded) {
			code = codes.DeadlineExceeded
		}
	default:
		s.log.Error().Err(err).Msg("internal error")
		return status.Error(codes.Internal, "internal error")
	}
	return status.Error(code, err.Error())
}

var _ pb.LedgerServiceServer = (*GrpcServer)(nil)
