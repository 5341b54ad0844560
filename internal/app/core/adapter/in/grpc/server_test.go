package grpc

import (
	"context"
	"fmt"
	"net"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/JoeShih716/go-bank-ledger/internal/app/core/adapter/out/memory"
	"github.com/JoeShih716/go-bank-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-bank-ledger/internal/app/core/usecase"
	"github.com/JoeShih716/go-bank-ledger/pkg/keylock"
	pb "github.com/JoeShih716/go-bank-ledger/proto/ledgerpb"
)

func startServer(t *testing.T) pb.LedgerServiceClient {
	t.Helper()
	accounts := memory.NewAccountStore(
		domain.Account{ID: 1, OwnerID: "a", Balance: domain.Units(100), Currency: "TWD"},
		domain.Account{ID: 2, OwnerID: "b", Balance: domain.Units(50), Currency: "TWD"},
	)
	ledger := memory.NewLedgerLog(nil)
	return serve(t, usecase.NewService(accounts, ledger, memory.NewTxManager(accounts, ledger), keylock.New[int64]()))
}

func serve(t *testing.T, svc *usecase.Service) pb.LedgerServiceClient {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	s := grpc.NewServer(grpc.ChainUnaryInterceptor(
		RecoveryInterceptor(zerolog.Nop()),
		CallerInterceptor(),
		LoggingInterceptor(zerolog.Nop()),
	))
	pb.RegisterLedgerServiceServer(s, NewGrpcServer(svc, zerolog.Nop()))
	go s.Serve(lis)
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })
	return pb.NewLedgerServiceClient(conn)
}

func TestLedgerServiceEndToEnd(t *testing.T) {
	client := startServer(t)
	ctx := metadata.AppendToOutgoingContext(context.Background(), CallerMetadataKey, "teller-1")

	reply, err := client.Transfer(ctx, &pb.TransferRequest{
		SourceAccountId:      1,
		DestinationAccountId: 2,
		Amount:               "30",
		ClientTxnId:          "t-1",
	})
	if err != nil {
		t.Fatal(err)
	}
	if reply.Status != "applied" || reply.Amount != "30.0000" || reply.Initiator != "teller-1" {
		t.Fatalf("reply=%+v", reply)
	}
	if len(reply.Balances) != 2 || reply.Balances[0].After != "70.0000" || reply.Balances[1].After != "80.0000" {
		t.Fatalf("balances=%+v", reply.Balances)
	}

	_, err = client.Withdraw(ctx, &pb.WithdrawRequest{AccountId: 1, Amount: "100", ClientTxnId: "w-1"})
	if status.Code(err) != codes.FailedPrecondition {
		t.Fatalf("err=%v want FailedPrecondition", err)
	}

	if _, err := client.Deposit(ctx, &pb.DepositRequest{AccountId: 2, Amount: "20", ClientTxnId: "d-1"}); err != nil {
		t.Fatal(err)
	}

	again, err := client.Transfer(ctx, &pb.TransferRequest{
		SourceAccountId:      1,
		DestinationAccountId: 2,
		Amount:               "30.0000",
		ClientTxnId:          "t-1",
	})
	if err != nil {
		t.Fatal(err)
	}
	if !again.Replayed || again.Sequence != reply.Sequence {
		t.Fatalf("replay=%+v", again)
	}

	a, err := client.GetBalance(ctx, &pb.GetBalanceRequest{AccountId: 1})
	if err != nil {
		t.Fatal(err)
	}
	b, err := client.GetBalance(ctx, &pb.GetBalanceRequest{AccountId: 2})
	if err != nil {
		t.Fatal(err)
	}
	if a.Balance != "70.0000" || b.Balance != "100.0000" {
		t.Fatalf("A=%s B=%s", a.Balance, b.Balance)
	}

	history, err := client.GetHistory(ctx, &pb.GetHistoryRequest{AccountId: 1, Limit: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(history.Entries) != 1 || history.Entries[0].Status != "rejected" || history.Entries[0].Reason != "insufficient_funds" {
		t.Fatalf("history=%+v", history.Entries)
	}
	next, err := client.GetHistory(ctx, &pb.GetHistoryRequest{AccountId: 1, Limit: 1, Before: history.NextBefore})
	if err != nil {
		t.Fatal(err)
	}
	if len(next.Entries) != 1 || next.Entries[0].TransactionId != "t-1" || next.NextBefore != 0 {
		t.Fatalf("next=%+v", next)
	}
}

func TestLedgerServiceErrorCodes(t *testing.T) {
	client := startServer(t)
	ctx := context.Background()

	tests := []struct {
		name string
		call func() error
		want codes.Code
	}{
		{"malformed amount", func() error {
			_, err := client.Deposit(ctx, &pb.DepositRequest{AccountId: 1, Amount: "1.23456", ClientTxnId: "x1"})
			return err
		}, codes.InvalidArgument},
		{"unknown account", func() error {
			_, err := client.GetBalance(ctx, &pb.GetBalanceRequest{AccountId: 404})
			return err
		}, codes.NotFound},
		{"same account", func() error {
			_, err := client.Transfer(ctx, &pb.TransferRequest{SourceAccountId: 1, DestinationAccountId: 1, Amount: "1", ClientTxnId: "x2"})
			return err
		}, codes.InvalidArgument},
		{"key reuse", func() error {
			if _, err := client.Deposit(ctx, &pb.DepositRequest{AccountId: 1, Amount: "1", ClientTxnId: "x3"}); err != nil {
				return err
			}
			_, err := client.Deposit(ctx, &pb.DepositRequest{AccountId: 1, Amount: "2", ClientTxnId: "x3"})
			return err
		}, codes.AlreadyExists},
		{"negative limit", func() error {
			_, err := client.GetHistory(ctx, &pb.GetHistoryRequest{AccountId: 1, Limit: -1})
			return err
		}, codes.InvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := status.Code(tt.call()); got != tt.want {
				t.Fatalf("code=%s want %s", got, tt.want)
			}
		})
	}
}

func TestGeneratedTransactionID(t *testing.T) {
	client := startServer(t)
	reply, err := client.Deposit(context.Background(), &pb.DepositRequest{AccountId: 1, Amount: "1"})
	if err != nil {
		t.Fatal(err)
	}
	if err := domain.ValidateTransactionID(reply.TransactionId); err != nil {
		t.Fatalf("generated id %q: %v", reply.TransactionId, err)
	}
}

// unreachableStore 模擬資料庫連線中斷
type unreachableStore struct {
	*memory.AccountStore
}

func (s *unreachableStore) Get(ctx context.Context, accountID int64) (*domain.Account, error) {
	return nil, fmt.Errorf("%w: dial tcp 10.0.3.7:3306: connect: connection refused", domain.ErrStorageUnavailable)
}

func TestInternalErrorHidesStorageDetail(t *testing.T) {
	accounts := memory.NewAccountStore(domain.Account{ID: 1, OwnerID: "a", Balance: domain.Units(100), Currency: "TWD"})
	ledger := memory.NewLedgerLog(nil)
	store := &unreachableStore{AccountStore: accounts}
	client := serve(t, usecase.NewService(store, ledger, memory.NewTxManager(accounts, ledger), keylock.New[int64]()))
	ctx := context.Background()

	calls := map[string]func() error{
		"balance": func() error {
			_, err := client.GetBalance(ctx, &pb.GetBalanceRequest{AccountId: 1})
			return err
		},
		"deposit": func() error {
			_, err := client.Deposit(ctx, &pb.DepositRequest{AccountId: 1, Amount: "1", ClientTxnId: "down-1"})
			return err
		},
	}
	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			st := status.Convert(call())
			if st.Code() != codes.Internal {
				t.Fatalf("code=%s want Internal", st.Code())
			}
			if strings.Contains(st.Message(), "3306") || strings.Contains(st.Message(), "storage") {
				t.Fatalf("message leaks storage detail: %q", st.Message())
			}
		})
	}
}
