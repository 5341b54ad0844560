package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"

	"github.com/JoeShih716/go-bank-ledger/pkg/grpc"
	"github.com/JoeShih716/go-bank-ledger/pkg/logger"
	pb "github.com/JoeShih716/go-bank-ledger/proto/ledgerpb"
)

const usage = `usage: ledgerctl [global flags] <command> [flags]

commands:
  deposit   -account ID -amount AMOUNT [-txn ID]
  withdraw  -account ID -amount AMOUNT [-txn ID]
  transfer  -from ID -to ID -amount AMOUNT [-txn ID]
  balance   -account ID
  history   -account ID [-limit N] [-before SEQ]
  bench     -from ID -to ID [-amount AMOUNT] [-n TOTAL] [-c CONCURRENCY]

global flags:
`

func main() {
	addr := flag.String("addr", "localhost:50051", "ledger gRPC address")
	caller := flag.String("caller", "ledgerctl", "caller identity sent as x-caller-id")
	timeout := flag.Duration("timeout", 5*time.Second, "per-command timeout (bench: whole run)")
	verbose := flag.Bool("v", false, "log every RPC")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	level := "info"
	if *verbose {
		level = "debug"
	}
	log, err := logger.New(logger.Config{Level: level, Format: "console"}, "ledgerctl")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	pool := grpc.NewPool(
		grpc.WithInterceptor(grpc.CallerInterceptor("x-caller-id", *caller)),
		grpc.WithInterceptor(grpc.LoggingInterceptor(log)),
	)
	defer pool.Close()
	conn, err := pool.GetConnection(*addr)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect")
	}
	client := pb.NewLedgerServiceClient(conn)

	if err := run(client, flag.Arg(0), flag.Args()[1:], *timeout, log); err != nil {
		log.Error().Err(err).Str("command", flag.Arg(0)).Msg("command failed")
		pool.Close()
		os.Exit(1)
	}
}

func run(client pb.LedgerServiceClient, command string, args []string, timeout time.Duration, log zerolog.Logger) error {
	fs := flag.NewFlagSet(command, flag.ExitOnError)
	account := fs.Int64("account", 0, "account ID")
	from := fs.Int64("from", 0, "source account ID")
	to := fs.Int64("to", 0, "destination account ID")
	amount := fs.String("amount", "1", "decimal amount, e.g. 12.5")
	txn := fs.String("txn", "", "client transaction ID (generated by the server when empty)")
	limit := fs.Int("limit", 20, "history page size")
	before := fs.Uint64("before", 0, "history cursor (sequence)")
	total := fs.Int("n", 10000, "bench: total transfers")
	concurrency := fs.Int("c", 100, "bench: concurrent workers")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var (
		reply proto.Message
		err   error
	)
	switch command {
	case "deposit":
		reply, err = client.Deposit(ctx, &pb.DepositRequest{AccountId: *account, Amount: *amount, ClientTxnId: *txn})
	case "withdraw":
		reply, err = client.Withdraw(ctx, &pb.WithdrawRequest{AccountId: *account, Amount: *amount, ClientTxnId: *txn})
	case "transfer":
		reply, err = client.Transfer(ctx, &pb.TransferRequest{
			SourceAccountId:      *from,
			DestinationAccountId: *to,
			Amount:               *amount,
			ClientTxnId:          *txn,
		})
	case "balance":
		reply, err = client.GetBalance(ctx, &pb.GetBalanceRequest{AccountId: *account})
	case "history":
		reply, err = client.GetHistory(ctx, &pb.GetHistoryRequest{AccountId: *account, Limit: int32(*limit), Before: *before})
	case "bench":
		var report *benchReport
		report, err = bench(ctx, client, benchConfig{
			From:        *from,
			To:          *to,
			Amount:      *amount,
			Total:       *total,
			Concurrency: *concurrency,
		})
		if report != nil {
			log.Info().
				Int("total", report.Total).
				Dur("elapsed", report.Elapsed).
				Float64("tps", report.TPS()).
				Interface("codes", report.Codes).
				Msg("bench finished")
		}
		return err
	default:
		return fmt.Errorf("unknown command %q", command)
	}
	if err != nil {
		return err
	}
	return printJSON(reply)
}

func printJSON(m proto.Message) error {
	b, err := protojson.MarshalOptions{Multiline: true, EmitUnpopulated: true}.Marshal(m)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(os.Stdout, string(b))
	return err
}
