// Package ledgerpb 為 ledger.proto 產生的 gRPC 程式碼
package ledgerpb

//go:generate protoc -I .. --go_out=. --go_opt=paths=source_relative --go-grpc_out=. --go-grpc_opt=paths=source_relative ../ledger.proto
