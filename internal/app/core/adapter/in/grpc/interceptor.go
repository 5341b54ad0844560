package grpc

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/JoeShih716/go-bank-ledger/internal/app/core/domain"
)

// CallerMetadataKey 呼叫者身分的 metadata key，只做稽核紀錄，不做授權
const CallerMetadataKey = "x-caller-id"

// CallerInterceptor 將 metadata 中的呼叫者身分放入 context
func CallerInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if values := md.Get(CallerMetadataKey); len(values) > 0 && values[0] != "" {
				ctx = domain.WithInitiator(ctx, values[0])
			}
		}
		return handler(ctx, req)
	}
}

// LoggingInterceptor 記錄每個請求的 method、耗時與 status code
func LoggingInterceptor(log zerolog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		code := status.Code(err)

		event := log.Debug()
		switch code {
		case codes.OK, codes.NotFound, codes.InvalidArgument, codes.FailedPrecondition, codes.AlreadyExists:
		case codes.Internal, codes.Unknown:
			event = log.Error()
		default:
			event = log.Warn()
		}
		event.Str("method", info.FullMethod).
			Str("code", code.String()).
			Dur("elapsed", time.Since(start)).
			Err(err).
			Msg("grpc request")
		return resp, err
	}
}

// RecoveryInterceptor 將 handler 的 panic 轉為 Internal，避免整個 process 結束
func RecoveryInterceptor(log zerolog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Str("method", info.FullMethod).Msg("grpc handler panicked")
				err = status.Error(codes.Internal, "internal error")
			}
		}()
		return handler(ctx, req)
	}
}
