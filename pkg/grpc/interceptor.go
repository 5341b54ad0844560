package grpc

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// CallerInterceptor 在每個請求的 metadata 帶上呼叫者身分
func CallerInterceptor(key, caller string) grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		if caller != "" {
			ctx = metadata.AppendToOutgoingContext(ctx, key, caller)
		}
		return invoker(ctx, method, req, reply, cc, opts...)
	}
}

// LoggingInterceptor 記錄每個請求的耗時與 status code
func LoggingInterceptor(log zerolog.Logger) grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		start := time.Now()
		err := invoker(ctx, method, req, reply, cc, opts...)
		log.Debug().
			Str("method", method).
			Str("target", cc.Target()).
			Str("code", status.Code(err).String()).
			Dur("elapsed", time.Since(start)).
			Msg("grpc call")
		return err
	}
}
