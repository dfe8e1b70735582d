package grpc

import (
	"context"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// UnaryLoggingInterceptor 記錄每個 unary 呼叫的方法、狀態碼與耗時
//
// 參數:
//
//	logger: zap logger
//
// 回傳:
//
//	grpc.UnaryServerInterceptor: 可傳給 grpc.ChainUnaryInterceptor
func UnaryLoggingInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		code := status.Code(err)

		level := zapcore.DebugLevel
		switch code {
		case codes.OK:
		case codes.Internal, codes.Unknown:
			level = zapcore.ErrorLevel
		default:
			level = zapcore.InfoLevel
		}
		if ce := logger.Check(level, "grpc request"); ce != nil {
			ce.Write(
				zap.String("method", info.FullMethod),
				zap.String("code", code.String()),
				zap.Duration("duration", time.Since(start)),
				zap.Error(err),
			)
		}
		return resp, err
	}
}
