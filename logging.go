package sfncallback

import (
	"context"
	"fmt"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds a JSON logger writing to stdout at the given level.
func NewLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stdout"}
	return cfg.Build()
}

// WithInvocation tags log with the Lambda request id found in c, if any.
func WithInvocation(c context.Context, log *zap.Logger) *zap.Logger {
	if lc, ok := lambdacontext.FromContext(c); ok {
		return log.With(zap.String("requestId", lc.AwsRequestID))
	}
	return log
}
