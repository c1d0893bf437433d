// Command sqs-callback consumes task token messages from SQS and reports a
// re-execution decision back to Step Functions.
package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/service/sfn"
	"go.uber.org/zap"

	sfncallback "github.com/ram-sa/go-sfn-callback"
)

type app struct {
	handler *sfncallback.Handler
	worker  *sfncallback.CallbackWorker
	logger  *zap.Logger
}

func main() {
	ctx := context.Background()

	settings, err := sfncallback.LoadSettings()
	if err != nil {
		log.Fatalf("unable to load settings, %v", err)
	}
	logger, err := sfncallback.NewLogger(settings.LogLevel)
	if err != nil {
		log.Fatalf("unable to build logger, %v", err)
	}
	defer logger.Sync()

	cfg, err := settings.LoadAWSConfig(ctx)
	if err != nil {
		logger.Fatal("unable to load AWS config", zap.Error(err))
	}

	a := &app{
		handler: sfncallback.New(cfg, settings, logger),
		worker: &sfncallback.CallbackWorker{
			Reporter: &sfncallback.StepFunctionsReporter{Client: sfn.NewFromConfig(cfg)},
			Logger:   logger,
		},
		logger: logger,
	}

	lambda.Start(a.handleRequest)
}

func (a *app) handleRequest(ctx context.Context, sqsEvent events.SQSEvent) (events.SQSEventResponse, error) {
	logger := sfncallback.WithInvocation(ctx, a.logger)
	handler := *a.handler
	handler.Logger = logger
	worker := *a.worker
	worker.Logger = logger
	return handler.HandleEvent(ctx, &sqsEvent, &worker)
}
