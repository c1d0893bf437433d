// Command init-validation validates the input of a workflow execution.
package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/lambda"

	sfncallback "github.com/ram-sa/go-sfn-callback"
)

func main() {
	settings, err := sfncallback.LoadSettings()
	if err != nil {
		log.Fatalf("unable to load settings, %v", err)
	}
	logger, err := sfncallback.NewLogger(settings.LogLevel)
	if err != nil {
		log.Fatalf("unable to build logger, %v", err)
	}
	defer logger.Sync()

	validator := sfncallback.NewInitValidator(settings.ProcessRequest, logger)

	lambda.Start(func(ctx context.Context, req sfncallback.ValidationRequest) (sfncallback.ValidationResponse, error) {
		v := *validator
		v.Logger = sfncallback.WithInvocation(ctx, logger)
		return v.Handle(ctx, req)
	})
}
