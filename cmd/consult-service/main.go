// Command consult-service answers the workflow's consult state.
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

	lambda.Start(func(ctx context.Context, event map[string]any) (map[string]any, error) {
		h := sfncallback.Consulter{
			Delay:  settings.ConsultDelay,
			Logger: sfncallback.WithInvocation(ctx, logger),
		}
		return h.Handle(ctx, event)
	})
}
