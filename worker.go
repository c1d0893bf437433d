package sfncallback

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
)

// Worker processes a single message of a batch and reports its [Status].
// Any error returned alongside the status is recorded in the batch [WorkReport].
type Worker interface {
	Work(context.Context, events.SQSMessage) (Status, error)
}
