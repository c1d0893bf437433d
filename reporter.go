package sfncallback

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sfn"
	"github.com/aws/aws-sdk-go-v2/service/sfn/types"
)

// Step Functions limits for SendTaskFailure, in characters.
const (
	maxErrorLen = 256
	maxCauseLen = 32768
)

// TaskReporter reports the outcome of a task back to the orchestrator that
// issued its task token.
type TaskReporter interface {
	ReportSuccess(ctx context.Context, taskToken string, d Decision) error
	ReportFailure(ctx context.Context, taskToken, kind, cause string) error
}

// Interface to enable mocking of a SFNClient, usually for testing purposes.
type SFNClient interface {
	SendTaskSuccess(context.Context, *sfn.SendTaskSuccessInput, ...func(*sfn.Options)) (*sfn.SendTaskSuccessOutput, error)
	SendTaskFailure(context.Context, *sfn.SendTaskFailureInput, ...func(*sfn.Options)) (*sfn.SendTaskFailureOutput, error)
}

// StepFunctionsReporter is a [TaskReporter] backed by the Step Functions
// task token callback API. Each report is exactly one API call; failures are
// returned as they are, never retried.
type StepFunctionsReporter struct {
	Client SFNClient
}

func (r *StepFunctionsReporter) ReportSuccess(ctx context.Context, taskToken string, d Decision) error {
	output, err := jsonCodec.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal decision: %w", err)
	}
	_, err = r.Client.SendTaskSuccess(ctx, &sfn.SendTaskSuccessInput{
		TaskToken: aws.String(taskToken),
		Output:    aws.String(string(output)),
	})
	if err != nil {
		return fmt.Errorf("send task success: %w", err)
	}
	return nil
}

func (r *StepFunctionsReporter) ReportFailure(ctx context.Context, taskToken, kind, cause string) error {
	_, err := r.Client.SendTaskFailure(ctx, &sfn.SendTaskFailureInput{
		TaskToken: aws.String(taskToken),
		Error:     aws.String(truncate(kind, maxErrorLen)),
		Cause:     aws.String(truncate(cause, maxCauseLen)),
	})
	if err != nil {
		return fmt.Errorf("send task failure: %w", err)
	}
	return nil
}

/*
IsTerminalReportError reports whether a callback failed because the task
token can never be used again: it is malformed, its execution is gone, or
the task already timed out. Redelivering the message cannot fix any of these.
*/
func IsTerminalReportError(err error) bool {
	var invalidToken *types.InvalidToken
	var notExist *types.TaskDoesNotExist
	var timedOut *types.TaskTimedOut
	return errors.As(err, &invalidToken) ||
		errors.As(err, &notExist) ||
		errors.As(err, &timedOut)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
