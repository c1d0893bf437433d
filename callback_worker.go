package sfncallback

import (
	"context"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"
)

// Placeholders passed as the task token of a failure callback when no token
// could be recovered from the message. Step Functions rejects them as
// invalid tokens; the attempt is still made so the failure is recorded.
const (
	InvalidTokenPlaceholder    = "Invalid or missing task token"
	UnexpectedErrorPlaceholder = "Unexpected error"
)

/*
CallbackWorker is the [Worker] that closes a wait-for-task-token step.

For each message it parses the body into an [InboundMessage], computes a
[Decision] and reports it with a success callback. Invalid bodies and any
other processing error are reported with a failure callback instead. Exactly
one callback is attempted per message.

# Reporter

The [TaskReporter] used for callbacks, usually a [StepFunctionsReporter].

# Policy

Optional. The decision rule applied to valid messages. Defaults to [Decide].

# Logger

Optional. Defaults to a no-op logger.
*/
type CallbackWorker struct {
	Reporter TaskReporter
	Policy   func(InboundMessage) Decision
	Logger   *zap.Logger
}

// Work implements [Worker].
func (w *CallbackWorker) Work(c context.Context, msg events.SQSMessage) (Status, error) {
	log := w.logger().With(zap.String("messageId", msg.MessageId))

	m, d, err := w.evaluate(msg.Body)
	if err != nil {
		return w.fail(c, log, msg, m.TaskToken, err)
	}

	log.Info("processing message",
		zap.String("taskToken", m.TaskToken),
		zap.String("executionId", m.ExecutionID),
		zap.String("businessKey", m.BusinessKey),
		zap.Int("retryCount", m.RetryCount),
		zap.Bool("reexecute", d.ShouldReexecute))

	if err := w.Reporter.ReportSuccess(c, m.TaskToken, d); err != nil {
		return reportStatus(err), err
	}
	return Succeeded, nil
}

// evaluate parses the body and decides on it. Panics are turned into errors
// so they reach the orchestrator as a failure callback.
func (w *CallbackWorker) evaluate(body string) (m InboundMessage, d Decision, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &MessageError{Kind: KindUnexpected, Err: fmt.Errorf("panic while evaluating message: %v", r)}
		}
	}()

	m, err = ParseMessage(body)
	if err != nil {
		return m, d, err
	}
	if w.Policy == nil {
		return m, Decide(m), nil
	}
	return m, w.Policy(m), nil
}

func (w *CallbackWorker) fail(c context.Context, log *zap.Logger, msg events.SQSMessage, token string, cause error) (Status, error) {
	kind := KindOf(cause)
	if kind == KindInvalidMessage {
		log.Error("invalid message", zap.String("body", msg.Body), zap.Error(cause))
	} else {
		log.Error("unexpected error processing message", zap.String("body", msg.Body), zap.Error(cause))
	}

	placeholder := token == ""
	if placeholder {
		token = failureToken(kind)
	}

	if err := w.Reporter.ReportFailure(c, token, kind, CauseOf(cause)); err != nil {
		// A placeholder token is never accepted, so redelivery cannot help.
		if placeholder {
			return Failed, fmt.Errorf("%w; %w", cause, err)
		}
		return reportStatus(err), fmt.Errorf("%w; %w", cause, err)
	}
	return Failed, cause
}

func (w *CallbackWorker) logger() *zap.Logger {
	if w.Logger == nil {
		return zap.NewNop()
	}
	return w.Logger
}

func failureToken(kind string) string {
	if kind == KindInvalidMessage {
		return InvalidTokenPlaceholder
	}
	return UnexpectedErrorPlaceholder
}

// reportStatus classifies a failed callback call.
func reportStatus(err error) Status {
	if IsTerminalReportError(err) {
		return Failed
	}
	return Unreported
}
