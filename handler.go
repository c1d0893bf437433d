/*
Package sfncallback implements Lambda handlers that take part in a Step
Functions workflow through the wait-for-task-token pattern: a state
publishes a message carrying a task token to SQS, a [Handler] consumes the
batch, a [CallbackWorker] decides whether the workflow should be
re-executed and reports the outcome back to Step Functions with that token.
*/
package sfncallback

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"go.uber.org/zap"
)

/*
Handler drives a [Worker] over an [events.SQSEvent], one message at a time
and in delivery order.

# FailureDlqURL

This property is optional.

The URL (or ARN) of a queue to which messages with a [Status] of UNREPORTED
will be forwarded. A forwarded message is removed from the source queue.
Make sure that your Lambda has an [execution role] with
enough permissions to write to said queue.

# ReportItemFailures

When set, messages with a [Status] of UNREPORTED that were not forwarded to
the failure DLQ are listed in the returned [events.SQSEventResponse], so the
queue redelivers them. Each message takes exactly one of the two routes. This requires
[ReportBatchItemFailures] to be enabled on the event source mapping.

# SQSClient

A properly configured [sqs.Client]. Only needed when FailureDlqURL is set.

# Logger

Optional. Defaults to a no-op logger.

[execution role]: https://docs.aws.amazon.com/lambda/latest/dg/lambda-intro-execution-role.html
[ReportBatchItemFailures]: https://docs.aws.amazon.com/lambda/latest/dg/with-sqs.html#services-sqs-batchfailurereporting
*/
type Handler struct {
	FailureDlqURL      string
	ReportItemFailures bool
	SQSClient          SQSClient
	Logger             *zap.Logger
}

// Interface to enable mocking of a SQSClient, usually for testing purposes.
type SQSClient interface {
	SendMessage(context.Context, *sqs.SendMessageInput, ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// Struct used to record errors that may occur while handling messages.
type handlerError struct {
	MessageId string
	Error     error
}

var errDeadline = errors.New("invocation deadline reached before the message was processed")

/*
New creates a [Handler] from [Settings]. The SQS client is built from cfg
only when a failure DLQ is configured.
*/
func New(cfg aws.Config, s *Settings, log *zap.Logger) *Handler {
	h := &Handler{
		FailureDlqURL:      s.FailureDlqURL,
		ReportItemFailures: s.ReportItemFailures,
		Logger:             log,
	}
	if h.FailureDlqURL != "" {
		h.SQSClient = sqs.NewFromConfig(cfg)
	}
	return h
}

/*
HandleEvent processes every message of the event with the given [Worker].

# Handling Messages

Messages are given to the [Worker] sequentially, in the order they were
delivered. A failing message never stops the ones after it. If the [Worker]
panics, the Handler considers that it failed to process the message and
assigns it a [Status] of FAILED itself. Unknown statuses are treated the same
way, with an appended error describing the issue.

The Handler stops starting new messages 5 seconds before the Lambda's
configured timeout (15 minutes when the context has no deadline). Messages
left untouched are marked SKIPPED and listed in the response so the queue
redelivers them.

# Reporting

Once the batch is done, a [WorkReport] is logged detailing every [Status] and
any errors that occurred, including errors raised by the Handler itself while
forwarding messages to the failure DLQ. No error is ever returned to the
Lambda framework, as that would return the whole batch to the queue and
repeat callbacks that were already delivered.
*/
func (h *Handler) HandleEvent(c context.Context, event *events.SQSEvent, worker Worker) (events.SQSEventResponse, error) {
	results := make(map[Status][]result)
	deadline := processingDeadline(c)

	for i := range event.Records {
		if !time.Now().Before(deadline) {
			for j := i; j < len(event.Records); j++ {
				results[Skipped] = append(results[Skipped], result{&event.Records[j], Skipped, errDeadline})
			}
			break
		}

		h.record(results, workWrapped(c, event.Records[i], worker))
	}

	eResp, hErrs := h.handleResults(c, results)
	h.printReport(event, results, hErrs)

	return eResp, nil
}

// Stores r under its status. A result that does not pass validation is kept
// as FAILED so it still shows up in the report.
func (h *Handler) record(results map[Status][]result, r result) {
	if err := r.validate(); err != nil {
		h.logger().Error("worker did not return a valid result", zap.Error(err))
		r.status = Failed
		r.err = errors.Join(r.err, err)
	}
	results[r.status] = append(results[r.status], r)
}

// Process the worker's results and handles them accordingly, returning a SQSEventResponse
// containing any messages from the batch that need to be redelivered.
func (h *Handler) handleResults(c context.Context, results map[Status][]result) (events.SQSEventResponse, []handlerError) {
	var res events.SQSEventResponse
	var errs []handlerError

	if results[Unreported] != nil {
		unsent, hErrs := h.handleUnreported(c, results[Unreported])
		errs = append(errs, hErrs...)
		if h.ReportItemFailures {
			res.BatchItemFailures = append(res.BatchItemFailures, batchItemFailures(unsent)...)
		}
	}

	if results[Skipped] != nil {
		res.BatchItemFailures = append(res.BatchItemFailures, batchItemFailures(results[Skipped])...)
	}

	return res, errs
}

// Forwards messages whose callback could not be delivered to the failure DLQ, if available.
// Returns the messages that were not forwarded, which are left to redelivery.
func (h *Handler) handleUnreported(c context.Context, results []result) ([]result, []handlerError) {
	if h.FailureDlqURL == "" {
		return results, nil
	}

	url, err := resolveQueueUrl(h.FailureDlqURL)
	if err != nil {
		errs := make([]handlerError, len(results))
		for i, r := range results {
			errs[i] = handlerError{MessageId: r.message.MessageId, Error: err}
		}
		return results, errs
	}

	var unsent []result
	var errs []handlerError

	for _, r := range results {
		if err := h.sendMessage(c, r.message, url); err != nil {
			unsent = append(unsent, r)
			errs = append(errs, handlerError{
				MessageId: r.message.MessageId,
				Error:     err,
			})
		}
	}

	return unsent, errs
}

func batchItemFailures(results []result) []events.SQSBatchItemFailure {
	items := make([]events.SQSBatchItemFailure, len(results))
	for i, r := range results {
		items[i] = events.SQSBatchItemFailure{ItemIdentifier: r.message.MessageId}
	}
	return items
}

// Forwards a message to the designated queue
func (h *Handler) sendMessage(c context.Context, message *events.SQSMessage, url *string) error {
	_, err := h.SQSClient.SendMessage(c, &sqs.SendMessageInput{
		MessageBody: &message.Body,
		MessageAttributes: func(m map[string]events.SQSMessageAttribute) map[string]types.MessageAttributeValue {
			convAtt := make(map[string]types.MessageAttributeValue, len(m))
			for k, v := range m {
				v := v
				convAtt[k] = types.MessageAttributeValue{
					DataType:         &v.DataType,
					BinaryValue:      v.BinaryValue,
					BinaryListValues: v.BinaryListValues,
					StringValue:      v.StringValue,
					StringListValues: v.StringListValues,
				}
			}
			return convAtt
		}(message.MessageAttributes),
		QueueUrl: url,
	})
	return err
}

func (h *Handler) logger() *zap.Logger {
	if h.Logger == nil {
		return zap.NewNop()
	}
	return h.Logger
}

// Returns the instant 5 seconds before the lambda timeout. No new
// message is started after it.
func processingDeadline(c context.Context) time.Time {
	deadline, ok := c.Deadline()
	if !ok {
		// Defaults to 15 minutes (lambda max)
		deadline = time.Now().Add(15 * time.Minute)
	}
	// Reserves 5 seconds for reporting
	return deadline.Add(-5 * time.Second)
}

// Wraps the worker in order to recover from panics
func workWrapped(c context.Context, msg events.SQSMessage, worker Worker) (r result) {
	defer func() {
		if p := recover(); p != nil {
			r = result{&msg, Failed, fmt.Errorf("worker panic:\n%v", p)}
		}
	}()

	s, e := worker.Work(c, msg)

	// Invalid status are handled as failures
	if !s.isValid() {
		e = errors.Join(e, fmt.Errorf("invalid status property `%v`", s))
		s = Failed
	}

	return result{&msg, s, e}
}

// Accepts either a queue URL or a queue ARN.
func resolveQueueUrl(queue string) (*string, error) {
	if strings.HasPrefix(queue, "arn:") {
		return generateQueueUrl(queue)
	}
	return &queue, nil
}

// Builds a queue's URL from its ARN
func generateQueueUrl(queueArn string) (*string, error) {
	s := strings.Split(queueArn, ":")
	if len(s) != 6 {
		return nil, fmt.Errorf("unable to parse queue's ARN: %v", queueArn)
	}
	url := fmt.Sprintf("https://sqs.%v.amazonaws.com/%v/%v", s[3], s[4], s[5])
	return &url, nil
}
