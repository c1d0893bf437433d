package sfncallback

import (
	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"
)

// WorkReport summarizes the outcome of a batch.
type WorkReport struct {
	BatchSize     int                `json:"batchSize"`
	Succeeded     int                `json:"succeeded,omitempty"`
	Failed        *StatusErrorReport `json:"failed,omitempty"`
	Unreported    *StatusErrorReport `json:"unreported,omitempty"`
	Skipped       *StatusErrorReport `json:"skipped,omitempty"`
	HandlerErrors []ErrorReport      `json:"handlerErrors,omitempty"`
}

type StatusErrorReport struct {
	Count  int           `json:"count"`
	Errors []ErrorReport `json:"errors"`
}

type ErrorReport struct {
	MessageId string `json:"messageId"`
	Error     string `json:"error"`
}

func newReport(event *events.SQSEvent, results map[Status][]result, hErrs []handlerError) WorkReport {
	return WorkReport{
		BatchSize:     len(event.Records),
		Succeeded:     len(results[Succeeded]),
		Failed:        statusReport(results[Failed]),
		Unreported:    statusReport(results[Unreported]),
		Skipped:       statusReport(results[Skipped]),
		HandlerErrors: errorToReport(hErrs),
	}
}

func (h *Handler) printReport(event *events.SQSEvent, results map[Status][]result, hErrs []handlerError) {
	h.logger().Info("batch processed", zap.Any("report", newReport(event, results, hErrs)))
}

func statusReport(results []result) *StatusErrorReport {
	if results == nil {
		return nil
	}
	return &StatusErrorReport{
		Count:  len(results),
		Errors: resultToReport(results),
	}
}

func resultToReport(results []result) []ErrorReport {
	conv := make([]ErrorReport, len(results))
	for i, r := range results {
		conv[i] = ErrorReport{MessageId: r.message.MessageId}
		if r.err != nil {
			conv[i].Error = r.err.Error()
		}
	}
	return conv
}

func errorToReport(errors []handlerError) []ErrorReport {
	if len(errors) == 0 {
		return nil
	}
	conv := make([]ErrorReport, len(errors))
	for i, r := range errors {
		conv[i] = ErrorReport{
			MessageId: r.MessageId,
			Error:     r.Error.Error(),
		}
	}
	return conv
}
