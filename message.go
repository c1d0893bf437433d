package sfncallback

import (
	"fmt"
	"math"

	jsoniter "github.com/json-iterator/go"
)

// Object keys must match the field names exactly: a "TaskToken" key is not a
// task token.
var jsonCodec = jsoniter.Config{
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
	CaseSensitive:          true,
}.Froze()

// InboundMessage is the body of a message delivered by the queue, as
// published by a Step Functions task using the wait-for-task-token pattern.
type InboundMessage struct {
	TaskToken   string `json:"taskToken" validate:"required"`
	ExecutionID string `json:"executionId" validate:"required"`
	BusinessKey string `json:"businessKey,omitempty"`
	RetryCount  int    `json:"retryCount,omitempty"`
}

// inboundBody is the wire form of InboundMessage. retryCount is read as a
// number so integral values written as 1.0 are accepted.
type inboundBody struct {
	TaskToken   string  `json:"taskToken"`
	ExecutionID string  `json:"executionId"`
	BusinessKey string  `json:"businessKey"`
	RetryCount  float64 `json:"retryCount"`
}

/*
ParseMessage decodes and validates a message body.

The returned error wraps [ErrInvalidMessage] when the body is not a JSON
object of the expected shape, or when taskToken or executionId are absent,
null or empty. Keys are matched case-sensitively. On a validation failure
the partially decoded message is still returned, so callers can recover
whatever task token was present.
*/
func ParseMessage(body string) (InboundMessage, error) {
	data := []byte(body)
	var b inboundBody
	if !jsonCodec.Valid(data) {
		return InboundMessage{}, fmt.Errorf("%w: invalid JSON: %s", ErrInvalidMessage, body)
	}
	if err := jsonCodec.Unmarshal(data, &b); err != nil {
		return InboundMessage{}, fmt.Errorf("%w: invalid JSON: %s", ErrInvalidMessage, body)
	}
	m := InboundMessage{
		TaskToken:   b.TaskToken,
		ExecutionID: b.ExecutionID,
		BusinessKey: b.BusinessKey,
	}
	if b.RetryCount != math.Trunc(b.RetryCount) || math.Abs(b.RetryCount) > math.MaxInt32 {
		return m, fmt.Errorf("%w: retryCount must be an integer, got %v", ErrInvalidMessage, b.RetryCount)
	}
	m.RetryCount = int(b.RetryCount)

	if err := validate.Struct(m); err != nil {
		return m, invalidFields(err)
	}
	return m, nil
}
