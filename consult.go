package sfncallback

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
)

// MaxConsultRetries is the number of consult attempts after which the
// consult step stops asking for the request to be processed. It is unrelated
// to [RetryCeiling].
const MaxConsultRetries = 3

// DefaultConsultDelay is the throttle applied before every consult response
// when CONSULT_DELAY is unset.
const DefaultConsultDelay = 2 * time.Second

// Consulter answers the workflow's consult state after a fixed delay.
// A zero Delay answers immediately.
type Consulter struct {
	Delay  time.Duration
	Logger *zap.Logger
}

/*
Handle waits for the configured delay, if any, and then builds the response.

The response holds businessKey, executionId, retryCount and
processarRequest (true while retryCount is below [MaxConsultRetries]), with
defaults for missing keys. Every field of the event is then copied over it,
so values present in the event always win.

If c ends before the delay elapses the interruption is logged and the
response is built anyway.
*/
func (h *Consulter) Handle(c context.Context, event map[string]any) (map[string]any, error) {
	log := h.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log.Info("payload received", zap.Any("payload", event))

	if h.Delay > 0 {
		timer := time.NewTimer(h.Delay)
		select {
		case <-timer.C:
		case <-c.Done():
			timer.Stop()
			log.Error("interrupted while waiting", zap.Error(c.Err()))
		}
	}

	retryCount, err := intField(event, "retryCount")
	if err != nil {
		return nil, err
	}

	response := map[string]any{
		"businessKey":      valueOr(event, "businessKey", "default-businessKey"),
		"executionId":      valueOr(event, "executionId", "default-executionId"),
		"retryCount":       retryCount,
		"processarRequest": retryCount < MaxConsultRetries,
	}
	for k, v := range event {
		response[k] = v
	}
	return response, nil
}

func valueOr(event map[string]any, key string, def any) any {
	if v, ok := event[key]; ok {
		return v
	}
	return def
}

// intField reads an integer from a decoded JSON object. Missing keys read as 0.
func intField(event map[string]any, key string) (int, error) {
	v, ok := event[key]
	if !ok {
		return 0, nil
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case float64:
		if n == math.Trunc(n) && !math.IsInf(n, 0) {
			return int(n), nil
		}
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), nil
		}
	}
	return 0, fmt.Errorf("%s must be an integer, got %v", key, v)
}
