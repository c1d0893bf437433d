package sfncallback

import (
	"errors"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReport_CountsEveryStatus(t *testing.T) {
	event := sqsEvent("", "", "", "", "")
	results := map[Status][]result{
		Succeeded:  {{message: &event.Records[0], status: Succeeded}},
		Failed:     {{message: &event.Records[1], status: Failed, err: errors.New("invalid")}},
		Unreported: {{message: &event.Records[2], status: Unreported, err: errors.New("throttled")}},
		Skipped: {
			{message: &event.Records[3], status: Skipped, err: errDeadline},
			{message: &event.Records[4], status: Skipped, err: errDeadline},
		},
	}
	hErrs := []handlerError{{MessageId: "c", Error: errors.New("dlq unavailable")}}

	report := newReport(event, results, hErrs)

	assert.Equal(t, 5, report.BatchSize)
	assert.Equal(t, 1, report.Succeeded)
	require.NotNil(t, report.Failed)
	assert.Equal(t, []ErrorReport{{MessageId: "b", Error: "invalid"}}, report.Failed.Errors)
	require.NotNil(t, report.Unreported)
	assert.Equal(t, 1, report.Unreported.Count)
	require.NotNil(t, report.Skipped)
	assert.Equal(t, 2, report.Skipped.Count)
	assert.Equal(t, []ErrorReport{{MessageId: "c", Error: "dlq unavailable"}}, report.HandlerErrors)
}

func TestNewReport_OnlySuccesses_OmitsErrorSections(t *testing.T) {
	event := &events.SQSEvent{Records: []events.SQSMessage{{MessageId: "a"}}}
	results := map[Status][]result{Succeeded: {{message: &event.Records[0], status: Succeeded}}}

	report := newReport(event, results, nil)

	assert.Nil(t, report.Failed)
	assert.Nil(t, report.Unreported)
	assert.Nil(t, report.Skipped)
	assert.Nil(t, report.HandlerErrors)
}
