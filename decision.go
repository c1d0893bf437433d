package sfncallback

import "regexp"

// RetryCeiling is the number of re-executions after which a workflow is no
// longer re-executed, whatever its business key.
const RetryCeiling = 2

var businessKeyPattern = regexp.MustCompile(`^.*-(\d+)$`)

// Decision is the outcome sent back to the orchestrator on success. The JSON
// field names are read by the state machine's choice state.
type Decision struct {
	ShouldReexecute bool `json:"reexecucao"`
	RetryCount      int  `json:"retryCount"`
}

/*
Decide computes whether the workflow should be re-executed.

Once the retry count reaches [RetryCeiling] the answer is always false.
Otherwise the workflow is re-executed when the business key ends in a hyphen
followed by an even number, e.g. "order-42". Keys without such a suffix
never trigger a re-execution.

Decide is pure and total.
*/
func Decide(m InboundMessage) Decision {
	d := Decision{RetryCount: m.RetryCount}
	if m.RetryCount >= RetryCeiling {
		return d
	}
	d.ShouldReexecute = evenSuffix(m.BusinessKey)
	return d
}

// evenSuffix only looks at the last digit, so suffixes of any length work.
func evenSuffix(key string) bool {
	match := businessKeyPattern.FindStringSubmatch(key)
	if match == nil {
		return false
	}
	digits := match[1]
	return (digits[len(digits)-1]-'0')%2 == 0
}
