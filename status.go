package sfncallback

/*
Status defines the states a [Worker] can report to the [Handler] for a
single message. These states are:

# SUCCEEDED

Denotes that the message was processed and a success callback carrying the
[Decision] reached the orchestrator.

# FAILED

Denotes that the message could not be processed and a failure callback was
attempted. Redelivering the message would not change the outcome, so the
[Handler] lets it be removed from the queue.

# UNREPORTED

Denotes that the callback call itself failed with a transient error. The
orchestrator never heard about this message. The [Handler] forwards it to
the failure DLQ when one is configured. Otherwise, or when forwarding fails,
it reports it back to the queue as a [batch item failure] so it is
redelivered. A message never takes both routes.

# SKIPPED

Assigned by the [Handler] itself to messages it did not start before the
invocation deadline. A [Worker] should never return it.

[batch item failure]: https://docs.aws.amazon.com/lambda/latest/dg/with-sqs.html#services-sqs-batchfailurereporting
*/
type Status string

const (
	Succeeded  Status = "SUCCEEDED"
	Failed     Status = "FAILED"
	Unreported Status = "UNREPORTED"
	Skipped    Status = "SKIPPED"
)

// isValid reports whether s is a status a Worker may return.
func (s *Status) isValid() bool {
	return *s == Succeeded || *s == Failed || *s == Unreported
}
