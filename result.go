package sfncallback

import (
	"reflect"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"gopkg.in/go-playground/validator.v9"
)

/*
result aggregates the processing state of a message, as returned by a [Worker].

# message

The message that was processed.

# status

The resulting status of the work, as defined in [Status].

# err

Any relevant errors that arose during the processing of the message.
*/
type result struct {
	message *events.SQSMessage
	status  Status
	err     error
}

// resultFields mirrors result with exported, tagged fields so it can be
// checked by the validator.
type resultFields struct {
	Message *events.SQSMessage `validate:"required"`
	Status  Status             `validate:"oneof=SUCCEEDED FAILED UNREPORTED SKIPPED"`
}

// Validates that the result holds an SQSMessage and that its status is one
// of SUCCEEDED, FAILED, UNREPORTED or SKIPPED.
func (r *result) validate() error {
	return validate.Struct(resultFields{Message: r.message, Status: r.status})
}

// Shared validator instance. Struct metadata is cached per instance.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(jsonFieldName)
	return v
}

// Names fields after their json tag in validation errors.
func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	switch name {
	case "-":
		return ""
	case "":
		return fld.Name
	}
	return name
}
