package sfncallback

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ValidationRequest is the input of the workflow's first state.
type ValidationRequest struct {
	BusinessKey string  `json:"businessKey" validate:"required"`
	ExecutionID *string `json:"executionId"`
	RetryCount  int     `json:"retryCount"`
}

// ValidationResponse echoes the request along with the processing flag.
type ValidationResponse struct {
	BusinessKey    string  `json:"businessKey"`
	ProcessRequest bool    `json:"processarRequest"`
	ExecutionID    *string `json:"executionId"`
	RetryCount     int     `json:"retryCount"`
}

/*
InitValidator validates the input of a workflow execution before any work
is queued.

# ProcessRequest

Returned as is in every response. The state machine uses it to decide
whether the request is processed at all.
*/
type InitValidator struct {
	ProcessRequest bool
	Logger         *zap.Logger
}

// NewInitValidator returns an InitValidator with an explicit processing flag.
func NewInitValidator(processRequest bool, log *zap.Logger) *InitValidator {
	return &InitValidator{ProcessRequest: processRequest, Logger: log}
}

// Handle validates req and builds the response. A request without a
// business key fails with an error wrapping [ErrInvalidMessage].
func (v *InitValidator) Handle(c context.Context, req ValidationRequest) (ValidationResponse, error) {
	log := v.Logger
	if log == nil {
		log = zap.NewNop()
	}

	if err := validate.Struct(req); err != nil {
		err = invalidFields(err)
		log.Error("invalid message", zap.Any("event", req), zap.Error(err))
		return ValidationResponse{}, fmt.Errorf("failed to process invalid message: %w", err)
	}

	log.Info("processing message",
		zap.String("businessKey", req.BusinessKey),
		zap.String("uuid", uuid.NewString()),
		zap.Bool("processRequest", v.ProcessRequest))

	return ValidationResponse{
		BusinessKey:    req.BusinessKey,
		ProcessRequest: v.ProcessRequest,
		ExecutionID:    req.ExecutionID,
		RetryCount:     req.RetryCount,
	}, nil
}
