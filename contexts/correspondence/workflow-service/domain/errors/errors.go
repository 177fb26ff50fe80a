package errors

import "errors"

var (
	ErrInvalidRequest         = errors.New("invalid correspondence request")
	ErrCorrespondenceNotFound = errors.New("correspondence not found")
	ErrMinuteNotFound         = errors.New("minute not found")
	ErrReferenceExists        = errors.New("reference number already registered")
	ErrForbidden              = errors.New("permission profile does not allow this action")
	ErrInvalidTransition      = errors.New("action not allowed in current status")
	ErrNotCurrentApprover     = errors.New("actor is not the current approver")
	ErrBusy                   = errors.New("correspondence is busy, retry")
)
