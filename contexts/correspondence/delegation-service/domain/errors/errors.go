package errors

import "errors"

var (
	ErrInvalidRequest       = errors.New("invalid delegation request")
	ErrInvalidAssistantType = errors.New("invalid assistant type")
	ErrInvalidPermission    = errors.New("invalid assignment permission")
	ErrAssignmentExists     = errors.New("assistant already assigned to executive")
	ErrAssignmentNotFound   = errors.New("assistant assignment not found")
	ErrNotAssigned          = errors.New("assistant is not assigned to executive")
	ErrDelegationNotFound   = errors.New("delegation not found")
	ErrBusy                 = errors.New("correspondence is busy, retry")
)
