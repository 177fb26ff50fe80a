package errors

import "errors"

var (
	ErrInvalidRequest       = errors.New("invalid notification request")
	ErrNotificationNotFound = errors.New("notification not found")
)
