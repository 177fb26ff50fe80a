package errors

import "errors"

var (
	ErrInvalidUserID  = errors.New("invalid user id")
	ErrOfficeNotFound = errors.New("office not found")
)
