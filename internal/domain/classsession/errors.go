package classsession

import "errors"

// Class session domain errors
var (
	ErrWorkSessionRequired = errors.New("an open work session is required to check into a class")
	ErrNotAssigned         = errors.New("trainer is not assigned to this class")
	ErrClassSessionActive  = errors.New("another class session is still active")
	ErrAlreadyClosed       = errors.New("class session is already checked out")
	ErrClassNotFound       = errors.New("class not found")
	ErrRecordNotFound      = errors.New("class attendance record not found")
)
