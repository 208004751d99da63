package services

import "errors"

// Domain conditions surfaced to callers with a specific reason. None of these
// leave partial state behind; everything else that bubbles out of a service is
// a storage failure wrapped with context.
var (
	ErrTaskNotFound       = errors.New("no task for this day")
	ErrTaskNotPublished   = errors.New("task is not published")
	ErrDayClosed          = errors.New("day is not open")
	ErrAlreadySubmitted   = errors.New("a response for this day was already submitted")
	ErrEmptyResponse      = errors.New("response text must not be empty")
	ErrMissingFile        = errors.New("a file attachment is required for this task")
	ErrBadFileType        = errors.New("file type is not allowed")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrAlreadyProcessed   = errors.New("submission already processed")
	ErrInsufficientPoints = errors.New("cannot remove more points than the current total")
)
