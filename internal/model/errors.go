package model

import "errors"

var (
	// ErrNotFound is returned when a task or history record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrNotValid is returned when a resource is not valid.
	ErrNotValid = errors.New("not valid")
	// ErrValidation is returned for user input rejected before any network call.
	ErrValidation = errors.New("invalid input")
	// ErrSubmission is returned when the job could not be created.
	ErrSubmission = errors.New("submission failed")
	// ErrStream is returned when the status stream dropped and the fallback
	// snapshot could not confirm a terminal state. The task may still be running.
	ErrStream = errors.New("status stream lost")
	// ErrTask is returned when the server reports the task as failed.
	ErrTask = errors.New("task failed")
)
